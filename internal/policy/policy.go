// Package policy implements declarative access rules for API resources.
//
// A Policy answers one question: may this actor perform this action on a
// resource owned by that author? Handlers evaluate the policy attached to
// their resource before touching the store. Policies compose with AnyOf,
// which grants access if any member policy does.
package policy

import (
	"github.com/reviewdbapp/reviewdb-server/internal/domain"
)

// Action classifies what a request is trying to do.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// IsRead reports whether the action only reads state.
func (a Action) IsRead() bool {
	return a == ActionList || a == ActionRetrieve
}

// Request carries everything a policy needs to decide.
// Actor is nil for anonymous requests. AuthorID is the owner of the target
// object, or empty for collection-level actions with no single owner.
type Request struct {
	Actor    *domain.User
	Action   Action
	AuthorID string
}

// Policy decides whether a request is allowed.
type Policy interface {
	Allows(req Request) bool
}

// Func adapts a plain function to the Policy interface.
type Func func(req Request) bool

// Allows implements Policy.
func (f Func) Allows(req Request) bool {
	return f(req)
}

// AnonymousRead permits read actions for everyone, including anonymous
// requests, and denies all writes.
var AnonymousRead = Func(func(req Request) bool {
	return req.Action.IsRead()
})

// AdminOnly permits any action, but only for admins.
var AdminOnly = Func(func(req Request) bool {
	return req.Actor != nil && req.Actor.IsAdmin()
})

// AdminOrReadOnly permits reads for everyone and writes for admins only.
var AdminOrReadOnly = Func(func(req Request) bool {
	if req.Action.IsRead() {
		return true
	}
	return req.Actor != nil && req.Actor.IsAdmin()
})

// AdminModeratorAuthorOrReadOnly governs user-generated content.
// Reads are open to everyone. Creates require any authenticated user.
// Updates and deletes require the author, a moderator, or an admin.
var AdminModeratorAuthorOrReadOnly = Func(func(req Request) bool {
	if req.Action.IsRead() {
		return true
	}
	if req.Actor == nil {
		return false
	}
	if req.Action == ActionCreate {
		return true
	}
	return req.Actor.IsAdmin() || req.Actor.IsModerator() || req.Actor.ID == req.AuthorID
})

// AnyOf combines policies with OR semantics: the combined policy allows a
// request as soon as any member allows it. Evaluation short-circuits.
func AnyOf(policies ...Policy) Policy {
	return Func(func(req Request) bool {
		for _, p := range policies {
			if p.Allows(req) {
				return true
			}
		}
		return false
	})
}
