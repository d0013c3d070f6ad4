package service

import (
	"context"
	"strings"
	"testing"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/errors"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// codeFromMail pulls the confirmation code out of the recorded message body.
func codeFromMail(t *testing.T, body string) string {
	t.Helper()
	idx := strings.LastIndex(body, ": ")
	require.NotEqual(t, -1, idx, "mail body should contain a code")
	return strings.TrimSpace(body[idx+2:])
}

func TestSignup_CreatesInactiveUserAndMailsCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)

	user, err := env.store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, user.IsActive, "new accounts start inactive")
	assert.NotEmpty(t, user.ConfirmationCodeHash)

	msg := env.mailbox.Last()
	assert.Equal(t, "alice@example.com", msg.To)
	assert.NotEmpty(t, codeFromMail(t, msg.Body))
}

func TestSignup_RepeatRotatesCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	firstCode := codeFromMail(t, env.mailbox.Last().Body)

	_, err = env.auth.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	secondCode := codeFromMail(t, env.mailbox.Last().Body)

	assert.NotEqual(t, firstCode, secondCode)

	// The old code no longer works.
	_, err = env.auth.IssueToken(ctx, TokenRequest{Username: "alice", ConfirmationCode: firstCode})
	assert.True(t, errors.Is(err, errors.ErrValidation), "rotated code should be rejected, got %v", err)

	// The fresh one does.
	_, err = env.auth.IssueToken(ctx, TokenRequest{Username: "alice", ConfirmationCode: secondCode})
	assert.NoError(t, err)
}

func TestSignup_Collisions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  SignupRequest
	}{
		{"username taken by other email", SignupRequest{Username: "alice", Email: "imposter@example.com"}},
		{"email taken by other username", SignupRequest{Username: "imposter", Email: "alice@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Signup(ctx, tt.req)
			assert.True(t, errors.Is(err, errors.ErrValidation), "expected validation error, got %v", err)
		})
	}
}

func TestSignup_RejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  SignupRequest
	}{
		{"reserved username", SignupRequest{Username: "me", Email: "me@example.com"}},
		{"bad username characters", SignupRequest{Username: "al ice!", Email: "alice@example.com"}},
		{"bad email", SignupRequest{Username: "alice", Email: "not-an-email"}},
		{"missing email", SignupRequest{Username: "alice"}},
		{"missing username", SignupRequest{Email: "alice@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Signup(ctx, tt.req)
			assert.True(t, errors.Is(err, errors.ErrValidation), "expected validation error, got %v", err)
		})
	}
}

// blindStore hides existing users from the signup pre-checks so the insert
// hits the UNIQUE constraint, like a concurrent signup winning the race.
type blindStore struct {
	store.Store
}

func (blindStore) GetUserByUsername(context.Context, string) (*domain.User, error) {
	return nil, store.ErrNotFound
}

func (blindStore) GetUserByEmail(context.Context, string) (*domain.User, error) {
	return nil, store.ErrNotFound
}

func TestSignup_LostCreateRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	racing := NewAuthService(blindStore{env.store}, env.auth.tokenService, env.auth.mailer, env.auth.logger)

	_, err = racing.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	assert.True(t, errors.Is(err, errors.ErrValidation), "lost create race should fail validation, got %v", err)
}

func TestIssueToken_ActivatesAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	code := codeFromMail(t, env.mailbox.Last().Body)

	resp, err := env.auth.IssueToken(ctx, TokenRequest{Username: "alice", ConfirmationCode: code})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	user, err := env.store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, user.IsActive, "token exchange activates the account")

	// The token resolves back to the user.
	actor, err := env.auth.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
}

func TestIssueToken_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  TokenRequest
	}{
		{"wrong code", TokenRequest{Username: "alice", ConfirmationCode: "deadbeefdeadbeefdeadbeefdeadbeef"}},
		{"unknown username", TokenRequest{Username: "nobody", ConfirmationCode: "deadbeefdeadbeefdeadbeefdeadbeef"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.IssueToken(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation), "expected validation error, got %v", err)

			var domainErr *errors.Error
			require.True(t, errors.As(err, &domainErr))
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok, "details should be keyed by field")
			assert.Contains(t, details, "confirmation_code")
		})
	}
}

func TestAuthenticate_RejectsGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Authenticate(context.Background(), "v4.local.garbage")
	assert.True(t, errors.Is(err, errors.ErrUnauthorized), "expected unauthorized, got %v", err)
}
