package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signup",
		Summary:     "Request a confirmation code",
		Description: "Registers a new user or re-issues a confirmation code for an existing username/email pair. The code is sent by email.",
		Tags:        []string{"Auth"},
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "issueToken",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/token",
		Summary:     "Exchange a confirmation code for a token",
		Description: "Verifies the emailed confirmation code and returns a bearer access token. The first successful exchange activates the account.",
		Tags:        []string{"Auth"},
	}, s.handleIssueToken)
}

type SignupInput struct {
	Body          service.SignupRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

type SignupOutput struct {
	Body service.SignupResponse
}

type IssueTokenInput struct {
	Body          service.TokenRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

type IssueTokenOutput struct {
	Body service.TokenResponse
}

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*SignupOutput, error) {
	if err := s.checkAuthRate(input.XForwardedFor, input.XRealIP); err != nil {
		return nil, err
	}

	resp, err := s.services.Auth.Signup(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &SignupOutput{Body: *resp}, nil
}

func (s *Server) handleIssueToken(ctx context.Context, input *IssueTokenInput) (*IssueTokenOutput, error) {
	if err := s.checkAuthRate(input.XForwardedFor, input.XRealIP); err != nil {
		return nil, err
	}

	resp, err := s.services.Auth.IssueToken(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &IssueTokenOutput{Body: *resp}, nil
}

// checkAuthRate throttles the code-mailing endpoints per client IP so a
// single caller cannot flood someone's inbox or brute-force codes.
func (s *Server) checkAuthRate(xForwardedFor, xRealIP string) error {
	key := extractIP(xForwardedFor, xRealIP)
	if !s.authRateLimiter.Allow(key) {
		s.logger.Warn("Auth rate limit exceeded", "ip", key)
		return huma.Error429TooManyRequests("Too many requests. Please try again later.")
	}
	return nil
}

// extractIP picks the client IP from proxy headers, preferring the first
// entry of X-Forwarded-For.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		if idx := strings.Index(xForwardedFor, ","); idx != -1 {
			return strings.TrimSpace(xForwardedFor[:idx])
		}
		return strings.TrimSpace(xForwardedFor)
	}
	if xRealIP != "" {
		return xRealIP
	}
	return "unknown"
}
