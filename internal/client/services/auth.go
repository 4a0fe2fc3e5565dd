package services

import (
	"context"
	"net/http"

	"github.com/citycarcenters/fleetconsole/internal/client/api"
	"github.com/citycarcenters/fleetconsole/internal/client/session"
	"github.com/citycarcenters/fleetconsole/internal/logging"
)

// AuthService establishes and tears down the operator session. Login wires a
// TokenSource into the provider so an expired token is re-derived with the
// same credentials without the operator noticing.
type AuthService struct {
	api    api.Dispatcher
	tokens *session.Provider
	log    logging.Logger
}

func NewAuthService(d api.Dispatcher, tokens *session.Provider, log logging.Logger) *AuthService {
	return &AuthService{api: d, tokens: tokens, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Login authenticates and installs the session. The credentials are kept in
// memory for the lifetime of the session so the token can be re-derived.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	creds := loginRequest{Email: email, Password: password}

	var resp loginResponse
	if err := s.api.DoPublic(ctx, http.MethodPost, "/login", creds, &resp); err != nil {
		return err
	}

	s.tokens.SignIn(resp.Token, func(ctx context.Context) (string, error) {
		var r loginResponse
		if err := s.api.DoPublic(ctx, http.MethodPost, "/login", creds, &r); err != nil {
			return "", err
		}
		return r.Token, nil
	})
	s.log.Info(ctx, "signed in", "email", email)
	return nil
}

// Signup registers a new admin account. The account stays pending until an
// existing admin approves it.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) error {
	return s.api.DoPublic(ctx, http.MethodPost, "/signup", signupRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, nil)
}

// VerifyEmail confirms the address with the emailed one-time code.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	return s.api.DoPublic(ctx, http.MethodPost, "/verify-email", verifyEmailRequest{
		Email: email,
		Code:  code,
	}, nil)
}

// Logout ends the server-side session and always clears the local one, even
// when the server call fails; a dead session must not keep a stale token.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.api.Do(ctx, http.MethodPost, "/logout", nil, nil)
	s.tokens.SignOut()
	s.log.Info(ctx, "signed out")
	return err
}
