package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"career-console/internal/config"
	"career-console/internal/identity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidState = errors.New("login state mismatch")

// TokenResponse is handed to the front-end after sign-in or refresh.
type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	User         identity.User `json:"user"`
}

type AuthService interface {
	BeginLogin() (loginURL, state string)
	CompleteLogin(ctx context.Context, code, state, expectedState string) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	LogoutURL(returnTo string) string
}

type AuthServiceImpl struct {
	provider *identity.Provider
	// origins the browser may be sent back to after logout
	origins map[string]struct{}
	log     *zap.Logger
}

func NewAuthService(provider *identity.Provider, cfg *config.Config, log *zap.Logger) AuthService {
	origins := map[string]struct{}{}
	for _, o := range strings.Split(cfg.CORSOrigins, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins[strings.ToLower(o)] = struct{}{}
		}
	}
	return &AuthServiceImpl{provider: provider, origins: origins, log: log.Named("auth")}
}

func (s *AuthServiceImpl) BeginLogin() (string, string) {
	state := uuid.NewString()
	return s.provider.LoginURL(state), state
}

func (s *AuthServiceImpl) CompleteLogin(ctx context.Context, code, state, expectedState string) (*TokenResponse, error) {
	if state == "" || state != expectedState {
		return nil, ErrInvalidState
	}
	sess, err := s.provider.Complete(ctx, code)
	if err != nil {
		return nil, err
	}
	resp, err := tokenResponse(ctx, sess)
	if err != nil {
		return nil, err
	}
	s.log.Info("User signed in", zap.String("email", resp.User.Email))
	return resp, nil
}

func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	sess, err := s.provider.Resume(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return tokenResponse(ctx, sess)
}

// LogoutURL only honors returnTo when it is a local path or one of the
// front-end origins; anything else lands on "/".
func (s *AuthServiceImpl) LogoutURL(returnTo string) string {
	if !s.allowedReturn(returnTo) {
		if returnTo != "" {
			s.log.Warn("Rejected logout return target", zap.String("return_to", returnTo))
		}
		returnTo = "/"
	}
	return s.provider.LogoutURL(returnTo)
}

func (s *AuthServiceImpl) allowedReturn(returnTo string) bool {
	if returnTo == "" || strings.ContainsAny(returnTo, "\\\r\n") {
		return false
	}
	u, err := url.Parse(returnTo)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return strings.HasPrefix(returnTo, "/") && !strings.HasPrefix(returnTo, "//")
	}
	_, ok := s.origins[strings.ToLower(u.Scheme+"://"+u.Host)]
	return ok
}

func tokenResponse(ctx context.Context, sess *identity.OAuthSession) (*TokenResponse, error) {
	token, err := sess.Token(ctx)
	if err != nil {
		return nil, err
	}
	user, _ := sess.CurrentUser()
	return &TokenResponse{AccessToken: token, RefreshToken: sess.RefreshToken(), User: user}, nil
}
