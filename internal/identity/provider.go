package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"career-console/internal/config"
	"career-console/pkg/utils"

	"golang.org/x/oauth2"
)

// Provider drives the authorization-code flow against the external identity
// provider. Token issuance itself stays with the provider.
type Provider struct {
	oauth     *oauth2.Config
	audience  string
	logoutURL string
	secret    []byte
}

func NewProvider(cfg *config.Config) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       cfg.OAuth.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuth.AuthURL,
				TokenURL: cfg.OAuth.TokenURL,
			},
		},
		audience:  cfg.OAuth.Audience,
		logoutURL: cfg.OAuth.LogoutURL,
		secret:    []byte(cfg.JWTSecret),
	}
}

// LoginURL is where the browser is redirected to sign in.
func (p *Provider) LoginURL(state string) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}
	if p.audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam("audience", p.audience))
	}
	return p.oauth.AuthCodeURL(state, opts...)
}

// LogoutURL ends the provider session and returns the browser to returnTo.
func (p *Provider) LogoutURL(returnTo string) string {
	if p.logoutURL == "" {
		return returnTo
	}
	u, err := url.Parse(p.logoutURL)
	if err != nil {
		return returnTo
	}
	q := u.Query()
	q.Set("client_id", p.oauth.ClientID)
	if returnTo != "" {
		q.Set("returnTo", returnTo)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Complete exchanges an authorization code for a refreshing session.
func (p *Provider) Complete(ctx context.Context, code string) (*OAuthSession, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return p.session(ctx, tok)
}

// Resume restores a session from a stored refresh token.
func (p *Provider) Resume(ctx context.Context, refreshToken string) (*OAuthSession, error) {
	if refreshToken == "" {
		return nil, ErrNotAuthenticated
	}
	tok, err := p.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return p.session(ctx, tok)
}

func (p *Provider) session(ctx context.Context, tok *oauth2.Token) (*OAuthSession, error) {
	user, err := p.userFromToken(tok)
	if err != nil {
		return nil, err
	}
	return &OAuthSession{
		source: p.oauth.TokenSource(ctx, tok),
		user:   user,
	}, nil
}

func (p *Provider) userFromToken(tok *oauth2.Token) (User, error) {
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		raw = tok.AccessToken
	}
	claims, err := utils.ParseClaims(raw, p.secret)
	if err != nil {
		return User{}, fmt.Errorf("read identity claims: %w", err)
	}
	return User{Subject: claims.Subject, Name: claims.Name, Email: claims.Email}, nil
}

// OAuthSession is a signed-in session whose access token refreshes silently.
type OAuthSession struct {
	mu        sync.RWMutex
	source    oauth2.TokenSource
	user      User
	loggedOut bool
}

func (s *OAuthSession) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loggedOut
}

func (s *OAuthSession) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loggedOut {
		return User{}, false
	}
	return s.user, true
}

func (s *OAuthSession) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	source, loggedOut := s.source, s.loggedOut
	s.mu.RUnlock()
	if loggedOut {
		return "", ErrNotAuthenticated
	}
	tok, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("get access token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("identity provider returned an empty access token")
	}
	return tok.AccessToken, nil
}

// RefreshToken exposes the current refresh token so the CLI can persist it.
func (s *OAuthSession) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, err := s.source.Token()
	if err != nil {
		return ""
	}
	return tok.RefreshToken
}

func (s *OAuthSession) Logout() {
	s.mu.Lock()
	s.loggedOut = true
	s.mu.Unlock()
}
