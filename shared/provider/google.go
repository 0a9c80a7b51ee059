package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrInvalidGoogleAudience = errors.New("invalid google audience")
	ErrGoogleEmailMismatch   = errors.New("google token email does not match")
	ErrGoogleEmailUnverified = errors.New("google email is not verified")
)

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject string
	Email   string
}

// GoogleOAuthProvider validates Google ID tokens against the tokeninfo endpoint.
type GoogleOAuthProvider struct {
	clientID   string
	httpClient *http.Client
	endpoint   string
}

// NewGoogleOAuthProvider creates a provider accepting tokens issued for clientID.
func NewGoogleOAuthProvider(clientID string) *GoogleOAuthProvider {
	return &GoogleOAuthProvider{
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint points the provider at a different API base path.
func (p *GoogleOAuthProvider) WithEndpoint(endpoint string) *GoogleOAuthProvider {
	p.endpoint = endpoint
	return p
}

// ValidateIDToken checks the token with Google and returns its token info.
func (p *GoogleOAuthProvider) ValidateIDToken(ctx context.Context, idToken string) (*oauth2.Tokeninfo, error) {
	opts := []option.ClientOption{option.WithHTTPClient(p.httpClient)}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}

	oauth2Service, err := oauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	tokenInfo, err := oauth2Service.Tokeninfo().IdToken(idToken).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	if tokenInfo.Audience != p.clientID {
		return nil, ErrInvalidGoogleAudience
	}

	return tokenInfo, nil
}

// VerifyIdentity validates idToken and checks it was issued for email.
func (p *GoogleOAuthProvider) VerifyIdentity(ctx context.Context, idToken, email string) (*GoogleIdentity, error) {
	tokenInfo, err := p.ValidateIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	if !tokenInfo.VerifiedEmail {
		return nil, ErrGoogleEmailUnverified
	}

	if !strings.EqualFold(strings.TrimSpace(tokenInfo.Email), strings.TrimSpace(email)) {
		return nil, ErrGoogleEmailMismatch
	}

	return &GoogleIdentity{
		Subject: tokenInfo.UserId,
		Email:   strings.ToLower(tokenInfo.Email),
	}, nil
}
