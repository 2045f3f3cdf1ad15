package auth

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/CYule/vibe-gallery/internal/config"
)

// OIDCProvider handles the OAuth code flow against the configured identity
// provider and resolves the session principal.
type OIDCProvider struct {
	provider    *oidc.Provider
	verifier    *oidc.IDTokenVerifier
	config      *oauth2.Config
	cfg         *config.OIDCConfig
	gravatarCfg *config.GravatarConfig
	adminEmail  string
}

func NewOIDCProvider(ctx context.Context, cfg *config.Config) (*OIDCProvider, error) {
	p := OIDCProvider{
		cfg:         cfg.Auth.OIDC,
		gravatarCfg: cfg.Gravatar,
		adminEmail:  cfg.AdminEmail,
	}
	var err error
	p.provider, err = oidc.NewProvider(ctx, p.cfg.Issuer)
	if err != nil {
		return nil, err
	}

	p.config = &oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		RedirectURL:  p.cfg.RedirectURL,
		Endpoint:     p.provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	p.verifier = p.provider.Verifier(&oidc.Config{ClientID: p.cfg.ClientID})
	return &p, nil
}

// Name returns the display name of the identity provider for the login page.
func (p *OIDCProvider) Name() string {
	if p.cfg.Name != "" {
		return p.cfg.Name
	}
	return "OIDC"
}
