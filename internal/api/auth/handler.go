package auth

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Session keys for the resolved principal.
const (
	sessionKeySub      = "user_sub"
	sessionKeyEmail    = "user_email"
	sessionKeyName     = "user_name"
	sessionKeyUsername = "user_username"
	sessionKeyIsAdmin  = "user_is_admin"
	sessionKeyState    = "oauth_state"
	sessionKeyNext     = "oauth_next"
)

// Login starts the OAuth code flow. An optional "next" query parameter is
// kept in the session so the callback can return the user to the page that
// sent them here, e.g. the profile they were about to claim.
func (p *OIDCProvider) Login(c *gin.Context) {
	state := uuid.New().String()

	session := sessions.Default(c)
	session.Set(sessionKeyState, state)
	session.Set(sessionKeyNext, safeNext(c.Query("next")))
	if err := session.Save(); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	c.Redirect(http.StatusFound, p.config.AuthCodeURL(state))
}

// Callback finishes the OAuth code flow: exchanges the code, verifies the ID
// token and stores the principal in the session.
func (p *OIDCProvider) Callback(c *gin.Context) {
	ctx := c.Request.Context()
	session := sessions.Default(c)

	expectedState, _ := session.Get(sessionKeyState).(string)
	if expectedState == "" || c.Query("state") != expectedState {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	oauth2Token, err := p.config.Exchange(ctx, c.Query("code"))
	if err != nil {
		c.AbortWithError(http.StatusUnauthorized, err) //nolint:errcheck
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.AbortWithError(http.StatusUnauthorized, err) //nolint:errcheck
		return
	}

	var claims struct {
		Email             string `json:"email"`
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
		Sub               string `json:"sub"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	next, _ := session.Get(sessionKeyNext).(string)
	next = safeNext(next)
	session.Delete(sessionKeyState)
	session.Delete(sessionKeyNext)

	session.Set(sessionKeySub, claims.Sub)
	session.Set(sessionKeyEmail, claims.Email)
	session.Set(sessionKeyName, claims.Name)
	session.Set(sessionKeyUsername, deriveUsername(claims.PreferredUsername, claims.Email, claims.Sub))
	session.Set(sessionKeyIsAdmin, p.isAdmin(claims.Email))

	if err := session.Save(); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	c.Redirect(http.StatusFound, next)
}

func (p *OIDCProvider) isAdmin(email string) bool {
	return p.adminEmail != "" && strings.EqualFold(email, p.adminEmail)
}

// deriveUsername picks a username for a principal that never chose one: the
// provider's preferred username, the email local part, or a prefix of the
// subject, in that order.
func deriveUsername(preferred, email, sub string) string {
	if preferred != "" {
		return preferred
	}
	if local, _, found := strings.Cut(email, "@"); found && local != "" {
		return local
	}
	if len(sub) > 8 {
		return sub[:8]
	}
	return sub
}

// safeNext only allows local redirect targets, everything else falls back
// to the home page.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
