package auth

import (
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/CYule/vibe-gallery/internal/api/models"
	"github.com/CYule/vibe-gallery/internal/gravatar"
)

// principalFromSession builds the principal model from the session, or nil
// when nobody is signed in.
func (p *OIDCProvider) principalFromSession(c *gin.Context) *models.User {
	session := sessions.Default(c)
	sub, _ := session.Get(sessionKeySub).(string)
	if sub == "" {
		return nil
	}
	user := &models.User{
		Sub:      sub,
		Email:    getSessionString(session, sessionKeyEmail),
		Name:     getSessionString(session, sessionKeyName),
		Username: getSessionString(session, sessionKeyUsername),
		IsAdmin:  getSessionBool(session, sessionKeyIsAdmin),
	}

	// Fall back to a Gravatar when the account has no avatar of its own
	if p.gravatarCfg != nil && user.Email != "" {
		user.GravatarURL = gravatar.GenerateURL(user.Email, p.gravatarCfg)
	}
	return user
}

// RequireAuth redirects unauthenticated requests to the sign-in flow with a
// return path back to the page they were on.
func (p *OIDCProvider) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := p.principalFromSession(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth populates the principal when present but lets anonymous
// requests through. Pages that render differently for signed-in users use
// this.
func (p *OIDCProvider) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := p.principalFromSession(c); user != nil {
			c.Set("user", user)
		}
		c.Next()
	}
}

func (p *OIDCProvider) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.MustGet("user").(*models.User)
		if !ok || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the principal set by the middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if user, ok := c.Get("user"); ok {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}

func getSessionString(session sessions.Session, key string) string {
	if value, ok := session.Get(key).(string); ok {
		return value
	}
	return ""
}

func getSessionBool(session sessions.Session, key string) bool {
	if value, ok := session.Get(key).(bool); ok {
		return value
	}
	return false
}
