package api

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/CYule/vibe-gallery/internal/api/auth"
	"github.com/CYule/vibe-gallery/internal/api/handler"
	"github.com/CYule/vibe-gallery/internal/cache"
	"github.com/CYule/vibe-gallery/internal/config"
	"github.com/CYule/vibe-gallery/internal/database"
	"github.com/CYule/vibe-gallery/internal/opengraph"
	"github.com/CYule/vibe-gallery/internal/static"
	"github.com/CYule/vibe-gallery/web/templates"
)

type Server struct {
	cfg          *config.Config
	ginEngine    *gin.Engine
	db           *database.Client
	authProvider *auth.OIDCProvider
	pages        *cache.PageCache
}

func New(ctx context.Context, cfg *config.Config, db *database.Client) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	authProvider, err := auth.NewOIDCProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}

	return &Server{
		cfg:          cfg,
		ginEngine:    gin.Default(),
		db:           db,
		authProvider: authProvider,
		pages:        cache.NewPageCache(cfg.Cache),
	}, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions("vibegallery_session", store))
}

func (s *Server) setupRoutes() error {
	s.setupSession()
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))

	tmpl, err := templates.New()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.ginEngine.SetHTMLTemplate(tmpl)

	staticFiles, err := fs.Sub(static.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("failed to load static files: %w", err)
	}
	s.ginEngine.StaticFS("/static", http.FS(staticFiles))

	h := handler.New(s.db, s.cfg, s.pages, opengraph.New(s.cfg.Scraper), s.authProvider.Name())

	s.ginEngine.GET("/auth/oidc/login", s.authProvider.Login)
	s.ginEngine.GET("/auth/oidc/callback", s.authProvider.Callback)

	public := s.ginEngine.Group("/")
	public.Use(s.authProvider.OptionalAuth())

	public.GET("/", h.Home)
	public.GET("/login", h.Login)
	public.GET("/logout", h.Logout)
	public.GET("/projects/:id", h.ProjectDetail)
	public.GET("/profiles/:username", h.Profile)
	// JSON endpoint, returns 401 instead of redirecting when signed out
	public.POST("/api/projects/:id/like", h.ToggleLike)

	protected := s.ginEngine.Group("/")
	protected.Use(s.authProvider.RequireAuth())

	protected.GET("/submit", h.SubmitForm)
	protected.POST("/submit", h.SubmitProject)
	protected.GET("/projects/:id/edit", h.EditForm)
	protected.POST("/projects/:id/edit", h.UpdateProject)
	protected.POST("/projects/:id/delete", h.DeleteProject)
	protected.POST("/profiles/:id/claim", h.ClaimProfile)
	protected.GET("/api/og-preview", h.OGPreview)

	return nil
}

func (s *Server) Run() error {
	if err := s.setupRoutes(); err != nil {
		return err
	}
	return s.ginEngine.Run(s.cfg.Listen)
}
