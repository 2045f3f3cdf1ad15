package handler

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/CYule/vibe-gallery/internal/api/auth"
	"github.com/CYule/vibe-gallery/internal/api/models"
	"github.com/CYule/vibe-gallery/internal/cache"
	"github.com/CYule/vibe-gallery/internal/config"
	"github.com/CYule/vibe-gallery/internal/database"
	"github.com/CYule/vibe-gallery/internal/opengraph"
)

type Handler struct {
	db           *database.Client
	config       *config.Config
	pages        *cache.PageCache
	scraper      *opengraph.Scraper
	providerName string
}

func New(db *database.Client, cfg *config.Config, pages *cache.PageCache, scraper *opengraph.Scraper, providerName string) *Handler {
	return &Handler{
		db:           db,
		config:       cfg,
		pages:        pages,
		scraper:      scraper,
		providerName: providerName,
	}
}

func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	user := auth.CurrentUser(c)

	items, ok := h.pages.GetHome(ctx)
	if !ok {
		var err error
		items, err = h.db.ListProjects(ctx)
		if err != nil {
			// Log error and fall back to empty data
			log.Error("failed to list projects", "error", err)
			items = []database.ProjectListItem{}
		} else {
			h.pages.SetHome(ctx, items)
		}
	}

	liked := h.likedByViewer(c, user, items)
	cards := models.ToProjectCards(items, liked)
	featured, rest := models.SplitFeatured(cards)

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title":    "Discover Vibe-Coded Projects",
		"User":     user,
		"Featured": featured,
		"Projects": rest,
	})
}

func (h *Handler) Login(c *gin.Context) {
	session := sessions.Default(c)
	sub := session.Get("user_sub")
	if sub != nil && sub != "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":        "Sign in",
		"Next":         c.Query("next"),
		"ProviderName": h.providerName,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// likedByViewer resolves which of the listed projects the viewer has liked.
// Anonymous viewers have liked nothing.
func (h *Handler) likedByViewer(c *gin.Context, user *models.User, items []database.ProjectListItem) map[uint]bool {
	if user == nil {
		return nil
	}
	ids := lo.Map(items, func(item database.ProjectListItem, _ int) uint { return item.ID })
	liked, err := h.db.LikedProjectIDs(c.Request.Context(), user.Sub, ids)
	if err != nil {
		log.Error("failed to resolve liked projects", "error", err)
		return nil
	}
	return liked
}

func parseUintParam(param string) (uint, error) {
	var id uint64
	var err error
	if id, err = strconv.ParseUint(param, 10, 0); err != nil {
		return 0, err
	}
	return uint(id), nil
}
