package handler

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/CYule/vibe-gallery/internal/api/auth"
	"github.com/CYule/vibe-gallery/internal/api/models"
	"github.com/CYule/vibe-gallery/internal/cache"
)

func (h *Handler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	username := c.Param("username")
	viewer := auth.CurrentUser(c)

	entry, ok := h.pages.GetProfile(ctx, username)
	if !ok {
		user, err := h.db.GetUserByUsername(ctx, username)
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		projects, err := h.db.ListProjectsByAuthor(ctx, user.ID)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
			return
		}
		entry = cache.ProfileEntry{User: *user, Projects: projects}
		h.pages.SetProfile(ctx, username, entry)
	}

	liked := h.likedByViewer(c, viewer, entry.Projects)
	cards := models.ToProjectCards(entry.Projects, liked)

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"Title":   "@" + entry.User.Username,
		"User":    viewer,
		"Profile": models.ToProfile(entry.User, cards, viewer),
	})
}

// ClaimProfile hands a ghost profile's identity and content to the signed-in
// principal. The merge itself is one database transaction; see
// database.ClaimProfile. A stale claim (ghost already gone or claimed) is a
// silent no-op that lands back on the profile page.
func (h *Handler) ClaimProfile(c *gin.Context) {
	ctx := c.Request.Context()
	user := auth.CurrentUser(c)
	ghostID := c.Param("id")
	username := c.PostForm("username")

	merged, err := h.db.ClaimProfile(ctx, ghostID, user.Sub)
	if err != nil {
		c.String(http.StatusInternalServerError, "Something went wrong, please try again.")
		return
	}
	if merged == nil {
		c.Redirect(http.StatusFound, "/profiles/"+username)
		return
	}

	// The merge changed ownership on the home page, the ghost's old page
	// and the merged account's page.
	h.pages.InvalidateHome(ctx)
	h.pages.InvalidateProfiles(ctx, username, merged.Username)

	log.Info("profile claim handled", "ghost_id", ghostID, "redirect", "/profiles/"+merged.Username)
	c.Redirect(http.StatusFound, "/profiles/"+merged.Username)
}
