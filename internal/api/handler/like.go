package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CYule/vibe-gallery/internal/api/auth"
)

// ToggleLike likes or unlikes a project for the signed-in user and returns
// the resulting state as JSON.
func (h *Handler) ToggleLike(c *gin.Context) {
	ctx := c.Request.Context()

	user := auth.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return
	}
	item, err := h.db.GetProjectByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	// Make sure an account row exists before attaching a like to it
	account, err := h.db.EnsureUser(ctx, user.Sub, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve account"})
		return
	}

	liked, count, err := h.db.ToggleLike(ctx, account.ID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle like"})
		return
	}

	h.pages.InvalidateHome(ctx)
	h.pages.InvalidateProfiles(ctx, item.AuthorUsername)

	c.JSON(http.StatusOK, gin.H{"liked": liked, "count": count})
}
