package handler

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/CYule/vibe-gallery/internal/api/auth"
	"github.com/CYule/vibe-gallery/internal/api/models"
	"github.com/CYule/vibe-gallery/internal/database"
)

func (h *Handler) ProjectDetail(c *gin.Context) {
	ctx := c.Request.Context()
	user := auth.CurrentUser(c)

	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	item, err := h.db.GetProjectByID(ctx, id)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	liked := h.likedByViewer(c, user, []database.ProjectListItem{*item})
	canEdit := user != nil && (user.IsAdmin || item.AuthorID == user.Sub)

	c.HTML(http.StatusOK, "project.html", gin.H{
		"Title":   item.Title,
		"User":    user,
		"Project": models.ToProjectCard(*item, liked[item.ID]),
		"CanEdit": canEdit,
	})
}

func (h *Handler) SubmitForm(c *gin.Context) {
	c.HTML(http.StatusOK, "submit.html", gin.H{
		"Title": "Submit a Project",
		"User":  auth.CurrentUser(c),
	})
}

func (h *Handler) SubmitProject(c *gin.Context) {
	ctx := c.Request.Context()
	user := auth.CurrentUser(c)

	link := strings.TrimSpace(c.PostForm("link"))
	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	thumbnail := strings.TrimSpace(c.PostForm("thumbnail"))
	status := database.MonetizationStatus(c.DefaultPostForm("monetizationStatus", string(database.MonetizationNotMonetized)))
	if !database.ValidMonetizationStatus(status) {
		status = database.MonetizationNotMonetized
	}

	if link == "" || title == "" {
		c.Redirect(http.StatusFound, "/submit")
		return
	}

	var authorID, authorUsername string
	featured := false

	if user.IsAdmin {
		// Admin submissions are attributed to the curator ghost account
		// and auto-featured, ready to be claimed by their real authors.
		curator, err := h.db.GetOrCreateGhost(ctx, h.config.CuratorUsername)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
			return
		}
		authorID = curator.ID
		authorUsername = curator.Username
		featured = true
	} else {
		account, err := h.db.EnsureUser(ctx, user.Sub, user.Username)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
			return
		}
		authorID = account.ID
		authorUsername = account.Username
	}

	project := &database.Project{
		Title:              title,
		Description:        description,
		Link:               link,
		Thumbnail:          thumbnail,
		MonetizationStatus: status,
		Featured:           featured,
		AuthorID:           authorID,
	}
	if err := h.db.CreateProject(ctx, project); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	h.pages.InvalidateHome(ctx)
	h.pages.InvalidateProfiles(ctx, authorUsername)

	log.Info("project submitted", "project_id", project.ID, "author", authorUsername, "featured", featured)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) EditForm(c *gin.Context) {
	item, ok := h.authorizeProject(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "edit.html", gin.H{
		"Title":   "Edit " + item.Title,
		"User":    auth.CurrentUser(c),
		"Project": models.ToProjectCard(*item, false),
	})
}

func (h *Handler) UpdateProject(c *gin.Context) {
	ctx := c.Request.Context()
	item, ok := h.authorizeProject(c)
	if !ok {
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	link := strings.TrimSpace(c.PostForm("link"))
	if title == "" || link == "" {
		c.Redirect(http.StatusFound, "/projects/"+c.Param("id")+"/edit")
		return
	}

	status := database.MonetizationStatus(c.PostForm("monetizationStatus"))
	if !database.ValidMonetizationStatus(status) {
		status = item.MonetizationStatus
	}

	updates := map[string]any{
		"title":               title,
		"description":         strings.TrimSpace(c.PostForm("description")),
		"link":                link,
		"thumbnail":           strings.TrimSpace(c.PostForm("thumbnail")),
		"monetization_status": status,
	}
	if err := h.db.UpdateProject(ctx, item.ID, updates); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	h.pages.InvalidateHome(ctx)
	h.pages.InvalidateProfiles(ctx, item.AuthorUsername)

	c.Redirect(http.StatusFound, "/projects/"+c.Param("id"))
}

func (h *Handler) DeleteProject(c *gin.Context) {
	ctx := c.Request.Context()
	item, ok := h.authorizeProject(c)
	if !ok {
		return
	}

	if err := h.db.DeleteProject(ctx, item.ID); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	h.pages.InvalidateHome(ctx)
	h.pages.InvalidateProfiles(ctx, item.AuthorUsername)

	log.Info("project deleted", "project_id", item.ID)
	c.Redirect(http.StatusFound, "/")
}

// authorizeProject loads the project from the :id param and checks the
// principal owns it or is an admin. On any failure the caller is redirected
// home, matching how the pages behave for stale links.
func (h *Handler) authorizeProject(c *gin.Context) (*database.ProjectListItem, bool) {
	user := auth.CurrentUser(c)

	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return nil, false
	}

	item, err := h.db.GetProjectByID(c.Request.Context(), id)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return nil, false
	}

	if item.AuthorID != user.Sub && !user.IsAdmin {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return nil, false
	}
	return item, true
}
