package handler

import (
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// OGPreview fetches the Open Graph metadata of an arbitrary URL so the
// submit form can prefill title, description and thumbnail.
func (h *Handler) OGPreview(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing url param"})
		return
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid URL"})
		return
	}

	data, err := h.scraper.Scrape(c.Request.Context(), rawURL)
	if err != nil {
		log.Warn("og preview failed", "url", rawURL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch URL"})
		return
	}

	c.JSON(http.StatusOK, data)
}
