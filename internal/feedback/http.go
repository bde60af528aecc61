package feedback

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	rec     *Recorder
	archive ArchiveSource
}

// RegisterAnalytics mounts the analytics routes. archive may be nil when
// object storage is disabled; the archive route is then not mounted.
func RegisterAnalytics(rg *gin.RouterGroup, rec *Recorder, archive ArchiveSource) {
	h := &Handler{rec: rec, archive: archive}

	rg.GET("", h.analytics)
	rg.GET("/recent", h.recent)
	if archive != nil {
		rg.GET("/archive", h.archived)
	}
}

func (h *Handler) analytics(c *gin.Context) {
	stats, err := h.rec.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "analytics": stats})
}

func (h *Handler) archived(c *gin.Context) {
	stats, err := ArchivedAnalytics(c.Request.Context(), h.archive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "analytics": stats})
}

func (h *Handler) recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.rec.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "feedback": entries, "count": len(entries)})
}
