package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"officesim-backend/internal/layout"
)

const maxLayoutBytes = 4 << 20

// GetLayout exports the floor plan as layout JSON, or zstd-compressed JSON
// with ?format=zst.
func (h *Handler) GetLayout(c *gin.Context) {
	l, err := h.sim.Layout(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	if c.Query("format") == "zst" {
		raw, err := layout.Compress(l)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/zstd", raw)
		return
	}

	var buf bytes.Buffer
	if err := layout.Encode(&buf, l); err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

// PutLayout imports a floor plan and re-initializes the office with it.
func (h *Handler) PutLayout(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLayoutBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l, err := layout.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.sim.SetLayout(c.Request.Context(), l); err != nil {
		abortWithError(c, err)
		return
	}

	snap := h.sim.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"desks":   len(snap.Desks),
		"spaces":  len(snap.Spaces),
		"workers": len(snap.Workers),
	})
}
