package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSnapshot returns the whole office as of the last tick.
func (h *Handler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.Snapshot())
}

// GetDesks returns every desk.
func (h *Handler) GetDesks(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.Snapshot().Desks)
}

// GetSpaces returns every meeting space.
func (h *Handler) GetSpaces(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.Snapshot().Spaces)
}

// GetWorkers returns every worker.
func (h *Handler) GetWorkers(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.Snapshot().Workers)
}

// GetWorker returns one worker by ID.
func (h *Handler) GetWorker(c *gin.Context) {
	w, ok := h.sim.Snapshot().Worker(c.Param("worker_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "worker not found"})
		return
	}
	c.JSON(http.StatusOK, w)
}

// GetEvents returns today's events.
func (h *Handler) GetEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.Snapshot().Events)
}

// GetStats returns resource and worker counts by state.
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.Snapshot().Stats())
}

type postOfficeRequest struct {
	WorkerCount *int `json:"worker_count" binding:"required"`
}

// PostOffice re-initializes the office with a new workforce.
func (h *Handler) PostOffice(c *gin.Context) {
	var req postOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.sim.Initialize(c.Request.Context(), *req.WorkerCount); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.sim.Snapshot().Stats())
}

// PostResetDay starts the next day.
func (h *Handler) PostResetDay(c *gin.Context) {
	if err := h.sim.ResetDay(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sim.Snapshot().Stats())
}

type putModeRequest struct {
	Managed *bool `json:"managed" binding:"required"`
}

// PutMode switches between managed and chaotic desk allocation.
func (h *Handler) PutMode(c *gin.Context) {
	var req putModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.sim.SetManaged(c.Request.Context(), *req.Managed); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"managed": h.sim.Snapshot().Managed})
}

type putTimeRequest struct {
	Time *float64 `json:"time" binding:"required"`
}

// PutTime moves the simulated clock.
func (h *Handler) PutTime(c *gin.Context) {
	var req putTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.sim.SetTime(c.Request.Context(), *req.Time); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time": h.sim.Snapshot().Time})
}

type postTickRequest struct {
	Count int `json:"count"`
}

// PostTick runs worker updates without moving the clock. An empty body
// runs one update.
func (h *Handler) PostTick(c *gin.Context) {
	req := postTickRequest{Count: 1}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := h.sim.Tick(c.Request.Context(), req.Count); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sim.Snapshot().Stats())
}

// PostForceEvent sends a worker to their next event immediately.
func (h *Handler) PostForceEvent(c *gin.Context) {
	id := c.Param("worker_id")
	if err := h.sim.ForceEvent(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	w, _ := h.sim.Snapshot().Worker(id)
	c.JSON(http.StatusOK, w)
}
