package handlers

import (
	"context"
	"errors"
	"net/http"

	"microwave"
	"microwave/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errDeviceBusy   = "device is busy, try again"
	errGetState     = "failed to load state"
	errMutateFailed = "failed to update microwave"
	errInvalidToken = "invalid token"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// writeMutationResult maps coordinator outcomes onto HTTP: lock timeouts are
// retryable (503), a missing cancel capability is 401, everything else is a
// plain 500.
func (h *Handler) writeMutationResult(c *gin.Context, snap microwave.Snapshot, err error, logKey string) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, snap)
	case errors.Is(err, service.ErrLockTimeout):
		h.logAndJSONError(c, http.StatusServiceUnavailable, errDeviceBusy, logKey, err)
	case errors.Is(err, service.ErrAuthorizationDenied):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errMutateFailed, logKey, err)
	}
}

type mutation func(ctx context.Context) (microwave.Snapshot, error)

func (h *Handler) runMutation(c *gin.Context, op mutation, logKey string) {
	snap, err := op(c.Request.Context())
	h.writeMutationResult(c, snap, err, logKey)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get microwave state
// @Tags         microwave
// @Produce      json
// @Success      200  {object}  microwave.Snapshot
// @Failure      500  {object}  map[string]string
// @Router       /microwave [get]
func (h *Handler) getState(c *gin.Context) {
	snap, err := h.services.Monitoring.Snapshot(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "microwave_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Increase microwave power by 10
// @Tags         microwave
// @Produce      json
// @Success      200  {object}  microwave.Snapshot
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string  "device lock busy"
// @Router       /microwave/power/increase [post]
func (h *Handler) increasePower(c *gin.Context) {
	h.runMutation(c, h.services.Microwave.IncreasePower, "power_increase_failed")
}

// @Summary      Decrease microwave power by 10
// @Tags         microwave
// @Produce      json
// @Success      200  {object}  microwave.Snapshot
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string  "device lock busy"
// @Router       /microwave/power/decrease [post]
func (h *Handler) decreasePower(c *gin.Context) {
	h.runMutation(c, h.services.Microwave.DecreasePower, "power_decrease_failed")
}

// @Summary      Increase microwave counter by 10 seconds
// @Tags         microwave
// @Produce      json
// @Success      200  {object}  microwave.Snapshot
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string  "device lock busy"
// @Router       /microwave/counter/increase [post]
func (h *Handler) increaseCounter(c *gin.Context) {
	h.runMutation(c, h.services.Microwave.IncreaseCounter, "counter_increase_failed")
}

// @Summary      Decrease microwave counter by 10 seconds
// @Tags         microwave
// @Produce      json
// @Success      200  {object}  microwave.Snapshot
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string  "device lock busy"
// @Router       /microwave/counter/decrease [post]
func (h *Handler) decreaseCounter(c *gin.Context) {
	h.runMutation(c, h.services.Microwave.DecreaseCounter, "counter_decrease_failed")
}

// @Summary      Cancel microwave operations (set all to 0)
// @Tags         microwave
// @Produce      json
// @Success      200  {object}  microwave.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string  "device lock busy"
// @Router       /microwave/cancel [post]
// @Security     BearerAuth
func (h *Handler) cancel(c *gin.Context) {
	token, ok := bearerToken(c)
	authorized := ok && h.services.Authorization.ValidateToken(token)
	h.runMutation(c, func(ctx context.Context) (microwave.Snapshot, error) {
		return h.services.Microwave.Cancel(ctx, authorized)
	}, "cancel_failed")
}
