package thresholds

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the thresholds service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches read routes to rg and write routes behind admin.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.GET("/config/thresholds", h.getThresholds)
	if admin == nil {
		admin = func(c *gin.Context) { c.Next() }
	}
	rg.POST("/config/thresholds", admin, h.updateThresholds)
	rg.PATCH("/config/thresholds", admin, h.updateThresholds)
}

func (h *Handler) getThresholds(c *gin.Context) {
	respond.OK(c, h.Svc.Get())
}

func (h *Handler) updateThresholds(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid threshold payload", nil)
		return
	}

	cfg, err := h.Svc.Update(c.Request.Context(), patch)
	if err != nil {
		switch {
		case errors.Is(err, ErrOutOfRange), errors.Is(err, ErrEmptyPatch):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to save thresholds", nil)
		}
		return
	}
	respond.OK(c, gin.H{"message": "thresholds updated", "thresholds": cfg})
}
