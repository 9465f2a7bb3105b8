package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
	"github.com/noah-isme/land-registry-api/pkg/response"
)

type auditService interface {
	List(ctx context.Context, actor *models.JWTClaims, filter models.AuditFilter) ([]models.AuditLog, *models.Pagination, error)
}

// AuditHandler serves the audit trail.
type AuditHandler struct {
	service auditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service auditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List godoc
// @Summary List audit entries
// @Tags Audit
// @Produce json
// @Param resource query string false "Resource (properties, mutations, owners, users, auth)"
// @Param resource_id query string false "Resource ID"
// @Param user_id query string false "Acting user"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, size := pageParams(c)
	logs, pagination, err := h.service.List(c.Request.Context(), claims, models.AuditFilter{
		Resource:   c.Query("resource"),
		ResourceID: c.Query("resource_id"),
		UserID:     c.Query("user_id"),
		Page:       page,
		PageSize:   size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, pagination)
}
