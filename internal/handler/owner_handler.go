package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/land-registry-api/internal/dto"
	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
	"github.com/noah-isme/land-registry-api/pkg/response"
)

type ownerService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateOwnerRequest) (*models.Owner, error)
	Get(ctx context.Context, actor *models.JWTClaims, id int64) (*models.Owner, error)
	List(ctx context.Context, actor *models.JWTClaims, filter models.OwnerFilter) ([]models.Owner, *models.Pagination, error)
}

// OwnerHandler exposes the owner register.
type OwnerHandler struct {
	service ownerService
}

// NewOwnerHandler constructs the handler.
func NewOwnerHandler(service ownerService) *OwnerHandler {
	return &OwnerHandler{service: service}
}

// Create godoc
// @Summary Register an owner
// @Tags Owners
// @Accept json
// @Produce json
// @Param payload body dto.CreateOwnerRequest true "Owner payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /owners [post]
func (h *OwnerHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid owner payload"))
		return
	}
	owner, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, owner)
}

// List godoc
// @Summary Search owners
// @Tags Owners
// @Produce json
// @Param search query string false "Name search"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /owners [get]
func (h *OwnerHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, size := pageParams(c)
	owners, pagination, err := h.service.List(c.Request.Context(), claims, models.OwnerFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, owners, pagination)
}

// Get godoc
// @Summary Get owner
// @Tags Owners
// @Produce json
// @Param id path int true "Owner ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /owners/{id} [get]
func (h *OwnerHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	owner, err := h.service.Get(c.Request.Context(), claims, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, owner, nil)
}
