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

type propertyService interface {
	Submit(ctx context.Context, actor *models.JWTClaims, req dto.SubmitPropertyRequest) (*models.PropertyDetail, error)
	StartReview(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error)
	VerifyDocuments(ctx context.Context, id int64, actor *models.JWTClaims, remarks string) (*models.Property, error)
	Approve(ctx context.Context, id int64, actor *models.JWTClaims, remarks string) (*models.Property, error)
	Reject(ctx context.Context, id int64, actor *models.JWTClaims, reason string) (*models.Property, error)
	RequestInfo(ctx context.Context, id int64, actor *models.JWTClaims, remarks string) (*models.Property, error)
	ChangeStanding(ctx context.Context, id int64, actor *models.JWTClaims, target models.PropertyStatus, remarks string) (*models.Property, error)
	Get(ctx context.Context, id int64, actor *models.JWTClaims) (*models.PropertyDetail, error)
	History(ctx context.Context, id int64, actor *models.JWTClaims) ([]models.Ownership, error)
	GetByULPIN(ctx context.Context, ulpin string, actor *models.JWTClaims) (*models.PropertyView, error)
	List(ctx context.Context, filter models.PropertyFilter, actor *models.JWTClaims) ([]models.PropertyView, *models.Pagination, error)
}

// PropertyHandler exposes the property registration workflow.
type PropertyHandler struct {
	service propertyService
}

// NewPropertyHandler constructs the handler.
func NewPropertyHandler(service propertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// Submit godoc
// @Summary Submit a property for registration
// @Tags Properties
// @Accept json
// @Produce json
// @Param payload body dto.SubmitPropertyRequest true "Property payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /properties [post]
func (h *PropertyHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid property payload"))
		return
	}
	detail, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// List godoc
// @Summary List properties
// @Description Citizens only see their own submissions
// @Tags Properties
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param district query string false "District"
// @Param state query string false "State"
// @Param property_type query string false "Property type"
// @Param search query string false "Survey number, village or ULPIN"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, size := pageParams(c)
	filter := models.PropertyFilter{
		District:     strings.TrimSpace(c.Query("district")),
		State:        strings.TrimSpace(c.Query("state")),
		PropertyType: models.PropertyType(strings.ToLower(strings.TrimSpace(c.Query("property_type")))),
		Search:       strings.TrimSpace(c.Query("search")),
		Page:         page,
		PageSize:     size,
	}
	for _, status := range csvQuery(c, "status") {
		filter.Status = append(filter.Status, models.PropertyStatus(status))
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get property detail with current owners
// @Tags Properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c *gin.Context) {
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
	detail, err := h.service.Get(c.Request.Context(), id, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// History godoc
// @Summary Ownership history of a property
// @Tags Properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} response.Envelope
// @Router /properties/{id}/ownerships [get]
func (h *PropertyHandler) History(c *gin.Context) {
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
	rows, err := h.service.History(c.Request.Context(), id, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// GetByULPIN godoc
// @Summary Look up a registered property by ULPIN
// @Tags Properties
// @Produce json
// @Param ulpin path string true "Unique land parcel identification number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /properties/ulpin/{ulpin} [get]
func (h *PropertyHandler) GetByULPIN(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	property, err := h.service.GetByULPIN(c.Request.Context(), c.Param("ulpin"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, property, nil)
}

// StartReview godoc
// @Summary Move a pending property under review
// @Tags Properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /properties/{id}/review [post]
func (h *PropertyHandler) StartReview(c *gin.Context) {
	h.runTransition(c, nil, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error) {
		return h.service.StartReview(ctx, id, actor)
	})
}

// VerifyDocuments godoc
// @Summary Mark property documents verified
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path int true "Property ID"
// @Param payload body dto.PropertyRemarksRequest false "Remarks"
// @Success 200 {object} response.Envelope
// @Router /properties/{id}/verify [post]
func (h *PropertyHandler) VerifyDocuments(c *gin.Context) {
	var req dto.PropertyRemarksRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error) {
		return h.service.VerifyDocuments(ctx, id, actor, req.Remarks)
	})
}

// Approve godoc
// @Summary Approve a property and assign its ULPIN
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path int true "Property ID"
// @Param payload body dto.PropertyRemarksRequest false "Remarks"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /properties/{id}/approve [post]
func (h *PropertyHandler) Approve(c *gin.Context) {
	var req dto.PropertyRemarksRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error) {
		return h.service.Approve(ctx, id, actor, req.Remarks)
	})
}

// Reject godoc
// @Summary Reject a property registration
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path int true "Property ID"
// @Param payload body dto.RejectPropertyRequest true "Rejection reason"
// @Success 200 {object} response.Envelope
// @Router /properties/{id}/reject [post]
func (h *PropertyHandler) Reject(c *gin.Context) {
	var req dto.RejectPropertyRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error) {
		return h.service.Reject(ctx, id, actor, req.Reason)
	})
}

// RequestInfo godoc
// @Summary Ask the submitter for more information
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path int true "Property ID"
// @Param payload body dto.PropertyRemarksRequest true "What is missing"
// @Success 200 {object} response.Envelope
// @Router /properties/{id}/request-info [post]
func (h *PropertyHandler) RequestInfo(c *gin.Context) {
	var req dto.PropertyRemarksRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error) {
		return h.service.RequestInfo(ctx, id, actor, req.Remarks)
	})
}

// ChangeStanding godoc
// @Summary Move a registered property between approved, active, disputed and frozen
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path int true "Property ID"
// @Param payload body dto.ChangeStandingRequest true "Target standing"
// @Success 200 {object} response.Envelope
// @Router /properties/{id}/standing [post]
func (h *PropertyHandler) ChangeStanding(c *gin.Context) {
	var req dto.ChangeStandingRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error) {
		return h.service.ChangeStanding(ctx, id, actor, models.PropertyStatus(strings.ToLower(string(req.Status))), req.Remarks)
	})
}

func (h *PropertyHandler) runTransition(c *gin.Context, body interface{}, call func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error)) {
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
	if body != nil {
		if err := bindOptionalJSON(c, body); err != nil {
			response.Error(c, err)
			return
		}
	}
	property, err := call(c.Request.Context(), id, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, property, nil)
}
