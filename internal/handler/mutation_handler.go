package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/land-registry-api/internal/dto"
	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
	"github.com/noah-isme/land-registry-api/pkg/response"
)

type mutationService interface {
	Submit(ctx context.Context, actor *models.JWTClaims, req dto.SubmitMutationRequest) (*models.Mutation, error)
	StartReview(ctx context.Context, id int64, actor *models.JWTClaims, comments string) (*models.Mutation, error)
	VerifyDocuments(ctx context.Context, id int64, actor *models.JWTClaims, comments string) (*models.Mutation, error)
	Approve(ctx context.Context, id int64, actor *models.JWTClaims, comments string) (*models.Mutation, error)
	Reject(ctx context.Context, id int64, actor *models.JWTClaims, reason string) (*models.Mutation, error)
	RequestInfo(ctx context.Context, id int64, actor *models.JWTClaims, information string) (*models.Mutation, error)
	RespondToInfoRequest(ctx context.Context, id int64, actor *models.JWTClaims, response string) (*models.Mutation, error)
	RecordPayment(ctx context.Context, id int64, actor *models.JWTClaims, status string) (*models.Mutation, error)
	Get(ctx context.Context, id int64, actor *models.JWTClaims) (*models.MutationView, error)
	List(ctx context.Context, filter models.MutationFilter, actor *models.JWTClaims) ([]models.MutationView, *models.Pagination, error)
}

// MutationHandler exposes REST endpoints for mutation workflows.
type MutationHandler struct {
	service mutationService
}

// NewMutationHandler constructs the handler.
func NewMutationHandler(service mutationService) *MutationHandler {
	return &MutationHandler{service: service}
}

// Create godoc
// @Summary Submit a mutation request
// @Tags Mutations
// @Accept json
// @Produce json
// @Param payload body dto.SubmitMutationRequest true "Mutation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /mutations [post]
func (h *MutationHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mutation payload"))
		return
	}
	mutation, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mutation)
}

// List godoc
// @Summary List mutation requests
// @Tags Mutations
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param type query string false "Mutation type"
// @Param property_id query int false "Property ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /mutations [get]
func (h *MutationHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, size := pageParams(c)
	filter := models.MutationFilter{
		Type:     models.MutationType(strings.ToLower(strings.TrimSpace(c.Query("type")))),
		Page:     page,
		PageSize: size,
	}
	if raw := c.Query("property_id"); raw != "" {
		propertyID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid property_id"))
			return
		}
		filter.PropertyID = propertyID
	}
	for _, status := range csvQuery(c, "status") {
		filter.Status = append(filter.Status, models.MutationStatus(status))
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get mutation detail
// @Tags Mutations
// @Produce json
// @Param id path int true "Mutation ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mutations/{id} [get]
func (h *MutationHandler) Get(c *gin.Context) {
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
	view, err := h.service.Get(c.Request.Context(), id, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// StartReview godoc
// @Summary Take a mutation under review
// @Tags Mutations
// @Accept json
// @Produce json
// @Param id path int true "Mutation ID"
// @Param payload body dto.MutationCommentsRequest false "Comments"
// @Success 200 {object} response.Envelope
// @Router /mutations/{id}/review [post]
func (h *MutationHandler) StartReview(c *gin.Context) {
	var req dto.MutationCommentsRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Mutation, error) {
		return h.service.StartReview(ctx, id, actor, req.Comments)
	})
}

// VerifyDocuments godoc
// @Summary Mark mutation documents verified
// @Tags Mutations
// @Accept json
// @Produce json
// @Param id path int true "Mutation ID"
// @Param payload body dto.MutationCommentsRequest false "Comments"
// @Success 200 {object} response.Envelope
// @Router /mutations/{id}/verify [post]
func (h *MutationHandler) VerifyDocuments(c *gin.Context) {
	var req dto.MutationCommentsRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Mutation, error) {
		return h.service.VerifyDocuments(ctx, id, actor, req.Comments)
	})
}

// Approve godoc
// @Summary Approve a mutation and apply it to the ownership ledger
// @Tags Mutations
// @Accept json
// @Produce json
// @Param id path int true "Mutation ID"
// @Param payload body dto.MutationCommentsRequest false "Comments"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /mutations/{id}/approve [post]
func (h *MutationHandler) Approve(c *gin.Context) {
	var req dto.MutationCommentsRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Mutation, error) {
		return h.service.Approve(ctx, id, actor, req.Comments)
	})
}

// Reject godoc
// @Summary Reject a mutation
// @Tags Mutations
// @Accept json
// @Produce json
// @Param id path int true "Mutation ID"
// @Param payload body dto.RejectMutationRequest true "Rejection reason"
// @Success 200 {object} response.Envelope
// @Router /mutations/{id}/reject [post]
func (h *MutationHandler) Reject(c *gin.Context) {
	var req dto.RejectMutationRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Mutation, error) {
		return h.service.Reject(ctx, id, actor, req.Reason)
	})
}

// RequestInfo godoc
// @Summary Ask the requester for more information
// @Tags Mutations
// @Accept json
// @Produce json
// @Param id path int true "Mutation ID"
// @Param payload body dto.RequestMutationInfoRequest true "Information required"
// @Success 200 {object} response.Envelope
// @Router /mutations/{id}/request-info [post]
func (h *MutationHandler) RequestInfo(c *gin.Context) {
	var req dto.RequestMutationInfoRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Mutation, error) {
		return h.service.RequestInfo(ctx, id, actor, req.Information)
	})
}

// Respond godoc
// @Summary Answer an information request
// @Tags Mutations
// @Accept json
// @Produce json
// @Param id path int true "Mutation ID"
// @Param payload body dto.RespondMutationRequest true "Response"
// @Success 200 {object} response.Envelope
// @Router /mutations/{id}/respond [post]
func (h *MutationHandler) Respond(c *gin.Context) {
	var req dto.RespondMutationRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Mutation, error) {
		return h.service.RespondToInfoRequest(ctx, id, actor, req.Response)
	})
}

// RecordPayment godoc
// @Summary Record the mutation fee as paid or waived
// @Tags Mutations
// @Accept json
// @Produce json
// @Param id path int true "Mutation ID"
// @Param payload body dto.RecordPaymentRequest true "Payment outcome"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /mutations/{id}/payment [post]
func (h *MutationHandler) RecordPayment(c *gin.Context) {
	var req dto.RecordPaymentRequest
	h.runTransition(c, &req, func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Mutation, error) {
		return h.service.RecordPayment(ctx, id, actor, req.PaymentStatus)
	})
}

func (h *MutationHandler) runTransition(c *gin.Context, body interface{}, call func(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Mutation, error)) {
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
	if err := bindOptionalJSON(c, body); err != nil {
		response.Error(c, err)
		return
	}
	mutation, err := call(c.Request.Context(), id, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mutation, nil)
}
