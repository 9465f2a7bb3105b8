package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/land-registry-api/internal/models"
	"github.com/noah-isme/land-registry-api/pkg/response"
)

type verificationService interface {
	VerifyCertificate(ctx context.Context, number string) (*models.CertificateVerification, error)
	VerifyProperty(ctx context.Context, ulpin string) (*models.PropertyVerification, error)
}

// VerificationHandler serves public certificate and property lookups. No login is required.
type VerificationHandler struct {
	service verificationService
}

// NewVerificationHandler constructs the handler.
func NewVerificationHandler(service verificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// Certificate godoc
// @Summary Verify a mutation certificate
// @Tags Verification
// @Produce json
// @Param certificate_number path string true "Mutation certificate number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /verify/certificates/{certificate_number} [get]
func (h *VerificationHandler) Certificate(c *gin.Context) {
	record, err := h.service.VerifyCertificate(c.Request.Context(), c.Param("certificate_number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Property godoc
// @Summary Verify a registered property by ULPIN
// @Tags Verification
// @Produce json
// @Param ulpin path string true "ULPIN"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /verify/properties/{ulpin} [get]
func (h *VerificationHandler) Property(c *gin.Context) {
	record, err := h.service.VerifyProperty(c.Request.Context(), c.Param("ulpin"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
