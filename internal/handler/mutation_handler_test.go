package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/dto"
	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

type mutationServiceStub struct {
	calls      []string
	lastText   string
	lastFilter models.MutationFilter
	approveErr error
}

func (s *mutationServiceStub) Submit(ctx context.Context, actor *models.JWTClaims, req dto.SubmitMutationRequest) (*models.Mutation, error) {
	s.calls = append(s.calls, "submit")
	return &models.Mutation{ID: 1, PropertyID: req.PropertyID, MutationType: req.MutationType, RequesterID: actor.UserID}, nil
}

func (s *mutationServiceStub) step(name string, id int64, text string) (*models.Mutation, error) {
	s.calls = append(s.calls, name)
	s.lastText = text
	return &models.Mutation{ID: id}, nil
}

func (s *mutationServiceStub) StartReview(ctx context.Context, id int64, actor *models.JWTClaims, comments string) (*models.Mutation, error) {
	return s.step("review", id, comments)
}

func (s *mutationServiceStub) VerifyDocuments(ctx context.Context, id int64, actor *models.JWTClaims, comments string) (*models.Mutation, error) {
	return s.step("verify", id, comments)
}

func (s *mutationServiceStub) Approve(ctx context.Context, id int64, actor *models.JWTClaims, comments string) (*models.Mutation, error) {
	if s.approveErr != nil {
		return nil, s.approveErr
	}
	return s.step("approve", id, comments)
}

func (s *mutationServiceStub) Reject(ctx context.Context, id int64, actor *models.JWTClaims, reason string) (*models.Mutation, error) {
	return s.step("reject", id, reason)
}

func (s *mutationServiceStub) RequestInfo(ctx context.Context, id int64, actor *models.JWTClaims, information string) (*models.Mutation, error) {
	return s.step("request-info", id, information)
}

func (s *mutationServiceStub) RespondToInfoRequest(ctx context.Context, id int64, actor *models.JWTClaims, response string) (*models.Mutation, error) {
	return s.step("respond", id, response)
}

func (s *mutationServiceStub) RecordPayment(ctx context.Context, id int64, actor *models.JWTClaims, status string) (*models.Mutation, error) {
	return s.step("payment", id, status)
}

func (s *mutationServiceStub) Get(ctx context.Context, id int64, actor *models.JWTClaims) (*models.MutationView, error) {
	return &models.MutationView{Mutation: models.Mutation{ID: id}, DaysPending: 3}, nil
}

func (s *mutationServiceStub) List(ctx context.Context, filter models.MutationFilter, actor *models.JWTClaims) ([]models.MutationView, *models.Pagination, error) {
	s.lastFilter = filter
	return nil, models.NewPagination(filter.Page, filter.PageSize, 0), nil
}

var officer = &models.JWTClaims{UserID: "officer-1", Role: models.RoleOfficer}

func TestMutationHandlerCreate(t *testing.T) {
	stub := &mutationServiceStub{}
	h := NewMutationHandler(stub)

	c, w := newTestContext(http.MethodPost, "/mutations", []byte(`{"property_id":7,"mutation_type":"sale","from_ownership_id":10,"to_owner_id":2,"reason":"sold"}`), &models.JWTClaims{UserID: "citizen-1", Role: models.RoleCitizen})
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"requester_id":"citizen-1"`)
}

func TestMutationHandlerWorkflowSteps(t *testing.T) {
	stub := &mutationServiceStub{}
	h := NewMutationHandler(stub)

	steps := []struct {
		run  func(*gin.Context)
		body string
	}{
		{h.StartReview, ``},
		{h.VerifyDocuments, `{"comments":"deed checked"}`},
		{h.RequestInfo, `{"information":"upload sale deed"}`},
		{h.Respond, `{"response":"uploaded"}`},
		{h.RecordPayment, `{"payment_status":"paid"}`},
		{h.Approve, `{}`},
	}
	for _, step := range steps {
		c, w := newTestContext(http.MethodPost, "/mutations/5", []byte(step.body), officer)
		c.Params = gin.Params{{Key: "id", Value: "5"}}
		step.run(c)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	assert.Equal(t, []string{"review", "verify", "request-info", "respond", "payment", "approve"}, stub.calls)
}

func TestMutationHandlerApproveErrors(t *testing.T) {
	stub := &mutationServiceStub{approveErr: appErrors.ErrOwnershipNotFound}
	h := NewMutationHandler(stub)

	c, w := newTestContext(http.MethodPost, "/mutations/5/approve", nil, officer)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.Approve(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	stub.approveErr = appErrors.ErrPreconditionFailed
	c, w = newTestContext(http.MethodPost, "/mutations/5/approve", nil, officer)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.Approve(c)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestMutationHandlerListFilters(t *testing.T) {
	stub := &mutationServiceStub{}
	h := NewMutationHandler(stub)

	c, w := newTestContext(http.MethodGet, "/mutations?status=pending,INFORMATION_REQUIRED&type=Sale&property_id=7", nil, officer)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.MutationStatus{models.MutationStatusPending, models.MutationStatusInformationRequired}, stub.lastFilter.Status)
	assert.Equal(t, models.MutationTypeSale, stub.lastFilter.Type)
	assert.Equal(t, int64(7), stub.lastFilter.PropertyID)

	c, w = newTestContext(http.MethodGet, "/mutations?property_id=seven", nil, officer)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
