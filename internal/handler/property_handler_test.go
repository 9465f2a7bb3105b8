package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/dto"
	"github.com/noah-isme/land-registry-api/internal/middleware"
	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
	"github.com/noah-isme/land-registry-api/pkg/response"
)

type propertyServiceStub struct {
	lastID      int64
	lastText    string
	lastTarget  models.PropertyStatus
	lastFilter  models.PropertyFilter
	lastULPIN   string
	transitionE error
}

func (s *propertyServiceStub) Submit(ctx context.Context, actor *models.JWTClaims, req dto.SubmitPropertyRequest) (*models.PropertyDetail, error) {
	return &models.PropertyDetail{PropertyView: models.PropertyView{Property: models.Property{ID: 42, SurveyNumber: req.SurveyNumber, SubmittedBy: actor.UserID}}}, nil
}

func (s *propertyServiceStub) record(id int64, text string) (*models.Property, error) {
	s.lastID, s.lastText = id, text
	if s.transitionE != nil {
		return nil, s.transitionE
	}
	return &models.Property{ID: id, Version: 2}, nil
}

func (s *propertyServiceStub) StartReview(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error) {
	return s.record(id, "")
}

func (s *propertyServiceStub) VerifyDocuments(ctx context.Context, id int64, actor *models.JWTClaims, remarks string) (*models.Property, error) {
	return s.record(id, remarks)
}

func (s *propertyServiceStub) Approve(ctx context.Context, id int64, actor *models.JWTClaims, remarks string) (*models.Property, error) {
	return s.record(id, remarks)
}

func (s *propertyServiceStub) Reject(ctx context.Context, id int64, actor *models.JWTClaims, reason string) (*models.Property, error) {
	return s.record(id, reason)
}

func (s *propertyServiceStub) RequestInfo(ctx context.Context, id int64, actor *models.JWTClaims, remarks string) (*models.Property, error) {
	return s.record(id, remarks)
}

func (s *propertyServiceStub) ChangeStanding(ctx context.Context, id int64, actor *models.JWTClaims, target models.PropertyStatus, remarks string) (*models.Property, error) {
	s.lastTarget = target
	return s.record(id, remarks)
}

func (s *propertyServiceStub) Get(ctx context.Context, id int64, actor *models.JWTClaims) (*models.PropertyDetail, error) {
	return &models.PropertyDetail{PropertyView: models.PropertyView{Property: models.Property{ID: id}, IsPending: true, DaysPending: 3}}, nil
}

func (s *propertyServiceStub) History(ctx context.Context, id int64, actor *models.JWTClaims) ([]models.Ownership, error) {
	return []models.Ownership{{ID: 1, PropertyID: id}}, nil
}

func (s *propertyServiceStub) GetByULPIN(ctx context.Context, ulpin string, actor *models.JWTClaims) (*models.PropertyView, error) {
	s.lastULPIN = ulpin
	return nil, appErrors.Clone(appErrors.ErrNotFound, "property not found")
}

func (s *propertyServiceStub) List(ctx context.Context, filter models.PropertyFilter, actor *models.JWTClaims) ([]models.PropertyView, *models.Pagination, error) {
	s.lastFilter = filter
	return []models.PropertyView{}, models.NewPagination(filter.Page, filter.PageSize, 0), nil
}

func newTestContext(method, target string, body []byte, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

var registrar = &models.JWTClaims{UserID: "reg-1", Role: models.RoleRegistrar}

func TestPropertyHandlerSubmit(t *testing.T) {
	stub := &propertyServiceStub{}
	h := NewPropertyHandler(stub)

	body, _ := json.Marshal(dto.SubmitPropertyRequest{SurveyNumber: "45/2"})
	c, w := newTestContext(http.MethodPost, "/properties", body, &models.JWTClaims{UserID: "citizen-1", Role: models.RoleCitizen})
	h.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"survey_number":"45/2"`)

	c, w = newTestContext(http.MethodPost, "/properties", []byte(`{bad`), &models.JWTClaims{UserID: "citizen-1", Role: models.RoleCitizen})
	h.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodPost, "/properties", body, nil)
	h.Submit(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPropertyHandlerTransitions(t *testing.T) {
	stub := &propertyServiceStub{}
	h := NewPropertyHandler(stub)

	c, w := newTestContext(http.MethodPost, "/properties/7/approve", nil, registrar)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.Approve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), stub.lastID)
	assert.Empty(t, stub.lastText)

	c, w = newTestContext(http.MethodPost, "/properties/7/reject", []byte(`{"reason":"boundary mismatch"}`), registrar)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.Reject(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "boundary mismatch", stub.lastText)

	c, w = newTestContext(http.MethodPost, "/properties/7/standing", []byte(`{"status":"FROZEN","remarks":"court order"}`), registrar)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.ChangeStanding(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PropertyStatusFrozen, stub.lastTarget)

	c, w = newTestContext(http.MethodPost, "/properties/abc/review", nil, registrar)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.StartReview(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPropertyHandlerMapsConflict(t *testing.T) {
	stub := &propertyServiceStub{transitionE: appErrors.ErrConcurrentModification}
	h := NewPropertyHandler(stub)

	c, w := newTestContext(http.MethodPost, "/properties/7/review", nil, registrar)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.StartReview(c)
	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrConcurrentModification.Code, env.Error.Code)
}

func TestPropertyHandlerListAndLookup(t *testing.T) {
	stub := &propertyServiceStub{}
	h := NewPropertyHandler(stub)

	c, w := newTestContext(http.MethodGet, "/properties?status=Pending,under_review&district=Pune&page=2&page_size=500", nil, registrar)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.PropertyStatus{models.PropertyStatusPending, models.PropertyStatusUnderReview}, stub.lastFilter.Status)
	assert.Equal(t, "Pune", stub.lastFilter.District)
	assert.Equal(t, 2, stub.lastFilter.Page)
	assert.Equal(t, 100, stub.lastFilter.PageSize)

	c, w = newTestContext(http.MethodGet, "/properties/ulpin/MAPUNHIN2025000042", nil, registrar)
	c.Params = gin.Params{{Key: "ulpin", Value: "MAPUNHIN2025000042"}}
	h.GetByULPIN(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MAPUNHIN2025000042", stub.lastULPIN)
}

func TestPropertyHandlerGetIncludesPendingFields(t *testing.T) {
	h := NewPropertyHandler(&propertyServiceStub{})

	c, w := newTestContext(http.MethodGet, "/properties/9", nil, registrar)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_pending":true`)
	assert.Contains(t, w.Body.String(), `"days_pending":3`)
	assert.Contains(t, w.Body.String(), `"ownerships":null`)
}
