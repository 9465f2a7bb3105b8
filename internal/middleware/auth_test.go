package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/land-registry-api/internal/models"
	"github.com/noah-isme/land-registry-api/internal/service"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

type tokenValidatorStub struct {
	token  string
	claims *models.JWTClaims
}

func (s tokenValidatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != s.token {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

func newProtectedRouter(t *testing.T, claims *models.JWTClaims, capabilities ...models.Capability) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authz, err := service.NewAuthorizer(models.RoleCapabilities, nil)
	if err != nil {
		t.Fatalf("authorizer: %v", err)
	}
	router := gin.New()
	router.Use(JWT(tokenValidatorStub{token: "good", claims: claims}))
	router.GET("/", RequireCapability(authz, capabilities...), func(c *gin.Context) {
		value, _ := c.Get(ContextUserKey)
		c.String(http.StatusOK, value.(*models.JWTClaims).UserID)
	})
	return router
}

func TestJWTRejectsMissingOrMalformedHeader(t *testing.T) {
	router := newProtectedRouter(t, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}, models.CapPropertyReview)

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic good",
		"empty token":  "Bearer ",
		"bad token":    "Bearer nope",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, recorder.Code)
		}
	}
}

func TestJWTStoresClaims(t *testing.T) {
	router := newProtectedRouter(t, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}, models.CapPropertyReview)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if recorder.Body.String() != "u-1" {
		t.Fatalf("unexpected body %q", recorder.Body.String())
	}
}

func TestRequireCapability(t *testing.T) {
	citizen := &models.JWTClaims{UserID: "c-1", Role: models.RoleCitizen}

	router := newProtectedRouter(t, citizen, models.CapPropertyReview)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("citizen reviewing: expected 403, got %d", recorder.Code)
	}

	router = newProtectedRouter(t, citizen, models.CapPropertyReview, models.CapPropertySubmit)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("any-of capabilities: expected 200, got %d", recorder.Code)
	}
}
