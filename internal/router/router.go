// Package router assembles the gin engine from handlers and middleware.
package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/noah-isme/land-registry-api/internal/handler"
	"github.com/noah-isme/land-registry-api/internal/middleware"
	"github.com/noah-isme/land-registry-api/internal/models"
	"github.com/noah-isme/land-registry-api/internal/service"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
	"github.com/noah-isme/land-registry-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/land-registry-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/land-registry-api/pkg/middleware/requestid"
	"github.com/noah-isme/land-registry-api/pkg/response"
)

// Options carries everything the engine needs.
type Options struct {
	APIPrefix      string
	ServiceName    string
	AllowedOrigins []string
	EnableDocs     bool
	EnableTracing  bool

	Logger     *zap.Logger
	Metrics    *service.MetricsService
	Tokens     middleware.TokenValidator
	Authorizer middleware.CapabilityChecker

	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Owners        *handler.OwnerHandler
	Properties    *handler.PropertyHandler
	Mutations     *handler.MutationHandler
	Notifications *handler.NotificationHandler
	Audit         *handler.AuditHandler
	Verification  *handler.VerificationHandler
	Health        *handler.MetricsHandler
}

// New builds the engine with public health checks at the root and the API under the prefix.
func New(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	if opts.EnableTracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.AuditMeta())

	r.GET("/health", opts.Health.Health)
	r.GET("/ready", opts.Health.Ready)
	r.GET("/metrics", opts.Health.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(opts.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/register", opts.Auth.Register)
	auth.POST("/login", opts.Auth.Login)
	auth.POST("/refresh", opts.Auth.Refresh)

	verify := api.Group("/verify")
	verify.GET("/certificates/:certificate_number", opts.Verification.Certificate)
	verify.GET("/properties/:ulpin", opts.Verification.Property)

	secured := api.Group("")
	secured.Use(middleware.JWT(opts.Tokens))
	secured.GET("/auth/me", opts.Auth.Me)
	secured.POST("/auth/logout", opts.Auth.Logout)
	secured.POST("/auth/change-password", opts.Auth.ChangePassword)

	// Self reads are decided by the service, so GET /users/:id carries no capability gate.
	users := secured.Group("/users")
	users.GET("/:id", opts.Users.Get)
	manage := users.Group("")
	manage.Use(middleware.RequireCapability(opts.Authorizer, models.CapUserManage))
	manage.GET("", opts.Users.List)
	manage.POST("", opts.Users.Create)
	manage.PUT("/:id", opts.Users.Update)
	manage.DELETE("/:id", opts.Users.Delete)

	owners := secured.Group("/owners")
	owners.POST("", middleware.RequireCapability(opts.Authorizer, models.CapOwnerCreate), opts.Owners.Create)
	owners.GET("", opts.Owners.List)
	owners.GET("/:id", opts.Owners.Get)

	reviewProperty := middleware.RequireCapability(opts.Authorizer, models.CapPropertyReview)
	properties := secured.Group("/properties")
	properties.POST("", middleware.RequireCapability(opts.Authorizer, models.CapPropertySubmit), opts.Properties.Submit)
	properties.GET("", opts.Properties.List)
	properties.GET("/ulpin/:ulpin", opts.Properties.GetByULPIN)
	properties.GET("/:id", opts.Properties.Get)
	properties.GET("/:id/ownerships", opts.Properties.History)
	properties.POST("/:id/review", reviewProperty, opts.Properties.StartReview)
	properties.POST("/:id/verify", reviewProperty, opts.Properties.VerifyDocuments)
	properties.POST("/:id/approve", reviewProperty, opts.Properties.Approve)
	properties.POST("/:id/reject", reviewProperty, opts.Properties.Reject)
	properties.POST("/:id/request-info", reviewProperty, opts.Properties.RequestInfo)
	properties.POST("/:id/standing", middleware.RequireCapability(opts.Authorizer, models.CapPropertyStanding), opts.Properties.ChangeStanding)

	reviewMutation := middleware.RequireCapability(opts.Authorizer, models.CapMutationReview)
	mutations := secured.Group("/mutations")
	mutations.POST("", middleware.RequireCapability(opts.Authorizer, models.CapMutationSubmit), opts.Mutations.Create)
	mutations.GET("", opts.Mutations.List)
	mutations.GET("/:id", opts.Mutations.Get)
	mutations.POST("/:id/review", reviewMutation, opts.Mutations.StartReview)
	mutations.POST("/:id/verify", reviewMutation, opts.Mutations.VerifyDocuments)
	mutations.POST("/:id/approve", reviewMutation, opts.Mutations.Approve)
	mutations.POST("/:id/reject", reviewMutation, opts.Mutations.Reject)
	mutations.POST("/:id/request-info", reviewMutation, opts.Mutations.RequestInfo)
	mutations.POST("/:id/respond", middleware.RequireCapability(opts.Authorizer, models.CapMutationRespond), opts.Mutations.Respond)
	mutations.POST("/:id/payment", reviewMutation, opts.Mutations.RecordPayment)

	notifications := secured.Group("/notifications")
	notifications.Use(middleware.RequireCapability(opts.Authorizer, models.CapNotificationRead))
	notifications.GET("", opts.Notifications.List)
	notifications.POST("/read-all", opts.Notifications.MarkAllRead)
	notifications.POST("/:id/read", opts.Notifications.MarkRead)

	secured.GET("/audit-logs", middleware.RequireCapability(opts.Authorizer, models.CapAuditView), opts.Audit.List)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	return r
}
