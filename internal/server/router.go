package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-customers/internal/auth"
	"github.com/Keoroanthony/go-customers/internal/handlers"
	"github.com/Keoroanthony/go-customers/internal/middleware"
)

// RouterDependencies wires the HTTP surface.
type RouterDependencies struct {
	Customers  *handlers.CustomerHandler
	Admin      *handlers.AdminCustomerHandler
	Gate       *auth.Gate
	Realm      string
	Prometheus *middleware.Prometheus // optional
}

// NewRouter mounts the front routes under /customer and the back-office
// routes under /admin/customer.
func NewRouter(log *slog.Logger, deps RouterDependencies) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = false

	r.Use(middleware.RequestID(), middleware.Logger(log), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.ErrorContext(c.Request.Context(), "panic recovered", "panic", recovered, "request_id", middleware.GetRequestID(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": handlers.InternalErrorMessage})
	}))
	if deps.Prometheus != nil {
		r.Use(deps.Prometheus.Handler())
		deps.Prometheus.RegisterMetricsEndpoint(r)
	}

	r.NoRoute(handlers.NotFound)
	r.NoMethod(handlers.NotFound)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	front := r.Group("/customer")
	{
		front.POST("/register", deps.Customers.Register)

		authed := front.Group("", auth.RequireAuth(deps.Gate, deps.Realm, log))
		authed.GET("/profile", deps.Customers.GetProfile)
		authed.PUT("/profile", deps.Customers.UpdateProfile)
		authed.PATCH("/password", deps.Customers.ChangePassword)
	}

	admin := r.Group("/admin/customer")
	{
		admin.GET("/", deps.Admin.List)
		admin.POST("/", deps.Admin.Create)
		admin.GET("/:id", deps.Admin.Get)
		admin.PUT("/:id", deps.Admin.Update)
		admin.DELETE("/:id", deps.Admin.Delete)
	}

	return r
}
