package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/config"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/api/handler"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/api/middleware"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/jwt"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/metrics"
)

const (
	jsonBodyLimit  = 1 << 20
	multipartSlack = 1 << 20
)

// Deps are the optional backends the router wires into middleware. Either
// may be nil when Redis is unavailable.
type Deps struct {
	Tokens  middleware.TokenChecker
	Limiter middleware.RateLimiter
}

// Setup builds the gin engine.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, deps Deps, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())

	jsonLimit := middleware.BodyLimit(jsonBodyLimit)
	uploadLimit := middleware.BodyLimit(cfg.Storage.MaxUploadBytes + multipartSlack)

	// ── health & metrics ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	authMW := middleware.JWTAuth(jwtMgr, deps.Tokens, logger)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	api := r.Group("/api")
	{
		// auth
		auth := api.Group("/auth")
		{
			public := auth.Group("", jsonLimit)
			if cfg.RateLimit.Enabled && deps.Limiter != nil {
				public.Use(middleware.RateLimit(deps.Limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, logger))
			}
			public.POST("/register", h.Auth.Register)
			public.POST("/login", h.Auth.Login)

			auth.GET("/verify", h.Auth.Verify)
			auth.POST("/logout", authMW, h.Auth.Logout)
			auth.GET("/me", authMW, h.Auth.Me)
		}

		// courses
		courses := api.Group("/courses")
		{
			courses.GET("", h.Course.List)
			courses.GET("/:id", h.Course.Get)
			courses.POST("", jsonLimit, authMW, adminOnly, h.Course.Create)
			courses.POST("/import", uploadLimit, authMW, adminOnly, h.Course.Import)
			courses.PUT("/:id", jsonLimit, authMW, adminOnly, h.Course.Update)
			courses.DELETE("/:id", authMW, adminOnly, h.Course.Delete)
		}

		// enrollments
		enrollments := api.Group("/enrollments", authMW)
		{
			enrollments.GET("", h.Enrollment.List)
			enrollments.POST("", jsonLimit, h.Enrollment.Enroll)
			enrollments.DELETE("/:courseId", h.Enrollment.Unenroll)
		}

		// files
		files := api.Group("/files")
		{
			// static segments ahead of the :courseId param
			files.GET("/pending/all", authMW, adminOnly, h.File.ListPending)
			files.GET("/download/:id", authMW, h.File.Download)
			files.GET("/:courseId", h.File.ListApproved)

			files.POST("", uploadLimit, authMW, h.File.Upload)
			files.PUT("/:id/approve", authMW, adminOnly, h.File.Approve)
			files.PUT("/:id/rename", jsonLimit, authMW, adminOnly, h.File.Rename)
			files.DELETE("/:id/reject", authMW, adminOnly, h.File.Reject)
			files.DELETE("/:id", authMW, h.File.Delete)
		}
	}

	return r
}
