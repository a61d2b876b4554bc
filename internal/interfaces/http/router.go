// Package http wires handlers, middleware and routes into a gin engine.
package http

import (
	"regexp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ridgeline/backend/internal/infrastructure/auth"
	"github.com/ridgeline/backend/internal/infrastructure/config"
	"github.com/ridgeline/backend/internal/infrastructure/logger"
	"github.com/ridgeline/backend/internal/interfaces/http/handler"
	"github.com/ridgeline/backend/internal/interfaces/http/middleware"
)

// RouterConfig carries everything the router needs
type RouterConfig struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist

	HealthHandler   *handler.HealthHandler
	AuthHandler     *handler.AuthHandler
	WeatherHandler  *handler.WeatherHandler
	JobHandler      *handler.JobHandler
	CustomerHandler *handler.CustomerHandler
	LeadHandler     *handler.LeadHandler
	BillingHandler  *handler.BillingHandler
	FileHandler     *handler.FileHandler
}

// slugRegex matches lowercase URL-safe organization slugs
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugRegex.MatchString(fl.Field().String())
		})
	}
}

// NewRouter builds the gin engine with the full middleware chain and routes
func NewRouter(rc RouterConfig) *gin.Engine {
	cfg := rc.Config

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidations()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(logger.Recovery(rc.Logger))
	engine.Use(func(c *gin.Context) {
		// Seed the request context with the base logger so downstream
		// middleware enrich a real logger instead of a no-op.
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), rc.Logger))
		c.Next()
	})
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))
	engine.Use(logger.GinMiddleware(rc.Logger))
	engine.Use(middleware.CORS(cfg.HTTP))

	engine.GET("/health", rc.HealthHandler.Health)
	engine.GET("/ready", rc.HealthHandler.Ready)

	skipPrefixes := []string{}
	if cfg.Swagger.Enabled && !cfg.Swagger.RequireAuth {
		skipPrefixes = append(skipPrefixes, "/swagger")
	}

	engine.Use(middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService: rc.JWTService,
		Blacklist:  rc.Blacklist,
		Logger:     rc.Logger,
		SkipPaths: []string{
			"/health",
			"/ready",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/auth/register",
		},
		SkipPathPrefixes: skipPrefixes,
	}))

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := engine.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", rc.AuthHandler.Login)
			authGroup.POST("/refresh", rc.AuthHandler.Refresh)
			authGroup.POST("/register", rc.AuthHandler.Register)
			authGroup.POST("/logout", rc.AuthHandler.Logout)
			authGroup.GET("/me", rc.AuthHandler.Me)
		}

		weather := v1.Group("/weather")
		{
			weather.GET("", rc.WeatherHandler.Forecast)
			weather.POST("/shift-jobs", rc.WeatherHandler.ShiftJobs)
			weather.GET("/shift-status", rc.WeatherHandler.ShiftStatus)
			weather.POST("/shift-confirm", rc.WeatherHandler.ConfirmShift)
			weather.POST("/shift-undo", rc.WeatherHandler.UndoShift)
		}

		appointments := v1.Group("/appointments")
		{
			appointments.POST("", rc.JobHandler.CreateAppointment)
			appointments.GET("", rc.JobHandler.ListAppointments)
			appointments.GET("/:id", rc.JobHandler.GetAppointment)
			appointments.PATCH("/:id", rc.JobHandler.UpdateAppointment)
			appointments.DELETE("/:id", rc.JobHandler.DeleteAppointment)
		}

		v1.GET("/calendar", rc.JobHandler.Calendar)

		jobs := v1.Group("/jobs")
		{
			jobs.POST("", rc.JobHandler.CreateJob)
			jobs.POST("/shift", rc.JobHandler.ShiftJobs)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("", rc.CustomerHandler.Create)
			customers.GET("", rc.CustomerHandler.List)
			customers.GET("/:id", rc.CustomerHandler.Get)
			customers.PATCH("/:id", rc.CustomerHandler.Update)
			customers.DELETE("/:id", rc.CustomerHandler.Deactivate)
			customers.GET("/:id/measurements", rc.BillingHandler.ListMeasurements)
		}

		leads := v1.Group("/leads")
		{
			leads.POST("", rc.LeadHandler.Create)
			leads.GET("", rc.LeadHandler.List)
			leads.GET("/:id", rc.LeadHandler.Get)
			leads.POST("/:id/advance", rc.LeadHandler.Advance)
			leads.POST("/:id/approve", rc.LeadHandler.Approve)
		}

		measurements := v1.Group("/measurements")
		{
			measurements.POST("", rc.BillingHandler.CreateMeasurement)
			measurements.GET("/:id", rc.BillingHandler.GetMeasurement)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.POST("/quote", rc.BillingHandler.Quote)
			invoices.GET("", rc.BillingHandler.ListInvoices)
			invoices.GET("/:id", rc.BillingHandler.GetInvoice)
			invoices.POST("/:id/lines", rc.BillingHandler.AddLine)
			invoices.POST("/:id/send", rc.BillingHandler.Send)
			invoices.POST("/:id/pay", rc.BillingHandler.MarkPaid)
			invoices.POST("/:id/void", rc.BillingHandler.Void)
			invoices.GET("/:id/pdf", rc.BillingHandler.DownloadPDF)
			invoices.POST("/:id/archive", rc.BillingHandler.ArchivePDF)
		}

		files := v1.Group("/files")
		{
			files.POST("/upload-url", rc.FileHandler.CreateUploadURL)
			files.GET("/download-url", rc.FileHandler.CreateDownloadURL)
			files.DELETE("", rc.FileHandler.DeleteObject)
		}
	}

	return engine
}
