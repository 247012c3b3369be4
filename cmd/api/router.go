package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coursestore-backend/internal/shared/middleware"
	"coursestore-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.AllowedOrigins),
		middleware.Metrics(),
	)

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := c.Config.RateLimit
	// Public write endpoints share one budget; auth and forms get a tighter one.
	publicLimiter := middleware.NewIPRateLimiter(rl.RequestsPerSecond, rl.Burst)
	strictLimiter := middleware.NewIPRateLimiter(rl.RequestsPerSecond/4, max(rl.Burst/4, 1))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c, strictLimiter)
		setupCatalogRoutes(v1, c)
		setupCommerceRoutes(v1, c, publicLimiter)
		setupMeRoutes(v1, c)
		setupWebhookRoutes(v1, c)
		setupMarketingRoutes(v1, c, strictLimiter)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container, limiter *middleware.IPRateLimiter) {
	auth := v1.Group("/auth", limiter.Middleware())
	{
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/magic-link", c.AuthHandler.RequestMagicLink)
		auth.POST("/magic-link/verify", c.AuthHandler.VerifyMagicLink)
	}
}

// ========================================
// CATALOG ROUTES (PUBLIC)
// ========================================
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	optional := middleware.OptionalAuth(c.JWTManager)

	courses := v1.Group("/courses", optional)
	{
		courses.GET("", c.CatalogHandler.ListCourses)
		courses.GET("/:slug", c.CatalogHandler.GetCourse)
		courses.GET("/:slug/curriculum", c.CatalogHandler.GetCurriculum)
		courses.GET("/:slug/lessons/:lesson_id", c.CatalogHandler.GetLesson)
	}

	bundles := v1.Group("/bundles")
	{
		bundles.GET("", c.CatalogHandler.ListBundles)
		bundles.GET("/:id", c.CatalogHandler.GetBundle)
	}

	v1.GET("/whitelabel/:slug", c.WhitelabelHandler.GetPublic)
}

// ========================================
// CART, COUPON & CHECKOUT ROUTES
// ========================================
func setupCommerceRoutes(v1 *gin.RouterGroup, c *container.Container, limiter *middleware.IPRateLimiter) {
	commerceRoutes{
		optionalAuth:   middleware.OptionalAuth(c.JWTManager),
		quote:          c.CartHandler.Quote,
		validateCoupon: c.CouponHandler.ValidateCoupon,
		createSession:  c.CheckoutHandler.CreateSession,
	}.mount(v1, limiter)
}

type commerceRoutes struct {
	optionalAuth   gin.HandlerFunc
	quote          gin.HandlerFunc
	validateCoupon gin.HandlerFunc
	createSession  gin.HandlerFunc
}

// Every commerce route evaluates coupon codes, so all of them share the
// public budget.
func (r commerceRoutes) mount(v1 *gin.RouterGroup, limiter *middleware.IPRateLimiter) {
	g := v1.Group("", limiter.Middleware(), r.optionalAuth)
	g.POST("/cart/quote", r.quote)
	g.POST("/coupons/validate", r.validateCoupon)
	g.POST("/checkout/session", r.createSession)
}

// ========================================
// SIGNED-IN USER ROUTES
// ========================================
func setupMeRoutes(v1 *gin.RouterGroup, c *container.Container) {
	me := v1.Group("/me", middleware.AuthMiddleware(c.JWTManager))
	{
		me.GET("", c.UserHandler.Me)
		me.GET("/access/:course_id", c.EnrollmentHandler.CheckAccess)
		me.GET("/enrollments", c.EnrollmentHandler.ListMine)
		me.POST("/enrollments/:course_id/complete", c.EnrollmentHandler.Complete)
		me.GET("/purchases", c.PurchaseHandler.ListMine)
	}
}

// ========================================
// WEBHOOK ROUTES
// ========================================
// No auth or rate limiting; requests are authenticated by signature.
func setupWebhookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/webhooks/stripe", c.WebhookHandler.Stripe)
}

// ========================================
// MARKETING ROUTES
// ========================================
func setupMarketingRoutes(v1 *gin.RouterGroup, c *container.Container, limiter *middleware.IPRateLimiter) {
	v1.POST("/forms/audit", limiter.Middleware(), c.AuditHandler.SubmitAudit)
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin",
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
	)

	courses := admin.Group("/courses")
	{
		courses.GET("", c.CatalogAdminHandler.ListCourses)
		courses.POST("", c.CatalogAdminHandler.CreateCourse)
		courses.PATCH("/:id", c.CatalogAdminHandler.UpdateCourse)
		courses.PATCH("/:id/publish", c.CatalogAdminHandler.SetCoursePublished)
		courses.POST("/:id/stripe", c.CatalogAdminHandler.LinkCourse)
		courses.GET("/:id/modules", c.CatalogAdminHandler.GetCurriculum)
		courses.POST("/:id/modules", c.CatalogAdminHandler.CreateModule)
	}

	modules := admin.Group("/modules")
	{
		modules.PUT("/:id", c.CatalogAdminHandler.UpdateModule)
		modules.DELETE("/:id", c.CatalogAdminHandler.DeleteModule)
		modules.POST("/:id/lessons", c.CatalogAdminHandler.CreateLesson)
	}

	lessons := admin.Group("/lessons")
	{
		lessons.PUT("/:id", c.CatalogAdminHandler.UpdateLesson)
		lessons.DELETE("/:id", c.CatalogAdminHandler.DeleteLesson)
	}

	bundles := admin.Group("/bundles")
	{
		bundles.GET("", c.CatalogAdminHandler.ListBundles)
		bundles.POST("", c.CatalogAdminHandler.CreateBundle)
		bundles.PATCH("/:id", c.CatalogAdminHandler.UpdateBundle)
		bundles.PATCH("/:id/publish", c.CatalogAdminHandler.SetBundlePublished)
		bundles.POST("/:id/stripe", c.CatalogAdminHandler.LinkBundle)
	}

	coupons := admin.Group("/coupons")
	{
		coupons.GET("", c.CouponAdminHandler.ListCoupons)
		coupons.GET("/:id", c.CouponAdminHandler.GetCoupon)
		coupons.POST("", c.CouponAdminHandler.CreateCoupon)
		coupons.PATCH("/:id", c.CouponAdminHandler.UpdateCoupon)
		coupons.PATCH("/:id/status", c.CouponAdminHandler.SetCouponStatus)
		coupons.DELETE("/:id", c.CouponAdminHandler.DeleteCoupon)
	}

	users := admin.Group("/users")
	{
		users.GET("", c.UserHandler.ListUsers)
		users.PATCH("/:id/role", c.UserHandler.UpdateRole)
		users.PATCH("/:id/status", c.UserHandler.UpdateStatus)
	}

	whitelabel := admin.Group("/whitelabel")
	{
		whitelabel.GET("", c.WhitelabelHandler.List)
		whitelabel.GET("/:id", c.WhitelabelHandler.Get)
		whitelabel.POST("", c.WhitelabelHandler.Create)
		whitelabel.PATCH("/:id", c.WhitelabelHandler.Update)
		whitelabel.DELETE("/:id", c.WhitelabelHandler.Delete)
	}

	admin.POST("/enrollments", c.EnrollmentHandler.Grant)
	admin.GET("/purchases", c.PurchaseHandler.ListAll)
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "up", "redis": "up"}

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = err.Error()
		}
		// Redis outages degrade caching only.
		if err := c.Cache.Ping(checkCtx); err != nil {
			checks["redis"] = err.Error()
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		ctx.JSON(status, gin.H{
			"status":      state,
			"version":     c.Config.App.Version,
			"environment": c.Config.App.Environment,
			"checks":      checks,
			"time":        time.Now().UTC(),
		})
	}
}
