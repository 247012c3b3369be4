package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/config"
	infraCache "coursestore-backend/internal/infrastructure/cache"
	"coursestore-backend/internal/infrastructure/crm"
	"coursestore-backend/internal/infrastructure/database"
	"coursestore-backend/internal/infrastructure/email"
	"coursestore-backend/internal/infrastructure/queue"
	"coursestore-backend/pkg/cache"
	pkgdb "coursestore-backend/pkg/database"
	"coursestore-backend/pkg/jwt"

	cartHandler "coursestore-backend/internal/domains/cart/handler"
	cartService "coursestore-backend/internal/domains/cart/service"

	catalogHandler "coursestore-backend/internal/domains/catalog/handler"
	catalogRepo "coursestore-backend/internal/domains/catalog/repository"
	catalogService "coursestore-backend/internal/domains/catalog/service"

	checkoutHandler "coursestore-backend/internal/domains/checkout/handler"
	checkoutRepo "coursestore-backend/internal/domains/checkout/repository"
	checkoutService "coursestore-backend/internal/domains/checkout/service"

	couponHandler "coursestore-backend/internal/domains/coupon/handler"
	couponRepo "coursestore-backend/internal/domains/coupon/repository"
	couponService "coursestore-backend/internal/domains/coupon/service"

	enrollmentHandler "coursestore-backend/internal/domains/enrollment/handler"
	enrollmentRepo "coursestore-backend/internal/domains/enrollment/repository"
	enrollmentService "coursestore-backend/internal/domains/enrollment/service"

	marketingHandler "coursestore-backend/internal/domains/marketing/handler"
	marketingService "coursestore-backend/internal/domains/marketing/service"

	"coursestore-backend/internal/domains/payment/gateway"
	stripeGateway "coursestore-backend/internal/domains/payment/gateway/stripe"
	paymentHandler "coursestore-backend/internal/domains/payment/handler"
	paymentRepo "coursestore-backend/internal/domains/payment/repository"
	paymentService "coursestore-backend/internal/domains/payment/service"

	userHandler "coursestore-backend/internal/domains/user/handler"
	userRepo "coursestore-backend/internal/domains/user/repository"
	userService "coursestore-backend/internal/domains/user/service"

	whitelabelHandler "coursestore-backend/internal/domains/whitelabel/handler"
	whitelabelRepo "coursestore-backend/internal/domains/whitelabel/repository"
	whitelabelService "coursestore-backend/internal/domains/whitelabel/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the API and the worker.
// All members are singletons built once by NewContainer.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	TxManager   pkgdb.TxManager
	AsynqClient *queue.Client
	Email       email.EmailService
	// CRM is nil when the GoHighLevel integration is disabled.
	CRM    *crm.Client
	Stripe *stripeGateway.Client

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	CourseRepo     catalogRepo.CourseRepository
	BundleRepo     catalogRepo.BundleRepository
	CurriculumRepo catalogRepo.CurriculumRepository
	CouponRepo     couponRepo.CouponRepository
	UserRepo       userRepo.UserRepository
	EnrollmentRepo enrollmentRepo.EnrollmentRepository
	PendingRepo    checkoutRepo.PendingCheckoutRepository
	PurchaseRepo   paymentRepo.PurchaseRepository
	WebhookRepo    paymentRepo.WebhookEventRepository
	WhitelabelRepo whitelabelRepo.AccountRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	CatalogService    catalogService.ServiceInterface
	CurriculumService catalogService.CurriculumServiceInterface
	CouponService     couponService.ServiceInterface
	CartService       cartService.ServiceInterface
	CheckoutService   checkoutService.ServiceInterface
	UserService       userService.ServiceInterface
	AuthService       userService.AuthServiceInterface
	AccessService     enrollmentService.ServiceInterface
	WebhookService    paymentService.WebhookServiceInterface
	PurchaseService   paymentService.PurchaseServiceInterface
	WhitelabelService whitelabelService.ServiceInterface
	AuditService      marketingService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	CatalogHandler      *catalogHandler.CatalogHandler
	CatalogAdminHandler *catalogHandler.AdminHandler
	CouponHandler       *couponHandler.PublicHandler
	CouponAdminHandler  *couponHandler.AdminHandler
	CartHandler         *cartHandler.CartHandler
	CheckoutHandler     *checkoutHandler.CheckoutHandler
	AuthHandler         *userHandler.AuthHandler
	UserHandler         *userHandler.UserHandler
	EnrollmentHandler   *enrollmentHandler.EnrollmentHandler
	WebhookHandler      *paymentHandler.WebhookHandler
	PurchaseHandler     *paymentHandler.PurchaseHandler
	WhitelabelHandler   *whitelabelHandler.WhitelabelHandler
	AuditHandler        *marketingHandler.AuditHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph in layer order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	// ========================================
	// STEP 2: INFRASTRUCTURE
	// ========================================
	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initCache()

	if err := c.initIntegrations(); err != nil {
		return nil, err
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.Issuer)
	c.TxManager = pkgdb.NewTxManager(c.DB.Pool)

	// ========================================
	// STEP 3-5: DOMAIN LAYERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

func (c *Container) initDatabase() error {
	db := database.NewPostgresDB(c.Config.DBConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Info().Str("host", c.Config.Database.Host).Msg("Database connected")
	return nil
}

// initCache connects Redis. When the ping fails the process uses an
// in-process memory cache for its lifetime; Redis is not retried.
func (c *Container) initCache() {
	r := c.Config.Redis
	redisCache := infraCache.NewRedisCache(r.Host, r.Password, r.DB, r.KeyPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed, using in-process cache")
		_ = redisCache.Close()
		c.Cache = cache.NewMemoryCache()
	} else {
		log.Info().Str("addr", r.Host).Msg("Redis connected")
		c.Cache = redisCache
	}

	c.AsynqClient = queue.NewClient(queue.RedisOpt(r.Host, r.Password, r.DB))
}

func (c *Container) initIntegrations() error {
	cfg := c.Config

	emailSvc, err := email.NewEmailService(email.Config{
		Provider: cfg.Email.Provider,
		APIKey:   cfg.Email.APIKey,
		From:     cfg.Email.From,
		SMTPHost: cfg.Email.SMTPHost,
		SMTPPort: cfg.Email.SMTPPort,
	})
	if err != nil {
		return fmt.Errorf("failed to init email: %w", err)
	}
	c.Email = emailSvc

	if cfg.CRM.Enabled {
		c.CRM = crm.NewClient(crm.Config{
			APIKey:     cfg.CRM.APIKey,
			LocationID: cfg.CRM.LocationID,
			BaseURL:    cfg.CRM.BaseURL,
			APIVersion: cfg.CRM.APIVersion,
			Timeout:    cfg.CRM.Timeout,
		})
		log.Info().Str("location_id", cfg.CRM.LocationID).Msg("GoHighLevel client ready")
	} else {
		log.Warn().Msg("GoHighLevel integration disabled")
	}

	if cfg.Stripe.SecretKey == "" {
		log.Warn().Msg("Stripe secret key not set, checkout is disabled")
		return nil
	}
	stripeClient, err := stripeGateway.NewClient(&stripeGateway.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Currency:      cfg.Stripe.Currency,
	})
	if err != nil {
		return fmt.Errorf("failed to init stripe: %w", err)
	}
	c.Stripe = stripeClient
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CourseRepo = catalogRepo.NewCourseRepository(pool)
	c.BundleRepo = catalogRepo.NewBundleRepository(pool)
	c.CurriculumRepo = catalogRepo.NewCurriculumRepository(pool)
	c.CouponRepo = couponRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.EnrollmentRepo = enrollmentRepo.NewPostgresRepository(pool)
	c.PendingRepo = checkoutRepo.NewPostgresRepository(pool)
	c.PurchaseRepo = paymentRepo.NewPurchaseRepository(pool)
	c.WebhookRepo = paymentRepo.NewWebhookEventRepository(pool)
	c.WhitelabelRepo = whitelabelRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	// Interface values stay nil (not typed-nil) when an integration is off.
	var (
		prices      catalogService.PriceProvisioner
		gw          gateway.Gateway = gateway.Disabled{}
		memberships enrollmentService.MembershipChecker
	)
	if c.Stripe != nil {
		prices = c.Stripe
		gw = c.Stripe
	}
	if c.CRM != nil && (cfg.CRM.MembershipFieldID != "" || len(cfg.CRM.AccessTags) > 0) {
		memberships = crm.NewMembershipChecker(c.CRM, cfg.CRM.MembershipFieldID, cfg.CRM.AccessTiers, cfg.CRM.AccessTags)
	}

	c.CatalogService = catalogService.NewCatalogService(c.CourseRepo, c.BundleRepo, c.Cache, prices, cfg.Stripe.Currency)
	c.CouponService = couponService.NewCouponService(c.CouponRepo)
	c.UserService = userService.NewUserService(c.UserRepo)
	c.AuthService = userService.NewAuthService(c.UserRepo, c.Cache, c.AsynqClient, c.JWTManager, userService.AuthConfig{
		MagicLinkTTL:  cfg.JWT.MagicLinkTTL,
		PublicBaseURL: cfg.App.PublicBaseURL,
	})

	c.AccessService = enrollmentService.NewAccessService(
		c.EnrollmentRepo, c.UserService, c.CatalogService, memberships, c.Cache,
		enrollmentService.WithMembershipTTL(cfg.CRM.MembershipCacheTTL),
	)
	c.CurriculumService = catalogService.NewCurriculumService(c.CourseRepo, c.CurriculumRepo, c.AccessService)

	resolver := cartService.NewResolver(c.CatalogService)
	c.CartService = cartService.NewQuoteService(resolver, c.CouponService)
	c.CheckoutService = checkoutService.NewCheckoutService(resolver, c.CouponService, gw, c.PendingRepo, checkoutService.Config{
		Currency:   cfg.Stripe.Currency,
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
	})

	c.WebhookService = paymentService.NewWebhookService(paymentService.WebhookDeps{
		Verifier:    stripeGateway.NewVerifier(cfg.Stripe.WebhookSecret),
		Events:      c.WebhookRepo,
		Purchases:   c.PurchaseRepo,
		Pending:     c.PendingRepo,
		Users:       c.UserService,
		Catalog:     c.CatalogService,
		Enrollments: c.AccessService,
		Coupons:     c.CouponService,
		Tx:          c.TxManager,
		Queue:       c.AsynqClient,
		PortalURL:   cfg.App.PublicBaseURL,
	})
	c.PurchaseService = paymentService.NewPurchaseService(c.PurchaseRepo)

	c.WhitelabelService = whitelabelService.NewWhitelabelService(c.WhitelabelRepo, c.Cache)
	c.AuditService = marketingService.NewAuditService(c.AsynqClient, cfg.Email.AdminNotify)
}

func (c *Container) initHandlers() {
	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.CatalogService, c.CurriculumService)
	c.CatalogAdminHandler = catalogHandler.NewAdminHandler(c.CatalogService, c.CurriculumService)
	c.CouponHandler = couponHandler.NewPublicHandler(c.CouponService, c.CartService)
	c.CouponAdminHandler = couponHandler.NewAdminHandler(c.CouponService)
	c.CartHandler = cartHandler.NewCartHandler(c.CartService)
	c.CheckoutHandler = checkoutHandler.NewCheckoutHandler(c.CheckoutService)
	c.AuthHandler = userHandler.NewAuthHandler(c.AuthService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.EnrollmentHandler = enrollmentHandler.NewEnrollmentHandler(c.AccessService)
	c.WebhookHandler = paymentHandler.NewWebhookHandler(c.WebhookService)
	c.PurchaseHandler = paymentHandler.NewPurchaseHandler(c.PurchaseService)
	c.WhitelabelHandler = whitelabelHandler.NewWhitelabelHandler(c.WhitelabelService)
	c.AuditHandler = marketingHandler.NewAuditHandler(c.AuditService)
}

// Cleanup releases pooled connections. Safe on a partially built container.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close queue client")
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Close()
		log.Info().Msg("Database connections closed")
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		} else {
			log.Info().Msg("Redis connections closed")
		}
	}
}
