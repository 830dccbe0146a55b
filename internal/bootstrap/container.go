package bootstrap

import (
	"context"
	"log"

	"ar-storefront-be/internal/config"
	"ar-storefront-be/internal/controller"
	"ar-storefront-be/internal/pkg/assets"
	"ar-storefront-be/internal/pkg/auth"
	"ar-storefront-be/internal/pkg/logger"
	"ar-storefront-be/internal/pkg/mailer"
	"ar-storefront-be/internal/pkg/metrics"
	"ar-storefront-be/internal/pkg/payment"
	"ar-storefront-be/internal/pkg/serverutils"
	"ar-storefront-be/internal/repository/memory"
	"ar-storefront-be/internal/repository/unitofwork"
	"ar-storefront-be/internal/service"
	"ar-storefront-be/internal/websocket"
	"ar-storefront-be/pkg/ar"

	pktNats "ar-storefront-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const EventsTopic = "storefront.events"

type Container struct {
	// Controllers
	ProductController controller.IProductController
	AuthController    controller.IAuthController
	PaymentController controller.IPaymentController
	ARController      controller.IARController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	WebSocketHub *websocket.Hub
	Metrics      *metrics.Metrics
	Logger       logger.ILogger

	closers []func()
}

// Overrides replaces infrastructure the container would otherwise build from
// configuration. Zero fields are built as usual.
type Overrides struct {
	Logger    logger.ILogger
	Gateway   payment.Gateway
	Assets    ar.AssetLoader
	Blacklist auth.TokenBlacklist
	Mailer    mailer.IEmailService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	return NewContainerWith(db, cfg, Overrides{})
}

func NewContainerWith(db *gorm.DB, cfg *config.Config, o Overrides) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	sysLogger := o.Logger
	if sysLogger == nil {
		zl := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
		c.closers = append(c.closers, func() { _ = zl.Sync() })
		sysLogger = zl
	}
	c.Logger = sysLogger

	emailService := o.Mailer
	if emailService == nil {
		if cfg.SMTP.Host == "" {
			sysLogger.Info("MAILER", "SMTP_HOST not set, mails are disabled", nil)
			emailService = mailer.NewNoopEmailService()
		} else {
			emailService = mailer.NewEmailService(
				cfg.SMTP.Host,
				cfg.SMTP.Port,
				cfg.SMTP.Email,
				cfg.SMTP.Password,
				cfg.SMTP.SenderName,
			)
		}
	}

	m := metrics.New()
	c.Metrics = m

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// NATS relay is optional
	var relay service.EventRelay
	if cfg.App.NatsURL != "" {
		if natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL); err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			relay = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	publisherService := service.NewPublisherService(EventsTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, EventsTopic, relay, sysLogger)

	// 3. Auth
	if cfg.Auth.JWTSecret == "" {
		sysLogger.Warn("AUTH", "JWT_SECRET not set, signing with a random per-process key", nil)
	}
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	blacklist := o.Blacklist
	if blacklist == nil {
		blacklist = newBlacklist(cfg, sysLogger, c)
	}
	jwtMiddleware := serverutils.JwtMiddleware(jwtService, blacklist)

	// 4. Payment
	gateway := o.Gateway
	if gateway == nil {
		gw, err := payment.New(payment.Config{
			Provider:          cfg.Payment.Provider,
			StripeSecretKey:   cfg.Payment.StripeSecretKey,
			MidtransServerKey: cfg.Payment.MidtransServerKey,
			IsProduction:      cfg.Payment.IsProduction,
		}, sysLogger)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize payment gateway: %v", err)
		}
		gateway = gw
	}
	log.Printf("[INFO] Using payment gateway: %s", gateway.Name())

	// 5. AR
	assetLoader := o.Assets
	if assetLoader == nil {
		assetLoader = newAssetLoader(cfg, sysLogger)
	}
	mode, err := ar.ParsePlacementMode(cfg.AR.PlacementMode)
	if err != nil {
		sysLogger.Warn("AR", "invalid placement mode, using accumulate", map[string]interface{}{"error": err.Error()})
		mode = ar.PlacementAccumulate
	}
	sessionRepo := memory.NewSessionRepository(cfg.AR.SessionTTL)

	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()
	c.WebSocketHub = wsHub
	c.closers = append(c.closers, wsHub.Stop)

	// 6. Services
	productService := service.NewProductService(uowFactory)
	authService := service.NewAuthService(uowFactory, jwtService, blacklist, emailService, publisherService, sysLogger)
	paymentService := service.NewPaymentService(gateway, cfg.Payment.Currency, m, emailService, publisherService, sysLogger)
	arService := service.NewARService(uowFactory, sessionRepo, assetLoader, mode, m, publisherService, sysLogger)

	// 7. Controllers
	c.ProductController = controller.NewProductController(productService)
	c.AuthController = controller.NewAuthController(authService, cfg.Auth.CookieTTL, !cfg.IsDevelopment(), jwtMiddleware)
	c.PaymentController = controller.NewPaymentController(paymentService)
	c.ARController = controller.NewARController(arService, wsHub, sysLogger)
	c.HealthController = controller.NewHealthController(db, wsHub.ActiveSessions)

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newBlacklist(cfg *config.Config, log logger.ILogger, c *Container) auth.TokenBlacklist {
	if cfg.App.RedisURL == "" {
		log.Info("AUTH", "REDIS_URL not set, token revocations are kept in memory", nil)
		return auth.NewMemoryTokenBlacklist()
	}
	rb, err := auth.NewRedisTokenBlacklist(context.Background(), cfg.App.RedisURL)
	if err != nil {
		log.Warn("AUTH", "redis unavailable, token revocations are kept in memory", map[string]interface{}{"error": err.Error()})
		return auth.NewMemoryTokenBlacklist()
	}
	c.closers = append(c.closers, func() { _ = rb.Close() })
	return rb
}

func newAssetLoader(cfg *config.Config, log logger.ILogger) ar.AssetLoader {
	switch cfg.Assets.Store {
	case "s3":
		loader, err := assets.NewS3Loader(context.Background(), assets.S3Config{
			Bucket:        cfg.Assets.S3Bucket,
			Region:        cfg.Assets.S3Region,
			Endpoint:      cfg.Assets.S3Endpoint,
			AccessKey:     cfg.Assets.S3AccessKey,
			SecretKey:     cfg.Assets.S3SecretKey,
			PresignExpiry: cfg.Assets.PresignExpiry,
		})
		if err != nil {
			log.Warn("ASSETS", "s3 asset store unavailable, AR scenes will have no models", map[string]interface{}{"error": err.Error()})
			return nil
		}
		return loader
	default:
		loader, err := assets.NewHTTPLoader(cfg.Assets.BaseURL, nil)
		if err != nil {
			log.Warn("ASSETS", "invalid asset base url, AR scenes will have no models", map[string]interface{}{"error": err.Error()})
			return nil
		}
		return loader
	}
}
