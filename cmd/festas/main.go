package main

import (
	"context"
	"time"

	areahandler "festas/internal/areas/handler"
	arearepository "festas/internal/areas/repository"
	areaservice "festas/internal/areas/service"
	bookinghandler "festas/internal/bookings/handler"
	bookingrepository "festas/internal/bookings/repository"
	bookingservice "festas/internal/bookings/service"
	bookingvalidator "festas/internal/bookings/validator"
	identityhandler "festas/internal/identity/handler"
	identityrepository "festas/internal/identity/repository"
	identityservice "festas/internal/identity/service"
	mongomigration "festas/internal/migrations/mongo"
	pageshandler "festas/internal/pages/handler"
	"festas/pkg/app"
	"festas/pkg/config"
	"festas/pkg/contracts"
	"festas/pkg/events"

	"github.com/joho/godotenv"
)

const ServiceName = "festas"

func main() {
	// Local development convenience; in deployment the environment is real.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Festas service")

	migrateMongo(cfg)

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	areaService := initAreas(cfg)
	bookingService := initBookings(cfg, areaService, publisher)
	identityService := initIdentity(cfg)

	authHandler := identityhandler.NewAuthHandler(identityService, cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		identityService,
		[]contracts.Handler{
			contracts.HandlerFunc(authHandler.RegisterPublicRoutes),
			pageshandler.NewPagesHandler(cfg.Log),
		},
		[]string{"/api/v1/auth/signin", "/api/v1/pages/"},
		[]contracts.Handler{
			bookinghandler.NewBookingHandler(bookingService, cfg.Log),
			areahandler.NewAreaHandler(areaService, cfg.Log),
			authHandler,
		},
	)
	serverApp.Run()
}

func migrateMongo(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := mongomigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.Log.Fatal("Mongo migration failed", "error", err)
	}
}

func initAreas(cfg *config.Config) areaservice.AreaService {
	areaRepo := arearepository.NewMongoAreaRepository(cfg)
	areaService := areaservice.NewAreaService(areaRepo, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()
	if err := areaService.Seed(ctx); err != nil {
		cfg.Log.Fatal("Failed to seed default area", "error", err)
	}

	return areaService
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, booking events disabled")
		return events.NewNoopPublisher()
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka publisher", "error", err)
	}
	cfg.Log.Info("Kafka event publisher initialized", "topic", cfg.KafkaEventTopic)
	return publisher
}

func initBookings(cfg *config.Config, areas bookingservice.AreaLookup, publisher events.Publisher) bookingservice.BookingService {
	bookingValidator := bookingvalidator.NewBookingValidator(cfg.Log)
	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepository.NewSlotLockRepository(cfg)

	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		areas,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initIdentity(cfg *config.Config) identityservice.IdentityService {
	userRepo := identityrepository.NewMongoUserRepository(cfg)
	sessionRepo := identityrepository.NewMongoSessionRepository(cfg)
	return identityservice.NewIdentityService(userRepo, sessionRepo, cfg)
}
