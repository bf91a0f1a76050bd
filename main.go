package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joeyave/campus-hub/configs"
	"github.com/joeyave/campus-hub/controller"
	"github.com/joeyave/campus-hub/helpers"
	"github.com/joeyave/campus-hub/repository"
	"github.com/joeyave/campus-hub/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"
)

func main() {
	conf, err := configs.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	setupLogger(conf)

	if conf.MongoURI == "" {
		if !conf.IsProduction() {
			log.Fatal().Msg("MONGO_URI is not defined in your environment variables")
		}
		log.Warn().Msg("No MongoDB URI provided - running in offline mode")
	}

	var mongoClient *mongo.Client
	var connState *repository.ConnectionState
	if conf.MongoURI != "" {
		mongoClient, connState, err = repository.ConnectMongo(conf.MongoURI, conf.MongoConnectTimeout)
		if err != nil {
			log.Error().Err(err).Msg("MongoDB connection error")
			log.Warn().Msg("Running in offline mode - data will not persist until MongoDB is reachable")
		} else {
			log.Info().Str("db", conf.MongoDBName).Msg("MongoDB connected successfully")
		}
	}
	defer func() {
		if mongoClient == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	var fallbackOpts []repository.FallbackOption
	if conf.SeedFallback {
		fallbackOpts = append(fallbackOpts, repository.WithSeedData())
	}
	fallbackStore := repository.NewFallbackStore(fallbackOpts...)
	mongoStore := repository.NewMongoStore(mongoClient, conf.MongoDBName, connState)

	eventService := service.NewEventService(mongoStore, fallbackStore, service.Policy{
		AllowDegradedRegistration: conf.AllowDegradedRegistration,
		LegacyFallbackChecks:      conf.LegacyFallbackChecks,
	})

	sendgridRepository := repository.NewSendgridRepository(conf.SendgridAPIKey, conf.EmailUser)
	notificationService := service.NewNotificationService(sendgridRepository, eventService, conf.NotifyRegistrants, conf.EmailEUResidency)
	eventService.SetNotifier(notificationService)

	stripeRepository := repository.NewStripeRepository(conf.StripeSecretKey, conf.StripeWebhookSecret)
	paymentService := service.NewPaymentService(stripeRepository)

	communityService := service.NewCommunityService()

	if conf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), helpers.RequestLogger(), cors.New(corsConfig(conf)))

	eventController := &controller.EventController{
		EventService:        eventService,
		NotificationService: notificationService,
		CommunityService:    communityService,
	}
	routes := &controller.Router{
		Event:     eventController,
		Community: &controller.CommunityController{CommunityService: communityService},
		Message:   &controller.MessageController{NotificationService: notificationService},
		Payment:   &controller.PaymentController{PaymentService: paymentService, PublicURL: conf.PublicURL},
		Health:    eventController.Health,
		StaticDir: conf.StaticDir,
	}
	routes.Register(router)

	server := &http.Server{
		Addr:              ":" + conf.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", conf.Port).Msg("Server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}
}

func setupLogger(conf *configs.Config) {
	level, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !conf.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.DefaultContextLogger = &log.Logger
}

func corsConfig(conf *configs.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", helpers.RequestIDHeader, "Stripe-Signature")
	c.ExposeHeaders = []string{helpers.RequestIDHeader}

	if len(conf.CORSOrigins) == 0 || (len(conf.CORSOrigins) == 1 && conf.CORSOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = conf.CORSOrigins
	}
	return c
}
