package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"showcase-service/internal/adapters/assistant"
	"showcase-service/internal/adapters/geocoder"
	token_adapter "showcase-service/internal/adapters/jwt"
	logger_adapter "showcase-service/internal/adapters/logger"
	openai_adapter "showcase-service/internal/adapters/openai"
	postgres_adapter "showcase-service/internal/adapters/postgres"
	rabbitmq_adapter "showcase-service/internal/adapters/rabbitmq"
	redis_adapter "showcase-service/internal/adapters/redis"
	"showcase-service/internal/adapters/rest"
	"showcase-service/internal/adapters/scheduler"
	"showcase-service/internal/configs"
	"showcase-service/internal/constants"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/contracts"
	"showcase-service/internal/core/homepage"
	"showcase-service/internal/core/port"
	"showcase-service/internal/core/usecase"
	fluentlogger "showcase-service/pkg/fluent_logger"
	"showcase-service/pkg/postgres"
	"showcase-service/pkg/rabbitmq/rabbitmq_common"
	"showcase-service/pkg/rabbitmq/rabbitmq_consumer"
	"showcase-service/pkg/rabbitmq/rabbitmq_producer"
	redisclient "showcase-service/pkg/redis"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// App - основная структура приложения
type App struct {
	config       *configs.AppConfig
	logger       port.LoggerPort
	fluentClient *fluent.Fluent
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client

	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	viewsListener port.EventListenerPort

	scheduler  *scheduler.Scheduler
	httpServer *rest.Server
}

// NewApp создает и связывает все компоненты приложения
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}
	if err := app.init(context.Background()); err != nil {
		app.closeResources()
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.config

	baseLogger, err := a.initLoggers()
	if err != nil {
		return err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	a.logger = appLogger

	// хранилище
	a.dbPool, err = postgres.NewClient(ctx, postgres.Config{
		DatabaseURL: cfg.Database.URL,
		MaxConns:    int32(cfg.Database.MaxConns),
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	if err := postgres_adapter.Migrate(ctx, a.dbPool); err != nil {
		appLogger.Error("Failed to apply migrations", err, nil)
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	propertyRepo, err := postgres_adapter.NewPropertyRepository(a.dbPool)
	if err != nil {
		return err
	}
	settingsStore, err := postgres_adapter.NewSettingsStore(a.dbPool)
	if err != nil {
		return err
	}
	draftRepo, err := postgres_adapter.NewDraftRepository(a.dbPool)
	if err != nil {
		return err
	}
	userRepo, err := postgres_adapter.NewAdminUserRepository(a.dbPool)
	if err != nil {
		return err
	}
	chatRepo, err := postgres_adapter.NewChatRepository(a.dbPool)
	if err != nil {
		return err
	}

	// кэш витрины необязателен, интерфейс остается nil
	var homepageCache port.HomepageCachePort
	if cfg.Redis.Addr != "" {
		a.redisClient, err = redisclient.NewClient(ctx, redisclient.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Error("Failed to connect to Redis", err, port.Fields{"addr": cfg.Redis.Addr})
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		cache, err := redis_adapter.NewHomepageCache(a.redisClient, cfg.AppName, cfg.Redis.TTL)
		if err != nil {
			return err
		}
		homepageCache = cache
		appLogger.Info("Homepage cache enabled", port.Fields{"addr": cfg.Redis.Addr, "ttl": cfg.Redis.TTL.String()})
	} else {
		appLogger.Info("REDIS_ADDR is empty, homepage cache disabled", nil)
	}

	geo, err := newGeocoder(cfg.Geocoder)
	if err != nil {
		appLogger.Error("Failed to create geocoder", err, port.Fields{"provider": cfg.Geocoder.Provider})
		return err
	}

	var chatAssistant port.ChatAssistantPort = assistant.NewCannedAssistant()
	if cfg.OpenAI.APIKey != "" {
		primary, err := openai_adapter.NewChatAssistant(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		if err != nil {
			return fmt.Errorf("failed to create openai assistant: %w", err)
		}
		chatAssistant = assistant.NewFallbackAssistant(primary, chatAssistant)
		appLogger.Info("OpenAI assistant enabled", port.Fields{"model": cfg.OpenAI.Model})
	}

	tokenService, err := token_adapter.NewTokenService(cfg.JWT.SigningKey, cfg.AppName)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	recordViewUC := usecase.NewRecordPropertyViewUseCase(propertyRepo)

	// без брокера просмотры пишутся в базу сразу
	var viewRecorder port.ViewRecorderPort = recordViewUC
	var settingsPublisher port.SettingsEventPublisherPort
	if cfg.RabbitMQ.Enabled {
		eventsPublisher, err := a.initRabbitMQ(baseLogger, recordViewUC)
		if err != nil {
			return err
		}
		viewRecorder = eventsPublisher
		settingsPublisher = eventsPublisher
	}

	policy := homepage.Policy{}
	if cfg.Homepage.RandomShuffle {
		seed := uint64(time.Now().UnixNano())
		policy.Shuffle = homepage.NewShuffler(rand.NewPCG(seed, seed>>1))
	}

	homepageUC := usecase.NewGetHomepagePropertiesUseCase(settingsStore, propertyRepo, homepageCache, policy)
	getSettingsUC := usecase.NewGetHomepageSettingsUseCase(settingsStore)
	saveSettingsUC := usecase.NewSaveHomepageSettingsUseCase(settingsStore, homepageCache, settingsPublisher)
	previewUC := usecase.NewPreviewHomepageUseCase(propertyRepo, policy)

	findPropertiesUC := usecase.NewFindPropertiesUseCase(propertyRepo)
	detailsUC := usecase.NewGetPropertyDetailsUseCase(propertyRepo, viewRecorder)
	updateStatusUC := usecase.NewUpdatePropertyStatusUseCase(propertyRepo, homepageCache)
	nearbyUC := usecase.NewFindNearbyPropertiesUseCase(propertyRepo)

	sendChatUC := usecase.NewSendChatMessageUseCase(chatRepo, chatAssistant)
	chatHistoryUC := usecase.NewGetChatHistoryUseCase(chatRepo)

	loginUC := usecase.NewLoginAdminUseCase(userRepo, tokenService, cfg.JWT.TTL)
	validateSessionUC := usecase.NewValidateSessionUseCase(tokenService)
	ensureAdminUC := usecase.NewEnsureAdminUseCase(userRepo, uuid.NewString)

	createDraftUC := usecase.NewCreateDraftUseCase(draftRepo)
	getDraftUC := usecase.NewGetDraftUseCase(draftRepo)
	saveStepUC := usecase.NewSaveDraftStepUseCase(draftRepo, contracts.NewStepValidator())
	startEditUC := usecase.NewStartEditSessionUseCase(propertyRepo, draftRepo)
	publishDraftUC := usecase.NewPublishDraftUseCase(draftRepo, propertyRepo, homepageCache)

	geocodeUC := usecase.NewGeocodeAddressUseCase(geo)
	reverseGeocodeUC := usecase.NewReverseGeocodeUseCase(geo)
	dashboardUC := usecase.NewGetDashboardStatsUseCase(propertyRepo)
	rollupUC := usecase.NewRollupViewsUseCase(propertyRepo, homepageCache)
	appLogger.Info("All use cases initialized.", nil)

	bootstrapCtx := contextkeys.ContextWithLogger(ctx, baseLogger.WithFields(port.Fields{"component": "admin_bootstrap"}))
	if err := ensureAdminUC.Execute(bootstrapCtx, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password); err != nil {
		appLogger.Error("Failed to bootstrap admin user", err, port.Fields{"email": cfg.Admin.Email})
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	a.scheduler, err = scheduler.NewScheduler(baseLogger.WithFields(port.Fields{"component": "scheduler"}),
		scheduler.Job{
			Name:    "views-rollup",
			Spec:    cfg.Homepage.RollupCron,
			Timeout: 5 * time.Minute,
			Run:     rollupUC.Execute,
		},
	)
	if err != nil {
		appLogger.Error("Failed to create scheduler", err, port.Fields{"spec": cfg.Homepage.RollupCron})
		return err
	}

	publicHandler := rest.NewPublicHandler(rest.PublicUseCases{
		Homepage:       homepageUC,
		FindProperties: findPropertiesUC,
		Details:        detailsUC,
		Nearby:         nearbyUC,
		SendChat:       sendChatUC,
		ChatHistory:    chatHistoryUC,
		Login:          loginUC,
	})
	adminHandler := rest.NewAdminHandler(rest.AdminUseCases{
		Dashboard:       dashboardUC,
		GetSettings:     getSettingsUC,
		SaveSettings:    saveSettingsUC,
		PreviewHomepage: previewUC,
		CreateDraft:     createDraftUC,
		GetDraft:        getDraftUC,
		SaveDraftStep:   saveStepUC,
		PublishDraft:    publishDraftUC,
		StartEdit:       startEditUC,
		UpdateStatus:    updateStatusUC,
		Geocode:         geocodeUC,
		ReverseGeocode:  reverseGeocodeUC,
	})
	a.httpServer = rest.NewServer(rest.ServerConfig{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
	}, publicHandler, adminHandler, validateSessionUC, baseLogger.WithFields(port.Fields{"component": "rest"}))

	appLogger.Info("Application initialized", port.Fields{
		"rabbitmq_enabled": cfg.RabbitMQ.Enabled,
		"cache_enabled":    homepageCache != nil,
		"geocoder":         cfg.Geocoder.Provider,
	})
	return nil
}

func (a *App) initLoggers() (port.LoggerPort, error) {
	cfg := a.config
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(cfg.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if cfg.FluentBit.Enabled {
		client, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		a.fluentClient = client

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(client, logger_adapter.ParseLevel(cfg.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	baseLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": cfg.FluentBit.Enabled,
	})
	return baseLogger, nil
}

// initRabbitMQ поднимает соединение, издателя событий и слушателя просмотров
func (a *App) initRabbitMQ(baseLogger port.LoggerPort, recordViewUC *usecase.RecordPropertyViewUseCase) (*rabbitmq_adapter.EventsPublisher, error) {
	cfg := a.config
	rabbitCfg := rabbitmq_common.Config{URL: cfg.RabbitMQ.URL}

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(rabbitCfg, connManagerBridge)
	if err != nil {
		a.logger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager
	a.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	a.eventProducer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitCfg,
		ExchangeName:             constants.ShowcaseEventsExchange,
		ExchangeType:             "topic",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		a.logger.Error("Failed to create event producer", err, nil)
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}

	if err := rabbitmq_common.DeclareDeadLetter(connManager, constants.FinalDLXExchange, constants.FinalDLQ, constants.FinalDLQRoutingKey); err != nil {
		a.logger.Error("Failed to declare dead letter queue", err, nil)
		return nil, err
	}

	eventsPublisher, err := rabbitmq_adapter.NewEventsPublisher(a.eventProducer)
	if err != nil {
		return nil, err
	}

	a.viewsListener, err = rabbitmq_adapter.NewViewConsumerAdapter(rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitCfg,
		QueueName:              constants.QueuePropertyViews,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.ShowcaseEventsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    "topic",
		RoutingKeyForBind:      constants.RoutingKeyPropertyViewed,
		PrefetchCount:          20,
		ConsumerTag:            "property-views-consumer",
		QueueArgs: amqp.Table{
			"x-dead-letter-exchange":    constants.FinalDLXExchange,
			"x-dead-letter-routing-key": constants.FinalDLQRoutingKey,
		},
	}, recordViewUC, baseLogger, connManager)
	if err != nil {
		a.logger.Error("Failed to initialize views listener", err, nil)
		return nil, err
	}
	a.logger.Info("RabbitMQ views listener initialized.", nil)
	return eventsPublisher, nil
}

func newGeocoder(cfg configs.GeocoderConfig) (port.GeocoderPort, error) {
	if cfg.Provider == "google" {
		return geocoder.NewGoogleGeocoder(cfg.GoogleMapsKey)
	}
	return geocoder.NewNominatimClient(cfg.NominatimURL, cfg.UserAgent)
}

// Run запускает все компоненты и управляет их жизненным циклом
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	componentErrors := make(chan error, 3)

	start := func(name string, run func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(); err != nil {
				a.logger.Error("Component stopped with an unexpected error", err, port.Fields{"component_name": name})
				componentErrors <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}

	a.logger.Info("Application is starting...", nil)
	start("rest", a.httpServer.Start)
	start("scheduler", func() error { return a.scheduler.Start(appCtx) })
	if a.viewsListener != nil {
		start("views listener", func() error { return a.viewsListener.Start(appCtx) })
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		a.logger.Warn("Received signal, shutting down", port.Fields{"signal": sig.String()})
	case runErr = <-componentErrors:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	a.logger.Info("Shutdown sequence initiated...", nil)
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", err, nil)
	}

	cancelApp()
	a.logger.Info("Waiting for background processes to finish...", nil)
	wg.Wait()

	a.closeResources()
	return runErr
}

// closeResources безопасен для частично созданного App
func (a *App) closeResources() {
	logErr := func(msg string, err error) {
		if err == nil {
			return
		}
		if a.logger != nil {
			a.logger.Error(msg, err, nil)
			return
		}
		log.Printf("App: %s: %v", msg, err)
	}

	if a.scheduler != nil {
		logErr("Error stopping scheduler", a.scheduler.Close())
	}
	if a.viewsListener != nil {
		logErr("Error closing views listener", a.viewsListener.Close())
	}
	if a.eventProducer != nil {
		logErr("Error closing event producer", a.eventProducer.Close())
	}
	if a.connManager != nil {
		logErr("Error closing RabbitMQ connection manager", a.connManager.Close())
	}
	if a.redisClient != nil {
		err := a.redisClient.Close()
		if errors.Is(err, redis.ErrClosed) {
			err = nil
		}
		logErr("Error closing redis client", err)
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}

	if a.logger != nil {
		a.logger.Info("Application shut down gracefully.", nil)
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			log.Printf("App: Error closing fluent client: %v\n", err)
		}
	}
}
