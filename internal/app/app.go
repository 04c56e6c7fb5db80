package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gw-rate-converter/internal/api/handlers"
	"gw-rate-converter/internal/api/middlew"
	"gw-rate-converter/internal/config"
	"gw-rate-converter/internal/custom_err"
	"gw-rate-converter/internal/kafka"
	"gw-rate-converter/internal/quote_client"
	"gw-rate-converter/internal/server"
	"gw-rate-converter/internal/service"
	"gw-rate-converter/internal/state"
	"gw-rate-converter/pkg/logger"

	"github.com/go-chi/chi/v5/middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// QuotesHealthService is the health service name that follows the outcome of the latest conversion.
const QuotesHealthService = "converter.quotes"

type App struct {
	log           *slog.Logger
	server        *server.Server
	logFile       *os.File
	cfg           *config.Config
	store         *state.Store
	coordinator   *service.Coordinator
	kafkaProducer kafka.Producer
	grpcServer    *grpc.Server
	health        *health.Server
	listener      net.Listener
	stopWatch     func()
}

func NewApp() (*App, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации конфига: %w", err)
	}

	loggerWithFile := logger.NewLoggerWithFile(cfg.Log.File, logger.ParseLevel(cfg.Log.Level))
	log := loggerWithFile.Logger
	log.Info("инициализация приложения")
	log.Info("конфигурация загружена",
		slog.String("port", cfg.HTTPPort),
		slog.String("grpc_port", cfg.GRPCPort),
		slog.Any("pairs", cfg.Quote.Pairs))

	var kafkaProducer kafka.Producer
	if cfg.Kafka.Enabled {
		log.Info("инициализация kafka producer", slog.Any("brokers", cfg.Kafka.Brokers))
		kafkaProducer, err = kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации kafka: %w", err)
		}
	} else {
		log.Info("kafka отключен в конфигурации")
		kafkaProducer = kafka.NewNoOpProducer(log)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания listener: %w", err)
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	log.Info("gRPC health сервер инициализирован", slog.String("port", cfg.GRPCPort))

	srv := server.NewServer(cfg.HTTPPort)
	log.Info("сервер инициализирован", slog.String("port", cfg.HTTPPort))
	srv.Router.Use(middleware.RequestID)
	srv.Router.Use(middlew.WithLogger(log))
	srv.Router.Use(middleware.RealIP)
	srv.Router.Use(middleware.Recoverer)
	srv.RegisterSwagger()

	return &App{
		log:           log,
		server:        srv,
		logFile:       loggerWithFile.LogFile,
		cfg:           cfg,
		store:         state.NewStore(),
		kafkaProducer: kafkaProducer,
		grpcServer:    grpcServer,
		health:        healthServer,
		listener:      listener,
	}, nil
}

func (a *App) BuildConversionLayer() error {
	pairs, err := a.cfg.Quote.CurrencyPairs()
	if err != nil {
		a.log.Error("некорректные валютные пары", slog.String("error", err.Error()))
		return err
	}

	client := quote_client.NewRateClient(quote_client.Options{
		BaseURL: a.cfg.Quote.BaseURL,
		APIKey:  a.cfg.Quote.APIKey,
		Timeout: a.cfg.Quote.Timeout,
	}, a.log)

	a.coordinator = service.NewCoordinator(client, a.store, a.kafkaProducer, pairs, a.log)
	conversionHandler := handlers.NewConversionHandler(a.coordinator)

	a.server.Router.Get("/api/v1/pairs", conversionHandler.GetPairs)
	a.server.Router.Get("/api/v1/conversion", conversionHandler.GetConversion)
	a.server.Router.Post("/api/v1/conversion", conversionHandler.Convert)
	a.server.Router.Delete("/api/v1/conversion", conversionHandler.ClearConversion)

	a.health.SetServingStatus(QuotesHealthService, healthpb.HealthCheckResponse_SERVING)
	a.stopWatch = WatchCommits(a.store, a.health, a.log)

	a.log.Info("слой 'conversion' собран и маршруты зарегистрированы")
	return nil
}

// WatchCommits keeps the quotes health status in line with committed snapshots.
func WatchCommits(store *state.Store, hs *health.Server, log *slog.Logger) func() {
	commits, cancel := store.Subscribe(16)

	go func() {
		for snap := range commits {
			if snap.IsLoading {
				continue
			}
			status := healthpb.HealthCheckResponse_SERVING
			switch custom_err.Code(snap.Err) {
			case "network_error", "timeout":
				status = healthpb.HealthCheckResponse_NOT_SERVING
			}
			hs.SetServingStatus(QuotesHealthService, status)
			log.Debug("снимок зафиксирован",
				slog.Uint64("generation", snap.Generation),
				slog.Int("results", len(snap.Results)),
				slog.String("error", custom_err.Code(snap.Err)))
		}
	}()

	return cancel
}

func (a *App) Run() error {
	a.log.Info("сервер запускается")

	serverErr := make(chan error, 2)
	go func() {
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	}()
	go func() {
		if err := a.grpcServer.Serve(a.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serverErr <- fmt.Errorf("ошибка запуска gRPC сервера: %w", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdownChan:
		a.log.Info("получен сигнал завершения", slog.String("signal", sig.String()))
	}

	a.log.Info("приложение останавливается")
	a.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("ошибка при остановке http сервера", slog.String("error", err.Error()))
	}

	if a.coordinator != nil {
		a.log.Info("остановка conversion coordinator")
		if err := a.coordinator.Shutdown(ctx); err != nil {
			a.log.Error("ошибка при остановке coordinator", slog.String("error", err.Error()))
		}
	}
	if a.stopWatch != nil {
		a.stopWatch()
	}

	done := make(chan struct{})
	go func() {
		a.log.Info("остановка gRPC сервера")
		a.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		a.log.Info("gRPC сервер остановлен")
	case <-ctx.Done():
		a.log.Warn("timeout graceful shutdown, force stop")
		a.grpcServer.Stop()
	}

	if a.kafkaProducer != nil {
		a.log.Info("закрытие kafka producer")
		if err := a.kafkaProducer.Close(); err != nil {
			a.log.Error("ошибка при закрытии kafka producer", slog.String("error", err.Error()))
		}
	}

	a.log.Info("закрытие файла логов")
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			a.log.Error("ошибка при закрытии файла логов", slog.String("error", err.Error()))
		}
	}

	a.log.Info("приложение остановлено")
	return nil
}
