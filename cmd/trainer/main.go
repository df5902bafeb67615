package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"runtime"
	"time"

	"github.com/absmach/mltorrent"
	"github.com/absmach/mltorrent/pkg/engine"
	"github.com/absmach/mltorrent/pkg/mqtt"
	"github.com/absmach/mltorrent/pkg/storage"
	"github.com/absmach/mltorrent/pkg/stream"
	"github.com/absmach/mltorrent/trainer"
	"github.com/absmach/mltorrent/trainer/api"
	"github.com/absmach/mltorrent/trainer/middleware"
	"github.com/absmach/supermq/pkg/jaeger"
	"github.com/absmach/supermq/pkg/prometheus"
	"github.com/absmach/supermq/pkg/server"
	httpserver "github.com/absmach/supermq/pkg/server/http"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	svcName         = "trainer"
	defHTTPPort     = "9090"
	envPrefix       = "MLT_TRAINER_"
	envPrefixHTTP   = "MLT_TRAINER_HTTP_"
	envPrefixMQTT   = "MLT_TRAINER_MQTT_"
	envPrefixStream = "MLT_TRAINER_STREAM_"
	pathEnv         = ".env"
	shutdownTimeout = 10 * time.Second
)

type envConfig struct {
	LogLevel     string        `env:"MLT_TRAINER_LOG_LEVEL"     envDefault:"info"`
	InstanceID   string        `env:"MLT_TRAINER_INSTANCE_ID"`
	ConfigFile   string        `env:"MLT_TRAINER_CONFIG_FILE"`
	Seed         uint64        `env:"MLT_TRAINER_SEED"          envDefault:"42"`
	TickInterval time.Duration `env:"MLT_TRAINER_TICK_INTERVAL" envDefault:"1500ms"`
	MaxEpochs    int           `env:"MLT_TRAINER_MAX_EPOCHS"    envDefault:"50"`
	AutoStart    bool          `env:"MLT_TRAINER_AUTO_START"    envDefault:"false"`
	Topic        string        `env:"MLT_TRAINER_TOPIC"         envDefault:"mltorrent"`
	MQTTEnabled  bool          `env:"MLT_TRAINER_MQTT_ENABLED"  envDefault:"false"`
	OTELURL      url.URL       `env:"MLT_TRAINER_OTEL_URL"`
	TraceRatio   float64       `env:"MLT_TRAINER_TRACE_RATIO"   envDefault:"0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	trainerCfg, err := loadTrainerConfig(cfg)
	if err != nil {
		logger.Error("failed to load simulation configuration", slog.String("error", err.Error()))

		return
	}

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := jaeger.NewProvider(ctx, svcName, cfg.OTELURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			logger.Error("failed to initialize opentelemetry", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	storageCfg := storage.Config{}
	if err := env.ParseWithOptions(&storageCfg, env.Options{Prefix: envPrefix}); err != nil {
		logger.Error("failed to load storage configuration", slog.String("error", err.Error()))

		return
	}
	repos, err := storage.NewRepositories(storageCfg)
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("type", storageCfg.Type), slog.String("error", err.Error()))

		return
	}
	if repos.Closer != nil {
		defer repos.Closer.Close()
	}

	streamCfg := stream.DefaultConfig()
	if err := env.ParseWithOptions(&streamCfg, env.Options{Prefix: envPrefixStream}); err != nil {
		logger.Error("failed to load stream configuration", slog.String("error", err.Error()))

		return
	}
	hub := stream.NewHub(streamCfg, logger)
	defer hub.Close()

	notifiers := []trainer.Notifier{trainer.NewStreamNotifier(hub)}

	var pubsub mqtt.PubSub
	if cfg.MQTTEnabled {
		mqttCfg := mqtt.Config{WillTopic: cfg.Topic + "/status"}
		if err := env.ParseWithOptions(&mqttCfg, env.Options{Prefix: envPrefixMQTT}); err != nil {
			logger.Error("failed to load mqtt configuration", slog.String("error", err.Error()))

			return
		}
		pubsub, err = mqtt.NewPubSub(mqttCfg, svcName+"-"+cfg.InstanceID, logger)
		if err != nil {
			logger.Error("failed to initialize mqtt pubsub", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := pubsub.Disconnect(context.Background()); err != nil {
				logger.Warn("failed to disconnect mqtt client", slog.Any("error", err))
			}
		}()
		notifiers = append(notifiers, trainer.NewMQTTNotifier(pubsub, cfg.Topic))
	}

	svc, err := trainer.NewService(trainerCfg, repos.Runs, pubsub, logger, notifiers...)
	if err != nil {
		logger.Error("failed to create trainer service", slog.String("error", err.Error()))

		return
	}
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	if pubsub != nil {
		if err := svc.Subscribe(ctx); err != nil {
			logger.Error("failed to subscribe to control topic", slog.String("error", err.Error()))

			return
		}
	}

	if cfg.AutoStart {
		if _, err := svc.Start(ctx); err != nil {
			logger.Error("failed to start training", slog.String("error", err.Error()))

			return
		}
	}

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))

		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, hub, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shut down trainer", slog.Any("error", err))
	}
}

func loadTrainerConfig(cfg envConfig) (trainer.Config, error) {
	engineCfg := engine.DefaultConfig()
	if err := env.ParseWithOptions(&engineCfg, env.Options{Prefix: envPrefix}); err != nil {
		return trainer.Config{}, err
	}
	if engineCfg.Workers == 0 {
		engineCfg.Workers = runtime.GOMAXPROCS(0)
	}

	tc := trainer.Config{
		Engine:       engineCfg,
		Seed:         cfg.Seed,
		TickInterval: cfg.TickInterval,
		MaxEpochs:    cfg.MaxEpochs,
		Topic:        cfg.Topic,
	}
	if cfg.ConfigFile == "" {
		return tc, nil
	}

	file, err := mltorrent.LoadConfig(cfg.ConfigFile)
	if err != nil {
		return trainer.Config{}, err
	}

	return file.Simulation.Apply(tc)
}
