package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"catdistribution-api/internal/cluster"
	"catdistribution-api/internal/config"
	"catdistribution-api/internal/generator"
	httpx "catdistribution-api/internal/http"
	"catdistribution-api/internal/imageapi"
	"catdistribution-api/internal/logging"
	"catdistribution-api/internal/oplog"
	"catdistribution-api/internal/sink/kafka"
	natssink "catdistribution-api/internal/sink/nats"
	"catdistribution-api/internal/sink/rabbitmq"
	"catdistribution-api/internal/store"
	"catdistribution-api/internal/store/memory"
	mongostore "catdistribution-api/internal/store/mongo"
	"catdistribution-api/internal/store/postgres"
	"catdistribution-api/internal/stream"
)

func main() {
	cfg := config.New()
	logFile := logging.Setup(cfg.LogLevel, cfg.LogFile)
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cats, users, closeStore := openStore(ctx, cfg)
	defer closeStore()
	cachedUsers := store.NewCachedUsers(users, cfg.UserCacheTTL)

	ops, err := oplog.NewFileStore(cfg.OplogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("oplog")
	}

	node := hostname()
	hub := stream.NewHub(cfg.HubHistory)
	bc := stream.NewBroadcaster(node, hub)
	wireSinks(ctx, cfg, node, hub, bc)

	var images generator.ImageSource = generator.StaticImage(cfg.ImageURL)
	if cfg.ImageSource == "api" {
		images = imageapi.New(cfg.CatAPIURL, cfg.CatAPIKey, 5*time.Second)
	}
	builder := generator.NewBuilder(cats, generator.BuilderConfig{
		MaxNameAttempts: cfg.MaxNameAttempts,
		Image:           images,
		FallbackImage:   cfg.ImageURL,
	})
	gen := generator.NewController(generator.Config{
		Interval:               cfg.TickInterval,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
	}, builder, cats, cachedUsers, bc)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httpx.Router(cfg, httpx.Deps{
			Hub:       hub,
			Generator: gen,
			Cats:      cats,
			Users:     cachedUsers,
			Oplog:     ops,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Str("node", node).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	gen.Stop()
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdown)
	gen.Wait()
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return uuid.NewString()[:8]
	}
	return h + "-" + uuid.NewString()[:8]
}

func openStore(ctx context.Context, cfg *config.Config) (store.CatRepository, store.UserRepository, func()) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres")
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("postgres migrate")
		}
		return postgres.NewCatsRepo(db), postgres.NewUsersRepo(db), func() { _ = db.Close() }
	case "mongo":
		db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("mongo")
		}
		return mongostore.NewCatsRepo(db), mongostore.NewUsersRepo(db), func() {
			_ = db.Client().Disconnect(context.Background())
		}
	default:
		return memory.NewCatRepo(), memory.NewUserRepo(), func() {}
	}
}

// wireSinks adds the optional cluster relay and broker forwarders to bc.
// A sink that cannot connect is logged and skipped.
func wireSinks(ctx context.Context, cfg *config.Config, node string, hub *stream.Hub, bc *stream.Broadcaster) {
	if cfg.RedisEnabled {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis url, using it as addr")
			opt = &redis.Options{Addr: cfg.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, cluster relay disabled")
		} else {
			relay := cluster.New(rdb, cfg.RedisChannel, node, hub)
			bc.Add(relay)
			go func() {
				if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
					log.Error().Err(err).Msg("cluster relay")
				}
			}()
		}
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) > 0 {
		p := kafka.New(cfg.KafkaBrokers, cfg.KafkaTopic)
		bc.Add(p)
		go func() {
			<-ctx.Done()
			_ = p.Close()
		}()
	}

	if cfg.AmqpEnabled {
		p, err := rabbitmq.New(cfg.AmqpURL, cfg.AmqpExchange)
		if err != nil {
			log.Warn().Err(err).Msg("amqp unavailable, sink disabled")
		} else {
			bc.Add(p)
			go func() {
				<-ctx.Done()
				_ = p.Close()
			}()
		}
	}

	if cfg.NatsEnabled {
		p, err := natssink.New(cfg.NatsURL, cfg.NatsSubject)
		if err != nil {
			log.Warn().Err(err).Msg("nats unavailable, sink disabled")
		} else {
			bc.Add(p)
			go func() {
				<-ctx.Done()
				p.Close()
			}()
		}
	}
}
