// Package container builds the application graph from configuration and
// owns the external connections it opens.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/config"
	"github.com/oksasatya/go-ddd-user-registry/internal/application"
	"github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-registry/internal/infrastructure/cache"
	"github.com/oksasatya/go-ddd-user-registry/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-user-registry/internal/infrastructure/messaging"
	pginfra "github.com/oksasatya/go-ddd-user-registry/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-user-registry/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
)

// Store is a user repository that can report its own health.
type Store interface {
	repository.UserRepository
	Ping(ctx context.Context) error
}

type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Metrics *prometheus.Registry

	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher

	// Store is the undecorated adapter; Repo adds index and cache layers.
	Store Store
	Repo  repository.UserRepository
	Users *application.Service
}

// New connects the configured store and the optional side services. Redis,
// Elasticsearch and RabbitMQ are best effort: when unreachable the feature
// is disabled with a warning instead of failing startup.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, Metrics: newRegistry()}

	if err := c.openStore(ctx); err != nil {
		return nil, err
	}
	c.Repo = c.Store

	if cfg.CacheEnabled || cfg.RateLimitReadPerMin > 0 || cfg.RateLimitWritePerMin > 0 {
		c.openRedis(ctx)
	}

	var searcher application.UserSearcher
	if cfg.SearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			helpers.LogWarn(logger, "elasticsearch disabled", err, nil)
		} else {
			c.ES = es
			index := search.NewUserIndex(es, cfg.ESUsersIndex)
			c.Repo = search.NewUserRepository(c.Repo, index, logger)
			searcher = index
		}
	}

	if cfg.CacheEnabled && c.Redis != nil {
		c.Repo = cache.NewUserRepository(c.Repo, c.Redis, cfg.UserCacheTTL, logger)
	}

	var events application.EventPublisher
	if cfg.EventsEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
		if err != nil {
			helpers.LogWarn(logger, "event publishing disabled", err, logrus.Fields{"queue": cfg.RabbitMQEventsQueue})
		} else {
			c.RabbitPub = pub
			events = messaging.NewEventPublisher(pub)
		}
	}

	c.Users = application.NewService(c.Repo, events, searcher, logger)
	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.StorageDriver {
	case config.StorageMemory:
		c.Store = memory.NewUserRepository()
		helpers.LogWarn(c.Logger, "using in-memory storage; data is lost on restart", nil, nil)
		return nil
	case config.StoragePostgres:
		pool, err := pginfra.NewPool(ctx, c.Config.PostgresDSN(), c.Config.DBMaxConns, c.Config.DBMinConns, c.Config.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		if err := pginfra.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("ensure schema: %w", err)
		}
		c.PGPool = pool
		c.Store = pginfra.NewUserRepository(pool)
		return nil
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Config.StorageDriver)
	}
}

func (c *Container) openRedis(ctx context.Context) {
	rdb := helpers.NewRedisClient(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		helpers.LogWarn(c.Logger, "redis unavailable; cache and rate limiting disabled", err, logrus.Fields{"addr": c.Config.RedisAddr})
		_ = rdb.Close()
		return
	}
	c.Redis = rdb
}

// Close releases every connection opened by New.
func (c *Container) Close() {
	c.RabbitPub.Close()
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
