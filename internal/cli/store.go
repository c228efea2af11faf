package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/intake/pkg/adapters/file"
	"github.com/aretw0/intake/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/intake/pkg/adapters/redis"
	"github.com/aretw0/intake/pkg/adapters/sqlite"
	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/session"
	backend "github.com/redis/go-redis/v9"
)

const redisPrefix = "intake:"

// persistence bundles the configured store and its optional distributed locker.
type persistence struct {
	Store  ports.StateStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases the backend connections.
func (p *persistence) Close() error {
	if p == nil || p.close == nil {
		return nil
	}
	return p.close()
}

// Manager returns a session manager over the store.
func (p *persistence) Manager(logger *slog.Logger) *session.Manager {
	opts := []session.Option{session.WithLogger(logger)}
	if p.Locker != nil {
		opts = append(opts, session.WithLocker(p.Locker))
	}
	return session.NewManager(p.Store, opts...)
}

// openPersistence builds the store selected by cfg, sealed when an encryption key is set.
func openPersistence(ctx context.Context, cfg Config, logger *slog.Logger) (*persistence, error) {
	p := &persistence{}

	switch cfg.Store {
	case StoreMemory:
		p.Store = memory.NewStore()
	case StoreFile:
		p.Store = file.NewStore(cfg.StorePath)
	case StoreSQLite:
		store, err := sqlite.Open(ctx, cfg.StorePath)
		if err != nil {
			return nil, err
		}
		p.Store = store
		p.close = store.Close
	case StoreRedis:
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		p.Store = redisAdapter.NewFromClient(client,
			redisAdapter.WithPrefix(redisPrefix+"session:"),
			redisAdapter.WithTTL(cfg.SessionTTL),
		)
		p.Locker = redisAdapter.NewLocker(client, redisPrefix)
		p.close = client.Close
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if cfg.EncryptionKey != "" {
		mw, err := newEncryption(cfg)
		if err != nil {
			return nil, errors.Join(err, p.Close())
		}
		p.Store = middleware.Chain(p.Store, mw)
	}

	logger.Debug("persistence ready", "store", cfg.Store, "encrypted", cfg.EncryptionKey != "", "distributed_lock", p.Locker != nil)
	return p, nil
}

func newEncryption(cfg Config) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	var fallbacks [][]byte
	for i, k := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("invalid fallback key #%d: %w", i+1, err)
		}
		fallbacks = append(fallbacks, key)
	}
	return middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    active,
		FallbackKeys: fallbacks,
	})
}
