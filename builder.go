package authgate

import (
	"errors"
	"net/http"

	"authgate/credstore"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by authgate APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	store  credstore.Store
	redis  *redis.Client
	httpc  *http.Client
	sink   EventSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL describes the withbaseurl operation and its observable behavior.
//
// WithBaseURL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithStore describes the withstore operation and its observable behavior.
//
// An explicitly supplied store takes precedence over the configured backend.
func (b *Builder) WithStore(store credstore.Store) *Builder {
	b.store = store
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// Supplying a Redis client selects the Redis-backed credential store unless
// an explicit store was also provided.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// The supplied client is copied before its transport is wrapped with the
// credential interceptor; the caller's client is never mutated.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpc = client
	return b
}

// WithEventSink describes the witheventsink operation and its observable behavior.
//
// WithEventSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	b.config.Events.Enabled = true
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Construction is allocation-only until Build; no I/O happens before the
// first Client method call.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := cloneConfig(b.config)

	if b.redis != nil && b.store == nil {
		cfg.Store.Backend = StoreRedis
		if cfg.Store.RedisAddr == "" {
			cfg.Store.RedisAddr = b.redis.Options().Addr
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		var err error
		switch cfg.Store.Backend {
		case StoreMemory:
			store = credstore.NewMemoryStore()
		case StoreRedis:
			client := b.redis
			if client == nil {
				client = redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr})
			}
			store, err = credstore.NewRedisStore(client, cfg.Store.RedisPrefix)
		case StoreFile:
			var path string
			path, err = cfg.credentialFilePath()
			if err == nil {
				store, err = credstore.NewFileStore(path)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	httpc := b.httpc
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.API.Timeout}
	}
	wrapped := *httpc
	wrapped.Transport = newBearerTransport(httpc.Transport, store)

	c := &Client{
		config:  cfg,
		store:   store,
		httpc:   &wrapped,
		metrics: NewMetrics(cfg.Metrics),
		events:  newEventDispatcher(cfg.Events, b.sink),
	}
	c.guard = NewGuard(store, cfg.Guard)

	return c, nil
}
