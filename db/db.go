package db

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

// ConnectFunc opens and verifies a client for uri.
type ConnectFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// SetupFunc runs once against a freshly connected database, e.g. to create indexes.
type SetupFunc func(ctx context.Context, db *mongo.Database) error

// Handle is a lazily established Mongo connection shared by every request.
// Concurrent first callers wait on the same connect attempt; a failed attempt
// is not cached, so the next caller tries again.
type Handle struct {
	uri     string
	dbName  string
	timeout time.Duration
	connect ConnectFunc
	setup   []SetupFunc

	group  singleflight.Group
	mu     sync.RWMutex
	client *mongo.Client
}

type Option func(*Handle)

func WithConnectFunc(fn ConnectFunc) Option {
	return func(h *Handle) { h.connect = fn }
}

func WithConnectTimeout(d time.Duration) Option {
	return func(h *Handle) { h.timeout = d }
}

// WithSetup registers fn to run after the connection is first established.
// Setup errors are logged and do not fail the connection.
func WithSetup(fn SetupFunc) Option {
	return func(h *Handle) { h.setup = append(h.setup, fn) }
}

func NewHandle(uri, dbName string, opts ...Option) *Handle {
	h := &Handle{
		uri:     uri,
		dbName:  dbName,
		timeout: 10 * time.Second,
		connect: OpenMongo,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// OpenMongo connects to uri and pings the primary before returning.
func OpenMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

func (h *Handle) cached() *mongo.Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.client
}

// Client returns the shared client, connecting on first use.
func (h *Handle) Client(ctx context.Context) (*mongo.Client, error) {
	if c := h.cached(); c != nil {
		return c, nil
	}

	v, err, _ := h.group.Do("connect", func() (any, error) {
		if c := h.cached(); c != nil {
			return c, nil
		}

		// The attempt is shared by every waiter, so it must outlive the
		// request that happened to start it.
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer cancel()

		log.Debugf("connecting to document store, database %q", h.dbName)
		c, err := h.connect(cctx, h.uri)
		if err != nil {
			log.Errorf("document store connection failed: %v", err)
			return nil, err
		}

		for _, fn := range h.setup {
			if err := fn(cctx, c.Database(h.dbName)); err != nil {
				log.Warnf("document store setup: %v", err)
			}
		}

		h.mu.Lock()
		h.client = c
		h.mu.Unlock()
		log.Info("connected to document store")
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Client), nil
}

func (h *Handle) Database(ctx context.Context) (*mongo.Database, error) {
	c, err := h.Client(ctx)
	if err != nil {
		return nil, err
	}
	return c.Database(h.dbName), nil
}

func (h *Handle) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	d, err := h.Database(ctx)
	if err != nil {
		return nil, err
	}
	return d.Collection(name), nil
}

// Disconnect closes the cached client, if any. The handle may reconnect later.
func (h *Handle) Disconnect(ctx context.Context) error {
	h.mu.Lock()
	c := h.client
	h.client = nil
	h.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Disconnect(ctx)
}

// Ping verifies the store is reachable, connecting first if needed.
func (h *Handle) Ping(ctx context.Context) error {
	c, err := h.Client(ctx)
	if err != nil {
		return err
	}
	return c.Ping(ctx, nil)
}
