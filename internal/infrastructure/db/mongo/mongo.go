package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gigboard/marketplace/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second

	defaultHealthInterval = 5 * time.Second
)

const (
	collectionUsers     = "users"
	collectionJobs      = "jobs"
	collectionProposals = "proposals"
)

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
	// Transactions enables multi-document transactions when the deployment
	// is a replica set or sharded cluster.
	Transactions bool
}

// Store is the record store handle shared by the repositories. A Store
// whose server is unreachable stays usable as a value: every operation on it
// reports domain.ErrStoreUnavailable until a health check succeeds again.
type Store struct {
	client           *mongo.Client
	db               *mongo.Database
	wantTransactions bool

	up           atomic.Bool
	transactions atomic.Bool
}

func newStore(client *mongo.Client, db *mongo.Database, wantTransactions bool) *Store {
	return &Store{client: client, db: db, wantTransactions: wantTransactions}
}

// Open creates the MongoDB client and pings the server. When the ping fails
// it returns the error together with a Store that is down but keeps its
// client, so Watch or Ping can bring it back once the server answers.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return &Store{}, fmt.Errorf("mongo connect: %w", err)
	}

	s := newStore(client, client.Database(cfg.Database), cfg.Transactions)
	if _, err := s.check(connectCtx); err != nil {
		return s, fmt.Errorf("mongo ping: %w", err)
	}
	return s, nil
}

// Watch pings the server every interval until ctx is done, so Ready follows
// the server going away and coming back. Indexes are ensured once the server
// is first reached if Open could not do it.
func (s *Store) Watch(ctx context.Context, interval time.Duration, log zerolog.Logger) {
	if s == nil || s.db == nil {
		return
	}
	if interval <= 0 {
		interval = defaultHealthInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	indexed := s.Ready() == nil
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		wasUp := s.up.Load()
		recovered, err := s.check(ctx)
		if err != nil {
			if wasUp {
				log.Error().Err(err).Msg("mongodb connection lost")
			}
			continue
		}
		if recovered {
			log.Info().Bool("transactions", s.transactions.Load()).Msg("mongodb connection restored")
		}
		if !indexed {
			if err := s.EnsureIndexes(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
				continue
			}
			indexed = true
		}
	}
}

// check pings the server and records the outcome. recovered is true when
// the store was down before this call.
func (s *Store) check(ctx context.Context) (recovered bool, err error) {
	if s == nil || s.db == nil {
		return false, domain.ErrStoreUnavailable
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.db.RunCommand(pingCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		s.up.Store(false)
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !s.up.Load() && s.wantTransactions {
		s.transactions.Store(supportsTransactions(pingCtx, s.db))
	}
	return !s.up.Swap(true), nil
}

// Ready reports whether the last health check reached the server.
func (s *Store) Ready() error {
	if s == nil || s.db == nil || !s.up.Load() {
		return domain.ErrStoreUnavailable
	}
	return nil
}

// Atomic reports whether WithinTransaction provides multi-document atomicity.
func (s *Store) Atomic() bool {
	return s.Ready() == nil && s.transactions.Load()
}

// WithinTransaction runs fn inside a MongoDB transaction when Atomic is true
// and as a plain sequence otherwise. fn may be retried on transient errors.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := s.Ready(); err != nil {
		return err
	}
	if !s.transactions.Load() {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return storeErr("start session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

// Ping checks connectivity with the server and updates Ready accordingly.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.check(ctx)
	return err
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(name string) (*mongo.Collection, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	return s.db.Collection(name), nil
}

// supportsTransactions asks the server whether it is a replica set member or
// a mongos router; standalone servers reject transactions.
func supportsTransactions(ctx context.Context, db *mongo.Database) bool {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return false
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid"
}

// storeErr wraps err, marking connectivity failures as domain.ErrStoreUnavailable.
func storeErr(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]*T, error) {
	defer cur.Close(ctx)
	out := []*T{}
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}
