package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/chitts/storefront-backend/pkg/logger"
	"github.com/chitts/storefront-backend/pkg/redis"
	"github.com/google/uuid"
)

// Mirror persists cart contents so a cart survives process restarts. The
// redis client satisfies this; failures are logged and never surfaced to the
// caller because the in-memory store stays authoritative.
type Mirror interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

// Service manages per-user carts with an optional Redis mirror.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (Snapshot, error)
	Add(ctx context.Context, userID uuid.UUID, item Item) (Snapshot, error)
	Increment(ctx context.Context, userID, productID uuid.UUID) (Snapshot, error)
	Decrement(ctx context.Context, userID, productID uuid.UUID) (Snapshot, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (Snapshot, error)
	Reset(ctx context.Context, userID uuid.UUID) (Snapshot, error)
}

type service struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*Store

	mirror    Mirror
	mirrorTTL time.Duration
	logg      *logger.Logger
}

// NewService builds a cart service. mirror may be nil when mirroring is
// disabled.
func NewService(mirror Mirror, mirrorTTL time.Duration, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		stores:    make(map[uuid.UUID]*Store),
		mirror:    mirror,
		mirrorTTL: mirrorTTL,
		logg:      logg,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	if userID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	store, hydrate := s.storeFor(userID)
	if hydrate {
		s.rehydrate(ctx, userID, store)
	}
	return store.Snapshot(), nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, item Item) (Snapshot, error) {
	if userID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	if item.ProductID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if item.UnitPrice.IsNegative() {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	store, hydrate := s.storeFor(userID)
	if hydrate {
		s.rehydrate(ctx, userID, store)
	}
	snap := store.Add(item)
	s.writeMirror(ctx, userID, snap)
	return snap, nil
}

func (s *service) Increment(ctx context.Context, userID, productID uuid.UUID) (Snapshot, error) {
	return s.mutate(ctx, userID, productID, (*Store).Increment)
}

func (s *service) Decrement(ctx context.Context, userID, productID uuid.UUID) (Snapshot, error) {
	return s.mutate(ctx, userID, productID, (*Store).Decrement)
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) (Snapshot, error) {
	return s.mutate(ctx, userID, productID, (*Store).Remove)
}

func (s *service) Reset(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	if userID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	store, _ := s.storeFor(userID)
	snap := store.Reset()
	if s.mirror != nil {
		ctx = s.logg.WithUserID(ctx, userID.String())
		if err := s.mirror.Del(ctx, s.mirror.CartKey(userID.String())); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "deleting cart mirror")
		}
	}
	return snap, nil
}

func (s *service) mutate(ctx context.Context, userID, productID uuid.UUID, op func(*Store, uuid.UUID) Snapshot) (Snapshot, error) {
	if userID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	if productID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	store, hydrate := s.storeFor(userID)
	if hydrate {
		s.rehydrate(ctx, userID, store)
	}
	snap := op(store, productID)
	s.writeMirror(ctx, userID, snap)
	return snap, nil
}

// storeFor returns the user's store, reporting whether it was just created
// and therefore needs hydration from the mirror.
func (s *service) storeFor(userID uuid.UUID) (*Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, ok := s.stores[userID]
	if ok {
		return store, false
	}
	store = NewStore()
	s.stores[userID] = store
	return store, true
}

func (s *service) rehydrate(ctx context.Context, userID uuid.UUID, store *Store) {
	if s.mirror == nil {
		return
	}
	ctx = s.logg.WithUserID(ctx, userID.String())

	raw, err := s.mirror.Get(ctx, s.mirror.CartKey(userID.String()))
	if err != nil {
		if !redis.IsNil(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "reading cart mirror")
		}
		return
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "decoding cart mirror")
		return
	}
	store.Replace(items)
}

func (s *service) writeMirror(ctx context.Context, userID uuid.UUID, snap Snapshot) {
	if s.mirror == nil {
		return
	}
	ctx = s.logg.WithUserID(ctx, userID.String())

	payload, err := json.Marshal(snap.Items)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "encoding cart mirror")
		return
	}
	if err := s.mirror.Set(ctx, s.mirror.CartKey(userID.String()), payload, s.mirrorTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "writing cart mirror")
	}
}
