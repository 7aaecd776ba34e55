package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/chitts/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMirror struct {
	data    map[string]string
	getErr  error
	setErr  error
	deleted []string
}

func newStubMirror() *stubMirror {
	return &stubMirror{data: map[string]string{}}
}

func (m *stubMirror) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return nil
}

func (m *stubMirror) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return v, nil
}

func (m *stubMirror) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func (m *stubMirror) CartKey(userID string) string { return "cart:" + userID }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestServiceAddWritesMirror(t *testing.T) {
	mirror := newStubMirror()
	svc, err := NewService(mirror, time.Hour, testLogger())
	require.NoError(t, err)

	userID := uuid.New()
	item := testItem("4.50", 2)
	snap, err := svc.Add(context.Background(), userID, item)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.ItemCount)

	raw, ok := mirror.data["cart:"+userID.String()]
	require.True(t, ok)
	var items []Item
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	require.Len(t, items, 1)
	assert.Equal(t, item.ProductID, items[0].ProductID)
}

func TestServiceRehydratesFromMirror(t *testing.T) {
	mirror := newStubMirror()
	userID := uuid.New()
	seeded := []Item{{
		ProductID: uuid.New(),
		Title:     "Root Beer",
		Slug:      "root-beer",
		UnitPrice: decimal.RequireFromString("3.00"),
		Quantity:  2,
	}}
	payload, err := json.Marshal(seeded)
	require.NoError(t, err)
	mirror.data["cart:"+userID.String()] = string(payload)

	svc, err := NewService(mirror, time.Hour, testLogger())
	require.NoError(t, err)

	snap, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "6.00", snap.TotalPriceString())
}

func TestServiceMirrorFailureDoesNotFailCart(t *testing.T) {
	mirror := newStubMirror()
	mirror.setErr = errors.New("connection refused")
	svc, err := NewService(mirror, time.Hour, testLogger())
	require.NoError(t, err)

	snap, err := svc.Add(context.Background(), uuid.New(), testItem("1.00", 1))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.ItemCount)
}

func TestServiceResetClearsMirror(t *testing.T) {
	mirror := newStubMirror()
	svc, err := NewService(mirror, time.Hour, testLogger())
	require.NoError(t, err)

	userID := uuid.New()
	_, err = svc.Add(context.Background(), userID, testItem("1.00", 1))
	require.NoError(t, err)

	snap, err := svc.Reset(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Contains(t, mirror.deleted, "cart:"+userID.String())
}

func TestServiceRequiresUserSession(t *testing.T) {
	svc, err := NewService(nil, time.Hour, testLogger())
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), uuid.Nil, testItem("1.00", 1))
	require.Error(t, err)

	_, err = svc.Get(context.Background(), uuid.Nil)
	require.Error(t, err)
}

func TestServiceCartsAreIsolatedPerUser(t *testing.T) {
	svc, err := NewService(nil, time.Hour, testLogger())
	require.NoError(t, err)

	alice := uuid.New()
	bob := uuid.New()
	_, err = svc.Add(context.Background(), alice, testItem("2.00", 1))
	require.NoError(t, err)

	snap, err := svc.Get(context.Background(), bob)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}
