package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chitts/storefront-backend/pkg/db/models"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
)

type stubOrdersService struct {
	orders   []models.Order
	order    *models.Order
	err      error
	lastSlug string
}

func (s *stubOrdersService) List(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orders, s.err
}

func (s *stubOrdersService) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*models.Order, error) {
	s.lastSlug = slug
	return s.order, s.err
}

func ordersRouter(svc *stubOrdersService) chi.Router {
	logg := testLogger()
	r := chi.NewRouter()
	r.Get("/orders", OrderList(svc, logg))
	r.Get("/orders/{slug}", OrderDetail(svc, logg))
	return r
}

func TestOrderList(t *testing.T) {
	svc := &stubOrdersService{orders: []models.Order{{Slug: "order-abc123def"}}}

	rec := httptest.NewRecorder()
	ordersRouter(svc).ServeHTTP(rec, authedRequest(t, http.MethodGet, "/orders", nil, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Len(t, env["data"], 1)
}

func TestOrderDetail(t *testing.T) {
	svc := &stubOrdersService{order: &models.Order{Slug: "order-abc123def"}}

	rec := httptest.NewRecorder()
	ordersRouter(svc).ServeHTTP(rec, authedRequest(t, http.MethodGet, "/orders/order-abc123def", nil, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "order-abc123def", svc.lastSlug)
}

func TestOrderDetailNotFound(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}

	rec := httptest.NewRecorder()
	ordersRouter(svc).ServeHTTP(rec, authedRequest(t, http.MethodGet, "/orders/order-unknown00", nil, uuid.New()))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderListRequiresSession(t *testing.T) {
	rec := httptest.NewRecorder()
	ordersRouter(&stubOrdersService{}).ServeHTTP(rec, authedRequest(t, http.MethodGet, "/orders", nil, uuid.Nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
