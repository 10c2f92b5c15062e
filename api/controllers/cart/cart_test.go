package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/bakehouse-backend/api/middleware"
	cartsvc "github.com/angelmondragon/bakehouse-backend/internal/cart"
	"github.com/angelmondragon/bakehouse-backend/pkg/db/models"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/angelmondragon/bakehouse-backend/pkg/logger"
)

type stubCatalog map[uuid.UUID]models.Product

func (s stubCatalog) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (s stubCatalog) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type memStore struct {
	carts map[string]cartsvc.Snapshot
}

func (m *memStore) Load(ctx context.Context, sessionID string) (cartsvc.Snapshot, error) {
	return m.carts[sessionID], nil
}

func (m *memStore) Save(ctx context.Context, sessionID string, snap cartsvc.Snapshot) error {
	m.carts[sessionID] = snap
	return nil
}

func (m *memStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type envelope struct {
	Data  cartView `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newHarness(t *testing.T, products ...models.Product) (http.Handler, *memStore) {
	t.Helper()
	catalog := stubCatalog{}
	for _, p := range products {
		catalog[p.ID] = p
	}
	store := &memStore{carts: map[string]cartsvc.Snapshot{}}
	svc, err := cartsvc.NewService(store, catalog, nil, logger.Nop())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.CartSession(nil))
	r.Get("/cart", CartFetch(svc, nil))
	r.Post("/cart/items", CartAddItem(svc, nil))
	r.Patch("/cart/items/{productId}", CartUpdateItem(svc, nil))
	r.Delete("/cart/items/{productId}", CartRemoveItem(svc, nil))
	r.Delete("/cart", CartClear(svc, nil))
	return r, store
}

func pastry() models.Product {
	return models.Product{
		ID:            uuid.New(),
		Name:          "Butter Croissant",
		Category:      enums.ProductCategoryPastries,
		Price:         decimal.NewFromInt(40),
		StockQuantity: 10,
		Status:        enums.ProductStatusInStock,
	}
}

func do(t *testing.T, h http.Handler, method, path, session, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if session != "" {
		req.Header.Set(middleware.CartSessionHeader, session)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return resp, env
}

func TestCartAddItemMergesPastryLines(t *testing.T) {
	p := pastry()
	h, _ := newHarness(t, p)
	session := uuid.NewString()

	resp, _ := do(t, h, http.MethodPost, "/cart/items", session, `{"product_id":"`+p.ID.String()+`","quantity":1}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp, env := do(t, h, http.MethodPost, "/cart/items", session, `{"product_id":"`+p.ID.String()+`","quantity":"0.5"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, env.Data.Lines, 1)
	assert.True(t, env.Data.Lines[0].Quantity.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, env.Data.Subtotal.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, session, resp.Header().Get(middleware.CartSessionHeader))
}

func TestCartAddItemRejectsTinyPastryQuantity(t *testing.T) {
	p := pastry()
	h, store := newHarness(t, p)

	resp, env := do(t, h, http.MethodPost, "/cart/items", uuid.NewString(), `{"product_id":"`+p.ID.String()+`","quantity":0.1}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)
	assert.Equal(t, "minimum quantity is 0.25", env.Error.Message)
	assert.Empty(t, store.carts)
}

func TestCartAddItemRejectsNonNumericQuantity(t *testing.T) {
	p := pastry()
	h, _ := newHarness(t, p)

	resp, env := do(t, h, http.MethodPost, "/cart/items", uuid.NewString(), `{"product_id":"`+p.ID.String()+`","quantity":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)
}

func TestCartUpdateUnknownLineIsNotFound(t *testing.T) {
	p := pastry()
	h, _ := newHarness(t, p)

	resp, env := do(t, h, http.MethodPatch, "/cart/items/"+p.ID.String(), uuid.NewString(), `{"quantity":2}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeNotFound), env.Error.Code)
}

func TestCartRemoveAndClear(t *testing.T) {
	p := pastry()
	h, store := newHarness(t, p)
	session := uuid.NewString()

	do(t, h, http.MethodPost, "/cart/items", session, `{"product_id":"`+p.ID.String()+`","quantity":2}`)

	resp, env := do(t, h, http.MethodDelete, "/cart/items/"+uuid.NewString(), session, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, env.Data.Lines, 1, "removing an unknown product is a no-op")

	resp, env = do(t, h, http.MethodDelete, "/cart", session, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, env.Data.Lines)
	assert.NotContains(t, store.carts, session)
}

func TestCartFetchMintsSession(t *testing.T) {
	h, _ := newHarness(t)
	resp, env := do(t, h, http.MethodGet, "/cart", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get(middleware.CartSessionHeader))
	assert.Equal(t, resp.Header().Get(middleware.CartSessionHeader), env.Data.SessionID)
}
