package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/core/id"
	"stokpanel/internal/domain/auth"
	"stokpanel/internal/domain/catalogue"
	"stokpanel/internal/domain/product"
	"stokpanel/internal/domain/stockcount"
	"stokpanel/internal/importer"
	"stokpanel/internal/netstatus"
	"stokpanel/pkg/logger"
)

type memSessions struct {
	flags map[string]bool
}

func (m *memSessions) Put(ctx context.Context, sessionID string) error {
	m.flags[sessionID] = true
	return nil
}

func (m *memSessions) Exists(ctx context.Context, sessionID string) (bool, error) {
	return m.flags[sessionID], nil
}

func (m *memSessions) Delete(ctx context.Context, sessionID string) error {
	delete(m.flags, sessionID)
	return nil
}

type memRepo struct {
	items []*product.Product
}

func (r *memRepo) ListPage(ctx context.Context, limit int, after *product.Cursor) ([]*product.Product, error) {
	if len(r.items) > limit {
		return r.items[:limit], nil
	}
	return r.items, nil
}

func (r *memRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	return r.items, nil
}

func (r *memRepo) GetByID(ctx context.Context, itemID id.ID) (*product.Product, error) {
	for _, p := range r.items {
		if p.ID == itemID {
			return p.Clone(), nil
		}
	}
	return nil, apperror.NewNotFound("products", itemID.String())
}

func (r *memRepo) Create(ctx context.Context, item *product.Product) error {
	r.items = append([]*product.Product{item}, r.items...)
	return nil
}

func (r *memRepo) Update(ctx context.Context, item *product.Product) error {
	for i, p := range r.items {
		if p.ID == item.ID {
			r.items[i] = item
			return nil
		}
	}
	return apperror.NewNotFound("products", item.ID.String())
}

func (r *memRepo) Delete(ctx context.Context, itemID id.ID) error {
	for i, p := range r.items {
		if p.ID == itemID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("products", itemID.String())
}

func (r *memRepo) BatchWrite(ctx context.Context, ops []product.BatchOp) error {
	for _, op := range ops {
		switch op.Kind {
		case product.BatchCreate:
			_ = r.Create(ctx, op.Item)
		case product.BatchUpdate:
			_ = r.Update(ctx, op.Item)
		}
	}
	return nil
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	repo := &memRepo{items: []*product.Product{
		product.New("8690001", "Çay", 12, decimal.RequireFromString("19.99")),
		product.New("8690002", "Kahve", 3, decimal.RequireFromString("42.00")),
	}}

	sessions := &memSessions{flags: make(map[string]bool)}
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	authService := auth.NewService(auth.Config{Username: "admin", Password: "sifre123"}, sessions, jwtService)

	ctl := catalogue.NewController(catalogue.Config{Repo: repo})
	pipeline := importer.NewPipeline(repo)
	counts := stockcount.NewService(repo, ctl)

	return NewRouter(RouterConfig{
		Logger:       logger.Default(),
		AuthService:  authService,
		JWTValidator: jwtService,
		Sessions:     sessions,
		Catalogue:    ctl,
		ProductRepo:  repo,
		Pipeline:     pipeline,
		StockCount:   counts,
		Monitor:      netstatus.NewFlag(true),
		DB:           okPinger{},
		Redis:        okPinger{},
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "",
		`{"username":"admin","password":"sifre123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRouter_ProductsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), apperror.CodeUnauthorized)
}

func TestRouter_LoginRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "",
		`{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ProductsFlow(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var list struct {
		Items []struct {
			Name  string `json:"name"`
			Price string `json:"price"`
		} `json:"items"`
		HasMore bool `json:"hasMore"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Çay", list.Items[0].Name)
	assert.Equal(t, "19.99", list.Items[0].Price)
	assert.False(t, list.HasMore)

	// Create one and read the stats.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", token,
		`{"barcode":"111","name":"Su","stock":5,"price":"1.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/stats", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalItems":3`)
}

func TestRouter_LogoutEndsSession(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", token, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The token still parses, but the session flag is gone.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/products", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_TemplateDownload(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/imports/template", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "urun_sablonu.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\uFEFF"))
	assert.Contains(t, rec.Body.String(), "Barkod,İsim,Stok,Fiyat")
}

func TestRouter_StockCountFlow(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	// Prime the catalogue view so reconciliation can match barcodes.
	rec := doJSON(t, router, http.MethodGet, "/api/v1/products", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/stock-counts/scan", token,
		`{"barcode":"8690001","quantity":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Barkod 8690001 eklendi: 4 adet")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/stock-counts/save", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"saved":1`)

	// Counted quantity overwrote the stock.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/search?q=8690001", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stock":4`)
}

func TestRouter_HealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
