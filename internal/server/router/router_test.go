package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockpilot/internal/cart"
	"github.com/mamadbah2/stockpilot/internal/checkout"
	"github.com/mamadbah2/stockpilot/internal/config"
	"github.com/mamadbah2/stockpilot/internal/downloads"
	"github.com/mamadbah2/stockpilot/internal/inventory"
	"github.com/mamadbah2/stockpilot/internal/server/handlers"
	"github.com/mamadbah2/stockpilot/internal/service/reporting"
	"github.com/mamadbah2/stockpilot/internal/service/terminal"
	"github.com/mamadbah2/stockpilot/internal/session"
	"github.com/mamadbah2/stockpilot/pkg/clients/stockpilot"
	"github.com/mamadbah2/stockpilot/pkg/pdf"
)

const catalogJSON = `[
	{"id":1,"sku":"A-1","nombre":"Arroz","precio_compra":30,"precio_venta":50,"stock_actual":10,"punto_reorden":2},
	{"id":2,"sku":"B-2","nombre":"Frijol","precio_compra":60,"precio_venta":75,"stock_actual":0,"punto_reorden":1}
]`

// fakeBackend emulates the StockPilot API.
type fakeBackend struct {
	expired       atomic.Bool
	settingsCalls atomic.Int32
	sales         atomic.Int32
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/token" {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.PostForm.Get("username") == "admin" && r.PostForm.Get("password") == "secret":
			_, _ = io.WriteString(w, `{"access_token":"tok-admin","token_type":"bearer","rol":"admin"}`)
		case r.PostForm.Get("username") == "caja1" && r.PostForm.Get("password") == "1234":
			_, _ = io.WriteString(w, `{"access_token":"tok-caja1","token_type":"bearer","rol":"empleado"}`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Usuario o contraseña incorrectos"}`)
		}
		return
	}

	if b.expired.Load() || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer tok-") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Could not validate credentials"}`)
		return
	}

	switch r.Method + " " + r.URL.Path {
	case "GET /productos/":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, catalogJSON)
	case "POST /ventas/checkout":
		b.sales.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"mensaje":"Venta exitosa"}`)
	case "POST /ventas/ticket_pdf":
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.4 ticket")
	case "GET /configuracion/":
		b.settingsCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"nombre_tienda":"Abarrotes Lupita","direccion":"","telefono":"","mensaje_ticket":""}`)
	case "GET /reportes/corte_dia":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"fecha":"2026-10-19","total_vendido":150.5,"items_vendidos":3,"transacciones":1}`)
	default:
		http.NotFound(w, r)
	}
}

type stack struct {
	backend *fakeBackend
	engine  http.Handler
}

func newStack(t *testing.T) *stack {
	t.Helper()
	backend := &fakeBackend{}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	api := stockpilot.NewClient(config.APIConfig{BaseURL: server.URL}, nil)
	store, err := session.NewStore(api, &session.MemoryStorage{}, nil)
	require.NoError(t, err)
	api.BindSession(store)

	cache := inventory.NewCache(api, nil)
	c := cart.New(cache)
	dir := downloads.NewDir(t.TempDir())
	flow := checkout.NewFlow(c, api, cache, dir, nil)
	term := terminal.NewService(api, store, cache, c, flow, dir, nil)
	reports := reporting.NewService(api, cache, nil, nil, pdf.NewGenerator(), time.UTC, nil)

	return &stack{backend: backend, engine: New(handlers.NewHandler(term, reports, nil), nil)}
}

func (s *stack) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func (s *stack) login(t *testing.T, username, password string) {
	t.Helper()
	rec, _ := s.do(t, http.MethodPost, "/api/session", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	s := newStack(t)
	rec, body := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestLoginWrongPassword(t *testing.T) {
	s := newStack(t)

	rec, body := s.do(t, http.MethodPost, "/api/session", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Usuario o contraseña incorrectos", body["error"])

	rec, _ = s.do(t, http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaleFlow(t *testing.T) {
	s := newStack(t)
	s.login(t, "admin", "secret")

	rec, body := s.do(t, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", body["role"])

	rec, body = s.do(t, http.MethodPost, "/api/cart/items", map[string]int{"product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec, body = s.do(t, http.MethodPost, "/api/cart/items", map[string]int{"product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 100, body["total"])

	rec, body = s.do(t, http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.EqualValues(t, 100, body["total"])
	assert.Contains(t, body["ticket_path"], "ticket_")
	assert.Equal(t, int32(1), s.backend.sales.Load())

	_, body = s.do(t, http.MethodGet, "/api/cart", nil)
	assert.Empty(t, body["lines"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	s := newStack(t)
	s.login(t, "admin", "secret")

	rec, body := s.do(t, http.MethodPost, "/api/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Agrega productos antes de cobrar", body["error"])
	assert.Zero(t, s.backend.sales.Load())
}

func TestAddSoldOutProduct(t *testing.T) {
	s := newStack(t)
	s.login(t, "admin", "secret")

	rec, body := s.do(t, http.MethodPost, "/api/cart/items", map[string]int{"product_id": 2})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Producto agotado", body["error"])
}

func TestExpiredTokenLogsOut(t *testing.T) {
	s := newStack(t)
	s.login(t, "admin", "secret")
	s.backend.expired.Store(true)

	rec, _ := s.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCashierCannotReadSettings(t *testing.T) {
	s := newStack(t)
	s.login(t, "caja1", "1234")

	rec, _ := s.do(t, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, s.backend.settingsCalls.Load())
}

func TestScanUnknownCode(t *testing.T) {
	s := newStack(t)
	s.login(t, "admin", "secret")

	rec, body := s.do(t, http.MethodPost, "/api/scan", map[string]string{"code": "Z-9"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Z-9", body["sku"])

	rec, body = s.do(t, http.MethodPost, "/api/scan", map[string]string{"code": "A-1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Arroz", body["nombre"])
}

func TestFinanceReport(t *testing.T) {
	s := newStack(t)
	s.login(t, "admin", "secret")

	rec, body := s.do(t, http.MethodGet, "/api/reports/finance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 500, body["capital_at_sale"])
	assert.EqualValues(t, 300, body["capital_at_cost"])
	assert.EqualValues(t, 40, body["margin_percent"])
	assert.Equal(t, true, body["healthy"])
}

func TestCloseDay(t *testing.T) {
	s := newStack(t)
	s.login(t, "admin", "secret")

	rec, body := s.do(t, http.MethodPost, "/api/reports/close-day", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, body["summary"], "Abarrotes Lupita")

	rec, _ = s.do(t, http.MethodGet, "/api/reports/daily-cut.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}
