package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/appakade/pos-backend/internal/checkout"
	"github.com/appakade/pos-backend/internal/items"
	"github.com/appakade/pos-backend/internal/orders"
	"github.com/appakade/pos-backend/pkg/config"
	"github.com/appakade/pos-backend/pkg/db/models"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(&models.Item{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	itemsRepo := items.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)

	itemsService, err := items.NewService(itemsRepo)
	if err != nil {
		t.Fatalf("items service: %v", err)
	}
	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	checkoutService, err := checkout.NewService(gormTxRunner{db: conn}, itemsRepo, ordersRepo, nil)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Env = "test"

	return NewRouter(Deps{
		Config:   cfg,
		DBPinger: stubPinger{},
		Items:    itemsService,
		Checkout: checkoutService,
		Orders:   ordersService,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-POS-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-POS-Env"))
	}

	rec = doJSON(t, router, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d", rec.Code)
	}
}

func TestItemLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/items",
		`{"name":"Tea","category":"Drinks","price":"50","quantity_in_stock":10}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", rec.Code, rec.Body.String())
	}

	var created struct {
		Data struct {
			ID                int64  `json:"id"`
			Name              string `json:"name"`
			LowStockThreshold int    `json:"low_stock_threshold"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Data.ID == 0 || created.Data.LowStockThreshold != 5 {
		t.Fatalf("unexpected created item: %+v", created.Data)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/items",
		`{"name":"Tea","category":"Drinks","price":"60","quantity_in_stock":3}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/items", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/items/%d", created.Data.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/items/9999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing item: expected 404 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/items/%d", created.Data.ID),
		`{"name":"Milk Tea","category":"Drinks","price":"70","quantity_in_stock":8}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/items/%d", created.Data.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", rec.Code)
	}
}

func TestCheckoutOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/items",
		`{"name":"Tea","category":"Drinks","price":"50","quantity_in_stock":10}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create item: expected 201 got %d", rec.Code)
	}
	var created struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	checkoutBody := fmt.Sprintf(
		`{"customer_name":"Nimal","cart":[{"item_id":%d,"item_name":"Tea","price":"50","quantity_in_stock":10,"order_quantity":3}]}`,
		created.Data.ID)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", checkoutBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201 got %d body=%s", rec.Code, rec.Body.String())
	}

	var committed struct {
		Data struct {
			OrderID     int64  `json:"order_id"`
			TotalAmount string `json:"total_amount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &committed); err != nil {
		t.Fatalf("decode checkout response: %v", err)
	}
	if committed.Data.OrderID == 0 || committed.Data.TotalAmount != "150" {
		t.Fatalf("unexpected checkout result: %+v", committed.Data)
	}

	// deleting a sold item must now be refused
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/items/%d", created.Data.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", rec.Code)
	}
	var deleted struct {
		Data struct {
			Deleted bool `json:"deleted"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &deleted); err != nil {
		t.Fatalf("decode delete response: %v", err)
	}
	if deleted.Data.Deleted {
		t.Fatal("expected delete of sold item to be refused")
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("orders: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d/items", committed.Data.OrderID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("order items: expected 200 got %d", rec.Code)
	}
	var lines struct {
		Data []struct {
			ItemName string `json:"item_name"`
			Quantity int    `json:"quantity"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &lines); err != nil {
		t.Fatalf("decode lines: %v", err)
	}
	if len(lines.Data) != 1 || lines.Data[0].ItemName != "Tea" || lines.Data[0].Quantity != 3 {
		t.Fatalf("unexpected lines: %+v", lines.Data)
	}
}

func TestCheckoutShortfallOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/items",
		`{"name":"Butter Cake","category":"Desserts","price":"120","quantity_in_stock":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create item: expected 201 got %d", rec.Code)
	}
	var created struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	body := fmt.Sprintf(
		`{"customer_name":"Kamala","cart":[{"item_id":%d,"item_name":"Butter Cake","price":"120","quantity_in_stock":1,"order_quantity":3}]}`,
		created.Data.ID)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d body=%s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Code != "STOCK_SHORTFALL" {
		t.Fatalf("expected STOCK_SHORTFALL, got %s", payload.Error.Code)
	}
	if payload.Error.Details["item_name"] != "Butter Cake" {
		t.Fatalf("expected details to name the item, got %v", payload.Error.Details)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders", "")
	var ordersPayload struct {
		Data []any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ordersPayload); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	if len(ordersPayload.Data) != 0 {
		t.Fatalf("expected no orders after failed checkout, got %d", len(ordersPayload.Data))
	}
}

func TestLowStockEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/items",
		`{"name":"Dhal Curry","category":"Curries","price":"150","quantity_in_stock":2}`)
	doJSON(t, router, http.MethodPost, "/api/v1/items",
		`{"name":"Parata","category":"Main","price":"50","quantity_in_stock":40}`)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/items/low-stock", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var payload struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode low stock: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].Name != "Dhal Curry" {
		t.Fatalf("unexpected low stock set: %+v", payload.Data)
	}
}
