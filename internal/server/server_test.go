package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-backend/internal/auth"
	"finance-backend/internal/category"
	"finance-backend/internal/config"
	"finance-backend/internal/dashboard"
	"finance-backend/internal/database/testdb"
	"finance-backend/internal/logging"
	"finance-backend/internal/models"
	"finance-backend/internal/transaction"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *fiber.App {
	t.Helper()
	cfg, err := config.LoadFromMap(map[string]string{})
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	db := testdb.Open(t)
	_, err = category.NewRepository(db).Seed(context.Background(), cfg.SeedCategories)
	require.NoError(t, err)

	return New(cfg, db, logging.Discard())
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func listTransactions(t *testing.T, app *fiber.App, query string) []transaction.TransactionResponse {
	t.Helper()
	code, body := do(t, app, http.MethodGet, "/api/transactions"+query, "")
	require.Equal(t, http.StatusOK, code, string(body))
	var out []transaction.TransactionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func summary(t *testing.T, app *fiber.App) dashboard.Summary {
	t.Helper()
	code, body := do(t, app, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, code, string(body))
	var out dashboard.Summary
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Error
}

func TestCategories(t *testing.T) {
	app := newTestApp(t, nil)

	code, body := do(t, app, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, code)

	var cats []category.CategoryResponse
	require.NoError(t, json.Unmarshal(body, &cats))
	require.Len(t, cats, len(models.DefaultCategoryNames))
	assert.Equal(t, "salary", cats[0].Name)
	assert.NotZero(t, cats[0].ID)
}

func TestDashboardExample(t *testing.T) {
	app := newTestApp(t, nil)

	code, body := do(t, app, http.MethodPost, "/api/transactions/income",
		`{"date":"2024-01-01","category":"salary","amount":1000}`)
	require.Equal(t, http.StatusCreated, code, string(body))

	var created transaction.TransactionResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1000), created.Amount)
	assert.Equal(t, "2024-01-01", created.Date)
	assert.Equal(t, models.TransactionIncome, created.Type)
	assert.Equal(t, "salary", created.Category.Name)

	code, body = do(t, app, http.MethodPost, "/api/transactions/expense",
		`{"date":"2024-01-02","category":"food","amount":300}`)
	require.Equal(t, http.StatusCreated, code, string(body))

	got := summary(t, app)
	assert.Equal(t, int64(1000), got.TotalIncome)
	assert.Equal(t, int64(300), got.TotalExpense)
	assert.Equal(t, map[string]int64{"food": 300}, got.ExpenseByCategory)

	list := listTransactions(t, app, "")
	require.Len(t, list, 2)
	assert.Equal(t, created, list[0])
	assert.Equal(t, models.TransactionExpense, list[1].Type)
}

func TestCreateRejectsBadInput(t *testing.T) {
	app := newTestApp(t, nil)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{
			name:     "unknown category",
			path:     "/api/transactions/expense",
			body:     `{"date":"2024-01-01","category":"yachts","amount":10}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid category: yachts",
		},
		{
			name:     "zero amount",
			path:     "/api/transactions/expense",
			body:     `{"date":"2024-01-01","category":"food","amount":0}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "amount: must be greater than 0",
		},
		{
			name:     "negative amount",
			path:     "/api/transactions/income",
			body:     `{"date":"2024-01-01","category":"salary","amount":-1}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "amount: must be greater than 0",
		},
		{
			name:     "amount above cap",
			path:     "/api/transactions/expense",
			body:     `{"date":"2024-01-01","category":"food","amount":9223372036854775807}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "amount: must be at most 1000000000000",
		},
		{
			name:     "missing date",
			path:     "/api/transactions/income",
			body:     `{"category":"salary","amount":10}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "date: is required",
		},
		{
			name:     "blank category",
			path:     "/api/transactions/income",
			body:     `{"date":"2024-01-01","category":"  ","amount":10}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "category: is required",
		},
		{
			name:     "malformed json",
			path:     "/api/transactions/income",
			body:     `{"date":`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, app, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, body))
			assert.Empty(t, listTransactions(t, app, ""))
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	app := newTestApp(t, nil)

	ids := make([]uint, 0, 2)
	for _, amount := range []int{5, 6} {
		code, body := do(t, app, http.MethodPost, "/api/transactions/expense",
			fmt.Sprintf(`{"date":"2024-03-01","category":"food","amount":%d}`, amount))
		require.Equal(t, http.StatusCreated, code)
		var tr transaction.TransactionResponse
		require.NoError(t, json.Unmarshal(body, &tr))
		ids = append(ids, tr.ID)
	}

	code, body := do(t, app, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", ids[0]), "")
	assert.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, body)

	list := listTransactions(t, app, "")
	require.Len(t, list, 1)
	assert.Equal(t, ids[1], list[0].ID)

	got := summary(t, app)
	assert.Equal(t, int64(6), got.TotalExpense)
	assert.Equal(t, map[string]int64{"food": 6}, got.ExpenseByCategory)

	code, _ = do(t, app, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", ids[0]), "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Len(t, listTransactions(t, app, ""), 1)

	code, _ = do(t, app, http.MethodDelete, "/api/transactions/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSummaryAtAmountCap(t *testing.T) {
	app := newTestApp(t, nil)

	for i := 0; i < 3; i++ {
		code, body := do(t, app, http.MethodPost, "/api/transactions/expense",
			`{"date":"2024-01-01","category":"food","amount":1000000000000}`)
		require.Equal(t, http.StatusCreated, code, string(body))
	}

	got := summary(t, app)
	assert.Equal(t, int64(3000000000000), got.TotalExpense)
	assert.Equal(t, map[string]int64{"food": 3000000000000}, got.ExpenseByCategory)
}

func TestListByDate(t *testing.T) {
	app := newTestApp(t, nil)

	for _, d := range []string{"2024-05-01", "2024-05-02"} {
		code, _ := do(t, app, http.MethodPost, "/api/transactions/expense",
			fmt.Sprintf(`{"date":"%s","category":"living","amount":20}`, d))
		require.Equal(t, http.StatusCreated, code)
	}

	list := listTransactions(t, app, "?date=2024-05-02")
	require.Len(t, list, 1)
	assert.Equal(t, "2024-05-02", list[0].Date)

	code, _ := do(t, app, http.MethodGet, "/api/transactions?date=May-2", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestReset(t *testing.T) {
	app := newTestApp(t, nil)

	code, _ := do(t, app, http.MethodPost, "/api/transactions/income", `{"date":"2024-01-01","category":"salary","amount":1}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, app, http.MethodPost, "/api/transactions/expense", `{"date":"2024-01-01","category":"food","amount":1}`)
	require.Equal(t, http.StatusCreated, code)

	code, body := do(t, app, http.MethodPost, "/api/data/reset", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body)

	assert.Empty(t, listTransactions(t, app, ""))
	got := summary(t, app)
	assert.Zero(t, got.TotalIncome)
	assert.Zero(t, got.TotalExpense)
	assert.Empty(t, got.ExpenseByCategory)

	code, body = do(t, app, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, code)
	var cats []category.CategoryResponse
	require.NoError(t, json.Unmarshal(body, &cats))
	assert.Len(t, cats, len(models.DefaultCategoryNames))
}

func TestSummaryEmptyMapIsObject(t *testing.T) {
	app := newTestApp(t, nil)
	code, body := do(t, app, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"totalIncome":0,"totalExpense":0,"expenseByCategory":{}}`, string(body))
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, nil)
	code, body := do(t, app, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestAuthEnabled(t *testing.T) {
	const secret = "0123456789abcdef0123456789abcdef"
	app := newTestApp(t, func(c *config.Config) { c.AuthSecret = secret })

	code, _ := do(t, app, http.MethodGet, "/api/categories", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	tok, err := auth.GenerateToken(secret, "web", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// health checks stay public
	code, _ = do(t, app, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>dashboard</h1>"), 0o644))

	app := newTestApp(t, func(c *config.Config) { c.StaticDir = dir })
	code, body := do(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "dashboard")
}
