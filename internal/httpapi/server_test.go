package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolso-dev/bolso/internal/auth"
	"github.com/bolso-dev/bolso/internal/ledger"
	"github.com/bolso-dev/bolso/internal/recurring"
	"github.com/bolso-dev/bolso/internal/store"
	"github.com/bolso-dev/bolso/internal/transactions"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "bolso.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	authSvc := auth.NewService(st, "test-secret", time.Hour)
	txSvc := transactions.NewService(st, ledger.NewUpdater(st))
	recSvc := recurring.NewService(st)

	return New(st, authSvc, txSvc, recSvc, zerolog.Nop()).App()
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decodeMap(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func decodeList(t *testing.T, raw []byte) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(raw, &l))
	return l
}

func registerUser(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, raw := do(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":      "ana@example.com",
		"username":   "ana",
		"first_name": "Ana",
		"last_name":  "Souza",
		"password":   "correct-horse",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	token, _ := decodeMap(t, raw)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createFixtures makes one expense category and one checking account
// through the API, returning their IDs.
func createFixtures(t *testing.T, app *fiber.App, token string) (categoryID, accountID int64) {
	t.Helper()
	status, raw := do(t, app, http.MethodPost, "/api/categories", token, fiber.Map{
		"name":          "Assinaturas",
		"category_type": "expense",
		"color":         "#e67e22",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	categoryID = int64(decodeMap(t, raw)["id"].(float64))

	status, raw = do(t, app, http.MethodPost, "/api/accounts", token, fiber.Map{
		"name":         "Conta Teste",
		"account_type": "checking",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	accountID = int64(decodeMap(t, raw)["id"].(float64))
	return categoryID, accountID
}

func accountBalance(t *testing.T, app *fiber.App, token string, accountID int64) decimal.Decimal {
	t.Helper()
	status, raw := do(t, app, http.MethodGet, fmt.Sprintf("/api/accounts/%d", accountID), token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	balance, ok := decodeMap(t, raw)["balance"].(string)
	require.True(t, ok, "balance should render as a string")
	return decimal.RequireFromString(balance)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	status, raw := do(t, app, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", decodeMap(t, raw)["status"])
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	registerUser(t, app)

	status, raw := do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "ana@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, status)
	body := decodeMap(t, raw)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Ana Souza", user["full_name"])

	status, _ = do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "ana@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, app, http.MethodGet, "/api/accounts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, app, http.MethodGet, "/api/accounts", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterSeedsStarterData(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	status, raw := do(t, app, http.MethodGet, "/api/accounts", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeList(t, raw), 3)

	status, raw = do(t, app, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeList(t, raw), 13)

	status, raw = do(t, app, http.MethodGet, "/api/categories/by_type?type=income", token, nil)
	require.Equal(t, http.StatusOK, status)
	for _, c := range decodeList(t, raw) {
		assert.Contains(t, []any{"income", "both"}, c["category_type"])
	}
}

func TestTransactionLifecycleMovesBalances(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)
	categoryID, accountID := createFixtures(t, app, token)

	status, raw := do(t, app, http.MethodPost, "/api/transactions", token, fiber.Map{
		"title":            "Streaming",
		"amount":           "39.90",
		"transaction_type": "expense",
		"category_id":      categoryID,
		"account_id":       accountID,
		"date":             "2024-03-05",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decodeMap(t, raw)
	txID := int64(created["id"].(float64))
	assert.Equal(t, "completed", created["status"])
	assert.Equal(t, "R$ 39,90", created["amount_formatted"])

	assert.True(t, accountBalance(t, app, token, accountID).Equal(decimal.RequireFromString("-39.90")))

	status, raw = do(t, app, http.MethodPut, fmt.Sprintf("/api/transactions/%d", txID), token, fiber.Map{
		"title":            "Streaming",
		"amount":           "49.90",
		"transaction_type": "expense",
		"category_id":      categoryID,
		"account_id":       accountID,
		"date":             "2024-03-05",
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.True(t, accountBalance(t, app, token, accountID).Equal(decimal.RequireFromString("-49.90")))

	status, _ = do(t, app, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", txID), token, nil)
	require.Equal(t, http.StatusNoContent, status)
	assert.True(t, accountBalance(t, app, token, accountID).IsZero())

	status, _ = do(t, app, http.MethodGet, fmt.Sprintf("/api/transactions/%d", txID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTransactionValidationErrors(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)
	categoryID, accountID := createFixtures(t, app, token)

	// Transfers need a destination account.
	status, raw := do(t, app, http.MethodPost, "/api/transactions", token, fiber.Map{
		"title":            "Reserva",
		"amount":           "100.00",
		"transaction_type": "transfer",
		"category_id":      categoryID,
		"account_id":       accountID,
		"date":             "2024-03-05",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeMap(t, raw), "destination_account")

	status, raw = do(t, app, http.MethodPost, "/api/transactions", token, fiber.Map{
		"title":            "Streaming",
		"amount":           "not-a-number",
		"transaction_type": "expense",
		"category_id":      categoryID,
		"account_id":       accountID,
		"date":             "2024-03-05",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeMap(t, raw), "amount")

	// Balances stay untouched after rejected writes.
	assert.True(t, accountBalance(t, app, token, accountID).IsZero())
}

func TestAdjustBalanceSetsAbsoluteValue(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)
	_, accountID := createFixtures(t, app, token)

	status, raw := do(t, app, http.MethodPost, fmt.Sprintf("/api/accounts/%d/adjust_balance", accountID), token, fiber.Map{
		"balance": "2500.00",
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.True(t, accountBalance(t, app, token, accountID).Equal(decimal.RequireFromString("2500.00")))
	assert.Equal(t, "R$ 2.500,00", decodeMap(t, raw)["balance_formatted"])
}

func TestRecurringExecuteEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)
	categoryID, accountID := createFixtures(t, app, token)

	status, raw := do(t, app, http.MethodPost, "/api/recurring", token, fiber.Map{
		"title":            "Aluguel",
		"amount":           "1800.00",
		"transaction_type": "expense",
		"category_id":      categoryID,
		"account_id":       accountID,
		"frequency":        "monthly",
		"start_date":       "2024-01-15",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decodeMap(t, raw)
	recID := int64(created["id"].(float64))
	assert.Equal(t, "2024-01-15", created["next_execution"])

	status, raw = do(t, app, http.MethodPost, fmt.Sprintf("/api/recurring/%d/execute", recID), token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	txID := int64(decodeMap(t, raw)["transaction_id"].(float64))
	assert.NotZero(t, txID)

	status, raw = do(t, app, http.MethodGet, fmt.Sprintf("/api/recurring/%d", recID), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2024-02-14", decodeMap(t, raw)["next_execution"])

	status, raw = do(t, app, http.MethodGet, fmt.Sprintf("/api/transactions/%d", txID), token, nil)
	require.Equal(t, http.StatusOK, status)
	got := decodeMap(t, raw)
	assert.Equal(t, "Aluguel", got["title"])
	assert.Equal(t, true, got["is_recurring"])
}

func TestImportStatementEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)
	expenseID, accountID := createFixtures(t, app, token)

	status, raw := do(t, app, http.MethodPost, "/api/categories", token, fiber.Map{
		"name":          "Recebimentos",
		"category_type": "income",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	incomeID := int64(decodeMap(t, raw)["id"].(float64))

	csv := "Data,Valor,Identificador,Descrição\n" +
		"15/01/2024,-120.50,abc-123,Conta de luz\n" +
		"16/01/2024,3500.00,def-456,Pix recebido\n"
	path := fmt.Sprintf("/api/transactions/import?format=nubank&account=%d&income_category=%d&expense_category=%d",
		accountID, incomeID, expenseID)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(csv)))
	req.Header.Set(fiber.HeaderContentType, "text/csv")
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, float64(2), decodeMap(t, body)["imported"])

	assert.True(t, accountBalance(t, app, token, accountID).Equal(decimal.RequireFromString("3379.50")))

	status, raw = do(t, app, http.MethodGet, "/api/transactions?search=Pix", token, nil)
	require.Equal(t, http.StatusOK, status)
	list := decodeList(t, raw)
	require.Len(t, list, 1)
	assert.Equal(t, "income", list[0]["transaction_type"])
	assert.Equal(t, "def-456", list[0]["notes"])
}

func TestImportStatementRejectsUnknownFormat(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)

	status, raw := do(t, app, http.MethodPost, "/api/transactions/import?format=mystery&account=1&income_category=1&expense_category=2", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeMap(t, raw), "format")
}

func TestTransactionSummaryEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app)
	categoryID, accountID := createFixtures(t, app, token)

	for _, amount := range []string{"100.00", "250.00"} {
		status, raw := do(t, app, http.MethodPost, "/api/transactions", token, fiber.Map{
			"title":            "Despesa",
			"amount":           amount,
			"transaction_type": "expense",
			"category_id":      categoryID,
			"account_id":       accountID,
			"date":             "2024-03-05",
		})
		require.Equal(t, http.StatusCreated, status, string(raw))
	}

	status, raw := do(t, app, http.MethodGet, "/api/transactions/summary?start_date=2024-03-01&end_date=2024-03-31", token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	sum := decodeMap(t, raw)
	assert.Equal(t, float64(2), sum["transaction_count"])
	expense := decimal.RequireFromString(sum["total_expense"].(string))
	assert.True(t, expense.Equal(decimal.RequireFromString("350.00")))

	status, raw = do(t, app, http.MethodGet, "/api/transactions/by_category?start_date=2024-03-01&end_date=2024-03-31", token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	byCat := decodeList(t, raw)
	require.Len(t, byCat, 1)
	assert.Equal(t, float64(2), byCat[0]["transaction_count"])
	pct := decimal.RequireFromString(byCat[0]["percentage"].(string))
	assert.True(t, pct.Equal(decimal.RequireFromString("100")))
}
