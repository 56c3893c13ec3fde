package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/cpf-bank-ledger/internal/events/logging"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/models"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	bank := ledger.NewLedger(memory.NewMemoryAccountStore(), logging.NewPublisher(logger), "account_events", logger)
	ts := httptest.NewServer(NewHandler(bank, "cpf", logger).Routes())
	t.Cleanup(ts.Close)
	return ts
}

// doJSON sends body as JSON with the given cpf header (skipped when empty),
// checks the status code and decodes the response into out when it's not nil.
func doJSON(t *testing.T, ts *httptest.Server, method, path, cpf string, body any, wantCode int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, ts.URL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cpf != "" {
		req.Header.Set("cpf", cpf)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantCode {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s code=%d want=%d body=%s", method, path, resp.StatusCode, wantCode, b)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
}

func balance(t *testing.T, ts *httptest.Server, cpf string) decimal.Decimal {
	t.Helper()
	var got decimal.Decimal
	doJSON(t, ts, http.MethodGet, "/balance", cpf, nil, http.StatusOK, &got)
	return got
}

func TestDepositWithdrawScenario(t *testing.T) {
	ts := newTestServer(t)

	var account models.Account
	doJSON(t, ts, http.MethodPost, "/account", "", map[string]any{"cpf": "111", "name": "Alice"}, http.StatusCreated, &account)
	if account.CPF != "111" || account.Name != "Alice" || account.ID == "" || len(account.Statement) != 0 {
		t.Fatalf("created account=%+v", account)
	}

	var deposit models.LedgerEntry
	doJSON(t, ts, http.MethodPost, "/deposit", "111", map[string]any{"description": "salary", "amount": 100}, http.StatusCreated, &deposit)
	if deposit.Type != models.EntryCredit || deposit.Description != "salary" || !deposit.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("deposit entry=%+v", deposit)
	}
	if got := balance(t, ts, "111"); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance=%s want 100", got)
	}

	var failure errorResponse
	doJSON(t, ts, http.MethodPost, "/withdraw", "111", map[string]any{"amount": 150}, http.StatusBadRequest, &failure)
	if failure.Error != "Insufficient funds!" {
		t.Fatalf("error=%q", failure.Error)
	}

	var withdraw models.LedgerEntry
	doJSON(t, ts, http.MethodPost, "/withdraw", "111", map[string]any{"amount": 50}, http.StatusCreated, &withdraw)
	if withdraw.Type != models.EntryDebit || !withdraw.Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("withdraw entry=%+v", withdraw)
	}
	if got := balance(t, ts, "111"); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("balance=%s want 50", got)
	}

	var statement []models.LedgerEntry
	doJSON(t, ts, http.MethodGet, "/statement", "111", nil, http.StatusOK, &statement)
	if len(statement) != 2 || statement[0].Type != models.EntryCredit || statement[1].Type != models.EntryDebit {
		t.Fatalf("statement=%+v", statement)
	}

	// emptying the account exactly is allowed
	doJSON(t, ts, http.MethodPost, "/withdraw", "111", map[string]any{"amount": 50}, http.StatusCreated, nil)
	if got := balance(t, ts, "111"); !got.IsZero() {
		t.Fatalf("balance=%s want 0", got)
	}
}

func TestBalanceIsJSONNumber(t *testing.T) {
	ts := newTestServer(t)
	doJSON(t, ts, http.MethodPost, "/account", "", map[string]any{"cpf": "111", "name": "Alice"}, http.StatusCreated, nil)
	doJSON(t, ts, http.MethodPost, "/deposit", "111", map[string]any{"amount": 12.5}, http.StatusCreated, nil)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/balance", nil)
	req.Header.Set("cpf", "111")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if got := strings.TrimSpace(string(b)); got != "12.5" {
		t.Fatalf("body=%q want 12.5", got)
	}
}

func TestCreateAccountDuplicateCPF(t *testing.T) {
	ts := newTestServer(t)
	doJSON(t, ts, http.MethodPost, "/account", "", map[string]any{"cpf": "111", "name": "Alice"}, http.StatusCreated, nil)

	var failure errorResponse
	doJSON(t, ts, http.MethodPost, "/account", "", map[string]any{"cpf": "111", "name": "Bob"}, http.StatusBadRequest, &failure)
	if failure.Error != "CPF already exists!" {
		t.Fatalf("error=%q", failure.Error)
	}

	var account models.Account
	doJSON(t, ts, http.MethodGet, "/account", "111", nil, http.StatusOK, &account)
	if account.Name != "Alice" {
		t.Fatalf("name=%q want Alice", account.Name)
	}
}

func TestUnknownOrMissingCPF(t *testing.T) {
	ts := newTestServer(t)

	routes := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/account", nil},
		{http.MethodGet, "/statement", nil},
		{http.MethodGet, "/statement/date?date=2024-01-01", nil},
		{http.MethodGet, "/balance", nil},
		{http.MethodPost, "/deposit", map[string]any{"amount": 1}},
		{http.MethodPost, "/withdraw", map[string]any{"amount": 1}},
		{http.MethodPut, "/account", map[string]any{"name": "x"}},
		{http.MethodDelete, "/account", nil},
	}

	for _, rt := range routes {
		for _, cpf := range []string{"", "999"} {
			var failure errorResponse
			doJSON(t, ts, rt.method, rt.path, cpf, rt.body, http.StatusNotFound, &failure)
			if failure.Error != "Customer not found!" {
				t.Fatalf("%s %s cpf=%q error=%q", rt.method, rt.path, cpf, failure.Error)
			}
		}
	}
}

func TestStatementByDate(t *testing.T) {
	ts := newTestServer(t)
	doJSON(t, ts, http.MethodPost, "/account", "", map[string]any{"cpf": "111", "name": "Alice"}, http.StatusCreated, nil)
	doJSON(t, ts, http.MethodPost, "/deposit", "111", map[string]any{"amount": 10}, http.StatusCreated, nil)

	today := time.Now().Format(time.DateOnly)

	var got []models.LedgerEntry
	doJSON(t, ts, http.MethodGet, "/statement/date?date="+today, "111", nil, http.StatusOK, &got)
	if len(got) != 1 {
		t.Fatalf("today len=%d want 1", len(got))
	}

	got = nil
	doJSON(t, ts, http.MethodGet, "/statement/date?date=2000-01-01", "111", nil, http.StatusOK, &got)
	if got == nil || len(got) != 0 {
		t.Fatalf("other day=%+v want []", got)
	}

	got = nil
	doJSON(t, ts, http.MethodGet, "/statement/date?date=garbage", "111", nil, http.StatusOK, &got)
	if got == nil || len(got) != 0 {
		t.Fatalf("bad date=%+v want []", got)
	}
}

func TestUpdateAccountName(t *testing.T) {
	ts := newTestServer(t)
	doJSON(t, ts, http.MethodPost, "/account", "", map[string]any{"cpf": "111", "name": "Alice"}, http.StatusCreated, nil)

	var name string
	doJSON(t, ts, http.MethodPut, "/account", "111", map[string]any{"name": "Alicia"}, http.StatusCreated, &name)
	if name != "Alicia" {
		t.Fatalf("name=%q", name)
	}

	var account models.Account
	doJSON(t, ts, http.MethodGet, "/account", "111", nil, http.StatusOK, &account)
	if account.Name != "Alicia" {
		t.Fatalf("stored name=%q", account.Name)
	}
}

func TestDeleteAccountReturnsRemaining(t *testing.T) {
	ts := newTestServer(t)
	for _, cpf := range []string{"111", "222", "333"} {
		doJSON(t, ts, http.MethodPost, "/account", "", map[string]any{"cpf": cpf, "name": "n" + cpf}, http.StatusCreated, nil)
	}

	var remaining []models.Account
	doJSON(t, ts, http.MethodDelete, "/account", "333", nil, http.StatusOK, &remaining)
	if len(remaining) != 2 || remaining[0].CPF != "111" || remaining[1].CPF != "222" {
		t.Fatalf("remaining=%+v", remaining)
	}

	doJSON(t, ts, http.MethodGet, "/account", "333", nil, http.StatusNotFound, nil)
	doJSON(t, ts, http.MethodGet, "/account", "111", nil, http.StatusOK, nil)
}

func TestBadJSON(t *testing.T) {
	ts := newTestServer(t)
	doJSON(t, ts, http.MethodPost, "/account", "", map[string]any{"cpf": "111", "name": "Alice"}, http.StatusCreated, nil)

	for _, path := range []string{"/account", "/deposit", "/withdraw"} {
		req, _ := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewBufferString("{bad json}"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("cpf", "111")
		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s bad json code=%d want 400", path, resp.StatusCode)
		}
	}

	if got := balance(t, ts, "111"); !got.IsZero() {
		t.Fatalf("balance=%s want 0", got)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	var health map[string]string
	doJSON(t, ts, http.MethodGet, "/health", "", nil, http.StatusOK, &health)
	if health["status"] != "ok" {
		t.Fatalf("health=%v", health)
	}

	doJSON(t, ts, http.MethodPost, "/account", "", map[string]any{"cpf": "111", "name": "Alice"}, http.StatusCreated, nil)

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(b), "bank_operations_total") {
		t.Fatalf("metrics code=%d missing bank_operations_total", resp.StatusCode)
	}
}

func TestAccountFromContextWithoutAccount(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := AccountFromContext(req.Context()); ok {
		t.Fatal("expected no account in a bare context")
	}
}
