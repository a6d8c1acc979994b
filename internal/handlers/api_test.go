package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adityashravan/spendsavvy/internal/auth"
	"github.com/adityashravan/spendsavvy/internal/ledger"
	"github.com/adityashravan/spendsavvy/internal/middleware"
	"github.com/adityashravan/spendsavvy/internal/storage/sqlite"
)

// setupTestAPI builds the full HTTP stack over a temp SQLite database,
// routed the same way the server package routes it.
func setupTestAPI(t *testing.T) http.Handler {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "spendsavvy-api-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := ledger.New(store)

	api := http.NewServeMux()
	NewExpenseHandler(svc).Register(api)
	NewBalanceHandler(svc).Register(api)
	NewFriendHandler(svc).Register(api)
	NewGroupHandler(svc).Register(api)
	NewNotificationHandler(store).Register(api)
	NewAnalyticsHandler(svc).Register(api)

	mux := http.NewServeMux()
	NewAuthHandler(auth.NewPasswordAuthenticator(store), jwtManager).Register(mux)
	mux.Handle("/api/", middleware.RequireAuth(jwtManager, api))
	return mux
}

// doJSON sends a JSON request and decodes the JSON response into out (when
// out is non-nil), returning the status code.
func doJSON(t *testing.T, handler http.Handler, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if out != nil {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: failed to decode response (%d): %v", method, path, rec.Code, err)
		}
	}
	return rec.Code
}

// signup registers a user and returns their token and ID.
func signup(t *testing.T, handler http.Handler, name, email string) (token, id string) {
	t.Helper()

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	code := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "s3cret-pass",
	}, &resp)
	if code != http.StatusOK || !resp.Success || resp.Token == "" {
		t.Fatalf("signup for %s failed: status %d, resp %+v", name, code, resp)
	}
	return resp.Token, resp.User.ID
}

func TestSignupAndLogin(t *testing.T) {
	handler := setupTestAPI(t)

	signup(t, handler, "Alice", "alice@example.com")

	// Duplicate email conflicts.
	var errResp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	code := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Impostor", "email": "alice@example.com", "password": "s3cret-pass",
	}, &errResp)
	if code != http.StatusConflict {
		t.Errorf("duplicate signup: status %d, want 409", code)
	}

	// A weak password is rejected up front.
	code = doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "short",
	}, &errResp)
	if code != http.StatusBadRequest {
		t.Errorf("weak password: status %d, want 400", code)
	}

	var loginResp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	code = doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "s3cret-pass",
	}, &loginResp)
	if code != http.StatusOK || loginResp.Token == "" {
		t.Errorf("login: status %d, resp %+v", code, loginResp)
	}

	code = doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	}, &errResp)
	if code != http.StatusUnauthorized {
		t.Errorf("bad password login: status %d, want 401", code)
	}
}

func TestAuthRequired(t *testing.T) {
	handler := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/balances", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/balances", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", rec.Code)
	}
}

type expenseResponse struct {
	Success bool `json:"success"`
	Expense struct {
		ID     string `json:"id"`
		Splits []struct {
			UserID string  `json:"userId"`
			Amount float64 `json:"amount"`
			Paid   bool    `json:"paid"`
		} `json:"splits"`
	} `json:"expense"`
}

type balancesResp struct {
	Success  bool `json:"success"`
	Balances []struct {
		UserID     string  `json:"userId"`
		UserName   string  `json:"userName"`
		OwesYou    float64 `json:"owesYou"`
		YouOwe     float64 `json:"youOwe"`
		NetBalance float64 `json:"netBalance"`
	} `json:"balances"`
	Summary struct {
		TotalOwedToYou float64 `json:"totalOwedToYou"`
		TotalYouOwe    float64 `json:"totalYouOwe"`
		NetBalance     float64 `json:"netBalance"`
		FriendCount    int     `json:"friendCount"`
	} `json:"summary"`
}

func TestExpenseLifecycle(t *testing.T) {
	handler := setupTestAPI(t)

	aliceToken, aliceID := signup(t, handler, "Alice", "alice@example.com")
	bobToken, bobID := signup(t, handler, "Bob", "bob@example.com")

	// Alice befriends Bob.
	var addResp struct {
		Success bool `json:"success"`
		Friend  struct {
			UserID string `json:"userId"`
		} `json:"friend"`
	}
	code := doJSON(t, handler, http.MethodPost, "/api/friends", aliceToken,
		map[string]string{"email": "bob@example.com"}, &addResp)
	if code != http.StatusOK || addResp.Friend.UserID != bobID {
		t.Fatalf("add friend: status %d, resp %+v", code, addResp)
	}

	// Alice records a $90 dinner split equally.
	var created expenseResponse
	code = doJSON(t, handler, http.MethodPost, "/api/expenses/create", aliceToken, map[string]any{
		"description":  "Dinner",
		"amount":       90.0,
		"category":     "food",
		"participants": []string{aliceID, bobID},
		"splitType":    "equal",
	}, &created)
	if code != http.StatusOK || created.Expense.ID == "" {
		t.Fatalf("create expense: status %d, resp %+v", code, created)
	}
	for _, s := range created.Expense.Splits {
		if s.Amount != 45.0 {
			t.Errorf("split for %s = %v, want 45.00", s.UserID, s.Amount)
		}
		if s.UserID == aliceID && !s.Paid {
			t.Error("payer's split should come back paid")
		}
	}

	// Balances reflect the expense immediately.
	var balances balancesResp
	code = doJSON(t, handler, http.MethodGet, "/api/balances", aliceToken, nil, &balances)
	if code != http.StatusOK || len(balances.Balances) != 1 {
		t.Fatalf("balances: status %d, resp %+v", code, balances)
	}
	if balances.Balances[0].OwesYou != 45.0 || balances.Summary.NetBalance != 45.0 {
		t.Errorf("Bob owesYou = %v, net = %v, want 45.00 each",
			balances.Balances[0].OwesYou, balances.Summary.NetBalance)
	}

	// Alice cannot drop Bob while he owes her.
	var conflictResp struct {
		Success bool     `json:"success"`
		Error   string   `json:"error"`
		Amount  *float64 `json:"amount"`
	}
	code = doJSON(t, handler, http.MethodDelete, "/api/friends/"+bobID, aliceToken, nil, &conflictResp)
	if code != http.StatusConflict {
		t.Fatalf("guarded removal: status %d, want 409", code)
	}
	if conflictResp.Amount == nil || *conflictResp.Amount != 45.0 {
		t.Errorf("conflict amount = %v, want 45.00", conflictResp.Amount)
	}

	// Bob settles his share.
	var paid struct {
		Success bool `json:"success"`
		Splits  []struct {
			UserName string  `json:"userName"`
			Amount   float64 `json:"amount"`
			Paid     bool    `json:"paid"`
		} `json:"splits"`
	}
	payPath := fmt.Sprintf("/api/expenses/%s/pay", created.Expense.ID)
	code = doJSON(t, handler, http.MethodPost, payPath, bobToken, nil, &paid)
	if code != http.StatusOK {
		t.Fatalf("pay share: status %d", code)
	}
	for _, s := range paid.Splits {
		if !s.Paid {
			t.Errorf("split for %s should be paid after settlement", s.UserName)
		}
	}

	// Balances drop to zero and the removal now goes through.
	code = doJSON(t, handler, http.MethodGet, "/api/balances", aliceToken, nil, &balances)
	if code != http.StatusOK || balances.Balances[0].NetBalance != 0 {
		t.Errorf("post-payment balances: status %d, resp %+v", code, balances)
	}

	var removed struct {
		Success bool `json:"success"`
	}
	code = doJSON(t, handler, http.MethodDelete, "/api/friends/"+bobID, aliceToken, nil, &removed)
	if code != http.StatusOK || !removed.Success {
		t.Errorf("removal after settlement: status %d, resp %+v", code, removed)
	}
}

func TestCreateExpenseCustomMismatch(t *testing.T) {
	handler := setupTestAPI(t)

	aliceToken, aliceID := signup(t, handler, "Alice", "alice@example.com")
	_, bobID := signup(t, handler, "Bob", "bob@example.com")

	var errResp struct {
		Success     bool     `json:"success"`
		Error       string   `json:"error"`
		Discrepancy *float64 `json:"discrepancy"`
	}
	code := doJSON(t, handler, http.MethodPost, "/api/expenses/create", aliceToken, map[string]any{
		"description":  "Groceries",
		"amount":       100.0,
		"category":     "food",
		"participants": []string{aliceID, bobID},
		"splitType":    "custom",
		"customSplits": map[string]float64{aliceID: 40.0, bobID: 65.0},
	}, &errResp)
	if code != http.StatusBadRequest {
		t.Fatalf("mismatched custom split: status %d, want 400", code)
	}
	if errResp.Discrepancy == nil || *errResp.Discrepancy != 5.0 {
		t.Errorf("discrepancy = %v, want 5.00", errResp.Discrepancy)
	}
}

func TestGetExpenseAccessControl(t *testing.T) {
	handler := setupTestAPI(t)

	aliceToken, aliceID := signup(t, handler, "Alice", "alice@example.com")
	malloryToken, _ := signup(t, handler, "Mallory", "mallory@example.com")

	var created expenseResponse
	code := doJSON(t, handler, http.MethodPost, "/api/expenses/create", aliceToken, map[string]any{
		"description":  "Solo lunch",
		"amount":       12.0,
		"category":     "food",
		"participants": []string{aliceID},
	}, &created)
	if code != http.StatusOK {
		t.Fatalf("create expense: status %d", code)
	}

	code = doJSON(t, handler, http.MethodGet, "/api/expenses/"+created.Expense.ID, malloryToken, nil, nil)
	if code != http.StatusForbidden {
		t.Errorf("non-participant read: status %d, want 403", code)
	}

	code = doJSON(t, handler, http.MethodGet, "/api/expenses/missing-id", aliceToken, nil, nil)
	if code != http.StatusNotFound {
		t.Errorf("missing expense: status %d, want 404", code)
	}
}

func TestCategoryAnalytics(t *testing.T) {
	handler := setupTestAPI(t)

	aliceToken, aliceID := signup(t, handler, "Alice", "alice@example.com")

	for _, e := range []map[string]any{
		{"description": "Dinner", "amount": 60.0, "category": "food", "participants": []string{aliceID}},
		{"description": "Cab", "amount": 24.0, "category": "travel", "participants": []string{aliceID}},
	} {
		if code := doJSON(t, handler, http.MethodPost, "/api/expenses/create", aliceToken, e, nil); code != http.StatusOK {
			t.Fatalf("create expense: status %d", code)
		}
	}

	var resp struct {
		Success    bool `json:"success"`
		Categories []struct {
			Category   string  `json:"category"`
			TotalSpent float64 `json:"totalSpent"`
		} `json:"categories"`
	}
	code := doJSON(t, handler, http.MethodGet, "/api/analytics/categories?timeframe=month", aliceToken, nil, &resp)
	if code != http.StatusOK {
		t.Fatalf("category analytics: status %d", code)
	}
	if len(resp.Categories) != 2 {
		t.Fatalf("got %d categories, want 2: %+v", len(resp.Categories), resp.Categories)
	}
	if resp.Categories[0].Category != "food" || resp.Categories[0].TotalSpent != 60.0 {
		t.Errorf("food = %+v, want totalSpent 60.00", resp.Categories[0])
	}
}
