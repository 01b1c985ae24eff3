package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/service"
	"github.com/splitpot/splitpot/internal/storage/sqlite"
)

// setupTestServer starts an httptest server over a temp SQLite database.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret-key-at-least-32-chars!!", time.Hour)
	server := NewServer(
		service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager),
		service.NewGroupService(store),
		service.NewExpenseService(store),
		service.NewSettlementService(store),
		jwtManager,
	)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(func() {
		ts.Close()
		store.Close()
	})

	return ts
}

// doJSON performs a JSON request with an optional bearer token and decodes
// the response body into out (when out is non-nil).
func doJSON(t *testing.T, method, url, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}

	return resp.StatusCode
}

func register(t *testing.T, ts *httptest.Server, email, username string) (string, string) {
	t.Helper()

	var resp authResponse
	status := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"username": username,
		"password": "a long enough password",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register returned %d", status)
	}

	return resp.User.ID, resp.Token
}

func TestAuthFlow(t *testing.T) {
	ts := setupTestServer(t)

	_, token := register(t, ts, "alice@example.com", "alice")
	if token == "" {
		t.Fatal("expected token from registration")
	}

	var resp authResponse
	status := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "a long enough password",
	}, &resp)
	if status != http.StatusOK {
		t.Fatalf("login returned %d", status)
	}
	if resp.User.PasswordHash != "" {
		t.Error("password hash leaked in response")
	}

	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong password",
	}, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", status)
	}

	// Protected routes reject missing tokens.
	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/me/expenses", "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", status)
	}
}

func TestExpenseFlow(t *testing.T) {
	ts := setupTestServer(t)

	aliceID, aliceToken := register(t, ts, "alice@example.com", "alice")
	bobID, bobToken := register(t, ts, "bob@example.com", "bob")

	var group models.Group
	status := doJSON(t, http.MethodPost, ts.URL+"/api/v1/groups", aliceToken, map[string]string{"name": "Trip"}, &group)
	if status != http.StatusCreated {
		t.Fatalf("create group returned %d", status)
	}

	// bob is not a member yet.
	status = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/groups/%s", ts.URL, group.ID), bobToken, nil, nil)
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for non-member, got %d", status)
	}

	status = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/groups/%s/members", ts.URL, group.ID), aliceToken,
		map[string]any{"userId": bobID}, nil)
	if status != http.StatusCreated {
		t.Fatalf("add member returned %d", status)
	}

	var expense models.Expense
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/expenses", aliceToken, map[string]any{
		"groupId":     group.ID,
		"description": "hotel",
		"amount":      100.0,
		"currency":    "USD",
		"splitType":   "EQUAL",
		"splits": []map[string]any{
			{"userId": aliceID, "amount": 50.0},
			{"userId": bobID, "amount": 50.0},
		},
	}, &expense)
	if status != http.StatusCreated {
		t.Fatalf("create expense returned %d", status)
	}

	// Mismatched splits map to 400.
	status = doJSON(t, http.MethodPost, ts.URL+"/api/v1/expenses", aliceToken, map[string]any{
		"groupId":   group.ID,
		"amount":    30.0,
		"currency":  "USD",
		"splitType": "CUSTOM",
		"splits": []map[string]any{
			{"userId": aliceID, "amount": 15.0},
			{"userId": bobID, "amount": 14.50},
		},
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for mismatched splits, got %d", status)
	}

	var summaries []map[string]any
	status = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/groups/%s/debts", ts.URL, group.ID), bobToken, nil, &summaries)
	if status != http.StatusOK {
		t.Fatalf("debt summary returned %d", status)
	}
	if len(summaries) != 2 {
		t.Errorf("expected 2 summaries, got %d", len(summaries))
	}

	// Only admins can generate settlements.
	status = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/groups/%s/settlements/generate", ts.URL, group.ID), bobToken, nil, nil)
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin generate, got %d", status)
	}

	var settlements []models.Settlement
	status = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/groups/%s/settlements/generate", ts.URL, group.ID), aliceToken, nil, &settlements)
	if status != http.StatusCreated {
		t.Fatalf("generate settlements returned %d", status)
	}
	if len(settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(settlements))
	}
	if settlements[0].FromUserID != bobID || settlements[0].ToUserID != aliceID || settlements[0].Amount != 50 {
		t.Errorf("unexpected settlement: %+v", settlements[0])
	}

	// Pay it and confirm the terminal state guard over HTTP.
	payURL := fmt.Sprintf("%s/api/v1/settlements/%s/pay", ts.URL, settlements[0].ID)
	var paid models.Settlement
	status = doJSON(t, http.MethodPost, payURL, bobToken, map[string]string{"paymentMethod": "VENMO"}, &paid)
	if status != http.StatusOK {
		t.Fatalf("mark paid returned %d", status)
	}
	if paid.Status != models.SettlementPaid {
		t.Errorf("expected PAID, got %s", paid.Status)
	}

	status = doJSON(t, http.MethodPost, payURL, bobToken, map[string]string{"paymentMethod": "CASH"}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for double payment, got %d", status)
	}

	// Unknown IDs map to 404.
	status = doJSON(t, http.MethodGet, ts.URL+"/api/v1/expenses/does-not-exist", aliceToken, nil, nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown expense, got %d", status)
	}
}
