package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"upitrack/internal/extraction"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := extraction.NewEngine(nil, zerolog.Nop())
	return New(Config{
		Engine:    engine,
		Log:       zerolog.Nop(),
		JWTSecret: testSecret,
	})
}

func testToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      userID,
		"username": "tester",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestHealth(t *testing.T) {
	router := newTestServer(t).Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", w.Code)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := newTestServer(t).Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(`{"text":"x"}`))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	router := newTestServer(t).Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(`{"text":"x"}`))
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestExtractRequiresText(t *testing.T) {
	router := newTestServer(t).Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+testToken(t, "1"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestExtractSingleObject(t *testing.T) {
	router := newTestServer(t).Router()

	body := `{"text":"Rs.1,200.00 recd from Rahul rahul@okaxis txn REF40983240 via Google Pay"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken(t, "1"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var tx map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &tx); err != nil {
		t.Fatalf("expected a single JSON object, got %s: %v", w.Body.String(), err)
	}
	if tx["amount"].(float64) != 1200 {
		t.Errorf("amount = %v, want 1200", tx["amount"])
	}
	if tx["transaction_type"] != "received" {
		t.Errorf("transaction_type = %v, want received", tx["transaction_type"])
	}
}

func TestExtractMultipleReturnsArray(t *testing.T) {
	router := newTestServer(t).Router()

	body := `{"text":"paid Rs.500 to Amit via PhonePe. received Rs.300 from Neha via Paytm"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken(t, "1"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var txs []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &txs); err != nil {
		t.Fatalf("expected a JSON array, got %s: %v", w.Body.String(), err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
}

func TestExtractSentinelStillSingleObject(t *testing.T) {
	router := newTestServer(t).Router()

	body := `{"text":"Hello, how are you?"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken(t, "1"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var tx map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &tx); err != nil {
		t.Fatalf("expected a single JSON object, got %s: %v", w.Body.String(), err)
	}
	if tx["amount"].(float64) != 0 {
		t.Errorf("sentinel amount = %v, want 0", tx["amount"])
	}
	if tx["raw_text"] != "Hello, how are you?" {
		t.Errorf("sentinel raw_text = %v, want the input", tx["raw_text"])
	}
}
