package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	password := "testPassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" || hash == password {
		t.Fatal("HashPassword() returned an unusable hash")
	}

	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == hash2 {
		t.Error("HashPassword() should produce different hashes due to salt")
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct password", password, hash, true},
		{"wrong password", "wrongPassword", hash, false},
		{"empty password", "", hash, false},
		{"empty hash", password, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("CheckPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCSRFToken(t *testing.T) {
	gen := NewCSRFGenerator("secret")

	token, err := gen.GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if !gen.ValidateToken("session-1", token) {
		t.Error("token should validate for its session")
	}
	if gen.ValidateToken("session-2", token) {
		t.Error("token should not validate for another session")
	}
	if NewCSRFGenerator("other").ValidateToken("session-1", token) {
		t.Error("token should not validate with another secret")
	}
	if _, err := gen.GenerateToken(""); err == nil {
		t.Error("GenerateToken(\"\") should fail")
	}
	if RandomSecret() == RandomSecret() {
		t.Error("RandomSecret() should not repeat")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other clients have their own bucket")
	}

	handler := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "1.2.3.4:5555"
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "10.0.0.1, 172.16.0.1"}, "127.0.0.1:80", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.2"}, "127.0.0.1:80", "10.0.0.2"},
		{"remote addr", nil, "192.168.1.9:4242", "192.168.1.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionCookies(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	cookie := CreateSessionCookie(r, "session_id", "abc", time.Now().Add(time.Hour))
	if !cookie.Secure || !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("unexpected cookie flags: %+v", cookie)
	}

	del := CreateDeleteCookie(httptest.NewRequest(http.MethodGet, "/", nil), "session_id")
	if del.MaxAge != -1 || del.Secure {
		t.Errorf("unexpected delete cookie: %+v", del)
	}
	if del.SameSite != cookie.SameSite || del.Path != cookie.Path || !del.HttpOnly {
		t.Errorf("delete cookie attributes must match the session cookie: %+v", del)
	}
	if GenerateSessionID() == GenerateSessionID() {
		t.Error("session ids should be unique")
	}
}

func TestIsSecureRequest(t *testing.T) {
	tests := []struct {
		name  string
		proto string
		want  bool
	}{
		{"plain http", "", false},
		{"proxied https", "https", true},
		{"proxied https upper case", "HTTPS", true},
		{"proxied http", "http", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.proto != "" {
				r.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			if got := IsSecureRequest(r); got != tt.want {
				t.Errorf("IsSecureRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}
