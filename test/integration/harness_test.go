package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/accountd/accountd/internal/database"
	"github.com/accountd/accountd/internal/http/handler"
	"github.com/accountd/accountd/internal/http/router"
	"github.com/accountd/accountd/internal/repository"
	"github.com/accountd/accountd/internal/security"
	"github.com/accountd/accountd/internal/service"
)

type apiEnvelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// captureNotifier records the last OTP handed to each mail kind so tests can
// complete the verification and reset flows without a mail relay.
type captureNotifier struct {
	mu        sync.Mutex
	verifyOTP string
	resetOTP  string
}

func (n *captureNotifier) SendWelcome(context.Context, string) error { return nil }

func (n *captureNotifier) SendVerifyOTP(_ context.Context, _ string, otp string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verifyOTP = otp
	return nil
}

func (n *captureNotifier) SendResetOTP(_ context.Context, _ string, otp string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetOTP = otp
	return nil
}

func (n *captureNotifier) LastVerifyOTP() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.verifyOTP
}

func (n *captureNotifier) LastResetOTP() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.resetOTP
}

var dbSeq atomic.Int64

type authTestServerOptions struct {
	idempotency router.IdempotencyMiddlewareFactory
}

func newAuthTestServer(t *testing.T) (string, *http.Client, *captureNotifier, func()) {
	return newAuthTestServerWithOptions(t, authTestServerOptions{})
}

func newAuthTestServerWithOptions(t *testing.T, opts authTestServerOptions) (string, *http.Client, *captureNotifier, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:authint%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	accounts := repository.NewAccountRepository(db)
	jwtMgr := security.NewJWTManager("accountd-test", "accountd-test-api", "integration-test-secret-0123456789abcdef")
	cookieMgr := security.NewCookieManager("", false, "lax")
	notifier := &captureNotifier{}
	tokenSvc := service.NewTokenService(jwtMgr, 7*24*time.Hour)
	authSvc := service.NewAuthService(accounts, tokenSvc, notifier, 24*time.Hour, 15*time.Minute, slog.New(slog.DiscardHandler))
	authHandler := handler.NewAuthHandler(authSvc, cookieMgr, 7*24*time.Hour)

	r := router.NewRouter(router.Dependencies{
		AuthHandler: authHandler,
		JWTManager:  jwtMgr,
		CORSOrigins: []string{"http://localhost"},
		Idempotency: opts.idempotency,
	})

	srv := httptest.NewServer(r)
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := srv.Client()
	client.Jar = jar

	return srv.URL, client, notifier, srv.Close
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, apiEnvelope) {
	t.Helper()
	resp, raw := doRawText(t, client, method, url, body, headers)
	var env apiEnvelope
	if len(raw) > 0 {
		_ = json.Unmarshal([]byte(raw), &env)
	}
	return resp, env
}

func doRawText(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, string) {
	t.Helper()
	var payload []byte
	var err error
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, _ := io.ReadAll(resp.Body)
	return resp, string(raw)
}

func register(t *testing.T, client *http.Client, baseURL, name, email, password string) {
	t.Helper()
	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
	if resp.StatusCode != http.StatusOK || !env.OK {
		t.Fatalf("register failed: status=%d ok=%v message=%q", resp.StatusCode, env.OK, env.Message)
	}
}

func assertCookieProps(t *testing.T, resp *http.Response, name string, httpOnly bool) {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name != name {
			continue
		}
		if c.Path != "/" {
			t.Fatalf("cookie %s path mismatch: got %q want %q", name, c.Path, "/")
		}
		if c.HttpOnly != httpOnly {
			t.Fatalf("cookie %s HttpOnly mismatch: got %v want %v", name, c.HttpOnly, httpOnly)
		}
		return
	}
	t.Fatalf("cookie %s not found in response", name)
}

func assertClearingCookie(t *testing.T, resp *http.Response, name string) {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name && c.MaxAge < 0 {
			return
		}
	}
	t.Fatalf("expected clearing cookie for %s", name)
}
