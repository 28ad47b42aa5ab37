package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"referral-finder/internal/pkg/jwt"
	"referral-finder/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func decodeError(t *testing.T, body io.Reader) response.ErrorBody {
	t.Helper()
	var out response.ErrorBody
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func TestErrorMiddleware_MasksCause(t *testing.T) {
	var logs bytes.Buffer
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(&logs, "", 0)).Middleware())
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "Failed to find referral matches", map[string]string{"k": "v"}, errors.New("pq: secret table missing"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body := decodeError(t, resp.Body)
	if body.Error != "Failed to find referral matches" || body.PartialData != nil {
		t.Fatalf("unexpected body %+v", body)
	}
	if !strings.Contains(logs.String(), "secret table missing") {
		t.Fatalf("expected cause in log, got %q", logs.String())
	}
}

func TestErrorMiddleware_ClientErrorKeepsData(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	app.Get("/partial", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusBadRequest, "partial", map[string]string{"title": "SRE"}, nil)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/partial", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeError(t, resp.Body)
	data, ok := body.PartialData.(map[string]interface{})
	if !ok || data["title"] != "SRE" {
		t.Fatalf("expected partial data, got %+v", body)
	}
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("unexpected")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if body := decodeError(t, resp.Body); body.Error != response.MessageInternalServerError {
		t.Fatalf("unexpected body %+v", body)
	}
}

func newAuthApp(t *testing.T, mw *AuthMiddleware) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	app.Get("/me", mw.Middleware(), func(c fiber.Ctx) error {
		id, ok := UserIDFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		return c.SendString(id.String())
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("secret", "", time.Minute)
	uid := uuid.New()
	tok, err := svc.IssueAccessToken(uid, "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	app := newAuthApp(t, NewAuthMiddleware(svc))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if string(b) != uid.String() {
		t.Fatalf("expected user id in locals, got %q", b)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/me?access_token="+tok, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("query token must be ignored without WithQueryToken, got %d", resp.StatusCode)
	}
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	svc := jwt.NewHMACService("secret", "", time.Minute)
	tok, err := svc.IssueAccessToken(uuid.New(), "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	app := newAuthApp(t, NewAuthMiddleware(svc).WithQueryToken())
	resp, err := app.Test(httptest.NewRequest("GET", "/me?access_token="+tok, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAccessLog_WritesLine(t *testing.T) {
	var logs bytes.Buffer
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	app.Use(NewAccessLogMiddleware(log.New(&logs, "", 0)).Middleware())
	app.Get("/missing", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusNotFound, "nope", nil, nil)
	})

	req := httptest.NewRequest("GET", "/missing", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.Header.Get("X-Request-ID") != "rid-1" {
		t.Fatalf("expected request id echoed")
	}
	line := logs.String()
	if !strings.Contains(line, "rid=rid-1") || !strings.Contains(line, "status=404") {
		t.Fatalf("unexpected access log %q", line)
	}
}
