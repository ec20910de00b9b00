package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cashflow-bridge/internal/infrastructure/consent"

	"github.com/labstack/echo/v4"
)

const (
	consentAccount = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	otherAccount   = "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
)

func setupConsentEcho(v Verifier, calls *int) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	g := e.Group("/accounts/:account_id", RequireConsent(v))
	g.GET("/cashflow", func(c echo.Context) error {
		*calls++
		return c.JSON(http.StatusOK, map[string]string{"account": c.Param("account_id")})
	})
	return e
}

func getWithAuth(e *echo.Echo, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireConsent(t *testing.T) {
	iss := consent.NewIssuer("0123456789abcdef", time.Hour)
	token, _, err := iss.Issue(consentAccount)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expired, _, err := consent.NewIssuer("0123456789abcdef", time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue(consentAccount)
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}

	cases := []struct {
		name    string
		account string
		auth    string
		want    int
	}{
		{"valid", consentAccount, "Bearer " + token, http.StatusOK},
		{"lowercase scheme", consentAccount, "bearer " + token, http.StatusOK},
		{"missing header", consentAccount, "", http.StatusUnauthorized},
		{"wrong scheme", consentAccount, "Basic " + token, http.StatusUnauthorized},
		{"empty token", consentAccount, "Bearer ", http.StatusUnauthorized},
		{"garbage", consentAccount, "Bearer not.a.jwt", http.StatusUnauthorized},
		{"expired", consentAccount, "Bearer " + expired, http.StatusUnauthorized},
		{"other account", otherAccount, "Bearer " + token, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int
			e := setupConsentEcho(iss, &calls)
			rec := getWithAuth(e, "/accounts/"+tc.account+"/cashflow", tc.auth)
			if rec.Code != tc.want {
				t.Fatalf("code = %d, want %d; body=%s", rec.Code, tc.want, rec.Body.String())
			}
			if wantCalls := map[bool]int{true: 1, false: 0}[tc.want == http.StatusOK]; calls != wantCalls {
				t.Fatalf("handler calls = %d, want %d", calls, wantCalls)
			}
		})
	}
}

func TestRequireConsent_WrongSecret(t *testing.T) {
	token, _, err := consent.NewIssuer("another-secret-of-16", time.Hour).Issue(consentAccount)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	var calls int
	e := setupConsentEcho(consent.NewIssuer("0123456789abcdef", time.Hour), &calls)
	if rec := getWithAuth(e, "/accounts/"+consentAccount+"/cashflow", "Bearer "+token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}
