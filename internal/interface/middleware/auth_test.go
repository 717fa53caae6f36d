package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vaccine-accounts/internal/application"
	"github.com/oksasatya/vaccine-accounts/pkg/helpers"
)

type fakeResolver map[string]application.Identity

func (f fakeResolver) ResolveIdentity(_ context.Context, email string) (application.Identity, error) {
	if email == "broken@b.com" {
		return application.Identity{}, errors.New("db down")
	}
	who, ok := f[email]
	if !ok {
		return application.Identity{}, application.ErrUnauthorized
	}
	return who, nil
}

var testTokens = helpers.NewTokenManager("secret", time.Hour)

func authEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	resolver := fakeResolver{"a@b.com": {ID: 7, AccountType: "user", Email: "a@b.com"}}
	h := func(c *gin.Context) {
		who, ok := IdentityFrom(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": who.ID, "email": who.Email, "uid": c.GetString(CtxUserIDKey)})
	}
	r.GET("/account/:id", Auth(testTokens, resolver), h)
	r.GET("/token/:auth_token", Auth(testTokens, resolver), h)
	return r
}

func call(t *testing.T, r http.Handler, target, header string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set("AUTHORIZATION", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func issue(t *testing.T, email string) string {
	t.Helper()
	tok, _, err := testTokens.Issue(email)
	require.NoError(t, err)
	return tok
}

func TestAuth_InjectsIdentity(t *testing.T) {
	r := authEngine()
	tok := issue(t, "a@b.com")

	for _, header := range []string{tok, "Bearer " + tok} {
		code, body := call(t, r, "/account/1", header)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(7), body["id"])
		assert.Equal(t, "a@b.com", body["email"])
		assert.Equal(t, "7", body["uid"])
	}
}

func TestAuth_TokenFromRouteParam(t *testing.T) {
	code, body := call(t, authEngine(), "/token/"+issue(t, "a@b.com"), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "a@b.com", body["email"])
}

func TestAuth_Failures(t *testing.T) {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "a@b.com",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-3 * 24 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	foreign, _, err := helpers.NewTokenManager("other", time.Hour).Issue("a@b.com")
	require.NoError(t, err)

	cases := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing", "", http.StatusBadRequest, "Auth token required"},
		{"expired", expired, http.StatusBadRequest, "Signature expired, login again"},
		{"malformed", "not-a-token", http.StatusForbidden, "The user is not authorized"},
		{"wrong secret", foreign, http.StatusForbidden, "The user is not authorized"},
		{"unknown subject", issue(t, "ghost@b.com"), http.StatusForbidden, "Authentication failed"},
		{"resolver error", issue(t, "broken@b.com"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := call(t, authEngine(), "/account/1", tc.header)
			assert.Equal(t, tc.status, code)
			assert.Equal(t, tc.message, body["message"])
			assert.Equal(t, false, body["success"])
		})
	}
}
