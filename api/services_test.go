package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/judgegodwins/battleship-server/tokens"
)

func newJSONRequest(t *testing.T, method, url string, body any) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	request, err := http.NewRequest(method, url, bytes.NewReader(data))
	require.NoError(t, err)

	return request, httptest.NewRecorder()
}

func TestTokenGenerator(t *testing.T) {
	t.Run("returns token (happy case)", func(t *testing.T) {
		request, response := newJSONRequest(t, http.MethodPost, "/auth/username", map[string]string{
			"username": "judge",
		})

		testServer.router.ServeHTTP(response, request)

		require.Equal(t, http.StatusOK, response.Code)

		var body struct {
			Status string `json:"status"`
			Data   struct {
				ID       string `json:"id"`
				Username string `json:"username"`
				Token    string `json:"token"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
		require.Equal(t, "success", body.Status)
		require.Equal(t, "judge", body.Data.Username)
		require.NotEmpty(t, body.Data.ID)

		payload, err := tokens.ParseJWTToken(body.Data.Token, []byte(testServer.config.JWTSecret))
		require.NoError(t, err)
		require.Equal(t, "judge", payload.Username)
	})

	t.Run("invalid or no body", func(t *testing.T) {
		request, response := newJSONRequest(t, http.MethodPost, "/auth/username", map[string]string{})

		testServer.router.ServeHTTP(response, request)

		require.Equal(t, http.StatusUnprocessableEntity, response.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	makeToken := func(t *testing.T) string {
		t.Helper()
		token, err := tokens.NewJWTToken(jwt.MapClaims{
			"username": "judge",
			"id":       "some-id",
		}, []byte(testServer.config.JWTSecret))
		require.NoError(t, err)
		return token
	}

	t.Run("allow valid token entry", func(t *testing.T) {
		response := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(response)

		request, err := http.NewRequest(http.MethodGet, "/rooms/x", nil)
		require.NoError(t, err)
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %v", makeToken(t)))
		c.Request = request

		testServer.AuthMiddleware(c)

		require.False(t, c.IsAborted())
		_, ok := c.Get(string(authContextKey))
		require.True(t, ok)
	})

	t.Run("disallow invalid token entry", func(t *testing.T) {
		response := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(response)

		request, err := http.NewRequest(http.MethodGet, "/rooms/x", nil)
		require.NoError(t, err)
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %vhhh", makeToken(t)))
		c.Request = request

		testServer.AuthMiddleware(c)

		require.True(t, c.IsAborted())
		require.Equal(t, http.StatusUnauthorized, response.Code)
	})

	t.Run("disallow non-bearer scheme", func(t *testing.T) {
		response := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(response)

		request, err := http.NewRequest(http.MethodGet, "/rooms/x", nil)
		require.NoError(t, err)
		request.Header.Set("Authorization", fmt.Sprintf("Basic %v", makeToken(t)))
		c.Request = request

		testServer.AuthMiddleware(c)

		require.True(t, c.IsAborted())
		require.Equal(t, http.StatusUnauthorized, response.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		response := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(response)

		request, err := http.NewRequest(http.MethodGet, "/rooms/x", nil)
		require.NoError(t, err)
		c.Request = request

		testServer.AuthMiddleware(c)

		require.True(t, c.IsAborted())
		require.Equal(t, http.StatusUnauthorized, response.Code)
	})
}
