package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/judgegodwins/battleship-server/tokens"
)

type contextkey string

const authContextKey contextkey = "auth_payload"

func (s *Server) AuthMiddleware(c *gin.Context) {
	token, ok := bearerToken(c.Request.Header.Get("Authorization"))
	if !ok {
		unauthorized(c, "unauthorized")
		return
	}

	payload, err := tokens.ParseJWTToken(token, []byte(s.config.JWTSecret))
	if err != nil {
		unauthorized(c, "invalid bearer token")
		return
	}

	c.Set(string(authContextKey), payload)

	c.Next()
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, errorResponse(message))
	c.Abort()
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
