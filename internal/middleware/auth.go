package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/carbon-footprint-backend/pkg/response"
)

// ContextSubjectKey is the gin context key holding the authenticated subject
const ContextSubjectKey = "auth_subject"

// JWTAuth requires a bearer token signed with HS256 and secret
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			response.Error(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		claims := &jwt.RegisteredClaims{}
		_, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			response.Error(c, http.StatusUnauthorized, msg)
			c.Abort()
			return
		}

		c.Set(ContextSubjectKey, claims.Subject)
		c.Next()
	}
}
