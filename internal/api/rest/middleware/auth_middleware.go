package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

const authHeaderPrefix = "Bearer "

// ContextUserKey ключ, под которым ID пользователя кладется в контекст gin
const ContextUserKey = "userID"

// TokenClaims клеймы токена, выданного внешним сервисом аутентификации.
// Сервис дашборда токены не выдает, только проверяет подпись.
type TokenClaims struct {
	UserEmail string `json:"email"`
	jwt.RegisteredClaims
}

// JWTMiddleware проверяет Bearer-токены на запросах API
type JWTMiddleware struct {
	secret []byte
	log    *logger.Logger
}

// NewJWTMiddleware создает middleware аутентификации.
// Пустой секрет означает, что аутентификация выключена (dev-режим).
func NewJWTMiddleware(secret string, log *logger.Logger) *JWTMiddleware {
	if secret == "" {
		log.Warnw("JWT secret is not set, API authentication is DISABLED")
	}
	return &JWTMiddleware{
		secret: []byte(secret),
		log:    log,
	}
}

// RequireAuth возвращает gin.HandlerFunc, требующий валидный токен
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.secret) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.abort(c, "Missing authorization token")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, authHeaderPrefix)
		claims, err := m.validate(tokenString)
		if err != nil {
			m.abort(c, fmt.Sprintf("Token validation failed: %v", err))
			return
		}

		c.Set(ContextUserKey, claims.Subject)
		c.Next()
	}
}

func (m *JWTMiddleware) validate(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (m *JWTMiddleware) abort(c *gin.Context, message string) {
	m.log.Warn("Auth failed for %s %s: %s", c.Request.Method, c.Request.RequestURI, message)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
