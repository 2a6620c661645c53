package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// AuthMiddleware verifies HS256 bearer tokens signed with a shared secret.
type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
	issuer string
}

func NewAuthMiddleware(log *logger.Logger, secret, issuer string) (*AuthMiddleware, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret required")
	}
	return &AuthMiddleware{
		log:    log.With("Middleware", "AuthMiddleware"),
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

type claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		p, err := am.verify(tokenString)
		if err != nil {
			am.log.Debug("bearer token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func (am *AuthMiddleware) verify(tokenString string) (*ctxutil.Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if am.issuer != "" {
		opts = append(opts, jwt.WithIssuer(am.issuer))
	}
	var cl claims
	_, err := jwt.ParseWithClaims(tokenString, &cl, func(*jwt.Token) (any, error) { return am.secret, nil }, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if cl.Subject == "" {
		return nil, errors.New("invalid token: missing subject")
	}
	return &ctxutil.Principal{Subject: cl.Subject, Scopes: strings.Fields(cl.Scope)}, nil
}

// extractTokenFromAll accepts ?token= because EventSource cannot set headers.
func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
