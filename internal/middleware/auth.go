package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/Formlet/internal/dto"
)

const userIDKey = "user_id"

type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewTokenSigner returns an HS256 signer bound to the configured secret.
func NewTokenSigner(secret string) func(userID uint, username string, ttl time.Duration) (string, error) {
	return func(userID uint, username string, ttl time.Duration) (string, error) {
		now := time.Now()
		claims := Claims{
			UserID:   userID,
			Username: username,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	}
}

func parseToken(secret, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := parsed.Claims.(*Claims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func bearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), true
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user id on the context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
			return
		}
		claims, err := parseToken(secret, token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}
		ctx.Set(userIDKey, claims.UserID)
		ctx.Next()
	}
}

// OptionalAuth attaches the caller's user id when a valid bearer token is
// present and stays silent otherwise; used on endpoints open to anonymous
// submitters.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token, ok := bearerToken(ctx); ok {
			if claims, err := parseToken(secret, token); err == nil {
				ctx.Set(userIDKey, claims.UserID)
			}
		}
		ctx.Next()
	}
}

// CurrentUserID returns the authenticated caller's id, if any.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
