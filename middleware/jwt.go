package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"familyledger/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by JWTAuth.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextFamilyID = "familyID"
)

var jwtSecret []byte

// Claims identify the caller and the family their data belongs to.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	FamilyID uint   `json:"family_id"`
	jwt.RegisteredClaims
}

// InitJWT loads the signing secret.
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken issues an HS256 token. Accounts are managed elsewhere; this
// is used by tools and tests.
func GenerateToken(userID uint, username string, familyID uint, expire time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		FamilyID: familyID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "familyledger",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseToken verifies tokenString and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.FamilyID == 0 {
		return nil, errors.New("token carries no family")
	}
	return claims, nil
}

// JWTAuth requires a valid "Authorization: Bearer <token>" header.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "malformed authorization header")
			return
		}

		claims, err := ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextFamilyID, claims.FamilyID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}

// GetCurrentUserID returns the authenticated user, or 0.
func GetCurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetCurrentFamilyID returns the caller's family, or 0.
func GetCurrentFamilyID(c *gin.Context) uint {
	if v, ok := c.Get(ContextFamilyID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
