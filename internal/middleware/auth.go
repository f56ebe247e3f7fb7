package middleware

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

const (
	tokenTTL       = 24 * time.Hour
	actorCacheTTL  = 1 * time.Hour
	actorContext   = "actor"
	defaultSecret  = "craftforge-secret-key-2024"
	bearerPrefix   = "Bearer "
	authHeaderName = "Authorization"
)

// Claims are the JWT claims issued at login.
type Claims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte(defaultSecret)
}

// IssueToken creates a signed HS256 token for the user.
func IssueToken(userID, tenantID uuid.UUID) (string, error) {
	claims := Claims{
		UserID:   userID.String(),
		TenantID: tenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// AuthMiddleware resolves the authenticated actor for every request.
type AuthMiddleware struct {
	db *gorm.DB
}

func NewAuthMiddleware(db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{db: db}
}

// RequireAuth validates the bearer token and attaches the resolved actor to
// the context. The actor (permission set included) is resolved once per
// session and cached in Redis under a hash of the token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.UnauthorizedResponse(c, "Authorization token required")
			c.Abort()
			return
		}

		if actor, err := utils.GetActorSession(tokenString); err == nil {
			c.Set(actorContext, actor)
			c.Next()
			return
		}

		actor, err := am.resolveActor(tokenString)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid token")
			c.Abort()
			return
		}

		if err := utils.CacheActorSession(tokenString, actor, actorCacheTTL); err != nil {
			// Cache failure is non-critical; next request resolves again.
			logrus.WithError(err).Debug("failed to cache actor session")
		}

		c.Set(actorContext, actor)
		c.Next()
	}
}

// resolveActor parses the token and builds the actor from the user and role
// rows. This is the single place where permission sets are computed.
func (am *AuthMiddleware) resolveActor(tokenString string) (*authz.Actor, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token: %w", err)
	}

	var user models.User
	if err := am.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	var roleKeys []string
	if !user.IsAdmin && user.RoleID != nil {
		var role models.Role
		if err := am.db.Where("id = ? AND tenant_id = ?", *user.RoleID, user.TenantID).First(&role).Error; err == nil {
			roleKeys = role.Permissions
		}
	}

	return &authz.Actor{
		ID:          user.ID,
		TenantID:    user.TenantID,
		Email:       user.Email,
		FullName:    user.FullName,
		IsAdmin:     user.IsAdmin,
		Permissions: authz.ResolvePermissions(user.IsAdmin, roleKeys),
	}, nil
}

// ActorFromContext extracts the resolved actor set by RequireAuth.
func ActorFromContext(c *gin.Context) (*authz.Actor, error) {
	value, exists := c.Get(actorContext)
	if !exists {
		return nil, fmt.Errorf("actor not found in context")
	}
	actor, ok := value.(*authz.Actor)
	if !ok {
		return nil, fmt.Errorf("invalid actor in context")
	}
	return actor, nil
}

// extractToken extracts the JWT token from the Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader(authHeaderName)
	if authHeader == "" {
		return ""
	}
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimPrefix(authHeader, bearerPrefix)
	}
	return authHeader
}
