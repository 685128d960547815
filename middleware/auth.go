package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Actor is the authenticated caller extracted from a bearer token
type Actor struct {
	ID   string
	Role string
}

type contextKey string

const actorKey contextKey = "actor"

// JWTManager signs and verifies HS256 bearer tokens. It implements
// services.TokenIssuer.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManagerFromEnv reads JWT_SECRET and JWT_TTL_HOURS from the environment
func NewJWTManagerFromEnv() *JWTManager {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}
	ttl := 72 * time.Hour
	if hours := os.Getenv("JWT_TTL_HOURS"); hours != "" {
		if d, err := time.ParseDuration(hours + "h"); err == nil {
			ttl = d
		}
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl}
}

// NewJWTManager builds a manager with an explicit secret and lifetime
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl}
}

// IssueToken signs a token carrying the user's ID and role
func (m *JWTManager) IssueToken(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies a token string and returns the actor it identifies
func (m *JWTManager) Parse(tokenString string) (Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, fmt.Errorf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Actor{}, fmt.Errorf("token has no subject")
	}
	role, _ := claims["role"].(string)
	return Actor{ID: sub, Role: role}, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// actor in the request context. WebSocket-style clients may pass the token as
// a query parameter instead of a header.
func (m *JWTManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
		if tokenString == "" {
			tokenString = r.URL.Query().Get("token")
		}
		if tokenString == "" {
			http.Error(w, `{"error": "authorization required"}`, http.StatusUnauthorized)
			return
		}

		actor, err := m.Parse(tokenString)
		if err != nil {
			http.Error(w, `{"error": "invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFrom extracts the authenticated actor from a request context
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
