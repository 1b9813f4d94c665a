package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oticavision/backoffice/internal/api/problem"
)

type contextKey string

const (
	userContextKey  contextKey = "user_id"
	roleContextKey  contextKey = "user_role"
	traceContextKey contextKey = "trace_id"
)

var (
	jwtSecret   []byte
	jwtIssuer   string
	jwtAudience string
)

// operatorClaims are the claims the back-office issues to its operators. Role
// gates the sync-control endpoints.
type operatorClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func SetJWTSecret(secret string) {
	if secret == "" {
		return
	}
	jwtSecret = []byte(secret)
}

func SetJWTValidation(issuer, audience string) {
	jwtIssuer = strings.TrimSpace(issuer)
	jwtAudience = strings.TrimSpace(audience)
}

// AuthMiddleware validates the bearer token and puts the operator's id and
// role on the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, r, "auth/authorization-header-required", "Authorization header required")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == header {
			unauthorized(w, r, "auth/invalid-token-format", "Invalid token format")
			return
		}
		if len(jwtSecret) == 0 {
			problem.Write(w, r, http.StatusInternalServerError, problem.Type("auth/misconfigured"),
				http.StatusText(http.StatusInternalServerError), "auth is not configured")
			return
		}

		claims, err := parseOperatorToken(raw)
		if err != nil {
			unauthorized(w, r, "auth/invalid-token", "Invalid token")
			return
		}
		if claims.UserID == "" || (claims.Subject != "" && claims.Subject != claims.UserID) {
			unauthorized(w, r, "auth/invalid-token-claims", "Invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims.UserID)
		ctx = context.WithValue(ctx, roleContextKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseOperatorToken(raw string) (*operatorClaims, error) {
	claims := &operatorClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if jwtIssuer != "" {
		opts = append(opts, jwt.WithIssuer(jwtIssuer))
	}
	if jwtAudience != "" {
		opts = append(opts, jwt.WithAudience(jwtAudience))
	}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return jwtSecret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token invalid")
	}
	return claims, nil
}

// RequireRole gates a route group on the operator's role claim.
func RequireRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserRoleFromContext(r.Context()) != requiredRole {
				problem.Write(w, r, http.StatusForbidden, problem.Type("auth/insufficient-permissions"),
					http.StatusText(http.StatusForbidden), "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, slug, detail string) {
	problem.Write(w, r, http.StatusUnauthorized, problem.Type(slug),
		http.StatusText(http.StatusUnauthorized), detail)
}

// UserIDFromContext returns the authenticated operator's id.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(userContextKey).(string); ok {
		return v
	}
	return ""
}

// UserRoleFromContext returns the authenticated operator's role.
func UserRoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(roleContextKey).(string); ok {
		return v
	}
	return ""
}

// TraceIDFromContext returns the trace id for the request.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(traceContextKey).(string); ok {
		return v
	}
	return ""
}
