package httpadapter

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type userIDContextKey struct{}

func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDContextKey{}).(int64)
	return id, ok
}

// authMiddleware validates the HS256 bearer token and stores the user id
// from the subject claim in the request context. With an empty secret the
// middleware rejects everything; the service must not run open by accident.
func (rt *Router) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := rt.userIDFromBearer(r.Header.Get("Authorization"))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		if info := authInfoFromContext(r.Context()); info != nil {
			info.userID = userID
		}
		ctx := context.WithValue(r.Context(), userIDContextKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (rt *Router) userIDFromBearer(header string) (int64, error) {
	if len(rt.jwtSecret) == 0 {
		return 0, fmt.Errorf("jwt secret is not configured")
	}

	const bearerPrefix = "Bearer "
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, bearerPrefix) {
		return 0, fmt.Errorf("missing bearer token")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if tokenString == "" {
		return 0, fmt.Errorf("missing bearer token")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return rt.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("invalid subject claim %q", claims.Subject)
	}
	return userID, nil
}
