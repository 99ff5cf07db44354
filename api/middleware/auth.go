package middleware

import (
	"context"
	"errors"
	"net/http"

	"amiasbakery_server/lib"
	"amiasbakery_server/structs"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing auth data in request context
type contextKey string

const ClaimsContextKey contextKey = "claims"

// AdminAuthMiddleware protects routes to operators holding an admin token
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.cfg.Auth.AdminTokenSecret)
		if err != nil {
			mw.logger.Warn("Failed to extract claims from request", gecho.Field("error", err))
			msg := "Invalid or missing access token"
			if errors.Is(err, lib.ErrExpiredToken) {
				msg = "Access token expired"
			}
			gecho.Unauthorized(w, gecho.WithMessage(msg), gecho.Send())
			return
		}

		if claims.Role != lib.AdminRole {
			mw.logger.Warn("Non-admin token attempted to access admin route", gecho.Field("sub", claims.Sub), gecho.Field("role", claims.Role))
			gecho.Forbidden(w, gecho.WithMessage("Admin access required"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.AdminClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AdminClaims)
	return claims, ok
}
