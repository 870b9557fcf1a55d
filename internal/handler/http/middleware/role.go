package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ledger-backend-go/internal/handler/http/response"
)

// RequirePermission checks if the caller's role grants a specific permission
func RequirePermission(permission auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := Role(r)
			if role == "" {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !auth.HasPermission(role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but role is '%s'", permission, role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
