package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ledger-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified access tokens; stream tokens are
// rejected here so they cannot be used against the API.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hfn)
}

// Subject returns the sub claim of the verified token.
func Subject(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

// Role returns the role claim of the verified token.
func Role(r *http.Request) auth.Role {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if role, ok := claims["role"].(string); ok {
		return auth.Role(role)
	}
	return ""
}
