package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presencehq/presence-backend-go/internal/domain/auth"
	"github.com/presencehq/presence-backend-go/internal/domain/user"
	"github.com/presencehq/presence-backend-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !HasRoleClaim(claims, user.RoleAdmin) {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// HasRoleClaim reports whether the "roles" claim carries the given role.
// Claim values come back from the token as []interface{}.
func HasRoleClaim(claims map[string]interface{}, role user.Role) bool {
	raw, ok := claims["roles"].([]interface{})
	if !ok {
		return false
	}
	for _, v := range raw {
		if s, ok := v.(string); ok && user.Role(s) == role {
			return true
		}
	}
	return false
}
