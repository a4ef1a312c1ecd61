package middleware

import (
	"net/http"
	"strings"

	"orderservice/api/response"
	"orderservice/infrastructure/userdirectory"
	apperrors "orderservice/pkg/errors"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDHeader identity asserted by the gateway
	UserIDHeader = "X-User-ID"
	// UserRoleHeader comma separated roles asserted by the gateway
	UserRoleHeader = "X-User-Role"

	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	principalKey = "principal"
)

// Principal the authenticated caller
type Principal struct {
	ID    string
	Roles []string
}

// HasRole compares case-insensitively
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool { return p.HasRole(RoleAdmin) }

// PrincipalMiddleware reads the caller identity from the gateway headers and
// forwards the bearer token to downstream calls through the request context.
// Requests without identity pass through unauthenticated.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c.GetHeader("Authorization")); token != "" {
			c.Request = c.Request.WithContext(userdirectory.ContextWithToken(c.Request.Context(), token))
		}

		id := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if id != "" {
			c.Set(principalKey, Principal{ID: id, Roles: splitRoles(c.GetHeader(UserRoleHeader))})
		}
		c.Next()
	}
}

// PrincipalFrom returns the caller set by PrincipalMiddleware
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// RequireAuthenticated rejects requests without a principal with 401
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFrom(c); !ok {
			response.HandleAppError(c, apperrors.Unauthorized("authentication required"))
			return
		}
		c.Next()
	}
}

// RequireRole lets the request through when the principal has any of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			response.HandleAppError(c, apperrors.Unauthorized("authentication required"))
			return
		}
		for _, role := range roles {
			if p.HasRole(role) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, &response.Response{
			Success:   false,
			Error:     string(apperrors.CodeForbidden),
			Message:   "insufficient role",
			Code:      http.StatusForbidden,
			RequestID: response.GetRequestID(c),
		})
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func splitRoles(header string) []string {
	var roles []string
	for _, r := range strings.Split(header, ",") {
		r = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(r)), "ROLE_")
		if r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
