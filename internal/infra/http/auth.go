package http

import (
	"errors"
	"net/http"
	"strings"

	"cakeshop/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalContextKey = "principal"

type authErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// authMiddleware gates every protected route. On success the verified
// principal is attached to the request context; on failure the pipeline stops
// with the stable auth code and the full reason goes to the log only.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AuthMode == "none" {
			c.Next()
			return
		}
		if s.authInitErr != nil || s.authenticator == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, authErrorResponse{Error: "auth configuration error"})
			return
		}
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			writeUnauthorized(c, domain.ErrNoToken)
			return
		}
		principal, err := s.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.log.Warn("token verification failed",
				zap.String("code", domain.AuthCode(err)),
				zap.String("reason", err.Error()),
				zap.String("path", c.Request.URL.Path),
			)
			writeUnauthorized(c, err)
			return
		}
		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// bearerToken accepts exactly the `Bearer <token>` scheme.
func bearerToken(value string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(value, prefix) {
		return "", false
	}
	token := strings.TrimSpace(value[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

func writeUnauthorized(c *gin.Context, err error) {
	// An unreachable key-set endpoint is an upstream failure, not a bad
	// credential; callers may retry it.
	if errors.Is(err, domain.ErrKeyFetch) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, authErrorResponse{
			Error:   "signing keys unavailable",
			Details: domain.AuthCode(err),
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, authErrorResponse{
		Error:   "unauthorized",
		Details: domain.AuthCode(err),
	})
}

func getPrincipal(c *gin.Context) (domain.Principal, bool) {
	raw, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := raw.(domain.Principal)
	return principal, ok
}
