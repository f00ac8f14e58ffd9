package middleware

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vpnscout-backend/internal/http/response"
	pkgerrors "github.com/yungbote/vpnscout-backend/internal/pkg/errors"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

const headerSyncSecret = "X-Sync-Secret"

var errBadCredential = fmt.Errorf("%w: missing or invalid sync credential", pkgerrors.ErrUnauthorized)

// SecretAuth guards the sync endpoints with one shared secret.
type SecretAuth struct {
	log    *logger.Logger
	secret []byte
}

func NewSecretAuth(log *logger.Logger, secret string) *SecretAuth {
	return &SecretAuth{
		log:    log.With("middleware", "SecretAuth"),
		secret: []byte(strings.TrimSpace(secret)),
	}
}

// Require rejects before any handler work. An empty configured secret
// rejects every request.
func (a *SecretAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.valid(extractSecret(c)) {
			a.log.Warn("Rejected sync request", "path", c.FullPath(), "client_ip", c.ClientIP())
			response.RespondAPIError(c, "unauthorized", "Unauthorized", errBadCredential)
			return
		}
		c.Next()
	}
}

func (a *SecretAuth) valid(got string) bool {
	if len(a.secret) == 0 || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), a.secret) == 1
}

func extractSecret(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.GetHeader(headerSyncSecret))
}
