package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/logging"
	"github.com/dmitrijs2005/baibai/internal/server/auth"
	"github.com/dmitrijs2005/baibai/internal/server/models"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// RequireAuth admits requests carrying a valid access token and stores the
// principal in both the gin and the request context.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			abortWithStatus(c, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
			return
		}

		p, err := a.Authenticate(token)
		if err != nil {
			abortWithStatus(c, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
			return
		}

		c.Set(principalKey, p)
		c.Request = c.Request.WithContext(auth.ContextWithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth. Any lookup failure denies.
func RequireAdmin(users UserManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			abortWithStatus(c, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
			return
		}

		admin, err := users.IsAdmin(c.Request.Context(), p.ID)
		if err != nil || !admin {
			abortWithStatus(c, http.StatusForbidden, http.StatusText(http.StatusForbidden))
			return
		}
		c.Next()
	}
}

func principal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
