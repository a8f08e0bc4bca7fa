package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/shop-ex/shopex-backend/internal/errors"
	"github.com/shop-ex/shopex-backend/internal/guard"
)

// Require adapts a guard chain to gin. It assembles the typed request
// context from transport detail once, here, so the guards themselves stay
// transport-independent: the caller identity comes from the auth
// middleware, the target identity from the email query parameter (falling
// back to the email path parameter), and the listing identifier from the id
// path parameter.
func Require(chain guard.Chain) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		targetEmail := c.Query("email")
		if targetEmail == "" {
			targetEmail = c.Param("email")
		}

		callerEmail, _ := GetUserEmail(c)

		rc := &guard.RequestContext{
			CallerEmail: callerEmail,
			TargetEmail: targetEmail,
			ProductID:   c.Param("id"),
		}

		if denial := chain.Check(c.Request.Context(), rc); denial != nil {
			log.Warn("Guard chain denied request", map[string]interface{}{
				"path":   c.Request.URL.Path,
				"caller": callerEmail,
				"code":   denial.Code,
			})
			errors.RespondWithError(c, denial.Status(), denial.Code, denial.Message)
			c.Abort()
			return
		}

		c.Next()
	}
}
