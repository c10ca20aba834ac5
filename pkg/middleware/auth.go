package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gotodo/gotodo/internal/flash"
	"github.com/gotodo/gotodo/internal/sessions"
)

// RequireLogin guards authenticated routes. Anonymous callers are redirected
// to the login page with a one-shot message and the handler never runs.
func RequireLogin(svc *sessions.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		if token := SessionToken(c); token != "" {
			_ = svc.AddFlash(c.Request.Context(), token, flash.Generic, "Please log in to view that resource")
		}
		c.Redirect(http.StatusFound, "/users/login")
		c.Abort()
	}
}
