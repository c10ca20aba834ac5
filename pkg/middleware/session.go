package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/gotodo/gotodo/internal/config"
	"github.com/gotodo/gotodo/internal/flash"
	"github.com/gotodo/gotodo/internal/models"
	"github.com/gotodo/gotodo/internal/sessions"
	"github.com/gotodo/gotodo/internal/users"
	"github.com/gotodo/gotodo/pkg/logger"
)

// Context keys set by the session middleware.
const (
	CtxSessionToken = "sessionToken"
	CtxFlash        = "flash"
	CtxUser         = "user"
)

// Session attaches a server-side session to every request. A visitor without
// a valid cookie gets a fresh anonymous session so flash messages work before
// login. Pending flash messages are drained here, once, and exposed to the
// handlers for the current render only.
func Session(cfg *config.Config, svc *sessions.Service, userSvc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, _ := c.Cookie(cfg.Session.CookieName)
		var sess *sessions.Session
		if token != "" {
			s, err := svc.Get(ctx, token)
			if err != nil {
				logger.Errorf("session lookup failed: %v", err)
			}
			sess = s
		}
		if sess == nil {
			t, err := svc.Create(ctx, "", cfg.Session.TTL)
			if err != nil {
				logger.Errorf("failed to create session: %v", err)
				// proceed without a session; flash and login are unavailable
				c.Set(CtxFlash, flash.Messages{})
				c.Next()
				return
			}
			token = t
			c.SetCookie(cfg.Session.CookieName, token, int(cfg.Session.TTL.Seconds()), "/", "", false, true)
		}
		c.Set(CtxSessionToken, token)

		msgs, err := svc.DrainFlash(ctx, token)
		if err != nil {
			logger.Errorf("failed to drain flash: %v", err)
			msgs = flash.Messages{}
		}
		c.Set(CtxFlash, msgs)

		if sess != nil && sess.UserID != "" {
			u, err := userSvc.GetByID(ctx, sess.UserID)
			if err != nil {
				logger.Errorf("user lookup failed: %v", err)
			}
			if u != nil {
				c.Set(CtxUser, u)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user for this request, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CtxUser); ok {
		if u, ok2 := v.(*models.User); ok2 {
			return u
		}
	}
	return nil
}

// SessionToken returns the request's session token, or "".
func SessionToken(c *gin.Context) string {
	if v, ok := c.Get(CtxSessionToken); ok {
		if t, ok2 := v.(string); ok2 {
			return t
		}
	}
	return ""
}

// Flash returns the messages drained for this request.
func Flash(c *gin.Context) flash.Messages {
	if v, ok := c.Get(CtxFlash); ok {
		if m, ok2 := v.(flash.Messages); ok2 {
			return m
		}
	}
	return flash.Messages{}
}
