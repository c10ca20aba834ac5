package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gotodo/gotodo/internal/flash"
	"github.com/gotodo/gotodo/pkg/middleware"
)

// formError is a single human-readable form problem, rendered inline.
type formError struct {
	Text string
}

// view merges the per-request ambient values (drained flash messages and the
// current user) into the template data, mirroring what every page expects.
func view(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	msgs := middleware.Flash(c)
	data["success_msg"] = msgs[flash.Success]
	data["error_msg"] = msgs[flash.Error]
	data["error"] = msgs[flash.Generic]
	if u := middleware.CurrentUser(c); u != nil {
		data["user"] = u
	}
	return data
}
