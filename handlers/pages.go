package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the public pages.
type PageHandler struct{}

func NewPageHandler() *PageHandler { return &PageHandler{} }

func (h *PageHandler) Register(r gin.IRoutes) {
	r.GET("/", h.Index)
	r.GET("/about", h.About)
}

func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", view(c, gin.H{"title": "Welcome"}))
}

func (h *PageHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about", view(c, nil))
}
