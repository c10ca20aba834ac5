package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gotodo/gotodo/internal/flash"
	"github.com/gotodo/gotodo/internal/sessions"
	"github.com/gotodo/gotodo/internal/users"
	"github.com/gotodo/gotodo/pkg/logger"
	"github.com/gotodo/gotodo/pkg/middleware"
)

// AuthHandler serves the login/register/logout flow.
type AuthHandler struct {
	users    *users.Service
	sessions *sessions.Service
}

func NewAuthHandler(u *users.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{users: u, sessions: s}
}

// Register routes under /users
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/users")
	a.GET("/login", h.LoginForm)
	a.POST("/login", h.Login)
	a.GET("/register", h.RegisterForm)
	a.POST("/register", h.RegisterUser)
	a.GET("/logout", h.Logout)
}

func (h *AuthHandler) flash(c *gin.Context, category, message string) {
	token := middleware.SessionToken(c)
	if token == "" {
		return
	}
	if err := h.sessions.AddFlash(c.Request.Context(), token, category, message); err != nil {
		logger.Errorf("failed to set flash message: %v", err)
	}
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "users/login", view(c, nil))
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	u, err := h.users.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		logger.Errorf("authenticate: %v", err)
		h.flash(c, flash.Generic, "Error logging in")
		c.Redirect(http.StatusFound, "/users/login")
		return
	}
	if u == nil {
		// unknown email and bad password are deliberately the same message
		h.flash(c, flash.Generic, "Invalid email or password")
		c.Redirect(http.StatusFound, "/users/login")
		return
	}
	if err := h.sessions.Login(c.Request.Context(), middleware.SessionToken(c), u.ID); err != nil {
		logger.Errorf("bind session: %v", err)
		h.flash(c, flash.Generic, "Error logging in")
		c.Redirect(http.StatusFound, "/users/login")
		return
	}
	c.Redirect(http.StatusFound, "/todos")
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "users/register", view(c, gin.H{"name": "", "email": ""}))
}

func (h *AuthHandler) RegisterUser(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	password2 := c.PostForm("password2")

	var problems []formError
	if name == "" {
		problems = append(problems, formError{Text: "Please add a name"})
	}
	if email == "" {
		problems = append(problems, formError{Text: "Please add an email"})
	}
	if len(password) < 4 {
		problems = append(problems, formError{Text: "Password must be at least 4 characters"})
	}
	if password != password2 {
		problems = append(problems, formError{Text: "Passwords do not match"})
	}
	if len(problems) > 0 {
		c.HTML(http.StatusOK, "users/register", view(c, gin.H{
			"errors": problems,
			"name":   name,
			"email":  email,
		}))
		return
	}

	if _, err := h.users.Register(c.Request.Context(), name, email, password); err != nil {
		if err == users.ErrEmailTaken {
			c.HTML(http.StatusOK, "users/register", view(c, gin.H{
				"errors": []formError{{Text: "Email already registered"}},
				"name":   name,
				"email":  email,
			}))
			return
		}
		logger.Errorf("register: %v", err)
		h.flash(c, flash.Generic, "Error creating account")
		c.Redirect(http.StatusFound, "/users/register")
		return
	}
	h.flash(c, flash.Success, "You are now registered and can log in")
	c.Redirect(http.StatusFound, "/users/login")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		logger.Errorf("logout: %v", err)
	}
	h.flash(c, flash.Success, "You are logged out")
	c.Redirect(http.StatusFound, "/users/login")
}
