package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gotodo/gotodo/internal/flash"
	"github.com/gotodo/gotodo/internal/sessions"
	"github.com/gotodo/gotodo/internal/todo"
	"github.com/gotodo/gotodo/pkg/logger"
	"github.com/gotodo/gotodo/pkg/metrics"
	"github.com/gotodo/gotodo/pkg/middleware"
)

// TodoHandler serves the owner-scoped todo pages. Every route is mounted
// behind the login gate, so a user is always present in the context here.
type TodoHandler struct {
	repo     todo.Repository
	sessions *sessions.Service
}

func NewTodoHandler(repo todo.Repository, s *sessions.Service) *TodoHandler {
	return &TodoHandler{repo: repo, sessions: s}
}

// Register routes under the (already guarded) group
func (h *TodoHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/add", h.AddForm)
	rg.GET("/edit/:id", h.EditForm)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// todoForm is the submitted field set for create and update. Absent fields
// come through as empty strings.
type todoForm struct {
	Title   string `form:"title"`
	Details string `form:"details"`
	DueDate string `form:"duedate"`
}

func (h *TodoHandler) flash(c *gin.Context, category, message string) {
	token := middleware.SessionToken(c)
	if token == "" {
		return
	}
	if err := h.sessions.AddFlash(c.Request.Context(), token, category, message); err != nil {
		logger.Errorf("failed to set flash message: %v", err)
	}
}

func (h *TodoHandler) List(c *gin.Context) {
	u := middleware.CurrentUser(c)
	todos, err := h.repo.ListByOwner(c.Request.Context(), u.ID)
	if err != nil {
		logger.Errorf("list todos: %v", err)
		metrics.TodoOperations.WithLabelValues("list", "error").Inc()
		h.flash(c, flash.Error, "Error loading todos")
		c.Redirect(http.StatusFound, "/")
		return
	}
	metrics.TodoOperations.WithLabelValues("list", "ok").Inc()
	c.HTML(http.StatusOK, "todos/index", view(c, gin.H{"todos": todos}))
}

func (h *TodoHandler) AddForm(c *gin.Context) {
	c.HTML(http.StatusOK, "todos/add", view(c, gin.H{"title": "", "details": "", "dueDate": ""}))
}

func (h *TodoHandler) EditForm(c *gin.Context) {
	u := middleware.CurrentUser(c)
	t, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err == todo.ErrNotFound {
		h.flash(c, flash.Error, "Todo not found")
		c.Redirect(http.StatusFound, "/todos")
		return
	}
	if err != nil {
		logger.Errorf("load todo: %v", err)
		h.flash(c, flash.Error, "Error loading todo")
		c.Redirect(http.StatusFound, "/todos")
		return
	}
	// same redirect as not-found: non-owners must not learn the id exists
	if t.OwnerID != u.ID {
		h.flash(c, flash.Error, "Not authorized")
		c.Redirect(http.StatusFound, "/todos")
		return
	}
	c.HTML(http.StatusOK, "todos/edit", view(c, gin.H{"todo": t}))
}

func (h *TodoHandler) Create(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var form todoForm
	_ = c.ShouldBind(&form)

	if problems := todo.Validate(form.Title, form.Details); len(problems) > 0 {
		// echo the submitted values back verbatim so nothing is retyped
		c.HTML(http.StatusOK, "todos/add", view(c, gin.H{
			"errors":  problems,
			"title":   form.Title,
			"details": form.Details,
			"dueDate": form.DueDate,
		}))
		return
	}

	t := &todo.Todo{
		Title:   strings.TrimSpace(form.Title),
		Details: strings.TrimSpace(form.Details),
		DueDate: form.DueDate,
		OwnerID: u.ID,
	}
	if _, err := h.repo.Create(c.Request.Context(), t); err != nil {
		logger.Errorf("save todo: %v", err)
		metrics.TodoOperations.WithLabelValues("create", "error").Inc()
		h.flash(c, flash.Error, "Error saving todo")
		c.Redirect(http.StatusFound, "/todos/add")
		return
	}
	metrics.TodoOperations.WithLabelValues("create", "ok").Inc()
	h.flash(c, flash.Success, "Todo added")
	c.Redirect(http.StatusFound, "/todos")
}

func (h *TodoHandler) Update(c *gin.Context) {
	u := middleware.CurrentUser(c)
	id := c.Param("id")
	var form todoForm
	_ = c.ShouldBind(&form)

	t, err := h.repo.FindByID(c.Request.Context(), id)
	if err == todo.ErrNotFound {
		h.flash(c, flash.Error, "Todo not found")
		c.Redirect(http.StatusFound, "/todos")
		return
	}
	if err != nil {
		logger.Errorf("load todo for update: %v", err)
		metrics.TodoOperations.WithLabelValues("update", "error").Inc()
		h.flash(c, flash.Error, "Error updating todo")
		c.Redirect(http.StatusFound, "/todos")
		return
	}
	if t.OwnerID != u.ID {
		h.flash(c, flash.Error, "Not authorized")
		c.Redirect(http.StatusFound, "/todos")
		return
	}

	if problems := todo.Validate(form.Title, form.Details); len(problems) > 0 {
		// ownership already confirmed, safe to re-render with the raw input
		c.HTML(http.StatusOK, "todos/edit", view(c, gin.H{
			"errors": problems,
			"todo": &todo.Todo{
				ID:      id,
				Title:   form.Title,
				Details: form.Details,
				DueDate: form.DueDate,
			},
		}))
		return
	}

	t.Title = strings.TrimSpace(form.Title)
	t.Details = strings.TrimSpace(form.Details)
	t.DueDate = form.DueDate
	// read-modify-write: a concurrent delete surfaces here as a no-match,
	// reported as an update failure rather than swallowed
	if err := h.repo.Save(c.Request.Context(), t); err != nil {
		logger.Errorf("update todo: %v", err)
		metrics.TodoOperations.WithLabelValues("update", "error").Inc()
		h.flash(c, flash.Error, "Error updating todo")
		c.Redirect(http.StatusFound, "/todos")
		return
	}
	metrics.TodoOperations.WithLabelValues("update", "ok").Inc()
	h.flash(c, flash.Success, "Todo updated")
	c.Redirect(http.StatusFound, "/todos")
}

func (h *TodoHandler) Delete(c *gin.Context) {
	u := middleware.CurrentUser(c)
	// single conditional delete filtered by id AND owner: the filter is the
	// authorization check, with no load-then-delete window
	n, err := h.repo.DeleteByIDAndOwner(c.Request.Context(), c.Param("id"), u.ID)
	if err != nil {
		logger.Errorf("delete todo: %v", err)
		metrics.TodoOperations.WithLabelValues("delete", "error").Inc()
		h.flash(c, flash.Error, "Error deleting todo")
		c.Redirect(http.StatusFound, "/todos")
		return
	}
	if n == 0 {
		metrics.TodoOperations.WithLabelValues("delete", "ok").Inc()
		h.flash(c, flash.Error, "Todo not found or not authorized")
	} else {
		metrics.TodoOperations.WithLabelValues("delete", "ok").Inc()
		h.flash(c, flash.Success, "Todo removed")
	}
	c.Redirect(http.StatusFound, "/todos")
}
