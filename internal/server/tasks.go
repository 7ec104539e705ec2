package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"todolist/internal/models"
	"todolist/internal/todos"
	"todolist/internal/uploads"
)

// handleListTodos shows the user's todos with an optional category filter and statistics.
func (s *Server) handleListTodos(c *gin.Context) {
	sess := currentSession(c)
	items, err := s.store.ListTodos(c.Request.Context(), sess.UserID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	views := todos.Project(items, s.palette, s.images.URL)
	filter := c.DefaultQuery("filter", models.FilterAll)

	s.render(c, http.StatusOK, "todos.html", gin.H{
		"username":       sess.Username,
		"todos":          todos.Filter(views, filter),
		"stats":          todos.ComputeStats(views),
		"color_map":      s.palette.Colors(),
		"categories":     s.palette.Names(),
		"current_filter": filter,
	})
}

// handleAddTodo creates a todo, attaching an image when an allowed file is uploaded.
// Blank tasks are ignored.
func (s *Server) handleAddTodo(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(s.engine.MaxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "request entity too large")
			return
		}
		s.logger.Warn("malformed add form", slog.String("error", err.Error()))
		c.Redirect(http.StatusFound, "/todos")
		return
	}

	task := strings.TrimSpace(c.PostForm("task"))
	if task == "" {
		c.Redirect(http.StatusFound, "/todos")
		return
	}

	ctx := c.Request.Context()
	todo := models.Todo{
		UserID:   currentSession(c).UserID,
		Task:     task,
		Category: s.palette.Normalize(c.DefaultPostForm("category", models.DefaultCategory)),
	}

	if fh, err := c.FormFile("task_image"); err == nil {
		name, err := uploads.SaveUpload(ctx, s.images, fh, s.imageExts, time.Now())
		if err != nil {
			s.logger.Error("save task image", slog.String("file", fh.Filename), slog.String("error", err.Error()))
		}
		todo.Image = name
	}

	if _, err := s.store.CreateTodo(ctx, todo); err != nil {
		s.logger.Error("create todo", slog.String("error", err.Error()))
	}
	c.Redirect(http.StatusFound, "/todos")
}

// handleToggleTodo flips completion of one of the user's todos.
func (s *Server) handleToggleTodo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := s.store.ToggleTodo(c.Request.Context(), id, currentSession(c).UserID); err != nil {
		s.logger.Error("toggle todo", slog.Int64("id", id), slog.String("error", err.Error()))
	}
	c.Redirect(http.StatusFound, "/todos")
}

// handleDeleteTodo removes one of the user's todos.
func (s *Server) handleDeleteTodo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := s.store.DeleteTodo(c.Request.Context(), id, currentSession(c).UserID); err != nil {
		s.logger.Error("delete todo", slog.Int64("id", id), slog.String("error", err.Error()))
	}
	c.Redirect(http.StatusFound, "/todos")
}
