package server

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"todolist/internal/uploads"
)

// UploadsPath is the URL prefix for locally stored task images.
const UploadsPath = "/uploads"

// mountStatic serves locally stored task images and the fallback 404 page.
func (s *Server) mountStatic() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "not found")
	})

	local, ok := s.images.(*uploads.LocalStore)
	if !ok {
		s.logger.Info("images stored remotely; not serving uploads")
		return
	}

	if err := os.MkdirAll(local.Dir(), 0o755); err != nil {
		s.logger.Warn("upload directory unavailable", "path", local.Dir(), "error", err)
		return
	}
	s.engine.Static(UploadsPath, local.Dir())
}
