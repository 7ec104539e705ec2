package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// handleHealth provides a basic liveness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "application is running")
}

// handleDebugUsers lists every account id and username as plain text.
func (s *Server) handleDebugUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		s.logger.Error("list users", "error", err)
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, fmt.Sprintf("ID: %d, username: '%s'", u.ID, u.Username))
	}
	c.String(http.StatusOK, strings.Join(lines, "\n"))
}
