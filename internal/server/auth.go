package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todolist/internal/session"
	"todolist/internal/storage/sqlite"
)

// User-visible form messages.
const (
	msgEmptyCredentials = "username and password must not be empty"
	msgPasswordMismatch = "passwords do not match"
	msgUsernameTooShort = "username must be at least 3 characters"
	msgPasswordTooShort = "password must be at least 6 characters"
	msgUsernameTaken    = "username already exists"
	msgRegistered       = "registration succeeded, please log in"
	msgRegisterFailed   = "registration failed, please try again"
	msgUnknownUser      = "user does not exist"
	msgBadCredentials   = "invalid username or password"
	msgLoginFailed      = "login failed, please try again"
	msgLoggedIn         = "logged in successfully"
	msgLoggedOut        = "you have been logged out"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

type registerForm struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// validate returns the first failing rule's message, or "".
func (f registerForm) validate() string {
	switch {
	case f.Username == "" || f.Password == "":
		return msgEmptyCredentials
	case f.Password != f.ConfirmPassword:
		return msgPasswordMismatch
	case len([]rune(f.Username)) < minUsernameLen:
		return msgUsernameTooShort
	case len([]rune(f.Password)) < minPasswordLen:
		return msgPasswordTooShort
	}
	return ""
}

func (s *Server) handleRegisterForm(c *gin.Context) {
	s.render(c, http.StatusOK, "register.html", nil)
}

// handleRegister validates the form and creates the account.
func (s *Server) handleRegister(c *gin.Context) {
	form := registerForm{
		Username:        strings.TrimSpace(c.PostForm("username")),
		Password:        strings.TrimSpace(c.PostForm("password")),
		ConfirmPassword: strings.TrimSpace(c.PostForm("confirm_password")),
	}
	s.logger.Info("registration attempt", slog.String("username", form.Username))

	if msg := form.validate(); msg != "" {
		s.render(c, http.StatusOK, "register.html", gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	exists, err := s.store.UsernameExists(ctx, form.Username)
	if err != nil {
		s.registerFailed(c, err)
		return
	}
	if exists {
		s.render(c, http.StatusOK, "register.html", gin.H{"error": msgUsernameTaken})
		return
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		s.registerFailed(c, err)
		return
	}
	if _, err := s.store.CreateUser(ctx, form.Username, hash); err != nil {
		if errors.Is(err, sqlite.ErrUsernameTaken) {
			s.render(c, http.StatusOK, "register.html", gin.H{"error": msgUsernameTaken})
			return
		}
		s.registerFailed(c, err)
		return
	}

	s.render(c, http.StatusOK, "register.html", gin.H{"success": msgRegistered})
}

func (s *Server) registerFailed(c *gin.Context, err error) {
	s.logger.Error("registration failed", slog.String("error", err.Error()))
	s.render(c, http.StatusInternalServerError, "register.html", gin.H{"error": msgRegisterFailed})
}

func (s *Server) handleLoginForm(c *gin.Context) {
	s.render(c, http.StatusOK, "login.html", nil)
}

// handleLogin starts a session for an existing username. The password is only
// checked when password verification is enabled.
func (s *Server) handleLogin(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := strings.TrimSpace(c.PostForm("password"))
	s.logger.Info("login attempt", slog.String("username", username))

	user, err := s.store.GetUserByUsername(c.Request.Context(), username)
	if errors.Is(err, sqlite.ErrNotFound) {
		s.render(c, http.StatusOK, "login.html", gin.H{"error": msgUnknownUser})
		return
	}
	if err != nil {
		s.logger.Error("login failed", slog.String("error", err.Error()))
		s.render(c, http.StatusInternalServerError, "login.html", gin.H{"error": msgLoginFailed})
		return
	}
	if s.verifyPasswords && !s.hasher.Verify(user.Password, password) {
		s.render(c, http.StatusOK, "login.html", gin.H{"error": msgBadCredentials})
		return
	}

	sess := currentSession(c)
	sess.UserID = user.ID
	sess.Username = user.Username
	sess.LoggedIn = true
	sess.AddFlash(session.FlashSuccess, msgLoggedIn)
	s.saveSession(c, *sess)

	c.Redirect(http.StatusFound, "/todos")
}

// handleLogout drops the session identity and leaves a notice for the login page.
func (s *Server) handleLogout(c *gin.Context) {
	sess := session.Session{}
	sess.AddFlash(session.FlashInfo, msgLoggedOut)
	*currentSession(c) = sess
	s.saveSession(c, sess)

	c.Redirect(http.StatusFound, "/login")
}
