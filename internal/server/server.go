package server

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todolist/internal/auth"
	"todolist/internal/config"
	"todolist/internal/models"
	"todolist/internal/session"
	"todolist/internal/storage/sqlite"
	"todolist/internal/uploads"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server provides HTTP handlers for the to-do web application.
type Server struct {
	engine   *gin.Engine
	store    *sqlite.Store
	images   uploads.ImageStore
	sessions *session.Manager
	hasher   auth.PasswordHasher
	logger   *slog.Logger

	palette         models.Palette
	imageExts       []string
	maxUploadBytes  int64
	verifyPasswords bool
}

// New constructs the HTTP server with routes and middleware configured.
func New(cfg config.Config, store *sqlite.Store, images uploads.ImageStore, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"percent": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	srv := &Server{
		engine:          router,
		store:           store,
		images:          images,
		sessions:        sessions,
		hasher:          auth.NewBcryptHasher(cfg.BcryptCost),
		logger:          logger,
		palette:         cfg.Palette(),
		imageExts:       cfg.AllowedImageExts(),
		maxUploadBytes:  cfg.MaxUploadBytes,
		verifyPasswords: cfg.VerifyPasswords,
	}

	router.Use(srv.requestLogger(), limitBody(srv.maxUploadBytes), srv.loadSession())
	srv.registerRoutes()
	return srv, nil
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all page, form and static handlers together.
func (s *Server) registerRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})

	s.engine.GET("/register", s.handleRegisterForm)
	s.engine.POST("/register", s.handleRegister)
	s.engine.GET("/login", s.handleLoginForm)
	s.engine.POST("/login", s.handleLogin)
	s.engine.GET("/logout", s.handleLogout)
	s.engine.GET("/health", s.handleHealth)

	authed := s.engine.Group("", s.requireLogin())
	{
		authed.GET("/todos", s.handleListTodos)
		authed.POST("/add", s.handleAddTodo)
		authed.GET("/delete/:id", s.handleDeleteTodo)
		authed.GET("/toggle/:id", s.handleToggleTodo)
		authed.GET("/debug_users", s.handleDebugUsers)
	}

	s.mountStatic()
}

// parseID converts a path parameter to a positive int64, answering 404 otherwise.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}

// render pops pending flashes into data and writes the named template.
func (s *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	sess := currentSession(c)
	if flashes := sess.PopFlashes(); len(flashes) > 0 {
		data["flashes"] = flashes
		s.saveSession(c, *sess)
	}
	c.HTML(status, name, data)
}

// renderError logs err and shows a generic error page without internal detail.
func (s *Server) renderError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.HTML(status, "error.html", gin.H{"message": "something went wrong, please try again"})
}

func (s *Server) saveSession(c *gin.Context, sess session.Session) {
	if err := s.sessions.Save(c.Writer, sess); err != nil {
		s.logger.Error("save session", slog.String("error", err.Error()))
	}
}
