// Package web serves the chat and upload pages and a small JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tigerroll/mapchat/internal/agent"
	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/domain/entity"
	"github.com/tigerroll/mapchat/internal/ingest"
	"github.com/tigerroll/mapchat/internal/repository"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Chatter answers questions. *agent.Agent implements it.
type Chatter interface {
	Ask(ctx context.Context, conversationID, question string) (*agent.Answer, error)
	History(ctx context.Context, conversationID string) ([]entity.ChatTurn, error)
	Clear(ctx context.Context, conversationID string) error
}

// Uploader imports location history. *ingest.Service implements it.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader) (*ingest.UploadResult, error)
	Stats(ctx context.Context) (repository.Stats, error)
}

// VisitWriter streams the visit log. *export.Service implements it.
type VisitWriter interface {
	WriteVisits(ctx context.Context, w io.Writer) (int, error)
}

// Server is the HTTP front end.
type Server struct {
	echo    *echo.Echo
	cfg     config.HTTPConfig
	chat    Chatter
	uploads Uploader
	visits  VisitWriter
}

// NewServer builds the router. metricsHandler may be nil.
func NewServer(cfg config.HTTPConfig, chat Chatter, uploads Uploader, visits VisitWriter, metricsHandler http.Handler) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{"deref": deref}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &templateRenderer{templates: tmpl}
	e.HTTPErrorHandler = errorHandler
	e.Server.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second

	e.Use(middleware.Recover())
	e.Use(requestLogger())

	s := &Server{echo: e, cfg: cfg, chat: chat, uploads: uploads, visits: visits}

	e.GET("/", s.chatPage)
	e.POST("/", s.askPage)
	e.POST("/clear/", s.clearPage)

	upload := e.Group("/upload")
	if cfg.MaxUploadMB > 0 {
		upload.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadMB)))
	}
	upload.GET("/uploadlh", s.uploadPage)
	upload.POST("/uploadlh", s.uploadFile)

	api := e.Group("/api")
	api.POST("/chat", s.apiChat)
	api.GET("/history", s.apiHistory)
	api.POST("/clear", s.apiClear)
	api.GET("/stats", s.apiStats)

	e.GET("/export/visits.parquet", s.downloadVisits)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	logger.Infof("Listening on %s.", s.cfg.Address)
	if err := s.echo.Start(s.cfg.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type templateRenderer struct {
	templates *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
