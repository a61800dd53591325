// Package web serves the browser front end: a chat-style daily update flow
// with approve/reject, a sheet overview, and the guide generator.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gorewood/standup/internal/guide"
	"github.com/gorewood/standup/internal/sheet"
	"github.com/gorewood/standup/internal/tracker"
)

//go:embed static
var staticFiles embed.FS

// Sheet is the spreadsheet surface the UI uses. *sheet.Manager implements
// it.
type Sheet interface {
	Info(ctx context.Context) (sheet.Info, error)
	ReadRows(ctx context.Context) ([]sheet.Row, error)
	ValidateStructure(ctx context.Context) ([]string, error)
	WriteChanges(ctx context.Context, changes []sheet.Change) (sheet.WriteResult, error)
	Backup(ctx context.Context) (string, error)
	DevReason() string
}

// Classifier proposes changes for a daily update.
type Classifier interface {
	Classify(ctx context.Context, updateText string, rows []sheet.Row) ([]sheet.Change, error)
}

// GuideWriter writes installation guides.
type GuideWriter interface {
	Generate(ctx context.Context, req guide.Request) (*guide.Guide, error)
}

// Deps are the collaborators behind the handlers. Classifier and Guides may
// be nil when no language model is configured.
type Deps struct {
	Sheet      Sheet
	Classifier Classifier
	Guides     GuideWriter
	Validator  tracker.Validator
	LLMErr     error
	// GuideDir is where generated documents are written for download.
	GuideDir string
	Logger   *zap.Logger
}

// Server is the web UI.
type Server struct {
	router    *gin.Engine
	deps      Deps
	pending   *pendingStore
	downloads *downloadStore
	log       *zap.Logger
}

// NewServer builds the router.
func NewServer(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if deps.GuideDir == "" {
		deps.GuideDir = os.TempDir()
	}

	s := &Server{
		router:    gin.New(),
		deps:      deps,
		pending:   newPendingStore(),
		downloads: newDownloadStore(),
		log:       log,
	}
	s.router.Use(gin.Recovery(), requestLogger(log))
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/sheet", s.handleSheetInfo)
		api.GET("/rows", s.handleRows)
		api.POST("/backup", s.handleBackup)
		api.POST("/updates", s.handleUpdate)
		api.POST("/changes/:id/apply", s.handleApply)
		api.POST("/changes/:id/reject", s.handleReject)
		api.POST("/guides", s.handleGuide)
		api.GET("/guides/:id", s.handleDownload)
	}

	sub, _ := fs.Sub(staticFiles, "static")
	s.router.GET("/", func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("web UI listening", zap.String("addr", "http://"+addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
