package web

import (
	"errors"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gorewood/standup/internal/export"
	"github.com/gorewood/standup/internal/guide"
	"github.com/gorewood/standup/internal/output"
	"github.com/gorewood/standup/internal/sheet"
	"github.com/gorewood/standup/internal/tracker"
)

var errNoLLM = errors.New("no language model configured")

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	var perr *tracker.ParseError
	switch {
	case errors.As(err, &perr):
		return http.StatusBadGateway
	case errors.Is(err, tracker.ErrEmptyUpdate):
		return http.StatusBadRequest
	case output.IsUserError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) llmErr() error {
	if s.deps.LLMErr != nil {
		return output.NewUserErrorWithCause("no language model configured", s.deps.LLMErr)
	}
	return output.NewUserErrorWithCause("no language model configured", errNoLLM)
}

// --- status / sheet ---

func (s *Server) handleStatus(c *gin.Context) {
	resp := gin.H{
		"development_mode": s.deps.Sheet.DevReason() != "",
		"dev_reason":       s.deps.Sheet.DevReason(),
		"llm":              s.deps.Classifier != nil,
		"pending":          s.pending.len(),
	}
	if s.deps.LLMErr != nil {
		resp["llm_error"] = s.deps.LLMErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSheetInfo(c *gin.Context) {
	info, err := s.deps.Sheet.Info(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	missing, err := s.deps.Sheet.ValidateStructure(c.Request.Context())
	if err != nil && !errors.Is(err, sheet.ErrNoHeaders) {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"info": info, "missing_columns": missing})
}

func (s *Server) handleRows(c *gin.Context) {
	rows, err := s.deps.Sheet.ReadRows(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if rows == nil {
		rows = []sheet.Row{}
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (s *Server) handleBackup(c *gin.Context) {
	path, err := s.deps.Sheet.Backup(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// --- daily updates ---

type updateRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) handleUpdate(c *gin.Context) {
	if s.deps.Classifier == nil {
		s.fail(c, s.llmErr())
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	ctx := c.Request.Context()
	rows, err := s.deps.Sheet.ReadRows(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	changes, err := s.deps.Classifier.Classify(ctx, req.Text, rows)
	if err != nil {
		s.fail(c, err)
		return
	}
	changes = s.deps.Validator.Validate(changes, rows)

	resp := gin.H{
		"changes": changes,
		"summary": tracker.Summarize(changes),
		"preview": tracker.Preview(changes),
	}
	if len(changes) > 0 {
		resp["id"] = s.pending.put(changes)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleApply(c *gin.Context) {
	changes, ok := s.pending.take(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending changes with that id"})
		return
	}
	res, err := s.deps.Sheet.WriteChanges(c.Request.Context(), changes)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleReject(c *gin.Context) {
	if _, ok := s.pending.take(c.Param("id")); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending changes with that id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// --- guides ---

type guideRequest struct {
	Software string        `json:"software" binding:"required"`
	Params   []guide.Param `json:"params"`
	Format   string        `json:"format"`
}

func (s *Server) handleGuide(c *gin.Context) {
	if s.deps.Guides == nil {
		s.fail(c, s.llmErr())
		return
	}
	var req guideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "software is required"})
		return
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = export.FormatDocx
	}
	if !slices.Contains(export.Formats, format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be docx or md"})
		return
	}

	g, err := s.deps.Guides.Generate(c.Request.Context(), guide.Request{Software: req.Software, Params: req.Params})
	if err != nil {
		s.fail(c, err)
		return
	}

	base := filepath.Join(s.deps.GuideDir, fileBase(g.Title))
	path, err := export.Render(g.Title, g.Markdown, base, format)
	if err != nil {
		s.fail(c, err)
		return
	}
	id := s.downloads.put(download{path: path, name: filepath.Base(path)})

	c.JSON(http.StatusOK, gin.H{
		"title":    g.Title,
		"markdown": g.Markdown,
		"sources":  g.Sources,
		"download": "/api/guides/" + id,
	})
}

func (s *Server) handleDownload(c *gin.Context) {
	d, ok := s.downloads.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no guide with that id"})
		return
	}
	c.FileAttachment(d.path, d.name)
}

// fileBase turns a title into a safe file name without extension.
func fileBase(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			if s := b.String(); s != "" && !strings.HasSuffix(s, "_") {
				b.WriteByte('_')
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "guide"
	}
	return name
}
