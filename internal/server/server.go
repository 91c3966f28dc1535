// Package server exposes the worksheet editor over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathsheet/internal/llm"
	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/render/html"
	"github.com/abhisek/mathsheet/internal/render/pdf"
	"github.com/abhisek/mathsheet/internal/render/xlsx"
	"github.com/abhisek/mathsheet/internal/workbook"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

// Options wires a Server.
type Options struct {
	Workbook *workbook.Workbook
	PDF      *pdf.Renderer
	// Settings prefill the generation form until the first generation.
	Settings worksheet.Settings
	Logger   *slog.Logger
	// GenerateTimeout bounds a whole batch. Zero means no limit beyond
	// the client connection.
	GenerateTimeout time.Duration
}

// Server routes HTTP requests to the workbook.
type Server struct {
	router  *gin.Engine
	wb      *workbook.Workbook
	pdf     *pdf.Renderer
	logger  *slog.Logger
	timeout time.Duration

	mu       sync.Mutex
	settings worksheet.Settings
	http     *http.Server
}

// New creates a Server and registers its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PDF == nil {
		opts.PDF = pdf.New(pdf.Options{})
	}
	s := &Server{
		router:   gin.New(),
		wb:       opts.Workbook,
		pdf:      opts.PDF,
		logger:   opts.Logger,
		timeout:  opts.GenerateTimeout,
		settings: opts.Settings.Normalize(),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web editor listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.index)
	s.router.POST("/generate", s.generate)
	s.router.POST("/history/clear", s.clearHistory)
	s.router.GET("/export.pdf", s.exportPDF)
	s.router.GET("/export.xlsx", s.exportXLSX)
	s.router.GET("/healthz", s.healthz)

	api := s.router.Group("/api")
	api.GET("/pages", s.listPages)
	api.PUT("/questions/:id", s.updateQuestion)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}

func (s *Server) currentSettings() worksheet.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// GET /
func (s *Server) index(c *gin.Context) {
	s.renderIndex(c, http.StatusOK, "")
}

func (s *Server) renderIndex(c *gin.Context, status int, notice string) {
	pages, err := s.wb.Pages()
	if err != nil && !errors.Is(err, workbook.ErrNoBatch) {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	labels := s.wb.Paginator().Labels()
	doc := html.Document{
		Title:    labels.SheetTitle,
		Pages:    html.Views(pages),
		Editable: true,
		Form:     html.NewForm(s.currentSettings(), labels, s.wb.History().Len()),
		Notice:   notice,
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// POST /generate
func (s *Server) generate(c *gin.Context) {
	settings, err := parseSettingsForm(c, s.currentSettings())
	if err != nil {
		s.renderIndex(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	ctx := c.Request.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if _, err := s.wb.Generate(ctx, settings); err != nil {
		s.logger.Error("generation failed", "err", err)
		status := http.StatusBadGateway
		if errors.Is(err, workbook.ErrGenerating) {
			status = http.StatusConflict
		} else if after, ok := llm.RateLimited(err); ok {
			status = http.StatusTooManyRequests
			if after > 0 {
				c.Header("Retry-After", strconv.Itoa(int(after.Round(time.Second)/time.Second)))
			}
		}
		s.renderIndex(c, status, "生成失败: "+err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func parseSettingsForm(c *gin.Context, base worksheet.Settings) (worksheet.Settings, error) {
	s := base
	intField := func(name string, dst *int) error {
		v := c.PostForm(name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", name, v)
		}
		*dst = n
		return nil
	}

	for _, cat := range worksheet.Categories() {
		n := s.Counts.For(cat)
		if err := intField(cat.Key(), &n); err != nil {
			return s, err
		}
		s.Counts.Set(cat, n)
	}
	if err := intField("batch_size", &s.BatchSize); err != nil {
		return s, err
	}
	if err := intField("grade", &s.Grade); err != nil {
		return s, err
	}
	if t, ok := c.GetPostForm("topic"); ok {
		s.Topic = t
	}
	return s.Normalize(), nil
}

// POST /history/clear
func (s *Server) clearHistory(c *gin.Context) {
	if err := s.wb.ClearHistory(c.Request.Context()); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

type updateRequest struct {
	Category string `json:"category" binding:"required"`
	Text     string `json:"text"`
}

type setSummary struct {
	SetIndex    int    `json:"set_index"`
	WorksheetID string `json:"worksheet_id"`
	Pages       int    `json:"pages"`
}

type updateResponse struct {
	ID    string       `json:"id"`
	Pages int          `json:"pages"`
	Sets  []setSummary `json:"sets"`
}

// PUT /api/questions/:id
func (s *Server) updateQuestion(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	cat, err := worksheet.ParseCategory(req.Category)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	id := c.Param("id")
	if err := s.wb.UpdateQuestion(c.Request.Context(), cat, id, req.Text); err != nil {
		switch {
		case errors.Is(err, workbook.ErrQuestionNotFound):
			s.fail(c, http.StatusNotFound, err)
		case errors.Is(err, workbook.ErrNoBatch):
			s.fail(c, http.StatusConflict, err)
		default:
			s.fail(c, http.StatusInternalServerError, err)
		}
		return
	}

	pages, err := s.wb.Pages()
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, updateResponse{ID: id, Pages: len(pages), Sets: summarize(pages)})
}

func summarize(pages []paginate.Page) []setSummary {
	var out []setSummary
	for _, p := range pages {
		if n := len(out); n > 0 && out[n-1].SetIndex == p.SetIndex {
			out[n-1].Pages++
			continue
		}
		out = append(out, setSummary{SetIndex: p.SetIndex, WorksheetID: p.WorksheetID, Pages: 1})
	}
	return out
}

// GET /api/pages
func (s *Server) listPages(c *gin.Context) {
	pages, err := s.wb.Pages()
	if errors.Is(err, workbook.ErrNoBatch) {
		pages = []paginate.Page{}
	} else if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

// GET /export.pdf
func (s *Server) exportPDF(c *gin.Context) {
	pages, err := s.wb.Pages()
	if err != nil {
		s.failNoBatch(c, err)
		return
	}
	var buf bytes.Buffer
	if err := s.pdf.Render(&buf, pages); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pdf.ErrFontRequired) {
			status = http.StatusUnprocessableEntity
		}
		s.fail(c, status, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="worksheets.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// GET /export.xlsx
func (s *Server) exportXLSX(c *gin.Context) {
	sets, err := s.wb.Worksheets()
	if err != nil {
		s.failNoBatch(c, err)
		return
	}
	p := s.wb.Paginator()
	var buf bytes.Buffer
	if err := xlsx.Write(&buf, sets, p.Layout(), p.Labels()); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="worksheets.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GET /healthz
func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "history": s.wb.History().Len()})
}

func (s *Server) failNoBatch(c *gin.Context, err error) {
	if errors.Is(err, workbook.ErrNoBatch) {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	s.fail(c, http.StatusInternalServerError, err)
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
