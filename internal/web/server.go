// Package web serves the job board to browsers, one board per session.
package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/jobboard/internal/board"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/render"
	"github.com/fr4nk3nst1ner/jobboard/internal/session"
	"github.com/fr4nk3nst1ner/jobboard/internal/surface"
)

const sessionCookie = "jobboard_session"

// BoardFactory builds a fresh board on a session's storage
type BoardFactory func(storage session.Store) *board.Board

// Options holds the server settings
type Options struct {
	Port       int
	Username   string
	Password   string
	SessionTTL time.Duration
}

// Server is the HTTP front end
type Server struct {
	opts       Options
	router     *gin.Engine
	httpServer *http.Server
	sessions   *Sessions
	newBoard   BoardFactory
	logger     *pterm.Logger
}

// NewServer wires routes onto a new gin engine
func NewServer(opts Options, sessions *Sessions, newBoard BoardFactory, logger *pterm.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		opts:     opts,
		router:   router,
		sessions: sessions,
		newBoard: newBoard,
		logger:   logger,
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.setUpRoutes()
	return s
}

func (s *Server) setUpRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/", s.handleIndex)
	s.router.POST(surface.AddFilterPath, s.handleAction(render.ActionAddFilter))
	s.router.POST(surface.RemoveFilterPath, s.handleAction(render.ActionRemoveFilter))
	s.router.POST(surface.ClearFiltersPath, s.handleAction(render.ActionClearFilters))

	api := s.router.Group("/api", basicAuth(s.opts.Username, s.opts.Password))
	api.GET("/board", s.handleAPIBoard)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens until Shutdown. Run after Shutdown returns nil at once.
func (s *Server) Run() error {
	if s.opts.Username != "" {
		s.logger.Info("web server listening", s.logger.Args("addr", s.httpServer.Addr, "api_auth", "enabled"))
	} else {
		s.logger.Warn("web server listening; /api is public, set WEB_USERNAME/WEB_PASSWORD to protect it", s.logger.Args("addr", s.httpServer.Addr))
	}

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// handleIndex is a page load: a new board, Idle with an empty filter set,
// on storage that outlives the page. Other pages of the session are left
// alone.
func (s *Server) handleIndex(c *gin.Context) {
	sess := s.session(c)
	b := s.newBoard(sess.storage)
	pageID := sess.addPage(b)

	view, err := b.Init(c.Request.Context())
	if err != nil {
		s.logger.Error("board init failed", s.logger.Args("session", sess.id, "page", pageID, "error", err))
	}
	s.writePage(c, pageID, view)
}

// handleAction applies a filter event to the page that posted it. A page
// this server does not know (new or pruned session, evicted page) is sent
// back to a fresh page load.
func (s *Server) handleAction(kind render.ActionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := c.PostForm(surface.TagField)
		if kind != render.ActionClearFilters && tag == "" {
			c.String(http.StatusBadRequest, "missing tag")
			return
		}

		sess := s.session(c)
		pageID := c.PostForm(surface.PageField)
		b, ok := sess.page(pageID)
		if !ok {
			s.logger.Debug("unknown page, reloading", s.logger.Args("session", sess.id, "page", pageID))
			c.Redirect(http.StatusSeeOther, "/")
			return
		}

		view, err := b.Dispatch(render.Action{Kind: kind, Tag: tag})
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		s.writePage(c, pageID, view)
	}
}

type boardResponse struct {
	Page               string             `json:"page"`
	Phase              string             `json:"phase"`
	FromCache          bool               `json:"from_cache"`
	Jobs               []models.JobRecord `json:"jobs"`
	Filters            []string           `json:"filters"`
	FilterPanelVisible bool               `json:"filter_panel_visible"`
	View               render.View        `json:"view"`
}

// handleAPIBoard reports the board of ?page=, or of the session's latest
// page load when absent
func (s *Server) handleAPIBoard(c *gin.Context) {
	sess := s.session(c)

	pageID := c.Query("page")
	var (
		b  *board.Board
		ok bool
	)
	if pageID == "" {
		pageID, b, ok = sess.latest()
	} else {
		b, ok = sess.page(pageID)
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no board loaded for this page"})
		return
	}

	state := b.State()
	c.JSON(http.StatusOK, boardResponse{
		Page:               pageID,
		Phase:              state.Phase.String(),
		FromCache:          state.FromCache,
		Jobs:               state.Jobs,
		Filters:            state.Filters.Ordered(),
		FilterPanelVisible: state.FilterPanelVisible,
		View:               b.View(),
	})
}

func (s *Server) writePage(c *gin.Context, pageID string, view render.View) {
	dom, err := surface.NewDOM()
	if err == nil {
		dom.SetPage(pageID)
		err = dom.Apply(view)
	}
	var page string
	if err == nil {
		page, err = dom.HTML()
	}
	if err != nil {
		s.logger.Error("render page failed", s.logger.Args("error", err))
		c.String(http.StatusInternalServerError, render.ErrorMessage)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// session resolves the session cookie, issuing a new id when absent
func (s *Server) session(c *gin.Context) *Session {
	id, err := c.Cookie(sessionCookie)
	if err != nil || !validID(id) {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, int(s.opts.SessionTTL.Seconds()), "/", "", false, true)
	}
	return s.sessions.Get(id)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// basicAuth guards a route group with HTTP Basic Authentication. Without
// credentials configured the group is public.
func basicAuth(username, password string) gin.HandlerFunc {
	if username == "" || password == "" {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()

		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1

		if !ok || !userMatch || !passMatch {
			c.Header("WWW-Authenticate", `Basic realm="Job Board"`)
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		c.Next()
	}
}

func requestLogger(logger *pterm.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request", logger.Args(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start).String(),
		))
	}
}
