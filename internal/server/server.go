// Package server runs the local preview HTTP server: it serves the store
// through the same templates the static build uses, watches the content
// tree, and pushes reload events to connected browsers over SSE.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hollowpine/inkwell/internal/site"
	"github.com/hollowpine/inkwell/internal/store"
)

const shutdownGrace = 5 * time.Second

// Server previews a content tree over HTTP.
type Server struct {
	store   *store.Store
	builder *site.Builder
	log     *zap.Logger
	hub     *reloadHub
}

// New wires a preview server over the given store. The builder supplies
// the same page templates the static build writes to disk.
func New(st *store.Store, builder *site.Builder, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:   st,
		builder: builder,
		log:     log,
		hub:     newReloadHub(),
	}
}

// Router builds the gin engine with all preview routes mounted.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestLogger(s.log), recovery(s.log))
	r.Use(cors.Default())

	r.GET("/", s.handleIndex)
	r.GET("/posts/*slug", s.handlePost)
	r.GET("/feed.json", s.handleFeed)
	r.GET("/events", s.handleEvents)
	r.GET("/healthz", s.handleHealth)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such route", "path": c.Request.URL.Path})
	})
	return r
}

// Run serves until ctx is cancelled, watching contentDir for changes and
// reloading the store when the tree moves. It drains in-flight requests
// before returning.
func (s *Server) Run(ctx context.Context, addr, contentDir string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		if err := watch(watchCtx, contentDir, s.reload); err != nil {
			s.log.Warn("content watcher stopped", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("preview server listening", zap.String("addr", addr), zap.String("content", contentDir))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("preview server stopped")
	return nil
}

// reload rescans the content tree and notifies connected browsers. A scan
// failure keeps the previous snapshot so the preview never goes blank on a
// half-saved file.
func (s *Server) reload() {
	if err := s.store.Reload(); err != nil {
		s.log.Warn("reload kept previous snapshot", zap.Error(err))
		return
	}
	s.log.Info("content reloaded", zap.Int("posts", s.store.Len()))
	s.hub.broadcast()
}

func (s *Server) handleIndex(c *gin.Context) {
	posts := s.store.Published()
	if wantDrafts(c) {
		posts = s.store.List()
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := s.builder.RenderIndexPage(c.Writer, posts); err != nil {
		_ = c.Error(err)
	}
}

func (s *Server) handlePost(c *gin.Context) {
	slug := strings.Trim(c.Param("slug"), "/")
	p, err := s.store.Get(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found", "slug": slug})
		return
	}
	// Drafts stay invisible unless explicitly requested, so a preview
	// session behaves like the published site by default.
	if !p.Published() && !wantDrafts(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found", "slug": slug})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := s.builder.RenderPostPage(c.Writer, p, s.store.Published()); err != nil {
		_ = c.Error(err)
	}
}

func (s *Server) handleFeed(c *gin.Context) {
	c.Header("Content-Type", "application/feed+json; charset=utf-8")
	c.Status(http.StatusOK)
	if err := s.builder.RenderFeed(c.Writer, s.store.Published()); err != nil {
		_ = c.Error(err)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "posts": s.store.Len()})
}

// handleEvents holds an SSE stream open and emits a reload event each time
// the content tree changes.
func (s *Server) handleEvents(c *gin.Context) {
	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-ch:
			c.SSEvent("reload", "content changed")
			return true
		}
	})
}

func wantDrafts(c *gin.Context) bool {
	v := c.Query("drafts")
	return v == "1" || v == "true"
}

// reloadHub fans one reload signal out to every open SSE stream.
type reloadHub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newReloadHub() *reloadHub {
	return &reloadHub{subs: make(map[chan struct{}]struct{})}
}

func (h *reloadHub) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *reloadHub) unsubscribe(ch chan struct{}) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

func (h *reloadHub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
