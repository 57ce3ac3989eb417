// Package httpapi exposes a paratree.Container[string, string] over
// HTTP using a chi router and a writeJSON/Response envelope. There is
// no leader-redirect machinery since the container is a single
// in-process instance.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"paratree/pkg/paratree"
)

const (
	contentTypeJSON        = "application/json"
	defaultShutdownTimeout = 5 * time.Second
)

// Server exposes a Container over HTTP.
type Server struct {
	container  *paratree.Container[string, string]
	httpServer *http.Server
	addr       string
	URL        string
}

func NewServer(container *paratree.Container[string, string], port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		container: container,
		addr:      fmt.Sprintf(":%d", port),
		URL:       fmt.Sprintf("http://localhost:%d", port),
	}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/kv", s.handleGet)
	r.Put("/api/kv", s.handlePut)
	r.Delete("/api/kv", s.handleDelete)
	r.Get("/api/range", s.handleRange)
	r.Get("/api/stats", s.handleStats)
	return r
}

// Start launches the HTTP server in a background goroutine.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router(),
		ReadHeaderTimeout: time.Second,
	}
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
		}
	}()
	slog.Info("http server started", "addr", s.URL)
}

func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("error encoding response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, newOKResponse())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		s.writeJSON(w, http.StatusBadRequest, newErrorResponse("missing key"))
		return
	}
	value, ok := s.container.Get(key)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, newErrorResponse("key not found"))
		return
	}
	s.writeJSON(w, http.StatusOK, newValueResponse(value))
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeJSON(w, http.StatusBadRequest, newErrorResponse("failed to parse form"))
		return
	}
	key := r.FormValue("key")
	value := r.FormValue("value")
	if key == "" || value == "" {
		s.writeJSON(w, http.StatusBadRequest, newErrorResponse("missing key or value"))
		return
	}
	s.container.Insert(key, value)
	s.writeJSON(w, http.StatusOK, newSuccessResponse())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		s.writeJSON(w, http.StatusBadRequest, newErrorResponse("missing key"))
		return
	}
	if !s.container.Remove(key) {
		s.writeJSON(w, http.StatusNotFound, newErrorResponse("key not found"))
		return
	}
	s.writeJSON(w, http.StatusOK, newSuccessResponse())
}

type rangeItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	lo := r.URL.Query().Get("lo")
	hi := r.URL.Query().Get("hi")
	if lo == "" || hi == "" {
		s.writeJSON(w, http.StatusBadRequest, newErrorResponse("missing lo or hi"))
		return
	}
	pairs := s.container.RangeCollect(lo, hi)
	items := make([]rangeItem, len(pairs))
	for i, p := range pairs {
		items[i] = rangeItem{Key: p.Key, Value: p.Value}
	}
	s.writeJSON(w, http.StatusOK, items)
}

// statsResponse mirrors paratree.Stats, rendered through plain fields so
// it stays stable even if the internal struct layout shifts.
type statsResponse struct {
	ShardSizes         []int64 `json:"shard_sizes"`
	MeanShardSize      float64 `json:"mean_shard_size"`
	StddevShardSize    float64 `json:"stddev_shard_size"`
	BalanceScore       float64 `json:"balance_score"`
	RedirectIndexSize  int     `json:"redirect_index_size"`
	SuspiciousKeyCount int     `json:"suspicious_key_count"`
	TotalRoutes        uint64  `json:"total_routes"`
	TotalRedirects     uint64  `json:"total_redirects"`
	Inserts            uint64  `json:"inserts"`
	Updates            uint64  `json:"updates"`
	Removes            uint64  `json:"removes"`
	AbsentRemoves      uint64  `json:"absent_removes"`
	GetHits            uint64  `json:"get_hits"`
	GetMisses          uint64  `json:"get_misses"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.container.Stats()
	s.writeJSON(w, http.StatusOK, statsResponse{
		ShardSizes:         st.ShardSizes,
		MeanShardSize:      st.MeanShardSize,
		StddevShardSize:    st.StddevShardSize,
		BalanceScore:       st.BalanceScore,
		RedirectIndexSize:  st.RedirectIndexSize,
		SuspiciousKeyCount: st.SuspiciousKeyCount,
		TotalRoutes:        st.TotalRoutes,
		TotalRedirects:     st.TotalRedirects,
		Inserts:            st.Inserts,
		Updates:            st.Updates,
		Removes:            st.Removes,
		AbsentRemoves:      st.AbsentRemoves,
		GetHits:            st.GetHits,
		GetMisses:          st.GetMisses,
	})
}
