// Package httpapi serves the explorer views as JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"rfa-explorer/internal/avatar"
	"rfa-explorer/internal/explorer"
	"rfa-explorer/internal/idhash"
	"rfa-explorer/internal/observability"
	"rfa-explorer/internal/pricing"
	"rfa-explorer/internal/ranking"
	"rfa-explorer/internal/storage"
)

// AvatarResolver looks up a profile image URL for a handle.
type AvatarResolver interface {
	Lookup(ctx context.Context, handle string) (string, error)
}

// Server holds the HTTP handlers.
type Server struct {
	svc     *explorer.Service
	avatars AvatarResolver
	hub     *Hub
	logger  logrus.FieldLogger
	started time.Time
}

// New creates a Server. hub may be nil to disable the websocket feed.
func New(svc *explorer.Service, avatars AvatarResolver, hub *Hub, logger logrus.FieldLogger) *Server {
	return &Server{
		svc:     svc,
		avatars: avatars,
		hub:     hub,
		logger:  logger.WithField("component", "http"),
		started: time.Now(),
	}
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	route := func(pattern, label string, h http.HandlerFunc) {
		mux.Handle(pattern, instrument(label, s.logger, h))
	}

	route("GET /api/projects", "projects", s.handleProjects)
	route("GET /api/table", "table", s.handleTable)
	route("GET /api/analytics", "analytics", s.handleAnalytics)
	route("GET /api/bgt", "bgt", s.handleBGT)
	route("GET /api/twitter/{handle}", "twitter", s.handleTwitter)
	route("GET /api/twitter/", "twitter", s.handleTwitter)
	route("GET /status", "status", s.handleStatus)

	if s.hub != nil {
		mux.Handle("GET /ws/prices", instrument("ws_prices", s.logger, s.hub))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", observability.Handler())

	return mux
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects := s.svc.Projects(r.Context())

	etag := `"` + idhash.ShortID(idhash.ComputeDatasetID(projects)) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := s.svc.Table(r.Context(), explorer.TableQuery{
		Query: q.Get("q"),
		Sort:  ranking.ParseSortKey(q.Get("sort")),
		Dir:   ranking.ParseDirection(q.Get("dir")),
	})
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Analytics(r.Context()))
}

func (s *Server) handleBGT(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	window, err := pricing.ParseWindow(q.Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	denom, err := pricing.ParseDenomination(q.Get("denom"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.svc.Wrappers(r.Context(), window, denom))
}

// twitterProfile mirrors the shape the frontend expects.
type twitterProfile struct {
	ProfileImageURL string `json:"profile_image_url"`
}

func (s *Server) handleTwitter(w http.ResponseWriter, r *http.Request) {
	handle := strings.TrimSpace(r.PathValue("handle"))
	if handle == "" {
		writeError(w, http.StatusBadRequest, "Handle is required")
		return
	}
	if s.avatars == nil {
		writeError(w, http.StatusNotFound, "Failed to fetch Twitter profile")
		return
	}

	imageURL, err := s.avatars.Lookup(r.Context(), handle)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, twitterProfile{ProfileImageURL: imageURL})
	case errors.Is(err, avatar.ErrNotFound):
		writeError(w, http.StatusNotFound, "Failed to fetch Twitter profile")
	case errors.Is(err, storage.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Handle is required")
	default:
		s.logger.WithError(err).WithFields(logrus.Fields{
			"handle":     handle,
			"request_id": RequestID(r.Context()),
		}).Warn("Avatar lookup failed")
		writeError(w, http.StatusBadGateway, "Failed to fetch Twitter profile")
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status      string     `json:"status"`
	Uptime      string     `json:"uptime"`
	Started     time.Time  `json:"started"`
	Source      string     `json:"source"`
	RefreshOK   int64      `json:"refresh_ok"`
	RefreshFail int64      `json:"refresh_failed"`
	LastRefresh *time.Time `json:"last_refresh,omitempty"` // nil until the first successful refresh
	HasPrices   bool       `json:"has_prices"`
	WSClients   int        `json:"ws_clients"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.svc.Status(r.Context())

	resp := StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		Started:     s.started,
		Source:      st.Source,
		RefreshOK:   st.RefreshOK,
		RefreshFail: st.RefreshFailed,
		HasPrices:   st.HasPrices,
	}
	if st.LastRefreshUnix > 0 {
		last := time.Unix(st.LastRefreshUnix, 0).UTC()
		resp.LastRefresh = &last
	}
	if s.hub != nil {
		resp.WSClients = s.hub.Clients()
	}

	writeJSON(w, http.StatusOK, resp)
}
