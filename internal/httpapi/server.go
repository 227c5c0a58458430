package httpapi

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/liveprobe/liveprobe/internal/domain"
	apimw "github.com/liveprobe/liveprobe/internal/httpapi/middleware"
	"github.com/liveprobe/liveprobe/internal/probe"
	"github.com/liveprobe/liveprobe/internal/repo"
)

type Server struct {
	Logger  *zap.Logger
	Targets repo.TargetStore
	Results repo.ResultStore
	Prober  *probe.Prober
}

func NewServer(l *zap.Logger, ts repo.TargetStore, rs repo.ResultStore, p *probe.Prober) *Server {
	return &Server{Logger: l, Targets: ts, Results: rs, Prober: p}
}

// Router wires routes, CORS, auth tiers and per-tier rate limits.
// An empty allowedOrigins list allows every origin (local dev).
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, publicRPM, publicBurst, adminRPM, adminBurst int) http.Handler {
	r := chi.NewRouter()

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
		}))
	} else {
		r.Use(cors.AllowAll().Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireAny(keys))
		r.Use(apimw.RateLimit(publicRPM, publicBurst))
		r.Get("/api/targets", s.handleListTargets)
		r.Get("/api/results/latest", s.handleLatest)
		r.Post("/api/probe", s.handleProbe)
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireAdmin(keys))
		r.Use(apimw.RateLimit(adminRPM, adminBurst))
		r.Post("/api/targets", s.handleAddTarget)
	})

	return r
}

type probePayload struct {
	URLs []string `json:"urls"`
}

// handleProbe runs one concurrent probe pass over the submitted URLs and
// returns the full result set: one entry per URL, order unspecified.
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	var p probePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || len(p.URLs) == 0 {
		httpError(w, http.StatusBadRequest, "body must be {\"urls\": [...]} with at least one URL")
		return
	}
	for _, u := range p.URLs {
		if !isValidHTTPURL(u) {
			httpError(w, http.StatusBadRequest, "invalid URL: "+u)
			return
		}
	}

	set := s.Prober.ProbeAll(r.Context(), p.URLs)

	s.Logger.Info("probe_batch",
		zap.Int("endpoints", len(p.URLs)),
		zap.Int("up", set.Up()),
		zap.Int("down", set.Down()),
	)

	writeJSON(w, map[string]any{
		"results": set,
		"up":      set.Up(),
		"down":    set.Down(),
	})
}

type addPayload struct {
	URL string `json:"url"`
}

func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	var p addPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.URL == "" {
		httpError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if !isValidHTTPURL(p.URL) {
		httpError(w, http.StatusBadRequest, "invalid URL")
		return
	}
	normalized := normalizeHTTPURL(p.URL)

	if existing, err := s.Targets.GetByURL(r.Context(), normalized); err != nil {
		httpError(w, http.StatusInternalServerError, "lookup failed")
		return
	} else if existing != nil {
		httpError(w, http.StatusConflict, "target already exists")
		return
	}

	t := &domain.Target{URL: normalized, CreatedAt: time.Now().UTC()}
	if err := s.Targets.Add(r.Context(), t); err != nil {
		httpError(w, http.StatusInternalServerError, "could not add")
		return
	}

	// one synchronous probe for immediate feedback
	pr := s.Prober.Probe(r.Context(), t.URL)

	reason := pr.Reason
	if !pr.Reachable {
		dns := probe.DiagnoseDNS(probe.ExtractHost(t.URL))
		reason = strings.TrimSpace(reason + " dns=" + dns.Class)
		s.Logger.Info("dns_diagnosis",
			zap.String("domain", dns.Domain),
			zap.String("class", dns.Class),
			zap.Strings("nameservers", dns.Nameservers),
			zap.String("cname", dns.CNAME),
			zap.String("resolver_error", dns.ResolverError),
		)
	}

	cr := &domain.CheckResult{
		TargetID:   t.ID,
		Up:         pr.Reachable,
		HTTPStatus: pr.StatusCode,
		LatencyMS:  pr.LatencyMS,
		Reason:     reason,
		CheckedAt:  time.Now().UTC(),
	}
	if err := s.Results.Append(r.Context(), cr); err != nil {
		s.Logger.Warn("append_first_result", zap.Error(err))
	}

	s.Logger.Info("added_target",
		zap.String("url", t.URL),
		zap.Bool("up", pr.Reachable),
		zap.Float64("latency_ms", pr.LatencyMS),
	)

	writeJSON(w, map[string]any{"target": t, "summary": cr})
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	ts, err := s.Targets.List(r.Context())
	if err != nil {
		httpError(w, http.StatusInternalServerError, "list error")
		return
	}
	writeJSON(w, ts)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Results.Latest(r.Context())
	if err != nil {
		httpError(w, http.StatusInternalServerError, "latest error")
		return
	}
	if rows == nil {
		rows = []repo.LatestRow{}
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, msg string) {
	http.Error(w, msg, code)
}

// isValidHTTPURL accepts absolute http(s) URLs with a hostname.
func isValidHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Hostname() != ""
}

// normalizeHTTPURL lowercases scheme and host, drops default ports and a
// bare trailing slash so equivalent URLs dedupe.
func normalizeHTTPURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" {
		defaultPort := (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443")
		if !defaultPort {
			host = net.JoinHostPort(host, port)
		}
	}
	u.Host = host
	if u.Path == "/" {
		u.Path = ""
	}
	return u.String()
}
