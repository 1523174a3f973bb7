// Package server exposes conversions over HTTP and websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dialup-inc/hexpic"
	"github.com/dialup-inc/hexpic/acquire"
	"github.com/dialup-inc/hexpic/config"
	"github.com/dialup-inc/hexpic/tone"
)

// Server converts uploaded or linked images. Every request starts from the
// configured defaults.
type Server struct {
	defaults     hexpic.Update
	filter       acquire.Filter
	pipeline     *hexpic.Pipeline
	fetcher      *acquire.Fetcher
	maxUpload    int64
	fetchTimeout time.Duration

	upgrader websocket.Upgrader
	metrics  *metrics
	lastConn uint64
}

func New(cfg *config.Config) *Server {
	return &Server{
		defaults: cfg.Convert.Defaults,
		filter:   cfg.Filter(),
		pipeline: &hexpic.Pipeline{Workers: cfg.Convert.Workers},
		fetcher: &acquire.Fetcher{
			Client:   &http.Client{Timeout: cfg.Server.FetchTimeout},
			MaxBytes: cfg.Server.MaxUploadBytes,
		},
		maxUpload:    cfg.Server.MaxUploadBytes,
		fetchTimeout: cfg.Server.FetchTimeout,
		metrics:      newMetrics(),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		s.HandleStatus(w, r)
	case "/convert":
		s.HandleConvert(w, r)
	case "/ws":
		s.HandleWS(w, r)
	case "/metrics":
		s.metrics.handler.ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(map[string]interface{}{
		"app":      "hexpic",
		"service":  "converter",
		"charsets": tone.PresetNames(),
		"filters":  []acquire.Filter{acquire.Nearest, acquire.Bilinear, acquire.Bicubic, acquire.Lanczos},
		"defaults": hexpic.DefaultOptions().Merge(s.defaults),
		"endpoints": map[string]string{
			"convert": "POST multipart image or JSON {url, options}",
			"ws":      "JSON {id, url, data, options} per message",
			"metrics": "prometheus",
		},
	})
}

// HandleConvert accepts a multipart upload (an "image" part plus option
// fields) or a JSON body naming a URL.
func (s *Server) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, errMethod)
		return
	}

	start := time.Now()
	res, source, err := s.convertRequest(w, r)
	s.metrics.observe(source, start, err)
	if err != nil {
		log.Warn().Err(err).Str("source", source).Int("status", statusFor(err)).Msg("convert failed")
		writeError(w, err)
		return
	}
	log.Debug().
		Str("source", source).
		Int("width", res.Width).
		Int("height", res.Height).
		Dur("took", time.Since(start)).
		Msg("converted")

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, res.Text)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type convertRequest struct {
	URL     string        `json:"url"`
	Options hexpic.Update `json:"options"`
}

func (s *Server) convertRequest(w http.ResponseWriter, r *http.Request) (*hexpic.Result, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		return s.convertUpload(r)
	case "application/json":
	default:
		return nil, sourceUpload, errMediaType
	}

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, sourceURL, &httpError{code: http.StatusRequestEntityTooLarge, msg: err.Error()}
		}
		return nil, sourceURL, badRequest("decode request: %v", err)
	}
	if req.URL == "" {
		return nil, sourceURL, badRequest("url is required")
	}
	source := sourceOf(req.URL)

	ctx, cancel := context.WithTimeout(r.Context(), s.fetchTimeout)
	defer cancel()

	res, err := s.converter(req.Options).FromURL(ctx, req.URL)
	return res, source, err
}

func (s *Server) convertUpload(r *http.Request) (*hexpic.Result, string, error) {
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, sourceUpload, &httpError{code: http.StatusRequestEntityTooLarge, msg: err.Error()}
		}
		return nil, sourceUpload, badRequest("parse form: %v", err)
	}
	defer r.MultipartForm.RemoveAll()

	f, _, err := r.FormFile("image")
	if err != nil {
		return nil, sourceUpload, badRequest("image part: %v", err)
	}
	defer f.Close()

	u, err := formUpdate(r.MultipartForm.Value)
	if err != nil {
		return nil, sourceUpload, err
	}

	res, err := s.converter(u).FromReader(f)
	return res, sourceUpload, err
}

// converter builds a Converter for one request or websocket session.
func (s *Server) converter(u hexpic.Update) *hexpic.Converter {
	c := hexpic.New(s.defaults.Overlay(u))
	c.Filter = s.filter
	c.Fetcher = s.fetcher
	c.Pipeline = s.pipeline
	return c
}

func (s *Server) nextConnID() connID {
	return connID(atomic.AddUint64(&s.lastConn, 1))
}

const (
	sourceUpload = "upload"
	sourceURL    = "url"
	sourceData   = "data"
)

func sourceOf(url string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(url)), "data:") {
		return sourceData
	}
	return sourceURL
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("response write failed")
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	writeJSON(w, code, map[string]interface{}{
		"error":  err.Error(),
		"status": code,
	})
}
