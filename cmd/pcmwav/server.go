package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwbudde/pcmwav"
	"github.com/cwbudde/pcmwav/internal/metrics"
	"github.com/cwbudde/pcmwav/internal/speech"
)

const audioPath = "/audio/"

// server exposes a handle registry over HTTP.
type server struct {
	reg     *pcmwav.Registry
	metrics *metrics.Metrics
	speech  speech.Source // nil when no api key is configured
	logger  *slog.Logger
	maxBody int64
}

type createResponse struct {
	Handle string `json:"handle"`
	URL    string `json:"url"`
}

type speakRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) routes(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /audio", s.withMetrics("/audio", s.handleCreate))
	mux.HandleFunc("POST /speak", s.withMetrics("/speak", s.handleSpeak))
	mux.Handle(audioPath, s.withMetrics("/audio/{id}", s.reg.ServeHTTP))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}

// withMetrics wraps an HTTP handler with metrics collection
func (s *server) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(ww, r)

		s.metrics.RecordHTTPRequest(r.Method, endpoint, strconv.Itoa(ww.statusCode))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}

		writeError(w, http.StatusBadRequest, err)
		return
	}

	h, err := s.create(string(body))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.writeCreated(w, h, "")
}

func (s *server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	if s.speech == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("speech synthesis is not configured"))
		return
	}

	var req speakRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	b64, err := s.speech.Synthesize(r.Context(), req.Text)
	s.metrics.RecordSpeech(err)

	if err != nil {
		s.logger.ErrorContext(r.Context(), "speech synthesis failed", "error", err)

		status := http.StatusBadGateway
		if errors.Is(err, speech.ErrEmptyText) {
			status = http.StatusBadRequest
		}

		writeError(w, status, err)
		return
	}

	h, err := s.create(b64)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	s.writeCreated(w, h, req.Title)
}

// create encodes base64 PCM and registers the container.
func (s *server) create(b64 string) (pcmwav.Handle, error) {
	start := time.Now()

	h, err := s.reg.CreateFromBase64(strings.TrimSpace(b64))
	if err != nil {
		s.metrics.RecordEncode(0, 0, err)
		return "", err
	}

	wav, _ := s.reg.Open(h)
	s.metrics.RecordEncode(len(wav), time.Since(start), nil)

	s.logger.Debug("registered container", "handle", h.String(), "bytes", len(wav))

	return h, nil
}

func (s *server) writeCreated(w http.ResponseWriter, h pcmwav.Handle, title string) {
	link := audioPath + h.ID()
	if title != "" {
		link += "?download=" + url.QueryEscape(pcmwav.DownloadName(title))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", audioPath+h.ID())
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createResponse{Handle: h.String(), URL: link})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pcmwav.ErrDecode), errors.Is(err, pcmwav.ErrMalformedAudio):
		return http.StatusBadRequest
	case errors.Is(err, pcmwav.ErrInvalidFormat):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}
