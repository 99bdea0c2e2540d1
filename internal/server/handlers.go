package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sankey/pkg/buildinfo"
	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/errors"
	graphio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// CacheHeader reports whether the response body came from the cache.
const CacheHeader = "X-Sankey-Cache"

var errNotFound = errors.New(errors.ErrCodeFileNotFound, "no such route")

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, pipeline.FormatJSON)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := errors.ValidateFormat(format, config.Formats); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.run(w, r, format)
}

// run executes the pipeline for one format and writes the artifact.
func (s *Server) run(w http.ResponseWriter, r *http.Request, format string) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(data) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "empty request body"))
		return
	}

	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Source = RequestID(r.Context())

	res, err := s.runner.Execute(r.Context(), data, bodyFormat(r), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cached := "miss"
	if res.CacheInfo.RenderHit {
		cached = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set(CacheHeader, cached)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// options applies query parameter overrides to the server's style.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	c := s.style
	c.Formats = nil
	q := r.URL.Query()

	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &c.Width},
		{"height", &c.Height},
		{"scale", &c.PNGScale},
	}
	for _, f := range floats {
		if raw := q.Get(f.name); raw != "" {
			v, err := parseFloat(f.name, raw)
			if err != nil {
				return pipeline.Options{}, err
			}
			*f.dst = v
		}
	}

	optional := []struct {
		name string
		dst  **float64
	}{
		{"node_separation", &c.NodeSeparation},
		{"node_width", &c.NodeWidth},
		{"font_size", &c.FontSize},
		{"border", &c.Border},
	}
	for _, f := range optional {
		if raw := q.Get(f.name); raw != "" {
			v, err := parseFloat(f.name, raw)
			if err != nil {
				return pipeline.Options{}, err
			}
			*f.dst = &v
		}
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"strict", &c.Strict},
		{"no_labels", &c.NoLabels},
	}
	for _, f := range bools {
		if raw := q.Get(f.name); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", f.name, raw)
			}
			*f.dst = v
		}
	}
	if q.Has("number_format") {
		c.NumberFormat = q.Get("number_format")
	}
	if q.Has("title") {
		c.Title = q.Get("title")
	}
	if q.Has("background") {
		c.Background = q.Get("background")
	}

	return pipeline.Options{Config: c, Logger: s.logger}, nil
}

func parseFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, raw)
	}
	return v, nil
}

var yamlTypes = []string{"application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml"}

// bodyFormat picks the graph encoding from the Content-Type header.
func bodyFormat(r *http.Request) graphio.Format {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && slices.Contains(yamlTypes, mt) {
		return graphio.FormatYAML
	}
	return graphio.FormatJSON
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError classifies err and writes it as a JSON error body. Internal
// errors are logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Code:      errors.ErrCodeInvalidInput,
			Message:   "request body too large",
			RequestID: RequestID(r.Context()),
		})
		return
	}

	e := errors.Classify(err)
	msg := errors.UserMessage(e)
	if e.Code == errors.ErrCodeInternal {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
		msg = e.Message
	}
	writeJSON(w, errors.HTTPStatus(e.Code), errorResponse{
		Code:      e.Code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}
