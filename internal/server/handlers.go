package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Faultbox/objtool/pkg/convert"
	"github.com/Faultbox/objtool/pkg/encoding"
	"github.com/Faultbox/objtool/pkg/obj"
)

// handleConvert reads an OBJ document from the body and returns it converted.
// Query parameters: output, metadata, filename, encoding.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	opts, enc, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("reading body: %w", err))
		return
	}

	text, err := encoding.Decode(body, enc)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := convert.Deserialize(text, s.materials, opts)
	if err != nil {
		var perr *obj.ParseError
		if errors.As(err, &perr) {
			s.writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.log.Debug("converted",
		zap.String("filename", opts.Filename),
		zap.String("output", string(opts.Output)),
		zap.Int("bytes", len(out)))

	w.Header().Set("Content-Type", opts.Output.ContentType())
	if opts.Filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", opts.Filename+opts.Output.Extension()))
	}
	s.writeResult(w, out)
}

func (s *Server) requestOptions(r *http.Request) (convert.Options, string, error) {
	opts := s.defaults
	q := r.URL.Query()

	if name := q.Get("output"); name != "" {
		output, err := convert.ParseOutput(name)
		if err != nil {
			return opts, "", err
		}
		opts.Output = output
	}
	if opts.Output == "" {
		opts.Output = convert.OutputJSCAD
	}
	if v := q.Get("metadata"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, "", fmt.Errorf("metadata: %w", err)
		}
		opts.AddMetaData = b
	}
	opts.Filename = q.Get("filename")

	enc := s.encoding
	if v := q.Get("encoding"); v != "" {
		if !encoding.Valid(v) {
			return opts, "", fmt.Errorf("unknown encoding %q", v)
		}
		enc = v
	}
	return opts, enc, nil
}

func (s *Server) handleOutputs(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, convert.Outputs)
}

// handleColor resolves a material or CSS color name the same way "usemtl" does.
func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	c, ok := obj.ResolveColor(name, s.materials)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown color %q", name))
		return
	}
	s.writeJSON(w, c)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	s.writeResult(w, data)
}

func (s *Server) writeResult(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		s.log.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, mErr := json.Marshal(&jError{Error: err.Error()})
	if mErr != nil {
		s.log.Error("marshaling error response", zap.Error(mErr))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.log.Debug("request failed", zap.Int("status", status), zap.Error(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	s.writeResult(w, data)
}
