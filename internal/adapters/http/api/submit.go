package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/aquaguard/internal/app"
	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/pkg/logger"
)

const maxSubmitBody = 1 << 16

// count accepts a JSON number or a numeric string.
type count int

func (c *count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return errors.New("count is required")
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("count %s is not a whole number", b)
	}
	*c = count(n)
	return nil
}

// submitRequest mirrors the OpenAPI schema for POST /submit.
type submitRequest struct {
	Village  string `json:"village"`
	Diarrhea *count `json:"diarrhea"`
	Fever    *count `json:"fever"`
	Rainfall string `json:"rainfall"`
}

func (s submitRequest) validate() error {
	switch {
	case strings.TrimSpace(s.Village) == "":
		return errors.New("missing village")
	case s.Diarrhea == nil:
		return errors.New("missing diarrhea")
	case s.Fever == nil:
		return errors.New("missing fever")
	case strings.TrimSpace(s.Rainfall) == "":
		return errors.New("missing rainfall")
	}
	return nil
}

func (s submitRequest) submission() model.Submission {
	return model.Submission{
		Village:  s.Village,
		Diarrhea: int(*s.Diarrhea),
		Fever:    int(*s.Fever),
		Rainfall: s.Rainfall,
	}
}

// SubmitHandler handles observation submissions.
type SubmitHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewSubmitHandler creates a new submit handler.
func NewSubmitHandler(deps Dependencies) *SubmitHandler {
	return &SubmitHandler{deps: deps}
}

// HandleSubmit handles POST /submit requests.
func (h *SubmitHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit"
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBody)).Decode(&req); err != nil {
		h.reject(r, http.StatusBadRequest, WrapKind(op, ErrBadRequest, err))
		writeSubmitError(w, http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		h.reject(r, http.StatusBadRequest, WrapKind(op, ErrBadRequest, err))
		writeSubmitError(w, http.StatusBadRequest)
		return
	}

	rec, err := h.deps.Submit(r.Context(), req.submission())
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.reject(r, http.StatusBadRequest, WrapKind(op, ErrBadRequest, err))
		writeSubmitError(w, http.StatusBadRequest)
		return
	case err != nil:
		h.reject(r, http.StatusInternalServerError, WrapKind(op, ErrInternal, err))
		writeSubmitError(w, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{Success: true, Message: msgSubmitted, Risk: rec.Risk})
}

func (h *SubmitHandler) reject(r *http.Request, status int, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Warn(r.Context(), "submission rejected",
		logger.Int("status", status),
		logger.Error(err))
}
