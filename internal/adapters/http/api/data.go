package api

import (
	"net/http"

	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/pkg/logger"
)

// DataHandler lists stored observations.
type DataHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps Dependencies) *DataHandler {
	return &DataHandler{deps: deps}
}

// HandleData handles GET /data requests. Failures answer 500 with an empty array.
func (h *DataHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	const op = "api.data"
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	records, err := h.deps.Records(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Error(r.Context(), "failed to list records", logger.Error(WrapKind(op, ErrInternal, err)))
		}
		writeJSON(w, http.StatusInternalServerError, []model.Record{})
		return
	}
	if records == nil {
		records = []model.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}
