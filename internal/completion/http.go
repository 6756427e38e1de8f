package completion

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/your-org/vodflow/pkg/httpjson"
)

// HTTPHandler accepts job state change events over HTTP.
type HTTPHandler struct {
	service      *Service
	logger       *zap.Logger
	maxBodyBytes int64
}

func NewHTTPHandler(service *Service, logger *zap.Logger, maxBodyBytes int64) *HTTPHandler {
	return &HTTPHandler{
		service:      service,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// Mount registers the completion routes on r.
func (h *HTTPHandler) Mount(r chi.Router) {
	r.Post("/v1/events/job-state", h.handleJobState)
}

// handleJobState mirrors the envelope status code onto the HTTP response so
// webhook senders retry on 500.
func (h *HTTPHandler) handleJobState(w http.ResponseWriter, r *http.Request) {
	var event JobStateEvent
	if err := httpjson.Decode(w, r, h.maxBodyBytes, &event); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpjson.Error(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		h.logger.Warn("invalid job state event", zap.Error(err))
		httpjson.Write(w, http.StatusBadRequest, failureResult(http.StatusBadRequest, "", "", err))
		return
	}

	res := h.service.Handle(r.Context(), event)
	httpjson.Write(w, res.StatusCode, res)
}
