package ingestion

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/your-org/vodflow/pkg/httpjson"
)

// HTTPHandler accepts object-created notifications over HTTP.
type HTTPHandler struct {
	service      *Service
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewHTTPHandler constructs the webhook handler.
func NewHTTPHandler(service *Service, logger *zap.Logger, maxBodyBytes int64) *HTTPHandler {
	return &HTTPHandler{
		service:      service,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// Mount registers the ingestion routes on r.
func (h *HTTPHandler) Mount(r chi.Router) {
	r.Post("/v1/events/object-created", h.handleObjectCreated)
}

func (h *HTTPHandler) handleObjectCreated(w http.ResponseWriter, r *http.Request) {
	var event ObjectCreatedEvent
	if err := httpjson.Decode(w, r, h.maxBodyBytes, &event); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpjson.Error(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		h.logger.Warn("invalid object-created event", zap.Error(err))
		httpjson.Error(w, http.StatusBadRequest, "invalid event body")
		return
	}

	httpjson.Write(w, http.StatusOK, h.service.ProcessBatch(r.Context(), event.Records))
}
