package analysis

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/greengauge/greengauge-go/auth"
	"github.com/greengauge/greengauge-go/logging"
	"github.com/greengauge/greengauge-go/media"
)

// Handlers serves product analysis.
type Handlers struct {
	analyzer Analyzer
	maxBytes int64
	deadline time.Duration
}

// NewHandlers creates analysis handlers accepting images up to maxBytes.
// A model call can outlast the server's default timeouts, so each request
// gets deadline to read the upload and write the answer. Zero keeps the
// server defaults.
func NewHandlers(analyzer Analyzer, maxBytes int64, deadline time.Duration) *Handlers {
	return &Handlers{analyzer: analyzer, maxBytes: maxBytes, deadline: deadline}
}

// RegisterRoutes mounts POST /upload-product.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/upload-product", h.HandleUploadProduct())
}

// HandleUploadProduct godoc
// @Summary Analyze a product photo
// @Description Identifies the product in the image and suggests a more sustainable alternative. Metrics are strings as reported by the model.
// @Tags Analysis
// @Accept multipart/form-data
// @Produce json
// @Param productImage formData file true "JPEG, PNG, WebP or GIF image"
// @Success 200 {object} analysis.Analysis
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 502 {object} apperror.ErrorResponse
// @Router /upload-product [post]
func (h *Handlers) HandleUploadProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.deadline > 0 {
			rc := http.NewResponseController(w)
			until := time.Now().Add(h.deadline)
			// Unsupported writers, such as test recorders, keep their defaults.
			_ = rc.SetReadDeadline(until)
			_ = rc.SetWriteDeadline(until)
		}

		img, err := media.ReadFormImage(w, r, "productImage", h.maxBytes)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		result, err := h.analyzer.AnalyzeImage(r.Context(), img.ContentType, img.Data)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		logging.Debugf("analyzed %q (%s, %d bytes) as %q", img.Filename, img.ContentType, len(img.Data), result.ProductSearched.Product)
		auth.WriteJSON(w, http.StatusOK, result)
	}
}
