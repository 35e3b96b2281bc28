package ledger

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greengauge/greengauge-go/auth"
)

// Handlers exposes the ledger over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates ledger handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the ledger endpoints. They take the user id from the
// request itself and need no token.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/save-purchase", h.HandleSavePurchase())
	r.Get("/purchase-history/{userId}", h.HandlePurchaseHistory())
	r.Get("/purchase-history/{userId}/impact", h.HandleImpact())
}

// HandleSavePurchase godoc
// @Summary Record a purchase
// @Description Appends a purchase and its greener alternative to the ledger. Numeric fields may be numbers or numeric strings.
// @Tags Ledger
// @Accept json
// @Produce json
// @Param purchase body ledger.SavePurchaseRequest true "Purchase to record"
// @Success 201 {object} ledger.SavePurchaseResponse
// @Failure 400 {object} apperror.ErrorResponse "Missing or non-numeric field"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /save-purchase [post]
func (h *Handlers) HandleSavePurchase() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SavePurchaseRequest
		if err := auth.DecodeJSON(w, r, &req); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		entry, err := h.service.Record(r.Context(), req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, SavePurchaseResponse{
			Message:  "Purchase saved successfully",
			Purchase: entry,
		})
	}
}

// HandlePurchaseHistory godoc
// @Summary Purchase history
// @Description Lists a user's purchases, newest first. Unknown users get an empty list.
// @Tags Ledger
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} ledger.PurchaseHistoryResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /purchase-history/{userId} [get]
func (h *Handlers) HandlePurchaseHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.service.ListForUser(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, PurchaseHistoryResponse{
			Message:   "Purchase history retrieved successfully",
			Purchases: entries,
		})
	}
}

// HandleImpact godoc
// @Summary Environmental impact
// @Description Totals the savings a user would have made by choosing every suggested alternative.
// @Tags Ledger
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} ledger.ImpactResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /purchase-history/{userId}/impact [get]
func (h *Handlers) HandleImpact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		impact, err := h.service.ImpactForUser(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, ImpactResponse{
			Message: "Environmental impact retrieved successfully",
			Impact:  impact,
		})
	}
}
