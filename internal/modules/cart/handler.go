package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/shopswift/internal/middleware"
	"github.com/georgemunganga/shopswift/internal/modules/catalog"
	"github.com/georgemunganga/shopswift/internal/modules/user"
)

// ProductFinder resolves the product snapshot a cart line is built from.
type ProductFinder interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type Handler struct {
	service  Service
	products ProductFinder
}

func NewHandler(service Service, products ProductFinder) *Handler {
	return &Handler{service: service, products: products}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	buyersOnly := middleware.ForbidRole(user.RoleSeller)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.With(buyersOnly).Delete("/", h.clearCart)
		r.With(buyersOnly).Post("/items", h.addItem)
		r.With(buyersOnly).Delete("/items/{productId}", h.removeItem)
		r.With(buyersOnly).Post("/checkout", h.checkout)
	})
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Get(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	p, err := h.products.GetProduct(r.Context(), req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary, err := h.service.Add(r.Context(), middleware.SessionID(r.Context()), *p)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Remove(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "productId"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Clear(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Checkout(r.Context(), middleware.SessionID(r.Context()))
	if errors.Is(err, ErrEmptyCart) {
		respondError(w, http.StatusBadRequest, "add items to your cart before checking out")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"status":  "initiated",
		"message": "demo checkout, no transaction was made",
		"summary": summary,
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}
