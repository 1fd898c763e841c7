package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/shopswift/internal/middleware"
	"github.com/georgemunganga/shopswift/internal/modules/user"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	sellerOnly := middleware.RequireRole(user.RoleSeller)

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", h.listCategories)
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)

		r.With(sellerOnly).Post("/products", h.createProduct)
		r.With(sellerOnly).Put("/products/{id}", h.updateProduct)
		r.With(sellerOnly).Delete("/products/{id}", h.deleteProduct)
	})
	r.With(sellerOnly).Get("/api/v1/seller/products", h.listSellerProducts)
}

// productView adds the derived prices to a product for display.
type productView struct {
	Product
	EffectivePrice float64 `json:"effective_price"`
}

func viewOf(p Product) productView {
	return productView{Product: p, EffectivePrice: DisplayAmount(EffectivePrice(p))}
}

func viewsOf(products []Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, viewOf(p))
	}
	return out
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Categories())
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	var err error
	if filter.Page, err = intParam(q.Get("page")); err != nil {
		respondError(w, http.StatusBadRequest, "invalid page")
		return
	}
	if filter.PerPage, err = intParam(q.Get("per_page")); err != nil {
		respondError(w, http.StatusBadRequest, "invalid per_page")
		return
	}

	page, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"items":       viewsOf(page.Items),
		"total":       page.Total,
		"page":        page.Page,
		"per_page":    page.PerPage,
		"total_pages": page.TotalPages,
	})
}

func (h *Handler) listSellerProducts(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())
	products, err := h.service.ListSellerProducts(r.Context(), u.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, viewsOf(products))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, viewOf(*p))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	u, _ := middleware.CurrentUser(r.Context())
	p, err := h.service.CreateProduct(r.Context(), req, u.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, viewOf(*p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var patch ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	u, _ := middleware.CurrentUser(r.Context())
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), patch, u.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, viewOf(*p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())
	id := chi.URLParam(r, "id")
	deleted, err := h.service.DeleteProduct(r.Context(), id, u.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "product not found or not owned by you")
		return
	}
	respond(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidProduct):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product not found or not owned by you")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}
