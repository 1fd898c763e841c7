package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/shopswift/internal/middleware"
	"github.com/georgemunganga/shopswift/internal/modules/user"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/signup", h.signup)
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
	})
}

type credentials struct {
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	sess, err := h.service.Login(r.Context(), middleware.SessionID(r.Context()), req.Email, req.Role)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, sess)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	sess, err := h.service.Signup(r.Context(), middleware.SessionID(r.Context()), req.Email, req.Role)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, sess)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.SessionID(r.Context())); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	respond(w, http.StatusOK, u)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrInvalidRole) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}
