package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
	"github.com/khantzwenaing/roomlynx-sub000/internal/repository"
)

type GuestHandler struct {
	Repo repository.GuestRepository
}

func (h GuestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/guests", h.list)
	r.Post("/guests", h.create)
	r.Get("/guests/{id}", h.get)
	r.Put("/guests/{id}", h.update)
	r.Delete("/guests/{id}", h.delete)
}

type guestPayload struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IDNumber string `json:"idNumber"`
	Address  string `json:"address"`
}

func (h GuestHandler) list(w http.ResponseWriter, r *http.Request) {
	guests, err := h.Repo.List(r.Context(), 200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(guests))
	for _, g := range guests {
		resp = append(resp, toGuestResponse(&g))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h GuestHandler) create(w http.ResponseWriter, r *http.Request) {
	var req guestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	g, err := h.Repo.Create(r.Context(), repository.CreateGuestInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		IDNumber: req.IDNumber,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toGuestResponse(g))
}

func (h GuestHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid guest id")
		return
	}
	g, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "guest not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toGuestResponse(g))
}

func (h GuestHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid guest id")
		return
	}
	var req guestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	g, err := h.Repo.Update(r.Context(), id, repository.CreateGuestInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		IDNumber: req.IDNumber,
		Address:  req.Address,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "guest not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toGuestResponse(g))
}

func (h GuestHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid guest id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "guest not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func toGuestResponse(g *domain.Guest) map[string]any {
	return map[string]any{
		"id":       strconv.FormatInt(g.ID, 10),
		"name":     g.Name,
		"phone":    g.Phone,
		"email":    g.Email,
		"idNumber": g.IDNumber,
		"address":  g.Address,
	}
}
