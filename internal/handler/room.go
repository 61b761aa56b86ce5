package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
	"github.com/khantzwenaing/roomlynx-sub000/internal/repository"
)

type RoomHandler struct {
	Repo repository.RoomRepository
}

func (h RoomHandler) RegisterRoutes(r chi.Router) {
	r.Get("/rooms", h.list)
	r.Get("/rooms/{id}", h.get)
	r.Post("/rooms/{id}/cleaned", h.markCleaned)
}

// RoomAdminHandler carries the manager-only room mutations.
type RoomAdminHandler struct {
	Repo repository.RoomRepository
}

func (h RoomAdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/rooms", h.create)
	r.Put("/rooms/{id}", h.update)
}

func (h RoomHandler) list(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(rooms))
	for _, room := range rooms {
		resp = append(resp, toRoomResponse(&room))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h RoomHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}
	room, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(room))
}

func (h RoomHandler) markCleaned(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}
	var req struct {
		CleanedBy string `json:"cleanedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CleanedBy == "" {
		writeError(w, http.StatusUnprocessableEntity, "cleanedBy is required")
		return
	}
	room, err := h.Repo.MarkCleaned(r.Context(), id, req.CleanedBy)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusConflict, "room is not awaiting cleaning")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(room))
}

type roomPayload struct {
	Number       string `json:"number"`
	RoomType     string `json:"roomType"`
	Floor        string `json:"floor"`
	Rate         string `json:"rate"`
	MaxOccupancy int    `json:"maxOccupancy"`
	HasGas       bool   `json:"hasGas"`
	Notes        string `json:"notes"`
}

func (h RoomAdminHandler) create(w http.ResponseWriter, r *http.Request) {
	var req roomPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil || !rate.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, "rate must be a positive amount")
		return
	}
	if req.Number == "" {
		writeError(w, http.StatusUnprocessableEntity, "number is required")
		return
	}
	room, err := h.Repo.Create(r.Context(), repository.CreateRoomInput{
		Number:       req.Number,
		RoomType:     req.RoomType,
		Floor:        req.Floor,
		Rate:         rate,
		MaxOccupancy: req.MaxOccupancy,
		HasGas:       req.HasGas,
		Notes:        req.Notes,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "room number already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toRoomResponse(room))
}

func (h RoomAdminHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}
	var req struct {
		RoomType     *string `json:"roomType"`
		Floor        *string `json:"floor"`
		Rate         *string `json:"rate"`
		MaxOccupancy *int    `json:"maxOccupancy"`
		HasGas       *bool   `json:"hasGas"`
		Status       *string `json:"status"`
		Notes        *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	in := repository.UpdateRoomInput{
		RoomType:     req.RoomType,
		Floor:        req.Floor,
		MaxOccupancy: req.MaxOccupancy,
		HasGas:       req.HasGas,
		Notes:        req.Notes,
	}
	if req.Rate != nil {
		rate, err := decimal.NewFromString(*req.Rate)
		if err != nil || !rate.IsPositive() {
			writeError(w, http.StatusUnprocessableEntity, "rate must be a positive amount")
			return
		}
		in.Rate = &rate
	}
	if req.Status != nil {
		status := domain.RoomStatus(*req.Status)
		switch status {
		// Occupied and cleaning are driven by check-in/checkout, not by
		// direct edits; maintenance is the only manual override besides
		// returning a room to service.
		case domain.RoomMaintenance, domain.RoomVacant:
			in.Status = &status
		default:
			writeError(w, http.StatusUnprocessableEntity, "status can only be set to maintenance or vacant")
			return
		}
	}

	room, err := h.Repo.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(room))
}

func toRoomResponse(room *domain.Room) map[string]any {
	return map[string]any{
		"id":           strconv.FormatInt(room.ID, 10),
		"number":       room.Number,
		"roomType":     room.RoomType,
		"floor":        room.Floor,
		"rate":         room.Rate.String(),
		"maxOccupancy": room.MaxOccupancy,
		"hasGas":       room.HasGas,
		"status":       string(room.Status),
		"notes":        room.Notes,
	}
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}
