package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
	"github.com/khantzwenaing/roomlynx-sub000/internal/repository"
)

type StayHandler struct {
	Stays    repository.StayRepository
	Payments repository.PaymentRepository
}

func (h StayHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stays", h.list)
	r.Post("/stays", h.checkIn)
	r.Get("/stays/{id}", h.get)
	r.Get("/stays/{id}/payments", h.payments)
	r.Put("/stays/{id}/gas-weight", h.setGasWeight)
}

type checkInPayload struct {
	GuestID          int64  `json:"guestId"`
	RoomID           int64  `json:"roomId"`
	CheckInDate      string `json:"checkInDate"`
	CheckOutDate     string `json:"checkOutDate"`
	DepositAmount    string `json:"depositAmount"`
	NumberOfPersons  int    `json:"numberOfPersons"`
	InitialGasWeight string `json:"initialGasWeight"`
	Notes            string `json:"notes"`
	DepositMethod    string `json:"depositMethod"`
	DepositReference string `json:"depositReference"`
	CollectedBy      string `json:"collectedBy"`
}

func (h StayHandler) checkIn(w http.ResponseWriter, r *http.Request) {
	var req checkInPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	checkIn, err := time.Parse(time.RFC3339, req.CheckInDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "checkInDate must be RFC 3339")
		return
	}
	checkOut, err := time.Parse(time.RFC3339, req.CheckOutDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "checkOutDate must be RFC 3339")
		return
	}
	if checkOut.Before(checkIn) {
		writeError(w, http.StatusUnprocessableEntity, "checkOutDate cannot precede checkInDate")
		return
	}
	if req.NumberOfPersons < 1 {
		req.NumberOfPersons = 1
	}

	deposit := decimal.Zero
	if req.DepositAmount != "" {
		deposit, err = decimal.NewFromString(req.DepositAmount)
		if err != nil || deposit.IsNegative() {
			writeError(w, http.StatusUnprocessableEntity, "depositAmount must be a non-negative amount")
			return
		}
	}
	if deposit.IsPositive() && req.CollectedBy == "" {
		writeError(w, http.StatusUnprocessableEntity, "collectedBy is required when a deposit is taken")
		return
	}

	var initialGas *decimal.Decimal
	if req.InitialGasWeight != "" {
		g, err := decimal.NewFromString(req.InitialGasWeight)
		if err != nil || g.IsNegative() {
			writeError(w, http.StatusUnprocessableEntity, "initialGasWeight must be a non-negative weight")
			return
		}
		initialGas = &g
	}

	method := domain.PaymentMethod(req.DepositMethod)
	if method == "" {
		method = domain.MethodCash
	}
	var depositRef *string
	if req.DepositReference != "" {
		depositRef = &req.DepositReference
	}

	stay, err := h.Stays.CheckIn(r.Context(), repository.CheckInInput{
		GuestID:            req.GuestID,
		RoomID:             req.RoomID,
		CheckInDate:        checkIn,
		CheckOutDate:       checkOut,
		DepositAmount:      deposit,
		NumberOfPersons:    req.NumberOfPersons,
		InitialGasWeight:   initialGas,
		Notes:              req.Notes,
		DepositMethod:      method,
		DepositReference:   depositRef,
		DepositCollectedBy: req.CollectedBy,
	})
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotVacant) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toStayResponse(stay))
}

func (h StayHandler) list(w http.ResponseWriter, r *http.Request) {
	var status *domain.StayStatus
	if q := r.URL.Query().Get("status"); q != "" {
		s := domain.StayStatus(q)
		if s != domain.StayActive && s != domain.StayCheckedOut {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		status = &s
	}
	stays, err := h.Stays.List(r.Context(), status, 200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(stays))
	for _, s := range stays {
		resp = append(resp, toStayResponse(&s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h StayHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stay id")
		return
	}
	stay, err := h.Stays.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "stay not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toStayResponse(stay))
}

func (h StayHandler) payments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stay id")
		return
	}
	payments, err := h.Payments.ListByStay(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, toPaymentResponse(&p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h StayHandler) setGasWeight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stay id")
		return
	}
	var req struct {
		FinalGasWeight string `json:"finalGasWeight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	weight, err := decimal.NewFromString(req.FinalGasWeight)
	if err != nil || weight.IsNegative() {
		writeError(w, http.StatusUnprocessableEntity, "finalGasWeight must be a non-negative weight")
		return
	}
	if err := h.Stays.SetFinalGasWeight(r.Context(), id, weight); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "active stay not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"finalGasWeight": weight.String()})
}

func toStayResponse(s *domain.Stay) map[string]any {
	resp := map[string]any{
		"id":              strconv.FormatInt(s.ID, 10),
		"code":            s.Code,
		"guestId":         strconv.FormatInt(s.GuestID, 10),
		"guestName":       s.GuestName,
		"roomNumber":      s.RoomNumber,
		"roomRate":        s.RoomRate.String(),
		"checkInDate":     s.CheckInDate.Format(time.RFC3339),
		"checkOutDate":    s.CheckOutDate.Format(time.RFC3339),
		"depositAmount":   s.DepositAmount.String(),
		"numberOfPersons": s.NumberOfPersons,
		"hasGas":          s.HasGas,
		"status":          string(s.Status),
		"notes":           s.Notes,
	}
	if s.RoomID != nil {
		resp["roomId"] = strconv.FormatInt(*s.RoomID, 10)
	}
	if s.ActualCheckOutDate != nil {
		resp["actualCheckOutDate"] = s.ActualCheckOutDate.Format(time.RFC3339)
	}
	if s.InitialGasWeight != nil {
		resp["initialGasWeight"] = s.InitialGasWeight.String()
	}
	if s.FinalGasWeight != nil {
		resp["finalGasWeight"] = s.FinalGasWeight.String()
	}
	return resp
}

func toPaymentResponse(p *domain.Payment) map[string]any {
	resp := map[string]any{
		"id":          strconv.FormatInt(p.ID, 10),
		"stayId":      strconv.FormatInt(p.StayID, 10),
		"stayCode":    p.StayCode,
		"kind":        string(p.Kind),
		"amount":      p.Amount.String(),
		"method":      string(p.Method),
		"collectedBy": p.CollectedBy,
		"note":        p.Note,
		"createdAt":   p.CreatedAt.Format(time.RFC3339),
	}
	if p.ReferenceNumber != nil {
		resp["referenceNumber"] = *p.ReferenceNumber
	}
	return resp
}
