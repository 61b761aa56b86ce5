package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/billing"
	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
	"github.com/khantzwenaing/roomlynx-sub000/internal/repository"
	"github.com/khantzwenaing/roomlynx-sub000/internal/service"
)

type CheckoutHandler struct {
	Service *service.CheckoutService
}

func (h CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/stays/{id}/checkout/preview", h.preview)
	r.Post("/stays/{id}/checkout", h.checkout)
}

type checkoutPayload struct {
	ActualCheckOutDate string `json:"actualCheckOutDate"`
	FinalGasWeight     string `json:"finalGasWeight"`
	Method             string `json:"method"`
	ReferenceNumber    string `json:"referenceNumber"`
	CollectedBy        string `json:"collectedBy"`
	Note               string `json:"note"`
}

func (h CheckoutHandler) preview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stay id")
		return
	}
	var req checkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	asOf, finalGas, err := parseCheckoutFields(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	res, err := h.Service.Preview(r.Context(), id, asOf, finalGas)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettlementResponse(res))
}

func (h CheckoutHandler) checkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stay id")
		return
	}
	var req checkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	asOf, finalGas, err := parseCheckoutFields(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	res, err := h.Service.Checkout(r.Context(), service.CheckoutInput{
		StayID:          id,
		ActualCheckOut:  asOf,
		FinalGasWeight:  finalGas,
		Method:          domain.PaymentMethod(req.Method),
		ReferenceNumber: req.ReferenceNumber,
		CollectedBy:     req.CollectedBy,
		Note:            req.Note,
	})
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	resp := toSettlementResponse(&res.SettlementResult)
	resp["recordedKind"] = string(res.RecordedKind)
	resp["recordedAmount"] = res.RecordedAmount.String()
	writeJSON(w, http.StatusOK, resp)
}

func parseCheckoutFields(req checkoutPayload) (time.Time, *decimal.Decimal, error) {
	asOf := time.Now()
	if req.ActualCheckOutDate != "" {
		t, err := time.Parse(time.RFC3339, req.ActualCheckOutDate)
		if err != nil {
			return time.Time{}, nil, errors.New("actualCheckOutDate must be RFC 3339")
		}
		asOf = t
	}
	var finalGas *decimal.Decimal
	if req.FinalGasWeight != "" {
		g, err := decimal.NewFromString(req.FinalGasWeight)
		if err != nil || g.IsNegative() {
			return time.Time{}, nil, errors.New("finalGasWeight must be a non-negative weight")
		}
		finalGas = &g
	}
	return asOf, finalGas, nil
}

func writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "stay not found")
	case errors.Is(err, service.ErrStayNotActive),
		errors.Is(err, service.ErrStayNotLinked):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCollectorRequired),
		errors.Is(err, service.ErrReferenceRequired),
		errors.Is(err, service.ErrFinalGasRequired),
		errors.Is(err, service.ErrInvalidMethod),
		errors.Is(err, billing.ErrFinalExceedsInitial):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func toSettlementResponse(res *service.SettlementResult) map[string]any {
	s := res.Settlement
	resp := map[string]any{
		"stayCode":          res.Stay.Code,
		"roomCharge":        s.RoomCharge.String(),
		"extraPersonCharge": s.ExtraPersonCharge.String(),
		"gasCharge":         s.GasCharge.String(),
		"totalCharges":      s.TotalCharges.String(),
		"depositAmount":     s.DepositAmount.String(),
		"amountDue":         s.AmountDue.String(),
		"refundAmount":      s.RefundAmount.String(),
		"depositRefund":     res.DepositRefund.String(),
		"earlyCheckout":     res.Early,
		"currency":          res.Currency,
	}
	if res.EarlyRefund != nil {
		resp["earlyRefund"] = map[string]any{
			"nightsStayed":     res.EarlyRefund.NightsStayed,
			"nightsPlanned":    res.EarlyRefund.NightsPlanned,
			"nightsNotStaying": res.EarlyRefund.NightsNotStaying,
			"roomRefund":       res.EarlyRefund.RoomRefund.String(),
			"extraRefund":      res.EarlyRefund.ExtraRefund.String(),
			"gasCharge":        res.EarlyRefund.GasCharge.String(),
			"totalRefund":      res.EarlyRefund.TotalRefund.String(),
		}
	}
	return resp
}
