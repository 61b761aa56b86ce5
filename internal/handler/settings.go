package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
	"github.com/khantzwenaing/roomlynx-sub000/internal/repository"
)

type SettingsHandler struct {
	Repo repository.SettingsRepository
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings/charges", h.get)
	r.Put("/settings/charges", h.save)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Get(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Unconfigured is a valid state: zero rates.
			writeJSON(w, http.StatusOK, toChargeSettingsResponse(&domain.ChargeSettings{
				ExtraPersonPolicy: domain.ExtraPersonFlat,
			}))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toChargeSettingsResponse(s))
}

func (h SettingsHandler) save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PricePerKg        string `json:"pricePerKg"`
		ExtraPersonCharge string `json:"extraPersonCharge"`
		ExtraPersonPolicy string `json:"extraPersonPolicy"`
		CurrencyCode      string `json:"currencyCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	pricePerKg, err := decimal.NewFromString(req.PricePerKg)
	if err != nil || pricePerKg.IsNegative() {
		writeError(w, http.StatusUnprocessableEntity, "pricePerKg must be a non-negative amount")
		return
	}
	extraPerson, err := decimal.NewFromString(req.ExtraPersonCharge)
	if err != nil || extraPerson.IsNegative() {
		writeError(w, http.StatusUnprocessableEntity, "extraPersonCharge must be a non-negative amount")
		return
	}
	policy := domain.ExtraPersonPolicy(req.ExtraPersonPolicy)
	if policy == "" {
		policy = domain.ExtraPersonFlat
	}
	if policy != domain.ExtraPersonFlat && policy != domain.ExtraPersonPerDay {
		writeError(w, http.StatusUnprocessableEntity, "extraPersonPolicy must be flat or per_day")
		return
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = "USD"
	}

	s, err := h.Repo.Save(r.Context(), domain.ChargeSettings{
		PricePerKg:        pricePerKg,
		ExtraPersonCharge: extraPerson,
		ExtraPersonPolicy: policy,
		CurrencyCode:      req.CurrencyCode,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toChargeSettingsResponse(s))
}

func toChargeSettingsResponse(s *domain.ChargeSettings) map[string]any {
	return map[string]any{
		"pricePerKg":        s.PricePerKg.String(),
		"extraPersonCharge": s.ExtraPersonCharge.String(),
		"extraPersonPolicy": string(s.ExtraPersonPolicy),
		"currencyCode":      s.CurrencyCode,
	}
}
