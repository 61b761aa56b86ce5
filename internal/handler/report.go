package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/khantzwenaing/roomlynx-sub000/internal/domain"
	"github.com/khantzwenaing/roomlynx-sub000/internal/repository"
)

type ReportHandler struct {
	Reports  repository.ReportRepository
	Payments repository.PaymentRepository
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/daily", h.daily)
	r.Get("/reports/payments/export", h.exportPayments)
	r.Get("/dashboard", h.dashboard)
}

func (h ReportHandler) daily(w http.ResponseWriter, r *http.Request) {
	from, to, err := reportRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.Reports.Daily(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, map[string]any{
			"date":      row.Date.Format(dateLayout),
			"payments":  row.Payments.String(),
			"refunds":   row.Refunds.String(),
			"deposits":  row.Deposits.String(),
			"checkins":  row.CheckinCount,
			"checkouts": row.CheckoutCount,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ReportHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Reports.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rooms := make(map[string]int, len(sum.RoomsByStatus))
	for status, count := range sum.RoomsByStatus {
		rooms[string(status)] = count
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"roomsByStatus": rooms,
		"activeStays":   sum.ActiveStays,
		"todayRevenue":  sum.TodayRevenue.String(),
		"todayRefunds":  sum.TodayRefunds.String(),
	})
}

func (h ReportHandler) exportPayments(w http.ResponseWriter, r *http.Request) {
	from, to, err := reportRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payments, err := h.Payments.ListByDateRange(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "csv":
		data, err := exportPaymentsCSV(payments)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="payments.csv"`)
		_, _ = w.Write(data)
	case "xlsx":
		data, err := exportPaymentsXLSX(payments)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="payments.xlsx"`)
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func reportRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	now := time.Now()
	if to == nil {
		to = &now
	}
	if from == nil {
		f := to.AddDate(0, 0, -30)
		from = &f
	}
	// End of range is exclusive; widen to the following midnight.
	end := to.AddDate(0, 0, 1).Truncate(24 * time.Hour)
	return *from, end, nil
}

func exportPaymentsCSV(payments []domain.Payment) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "stay_code", "kind", "amount", "method", "reference_number", "collected_by", "note", "created_at"})
	for _, p := range payments {
		_ = w.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.StayCode,
			string(p.Kind),
			p.Amount.String(),
			string(p.Method),
			derefString(p.ReferenceNumber),
			p.CollectedBy,
			p.Note,
			p.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportPaymentsXLSX(payments []domain.Payment) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Payments"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"ID", "Stay", "Kind", "Amount", "Method", "Reference", "Collected By", "Note", "Date"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, p := range payments {
		row := r + 2
		amount, _ := p.Amount.Float64()
		values := []any{
			p.ID,
			p.StayCode,
			string(p.Kind),
			amount,
			string(p.Method),
			derefString(p.ReferenceNumber),
			p.CollectedBy,
			p.Note,
			p.CreatedAt.Format("2006-01-02 15:04"),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "B", "B", 20)
	_ = f.SetColWidth(sheet, "C", "C", 10)
	_ = f.SetColWidth(sheet, "D", "D", 14)
	_ = f.SetColWidth(sheet, "E", "E", 14)
	_ = f.SetColWidth(sheet, "F", "F", 18)
	_ = f.SetColWidth(sheet, "G", "G", 18)
	_ = f.SetColWidth(sheet, "H", "H", 28)
	_ = f.SetColWidth(sheet, "I", "I", 18)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "I1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
