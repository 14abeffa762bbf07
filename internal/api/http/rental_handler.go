package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleet-rental-pricing/internal/domain"
	"fleet-rental-pricing/internal/logger"
	"fleet-rental-pricing/internal/report"
	"fleet-rental-pricing/internal/service"
	"fleet-rental-pricing/internal/utils"
)

const maxBodyBytes = 1 << 20

// RentalHandler exposes the rental service over HTTP
type RentalHandler struct {
	svc service.RentalService
	log *slog.Logger
}

// NewRentalHandler creates a new rental handler
func NewRentalHandler(svc service.RentalService) *RentalHandler {
	return &RentalHandler{svc: svc, log: logger.WithService("rental-api")}
}

// HandleCreateCar handles POST /api/v1/cars
func (h *RentalHandler) HandleCreateCar(w http.ResponseWriter, r *http.Request) {
	var req domain.CarRequest
	if !decodeBody(w, r, &req) {
		return
	}
	car, err := h.svc.AddCar(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

// HandleCreateRental handles POST /api/v1/rentals
func (h *RentalHandler) HandleCreateRental(w http.ResponseWriter, r *http.Request) {
	var req domain.RentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rental, err := h.svc.CreateRental(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeRental(w, r, http.StatusCreated, rental.ID)
}

// HandleGetRental handles GET /api/v1/rentals/{id}
func (h *RentalHandler) HandleGetRental(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.writeRental(w, r, http.StatusOK, id)
}

// HandleIssuePayments handles POST /api/v1/rentals/{id}/payments
func (h *RentalHandler) HandleIssuePayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	issued, err := h.svc.IssuePayments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"issued": issued})
}

// HandleModifyRental handles POST /api/v1/rentals/{id}/modifications
func (h *RentalHandler) HandleModifyRental(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var adj domain.Adjustment
	if !decodeBody(w, r, &adj) {
		return
	}
	if adj.RentalID != nil && *adj.RentalID != id {
		writeError(w, &domain.ValidationError{
			Record: "rental_modification", Field: "rental_id",
			Reason: fmt.Sprintf("%d does not match path id %d", *adj.RentalID, id),
		})
		return
	}
	adj.RentalID = &id

	if _, err := h.svc.ModifyRental(r.Context(), adj); err != nil {
		writeError(w, err)
		return
	}
	h.writeRental(w, r, http.StatusOK, id)
}

// HandleReport handles GET /api/v1/reports/{style}. format=xlsx returns a workbook.
func (h *RentalHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	style := mux.Vars(r)["style"]

	var (
		rep  *report.Report
		errs []error
	)
	err := h.svc.ReadRentals(r.Context(), func(rentals []*domain.Rental) error {
		rep, errs = report.Build(rentals, style)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if len(errs) > 0 {
		h.log.Warn("Report skipped rentals", "style", rep.Style, "skipped", len(errs))
	}
	for _, e := range errs {
		logger.RecordRejected("report", e, "style", rep.Style)
	}
	w.Header().Set("X-Report-Style", string(rep.Style))
	w.Header().Set("X-Report-Skipped", strconv.Itoa(len(errs)))

	if r.URL.Query().Get("format") == "xlsx" {
		data, err := report.BuildXLSX(rep)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, rep.Style))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := rep.Write(w); err != nil {
		h.log.Error("Failed to write report", "style", rep.Style, "error", err)
	}
}

func (h *RentalHandler) writeRental(w http.ResponseWriter, r *http.Request, status int, id int64) {
	var view *rentalView
	err := h.svc.ReadRentals(r.Context(), func(rentals []*domain.Rental) error {
		for _, rental := range rentals {
			if rental.ID == id {
				view = newRentalView(rental)
				return nil
			}
		}
		return domain.NewDomainError("rental", id, domain.ErrRentalNotFound)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, view)
}

type entryView struct {
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Direction string `json:"direction"`
}

type statementView struct {
	Type    domain.BalanceType `json:"type"`
	Amount  int64              `json:"amount"`
	Paid    bool               `json:"paid"`
	Entries []entryView        `json:"entries"`
}

type rentalView struct {
	ID                  int64                               `json:"id"`
	CarID               int64                               `json:"car_id"`
	StartDate           string                              `json:"start_date"`
	EndDate             string                              `json:"end_date"`
	Distance            int64                               `json:"distance"`
	DeductibleReduction bool                                `json:"deductible_reduction"`
	State               string                              `json:"state"`
	NumberOfDays        int64                               `json:"number_of_days"`
	Price               int64                               `json:"price"`
	Commission          domain.Commission                   `json:"commission"`
	Options             domain.Options                      `json:"options"`
	Statements          map[domain.Actor][]statementView    `json:"statements"`
	Outstanding         map[domain.Actor]domain.Outstanding `json:"outstanding,omitempty"`
}

func newRentalView(r *domain.Rental) *rentalView {
	v := &rentalView{
		ID:                  r.ID,
		CarID:               r.Car.ID,
		StartDate:           utils.FormatDate(r.StartDate),
		EndDate:             utils.FormatDate(r.EndDate),
		Distance:            r.Distance,
		DeductibleReduction: r.DeductibleReduction,
		State:               r.State.String(),
		NumberOfDays:        r.NumberOfDays,
		Price:               r.DiscountedPrice,
		Commission:          r.Commission,
		Options:             r.Options,
		Statements:          make(map[domain.Actor][]statementView, len(domain.Actors)),
	}
	for _, actor := range domain.Actors {
		h := r.History(actor)
		views := make([]statementView, 0, h.Len())
		for _, s := range h.Statements() {
			sv := statementView{Type: s.Type(), Amount: s.UnsignedAmount(), Paid: s.Paid()}
			for _, e := range s.Entries() {
				dir := "credit"
				if e.IsDebit() {
					dir = "debit"
				}
				sv.Entries = append(sv.Entries, entryView{Type: e.Type, Amount: e.Amount, Direction: dir})
			}
			views = append(views, sv)
		}
		v.Statements[actor] = views

		if o, ok := h.Outstanding(); ok {
			if v.Outstanding == nil {
				v.Outstanding = make(map[domain.Actor]domain.Outstanding, len(domain.Actors))
			}
			v.Outstanding[actor] = o
		}
	}
	return v
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid rental id %q", raw)})
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	} else {
		logger.Debug("Request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCarNotFound), errors.Is(err, domain.ErrRentalNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDomain):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// RegisterRentalRoutes registers the rental API and the metrics endpoint
func RegisterRentalRoutes(router *mux.Router, svc service.RentalService, gatherer prometheus.Gatherer) {
	handler := NewRentalHandler(svc)
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/cars", handler.HandleCreateCar).Methods("POST")
	api.HandleFunc("/rentals", handler.HandleCreateRental).Methods("POST")
	api.HandleFunc("/rentals/{id}", handler.HandleGetRental).Methods("GET")
	api.HandleFunc("/rentals/{id}/payments", handler.HandleIssuePayments).Methods("POST")
	api.HandleFunc("/rentals/{id}/modifications", handler.HandleModifyRental).Methods("POST")
	api.HandleFunc("/reports/{style}", handler.HandleReport).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
}
