package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lorryledger/models"
	"lorryledger/repository"
	"lorryledger/services"
)

type ShipmentHandler struct {
	Service   *services.ShipmentService
	Shipments repository.ShipmentRepository
	PageSize  int
	Logger    *zap.Logger
}

type shipmentView struct {
	*models.Shipment
	Completed bool `json:"completed"`
}

type tripDetailsRequest struct {
	Trip                     services.TripInput      `json:"trip"`
	EmptyTrip                services.TripInput      `json:"empty_trip"`
	GenericExpenses          []models.GenericExpense `json:"generic_expenses"`
	EmptyTripGenericExpenses []models.GenericExpense `json:"empty_trip_generic_expenses"`
}

func (h *ShipmentHandler) CreateShipment(w http.ResponseWriter, r *http.Request) {
	var in services.ShipmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, err)
		return
	}

	s, err := h.Service.CreateShipment(r.Context(), sessionFromRequest(r), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Shipment created successfully", s)
}

// ListShipments serves one page of active shipments. Without a cursor it
// starts from the newest; otherwise it continues after the cursor.
func (h *ShipmentHandler) ListShipments(w http.ResponseWriter, r *http.Request) {
	pager := services.NewPager(h.Shipments, h.PageSize)
	mode := services.PageInitial
	if cursor := r.URL.Query().Get("cursor"); cursor != "" {
		pager.Resume(cursor)
		mode = services.PageNext
	}

	page, err := pager.LoadPage(r.Context(), mode)
	if errors.Is(err, services.ErrNoMoreRecords) {
		writeData(w, http.StatusOK, "No more records", &services.Page{
			Items:  []*models.Shipment{},
			Cursor: r.URL.Query().Get("cursor"),
		})
		return
	}
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, "", page)
}

func (h *ShipmentHandler) GetShipment(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.ReadShipment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, "", shipmentView{Shipment: s, Completed: services.IsCompleted(s)})
}

func (h *ShipmentHandler) UpdateShipment(w http.ResponseWriter, r *http.Request) {
	var in services.ShipmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, err)
		return
	}

	s, err := h.Service.UpdateShipment(r.Context(), sessionFromRequest(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, "Shipment updated successfully", s)
}

func (h *ShipmentHandler) SaveTripDetails(w http.ResponseWriter, r *http.Request) {
	var req tripDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}

	s, err := h.Service.SaveTripDetails(r.Context(), sessionFromRequest(r), chi.URLParam(r, "id"),
		req.Trip, req.EmptyTrip, req.GenericExpenses, req.EmptyTripGenericExpenses)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, "Trip details saved successfully", shipmentView{Shipment: s, Completed: services.IsCompleted(s)})
}

func (h *ShipmentHandler) DeleteShipment(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteShipment(r.Context(), sessionFromRequest(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Shipment deleted successfully"})
}

// NextNumber suggests an LR number for ?date=YYYY-MM-DD (today when absent).
func (h *ShipmentHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		date = parsed
	}

	number, err := h.Service.NextLRNumber(r.Context(), date)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]string{"lr_number": number})
}
