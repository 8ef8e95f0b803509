package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lorryledger/services"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
	Logger  *zap.Logger
}

func (h *InvoiceHandler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShipmentIDs []string `json:"shipmentIds"`
		IsMarket    bool     `json:"isMarket"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}

	inv, err := h.Service.GenerateInvoice(r.Context(), sessionFromRequest(r), req.ShipmentIDs, req.IsMarket)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Invoice generated successfully", inv)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, "", inv)
}
