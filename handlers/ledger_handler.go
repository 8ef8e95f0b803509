package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lorryledger/models"
	"lorryledger/repository"
	"lorryledger/services"
)

// LedgerHandler maintains the parties and vehicles shipments refer to.
type LedgerHandler struct {
	Parties  repository.PartyRepository
	Vehicles repository.VehicleRepository
	Logger   *zap.Logger
}

func validKind(k models.PartyKind) bool {
	return k == models.PartyClient || k == models.PartyTransporter
}

// SaveParty creates or renames a party. Outstanding is taken as the opening
// balance for new parties only; afterwards invoicing owns it.
func (h *LedgerHandler) SaveParty(w http.ResponseWriter, r *http.Request) {
	var p models.Party
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, err)
		return
	}

	verr := &services.ValidationError{}
	if !validKind(p.Kind) {
		verr.Add("kind", "must be one of: client transporter")
	}
	if strings.TrimSpace(p.Name) == "" {
		verr.Add("name", "is required")
	}
	if err := verr.OrNil(); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	if err := h.Parties.SaveParty(r.Context(), &p); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	saved, err := h.Parties.GetParty(r.Context(), p.Kind, p.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Party saved successfully", saved)
}

func (h *LedgerHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	kind := models.PartyKind(chi.URLParam(r, "kind"))
	if !validKind(kind) {
		writeJSON(w, http.StatusNotFound, ApiResponse{Success: false, Message: "unknown party kind"})
		return
	}

	p, err := h.Parties.GetParty(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, "", p)
}

// SaveVehicle creates or updates a vehicle. FuelBalance is taken as the
// opening balance for new vehicles only.
func (h *LedgerHandler) SaveVehicle(w http.ResponseWriter, r *http.Request) {
	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeBadRequest(w, err)
		return
	}

	verr := &services.ValidationError{}
	if strings.TrimSpace(v.Number) == "" {
		verr.Add("number", "is required")
	}
	if v.Average < 0 {
		verr.Add("average", "must be at least 0")
	}
	if err := verr.OrNil(); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	if err := h.Vehicles.SaveVehicle(r.Context(), &v); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	saved, err := h.Vehicles.GetVehicle(r.Context(), v.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Vehicle saved successfully", saved)
}

func (h *LedgerHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.Vehicles.GetVehicle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, "", v)
}
