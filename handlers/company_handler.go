package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"lorryledger/models"
	"lorryledger/repository"
)

// CompanyHandler manages the issuing company's profile, which every invoice copies.
type CompanyHandler struct {
	Repo   repository.CompanyRepository
	Logger *zap.Logger
}

func (h *CompanyHandler) SaveCompany(w http.ResponseWriter, r *http.Request) {
	var company models.CompanyProfile
	if err := json.NewDecoder(r.Body).Decode(&company); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.Repo.SaveCompany(r.Context(), &company); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Company profile saved successfully", company)
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.Repo.GetCompany(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, "", company)
}
