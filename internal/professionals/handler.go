package professionals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/CuraLedger-Health/subscription-service/internal/pagination"
	"github.com/gorilla/mux"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

type ProfessionalSuccessResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Professional *Professional `json:"professional,omitempty"`
}

type ProfessionalListResponse struct {
	Success       bool            `json:"success"`
	Professionals []Professional  `json:"professionals"`
	Pagination    pagination.Meta `json:"pagination"`
}

func (h *Handler) CreateProfessional(w http.ResponseWriter, r *http.Request) {
	var req CreateProfessionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	professional, err := h.service.CreateProfessional(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingName), errors.Is(err, ErrMissingSpecialization), errors.Is(err, ErrMissingContactEmail):
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		case errors.Is(err, ErrProfessionalExists):
			respondError(w, http.StatusConflict, "already_exists", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "creation_failed", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ProfessionalSuccessResponse{
		Success:      true,
		Message:      "Professional created successfully",
		Professional: professional,
	})
}

func (h *Handler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)

	professionals, meta, err := h.service.ListProfessionals(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}
	if professionals == nil {
		professionals = []Professional{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfessionalListResponse{
		Success:       true,
		Professionals: professionals,
		Pagination:    meta,
	})
}

func (h *Handler) GetProfessional(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	professional, err := h.service.GetProfessional(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProfessionalNotFound) {
			respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfessionalSuccessResponse{
		Success:      true,
		Message:      "Professional retrieved successfully",
		Professional: professional,
	})
}

func (h *Handler) UpdateProfessional(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateProfessionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	professional, err := h.service.UpdateProfessional(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfessionalNotFound):
			respondError(w, http.StatusNotFound, "not_found", err.Error())
		case errors.Is(err, ErrNoFieldsToUpdate):
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfessionalSuccessResponse{
		Success:      true,
		Message:      "Professional updated successfully",
		Professional: professional,
	})
}

func (h *Handler) DeleteProfessional(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProfessional(r.Context(), id); err != nil {
		if errors.Is(err, ErrProfessionalNotFound) {
			respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "deletion_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Professional deleted successfully",
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "Professional ID must be numeric")
		return 0, false
	}
	return id, true
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
}
