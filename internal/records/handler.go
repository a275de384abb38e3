package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/CuraLedger-Health/subscription-service/internal/auth"
	"github.com/gorilla/mux"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

type UserSuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

type RecordSuccessResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Record  *Record `json:"record,omitempty"`
}

type RecordListResponse struct {
	Success bool     `json:"success"`
	Records []Record `json:"records"`
	Total   int      `json:"total"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Context(), principal.Email, req)
	if err != nil {
		if errors.Is(err, ErrMissingUsername) || errors.Is(err, ErrMissingEmail) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "creation_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UserSuccessResponse{
		Success: true,
		Message: "User created successfully",
		User:    user,
	})
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	user, err := h.service.GetUserByEmail(r.Context(), principal.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "No application user for this account")
			return
		}
		respondError(w, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UserSuccessResponse{Success: true, User: user})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	if users == nil {
		users = []User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	record, err := h.service.CreateRecord(r.Context(), principal.Email, req)
	if err != nil {
		if errors.Is(err, ErrMissingRecordName) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "creation_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(RecordSuccessResponse{
		Success: true,
		Message: "Record created successfully",
		Record:  record,
	})
}

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	result, err := h.service.ListRecords(r.Context(), principal.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	if result == nil {
		result = []Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RecordListResponse{Success: true, Records: result, Total: len(result)})
}

func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.FromContext(r.Context()); !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "Record ID must be numeric")
		return
	}

	var req UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	record, err := h.service.UpdateRecord(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "record_not_found", "Record not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RecordSuccessResponse{
		Success: true,
		Message: "Record updated successfully",
		Record:  record,
	})
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
}
