package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetscope/fleetscope/internal/api/dto"
	"github.com/fleetscope/fleetscope/internal/domain/account"
	"github.com/fleetscope/fleetscope/internal/pkg/errors"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
	"github.com/fleetscope/fleetscope/internal/pkg/utils"
	"github.com/fleetscope/fleetscope/internal/pkg/validator"
)

type AccountHandler struct {
	service   account.Service
	verifier  account.Verifier
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAccountHandler(service account.Service, verifier account.Verifier, log *logger.Logger, val *validator.Validator) *AccountHandler {
	return &AccountHandler{
		service:   service,
		verifier:  verifier,
		logger:    log,
		validator: val,
	}
}

// List returns all linked accounts
// @Summary List linked accounts
// @Description Get all linked accounts, optionally filtered by verification state
// @Tags Accounts
// @Produce json
// @Param state query string false "Verification state filter (pending, verified, failed, disabled)"
// @Success 200 {array} dto.AccountDTO "List of linked accounts"
// @Failure 400 {object} utils.ErrorResponse "Unknown state"
// @Router /accounts [get]
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	var state *account.VerificationState
	if raw := r.URL.Query().Get("state"); raw != "" {
		s := account.VerificationState(raw)
		state = &s
	}

	accounts, err := h.service.List(r.Context(), state)
	if err != nil {
		h.writeError(w, err, "Failed to list accounts")
		return
	}

	dtos := make([]dto.AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = dto.FromAccount(a)
	}
	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// Link registers a new linked account
// @Summary Link an account
// @Description Register a third-party AWS account via its trust role
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body dto.LinkAccountRequest true "Account details"
// @Success 201 {object} dto.AccountDTO "Linked account"
// @Failure 400 {object} utils.ErrorResponse "Validation error"
// @Failure 409 {object} utils.ErrorResponse "Account already linked"
// @Router /accounts [post]
func (h *AccountHandler) Link(w http.ResponseWriter, r *http.Request) {
	var req dto.LinkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	acct, err := h.service.Link(r.Context(), account.CreateInput{
		AWSAccountID: req.AWSAccountID,
		Name:         req.Name,
		RoleARN:      req.RoleARN,
		ExternalID:   req.ExternalID,
		Description:  req.Description,
	})
	if err != nil {
		h.writeError(w, err, "Failed to link account")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.FromAccount(acct))
}

// Get returns one linked account
// @Summary Get a linked account
// @Tags Accounts
// @Produce json
// @Param id path string true "Account id"
// @Success 200 {object} dto.AccountDTO "Linked account"
// @Failure 404 {object} utils.ErrorResponse "Account not found"
// @Router /accounts/{id} [get]
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	acct, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Failed to get account")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromAccount(acct))
}

// Update applies a partial update to a linked account
// @Summary Update a linked account
// @Description Update mutable fields; changing the role ARN or external id resets verification
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path string true "Account id"
// @Param request body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountDTO "Updated account"
// @Failure 400 {object} utils.ErrorResponse "Validation error"
// @Failure 404 {object} utils.ErrorResponse "Account not found"
// @Router /accounts/{id} [patch]
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	acct, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), account.Update{
		Name:        req.Name,
		Description: req.Description,
		RoleARN:     req.RoleARN,
		ExternalID:  req.ExternalID,
	})
	if err != nil {
		h.writeError(w, err, "Failed to update account")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromAccount(acct))
}

// Verify runs the identity check against a linked account
// @Summary Verify a linked account
// @Description Assume the trust role and confirm the resolved identity
// @Tags Accounts
// @Produce json
// @Param id path string true "Account id"
// @Success 200 {object} dto.VerificationResultDTO "Verification outcome"
// @Failure 404 {object} utils.ErrorResponse "Account not found"
// @Failure 409 {object} utils.ErrorResponse "Account is disabled"
// @Router /accounts/{id}/verify [post]
func (h *AccountHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.verifier.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Verification could not run")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.VerificationResultDTO{
		Success:   result.Success,
		AccountID: result.AccountID,
		ARN:       result.ARN,
		Message:   result.Message,
	})
}

// Disable moves a linked account into the disabled state
// @Summary Disable a linked account
// @Tags Accounts
// @Produce json
// @Param id path string true "Account id"
// @Success 200 {object} utils.SuccessResponse "Account disabled"
// @Failure 404 {object} utils.ErrorResponse "Account not found"
// @Router /accounts/{id}/disable [post]
func (h *AccountHandler) Disable(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Disable(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err, "Failed to disable account")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Account disabled", nil)
}

// Unlink removes a linked account permanently
// @Summary Unlink an account
// @Tags Accounts
// @Produce json
// @Param id path string true "Account id"
// @Success 200 {object} utils.SuccessResponse "Account unlinked"
// @Failure 404 {object} utils.ErrorResponse "Account not found"
// @Router /accounts/{id} [delete]
func (h *AccountHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unlink(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err, "Failed to unlink account")
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Account unlinked", nil)
}

func (h *AccountHandler) writeError(w http.ResponseWriter, err error, logMsg string) {
	if appErr, ok := err.(*errors.AppError); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.logger.ErrorWithErr(err, logMsg)
		}
		utils.WriteError(w, appErr)
		return
	}
	h.logger.ErrorWithErr(err, logMsg)
	utils.WriteError(w, errors.Internal(logMsg, err))
}
