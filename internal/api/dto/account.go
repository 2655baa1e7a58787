package dto

import (
	"time"

	"github.com/fleetscope/fleetscope/internal/domain/account"
)

// AccountDTO represents a linked account in API responses. The external
// id is write-only and never echoed back.
type AccountDTO struct {
	ID           string     `json:"id"`
	AWSAccountID string     `json:"aws_account_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	RoleARN      string     `json:"role_arn"`
	State        string     `json:"state"`
	LastVerified *time.Time `json:"last_verified,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FromAccount converts a domain account to its API representation.
func FromAccount(a *account.LinkedAccount) AccountDTO {
	return AccountDTO{
		ID:           a.ID,
		AWSAccountID: a.AWSAccountID,
		Name:         a.Name,
		Description:  a.Description,
		RoleARN:      a.RoleARN,
		State:        string(a.State),
		LastVerified: a.LastVerified,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// LinkAccountRequest registers a new linked account.
type LinkAccountRequest struct {
	AWSAccountID string `json:"aws_account_id" validate:"required,len=12,numeric"`
	Name         string `json:"name" validate:"required,max=255"`
	RoleARN      string `json:"role_arn" validate:"required,startswith=arn:aws:iam::"`
	ExternalID   string `json:"external_id,omitempty"`
	Description  string `json:"description,omitempty"`
}

// UpdateAccountRequest applies a partial update; absent fields are left
// untouched.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	RoleARN     *string `json:"role_arn,omitempty" validate:"omitempty,startswith=arn:aws:iam::"`
	ExternalID  *string `json:"external_id,omitempty"`
}

// VerificationResultDTO reports a verification outcome.
type VerificationResultDTO struct {
	Success   bool   `json:"success"`
	AccountID string `json:"account_id"`
	ARN       string `json:"arn,omitempty"`
	Message   string `json:"message,omitempty"`
}
