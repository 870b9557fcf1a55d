package auth

import (
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/validator"
)

type IssueTokenRequest struct {
	Subject string        `json:"subject"`
	Role    string        `json:"role"`
	TTL     time.Duration `json:"-"` // zero uses the configured access expiration
}

func (r *IssueTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Subject) {
		errs = append(errs, validator.ValidationError{Field: "subject", Message: "subject is required"})
	}
	if !Role(r.Role).Valid() {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of admin, manager, viewer"})
	}
	if r.TTL < 0 {
		errs = append(errs, validator.ValidationError{Field: "ttl", Message: "ttl must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	ExpiresAt   int64  `json:"expires_at"`
}
