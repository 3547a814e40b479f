package accounting

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/shared"
)

// Partner is a customer and/or vendor counterparty
type Partner struct {
	shared.CompanyAggregateRoot
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
	IsCustomer bool    `json:"is_customer"`
	IsVendor   bool    `json:"is_vendor"`
}

// NewPartner creates a partner. At least one role must be set.
func NewPartner(companyID uuid.UUID, name string, email *string, isCustomer, isVendor bool) (*Partner, error) {
	name = strings.TrimSpace(name)

	var problems []string
	if companyID == uuid.Nil {
		problems = append(problems, "company is required")
	}
	if name == "" {
		problems = append(problems, "name is required")
	}
	if !isCustomer && !isVendor {
		problems = append(problems, "partner must be a customer, a vendor, or both")
	}

	var normalized *string
	if email != nil && strings.TrimSpace(*email) != "" {
		e := strings.ToLower(strings.TrimSpace(*email))
		if _, err := mail.ParseAddress(e); err != nil {
			problems = append(problems, "email is not a valid address")
		}
		normalized = &e
	}
	if len(problems) > 0 {
		return nil, shared.NewValidationError("invalid partner: %s", strings.Join(problems, "; ")).WithDetails(problems...)
	}

	return &Partner{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		Email:                normalized,
		IsCustomer:           isCustomer,
		IsVendor:             isVendor,
	}, nil
}
