package accounting

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/shared"
)

// DefaultReceivableAccountCodes are tried in order when locating the AR account
var DefaultReceivableAccountCodes = []string{"1200", "1100", "120", "1210"}

// receivableNameFragment is matched case-insensitively against ASSET account names
const receivableNameFragment = "receivable"

// ReceivableAccountResolver locates a company's accounts-receivable account by
// convention: the first candidate code that exists as an ASSET account, then
// the first ASSET account whose name mentions "Receivable".
type ReceivableAccountResolver struct {
	codes []string
}

// NewReceivableAccountResolver creates a resolver. Without codes the defaults apply.
func NewReceivableAccountResolver(codes ...string) *ReceivableAccountResolver {
	cleaned := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultReceivableAccountCodes...)
	}
	return &ReceivableAccountResolver{codes: cleaned}
}

// Codes returns the candidate codes in priority order
func (r *ReceivableAccountResolver) Codes() []string {
	return append([]string(nil), r.codes...)
}

// Resolve returns the receivable account or a not-found error
func (r *ReceivableAccountResolver) Resolve(ctx context.Context, accounts AccountRepository, companyID uuid.UUID) (*Account, error) {
	found, err := accounts.FindByCodes(ctx, companyID, r.codes)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*Account, len(found))
	for i := range found {
		byCode[found[i].Code] = &found[i]
	}
	for _, code := range r.codes {
		if acc, ok := byCode[code]; ok && acc.Type == AccountTypeAsset {
			return acc, nil
		}
	}

	acc, err := accounts.FindFirstByNameContains(ctx, companyID, receivableNameFragment, AccountTypeAsset)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(
				"accounts receivable account not found: tried codes %s and ASSET accounts named like 'Receivable'",
				strings.Join(r.codes, ", "))
		}
		return nil, err
	}
	return acc, nil
}
