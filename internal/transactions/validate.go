package transactions

import (
	"fmt"

	"github.com/bolso-dev/bolso/internal/model"
)

// ValidationError describes a single cross-field rule violation, keyed
// by the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate enforces the cross-field rules on a candidate transaction
// before it is persisted. It is side-effect free; category must be the
// resolved category the transaction references.
func Validate(t model.Transaction, category model.Category) error {
	if !t.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}
	if t.Type == model.TransactionTypeTransfer && t.DestinationAccountID == nil {
		return &ValidationError{Field: "destination_account", Message: "transfers must have a destination account"}
	}
	if t.DestinationAccountID != nil && *t.DestinationAccountID == t.AccountID {
		return &ValidationError{Field: "destination_account", Message: "destination account must differ from the source account"}
	}
	if !category.Allows(t.Type) {
		return &ValidationError{Field: "category", Message: "category is incompatible with the transaction type"}
	}
	return nil
}
