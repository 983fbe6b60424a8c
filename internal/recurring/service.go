// Package recurring manages recurring-transaction templates. A template
// never fires on a timer: its next-due date advances only when a caller
// explicitly executes it.
package recurring

import (
	"fmt"
	"time"

	"github.com/bolso-dev/bolso/internal/model"
	"github.com/bolso-dev/bolso/internal/store"
)

// Service provides business logic for recurring templates.
type Service struct {
	store *store.Store
	clock func() time.Time
}

// NewService creates a recurring Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st, clock: time.Now}
}

// Create persists a new template with its next execution initialized to
// the start date.
func (s *Service) Create(r *model.RecurringTransaction) error {
	r.NextExecution = r.StartDate
	return s.store.CreateRecurring(r)
}

// Get returns one of the user's active templates.
func (s *Service) Get(userID, id int64) (model.RecurringTransaction, error) {
	return s.store.GetRecurring(userID, id)
}

// List returns the user's active templates ordered by next execution.
func (s *Service) List(userID int64) ([]model.RecurringTransaction, error) {
	return s.store.ListRecurring(userID)
}

// Update persists template edits.
func (s *Service) Update(r *model.RecurringTransaction) error {
	return s.store.UpdateRecurring(r)
}

// Delete removes a template.
func (s *Service) Delete(userID, id int64) error {
	return s.store.DeleteRecurring(userID, id)
}

// Execute materializes one concrete transaction from the template,
// dated today and completed, then advances the template's next
// execution date. Inactive templates are not found.
func (s *Service) Execute(userID, id int64) (model.Transaction, error) {
	r, err := s.store.GetRecurring(userID, id)
	if err != nil {
		return model.Transaction{}, err
	}

	t := model.Transaction{
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Amount:      r.Amount,
		Type:        r.Type,
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
		Date:        s.clock(),
		Status:      model.StatusCompleted,
		Recurring:   true,
	}
	if err := s.store.CreateTransaction(&t); err != nil {
		return model.Transaction{}, fmt.Errorf("materializing transaction: %w", err)
	}

	next := NextExecution(r.NextExecution, r.Frequency)
	if err := s.store.UpdateNextExecution(userID, id, next); err != nil {
		return model.Transaction{}, fmt.Errorf("advancing next execution: %w", err)
	}
	return t, nil
}

// NextExecution computes the date the template is next due after
// current. Month, quarter, and year use fixed 30/90/365-day offsets
// rather than calendar arithmetic, so they drift against real calendar
// months; an unrecognized frequency gets the 30-day offset.
func NextExecution(current time.Time, frequency model.Frequency) time.Time {
	switch frequency {
	case model.FrequencyDaily:
		return current.AddDate(0, 0, 1)
	case model.FrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case model.FrequencyMonthly:
		return current.AddDate(0, 0, 30)
	case model.FrequencyQuarterly:
		return current.AddDate(0, 0, 90)
	case model.FrequencyYearly:
		return current.AddDate(0, 0, 365)
	default:
		return current.AddDate(0, 0, 30)
	}
}
