package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/bolso-dev/bolso/internal/model"
)

type recurringRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Amount          string  `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	CategoryID      int64   `json:"category_id"`
	AccountID       int64   `json:"account_id"`
	Frequency       string  `json:"frequency"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date"`
	IsActive        *bool   `json:"is_active"`
}

func (r recurringRequest) toModel(uid int64) (model.RecurringTransaction, error) {
	if r.Title == "" {
		return model.RecurringTransaction{}, badRequest("title", "title is required")
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return model.RecurringTransaction{}, badRequest("amount", "invalid decimal value")
	}
	switch model.TransactionType(r.TransactionType) {
	case model.TransactionTypeIncome, model.TransactionTypeExpense, model.TransactionTypeTransfer:
	default:
		return model.RecurringTransaction{}, badRequest("transaction_type", "must be income, expense, or transfer")
	}
	switch model.Frequency(r.Frequency) {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly,
		model.FrequencyQuarterly, model.FrequencyYearly:
	default:
		return model.RecurringTransaction{}, badRequest("frequency", "unknown frequency")
	}
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return model.RecurringTransaction{}, badRequest("start_date", "must be YYYY-MM-DD")
	}

	rec := model.RecurringTransaction{
		UserID:      uid,
		Title:       r.Title,
		Description: r.Description,
		Amount:      amount,
		Type:        model.TransactionType(r.TransactionType),
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
		Frequency:   model.Frequency(r.Frequency),
		StartDate:   start,
		Active:      true,
	}
	if r.EndDate != nil {
		end, err := time.Parse(dateLayout, *r.EndDate)
		if err != nil {
			return model.RecurringTransaction{}, badRequest("end_date", "must be YYYY-MM-DD")
		}
		rec.EndDate = &end
	}
	if r.IsActive != nil {
		rec.Active = *r.IsActive
	}
	return rec, nil
}

func (s *Server) handleListRecurring(c *fiber.Ctx) error {
	templates, err := s.recurring.List(userID(c))
	if err != nil {
		return err
	}
	out := make([]recurringResponse, 0, len(templates))
	for _, r := range templates {
		resp, err := s.renderRecurring(userID(c), r)
		if err != nil {
			return err
		}
		out = append(out, *resp)
	}
	return c.JSON(out)
}

func (s *Server) handleCreateRecurring(c *fiber.Ctx) error {
	var req recurringRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	rec, err := req.toModel(userID(c))
	if err != nil {
		return err
	}
	if err := s.recurring.Create(&rec); err != nil {
		return err
	}
	resp, err := s.renderRecurring(userID(c), rec)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (s *Server) handleGetRecurring(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	rec, err := s.recurring.Get(userID(c), int64(id))
	if err != nil {
		return err
	}
	resp, err := s.renderRecurring(userID(c), rec)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) handleUpdateRecurring(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	existing, err := s.recurring.Get(userID(c), int64(id))
	if err != nil {
		return err
	}

	var req recurringRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	rec, err := req.toModel(userID(c))
	if err != nil {
		return err
	}
	rec.ID = existing.ID
	rec.NextExecution = existing.NextExecution

	if err := s.recurring.Update(&rec); err != nil {
		return err
	}
	resp, err := s.renderRecurring(userID(c), rec)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) handleDeleteRecurring(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	if err := s.recurring.Delete(userID(c), int64(id)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleExecuteRecurring materializes one transaction from the template
// and advances its next execution date.
func (s *Server) handleExecuteRecurring(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	t, err := s.recurring.Execute(userID(c), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":        "recurring transaction executed",
		"transaction_id": t.ID,
	})
}
