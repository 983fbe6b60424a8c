package httpapi

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bolso-dev/bolso/internal/model"
)

// handleImportTransactions turns an uploaded bank statement CSV into
// transactions. Credits become income, debits become expense; the
// category for each side comes from query parameters.
func (s *Server) handleImportTransactions(c *fiber.Ctx) error {
	format := c.Query("format", "nubank")
	parser := s.importers.Get(format)
	if parser == nil {
		return badRequest("format", fmt.Sprintf("unknown format %q, supported: %s",
			format, strings.Join(s.importers.Formats(), ", ")))
	}

	accountID := int64(c.QueryInt("account", 0))
	if accountID == 0 {
		return badRequest("account", "account query parameter is required")
	}
	incomeCategoryID := int64(c.QueryInt("income_category", 0))
	expenseCategoryID := int64(c.QueryInt("expense_category", 0))
	if incomeCategoryID == 0 || expenseCategoryID == 0 {
		return badRequest("category", "income_category and expense_category query parameters are required")
	}

	entries, err := parser.Parse(bytes.NewReader(c.Body()))
	if err != nil {
		return badRequest("body", err.Error())
	}

	uid := userID(c)
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if entry.Amount.IsZero() {
			continue
		}
		t := model.Transaction{
			UserID:     uid,
			Title:      entry.Description,
			Amount:     entry.Amount.Abs(),
			Type:       model.TransactionTypeIncome,
			CategoryID: incomeCategoryID,
			AccountID:  accountID,
			Date:       entry.Date,
			Status:     model.StatusCompleted,
			Notes:      entry.Reference,
		}
		if entry.Amount.IsNegative() {
			t.Type = model.TransactionTypeExpense
			t.CategoryID = expenseCategoryID
		}
		if err := s.transactions.Create(&t); err != nil {
			return fmt.Errorf("importing %q: %w", entry.Description, err)
		}
		ids = append(ids, t.ID)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"imported":        len(ids),
		"transaction_ids": ids,
	})
}
