package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/bolso-dev/bolso/internal/model"
	"github.com/bolso-dev/bolso/internal/money"
	"github.com/bolso-dev/bolso/internal/store"
)

type transactionRequest struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Amount               string   `json:"amount"`
	TransactionType      string   `json:"transaction_type"`
	CategoryID           int64    `json:"category_id"`
	AccountID            int64    `json:"account_id"`
	DestinationAccountID *int64   `json:"destination_account_id"`
	Date                 string   `json:"date"`
	Status               string   `json:"status"`
	IsRecurring          bool     `json:"is_recurring"`
	Tags                 []string `json:"tags"`
	Location             string   `json:"location"`
	Notes                string   `json:"notes"`
}

// toModel converts the request body into a model transaction, reporting
// malformed fields. Cross-field rules are left to the service.
func (r transactionRequest) toModel(uid int64) (model.Transaction, error) {
	if r.Title == "" {
		return model.Transaction{}, badRequest("title", "title is required")
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return model.Transaction{}, badRequest("amount", "invalid decimal value")
	}
	switch model.TransactionType(r.TransactionType) {
	case model.TransactionTypeIncome, model.TransactionTypeExpense, model.TransactionTypeTransfer:
	default:
		return model.Transaction{}, badRequest("transaction_type", "must be income, expense, or transfer")
	}
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return model.Transaction{}, badRequest("date", "must be YYYY-MM-DD")
	}
	status := model.TransactionStatus(r.Status)
	if r.Status == "" {
		status = model.StatusCompleted
	}
	switch status {
	case model.StatusPending, model.StatusCompleted, model.StatusCancelled:
	default:
		return model.Transaction{}, badRequest("status", "must be pending, completed, or cancelled")
	}

	return model.Transaction{
		UserID:               uid,
		Title:                r.Title,
		Description:          r.Description,
		Amount:               amount,
		Type:                 model.TransactionType(r.TransactionType),
		CategoryID:           r.CategoryID,
		AccountID:            r.AccountID,
		DestinationAccountID: r.DestinationAccountID,
		Date:                 date,
		Status:               status,
		Recurring:            r.IsRecurring,
		Tags:                 r.Tags,
		Location:             r.Location,
		Notes:                r.Notes,
	}, nil
}

func (s *Server) handleListTransactions(c *fiber.Ctx) error {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		return err
	}
	txs, err := s.transactions.List(userID(c), filter)
	if err != nil {
		return err
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		resp, err := s.renderTransaction(userID(c), t)
		if err != nil {
			return err
		}
		out = append(out, *resp)
	}
	return c.JSON(out)
}

func parseTransactionFilter(c *fiber.Ctx) (store.TransactionFilter, error) {
	var f store.TransactionFilter

	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, badRequest("date_from", "must be YYYY-MM-DD")
		}
		f.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, badRequest("date_to", "must be YYYY-MM-DD")
		}
		f.DateTo = &t
	}
	if v := c.Query("amount_from"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, badRequest("amount_from", "invalid decimal value")
		}
		f.AmountFrom = &d
	}
	if v := c.Query("amount_to"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, badRequest("amount_to", "invalid decimal value")
		}
		f.AmountTo = &d
	}
	if v := c.Query("type"); v != "" {
		f.Types = []model.TransactionType{model.TransactionType(v)}
	}
	if v := c.Query("status"); v != "" {
		f.Statuses = []model.TransactionStatus{model.TransactionStatus(v)}
	}
	if v := c.QueryInt("category", 0); v != 0 {
		f.CategoryIDs = []int64{int64(v)}
	}
	if v := c.QueryInt("account", 0); v != 0 {
		f.AccountIDs = []int64{int64(v)}
	}
	if v := c.Query("is_recurring"); v != "" {
		recurring := v == "true" || v == "1"
		f.Recurring = &recurring
	}
	f.Search = c.Query("search")
	return f, nil
}

func (s *Server) handleCreateTransaction(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	t, err := req.toModel(userID(c))
	if err != nil {
		return err
	}

	if err := s.transactions.Create(&t); err != nil {
		return err
	}
	resp, err := s.renderTransaction(userID(c), t)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (s *Server) handleGetTransaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	t, err := s.transactions.Get(userID(c), int64(id))
	if err != nil {
		return err
	}
	resp, err := s.renderTransaction(userID(c), t)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) handleUpdateTransaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}

	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	t, err := req.toModel(userID(c))
	if err != nil {
		return err
	}
	t.ID = int64(id)

	if err := s.transactions.Update(&t); err != nil {
		return err
	}
	resp, err := s.renderTransaction(userID(c), t)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) handleDeleteTransaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	if err := s.transactions.Delete(userID(c), int64(id)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleTransactionSummary(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return err
	}
	sum, err := s.transactions.Summarize(userID(c), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total_income":      sum.TotalIncome,
		"total_expense":     sum.TotalExpense,
		"total_transfer":    sum.TotalTransfer,
		"balance":           sum.Balance,
		"balance_formatted": money.FormatBRL(sum.Balance),
		"transaction_count": sum.Count,
		"period_start":      sum.PeriodStart.Format(dateLayout),
		"period_end":        sum.PeriodEnd.Format(dateLayout),
	})
}

func (s *Server) handleTransactionsByCategory(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return err
	}
	txType := model.TransactionType(c.Query("type", string(model.TransactionTypeExpense)))

	summaries, err := s.transactions.ByCategory(userID(c), from, to, txType)
	if err != nil {
		return err
	}

	out := make([]fiber.Map, 0, len(summaries))
	for _, cs := range summaries {
		category, err := s.renderCategory(userID(c), cs.Category)
		if err != nil {
			return err
		}
		out = append(out, fiber.Map{
			"category":          category,
			"total_amount":      cs.TotalAmount,
			"transaction_count": cs.Count,
			"percentage":        cs.Percentage,
		})
	}
	return c.JSON(out)
}

func parsePeriod(c *fiber.Ctx) (time.Time, time.Time, error) {
	var from, to time.Time
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return from, to, badRequest("start_date", "must be YYYY-MM-DD")
		}
		from = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return from, to, badRequest("end_date", "must be YYYY-MM-DD")
		}
		to = t
	}
	return from, to, nil
}
