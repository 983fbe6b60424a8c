package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/bolso-dev/bolso/internal/model"
	"github.com/bolso-dev/bolso/internal/money"
)

type accountRequest struct {
	Name          string `json:"name"`
	AccountType   string `json:"account_type"`
	Currency      string `json:"currency"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	IsActive      *bool  `json:"is_active"`
}

func (r accountRequest) validate() error {
	if r.Name == "" {
		return badRequest("name", "name is required")
	}
	switch model.AccountType(r.AccountType) {
	case model.AccountTypeChecking, model.AccountTypeSavings, model.AccountTypeCreditCard,
		model.AccountTypeDebitCard, model.AccountTypeCash, model.AccountTypeInvestment,
		model.AccountTypeOther:
	default:
		return badRequest("account_type", "unknown account type")
	}
	return nil
}

func (s *Server) handleListAccounts(c *fiber.Ctx) error {
	accounts, err := s.store.ListAccounts(userID(c))
	if err != nil {
		return err
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp, err := s.renderAccount(userID(c), a)
		if err != nil {
			return err
		}
		out = append(out, *resp)
	}
	return c.JSON(out)
}

func (s *Server) handleCreateAccount(c *fiber.Ctx) error {
	var req accountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	account := model.Account{
		UserID:        userID(c),
		Name:          req.Name,
		Type:          model.AccountType(req.AccountType),
		Currency:      req.Currency,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		Active:        true,
	}
	if account.Currency == "" {
		account.Currency = "BRL"
	}
	if err := s.store.CreateAccount(&account); err != nil {
		return err
	}

	resp, err := s.renderAccount(userID(c), account)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (s *Server) handleGetAccount(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	account, err := s.store.GetAccount(userID(c), int64(id))
	if err != nil {
		return err
	}
	resp, err := s.renderAccount(userID(c), account)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) handleUpdateAccount(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	account, err := s.store.GetAccount(userID(c), int64(id))
	if err != nil {
		return err
	}

	var req accountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	account.Name = req.Name
	account.Type = model.AccountType(req.AccountType)
	account.BankName = req.BankName
	account.AccountNumber = req.AccountNumber
	if req.Currency != "" {
		account.Currency = req.Currency
	}
	if req.IsActive != nil {
		account.Active = *req.IsActive
	}
	if err := s.store.UpdateAccount(&account); err != nil {
		return err
	}

	resp, err := s.renderAccount(userID(c), account)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) handleDeleteAccount(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	if err := s.store.DeleteAccount(userID(c), int64(id)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleAdjustBalance overwrites the account balance with an explicit
// value, bypassing the ledger.
func (s *Server) handleAdjustBalance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}

	var req struct {
		Balance string `json:"balance"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	balance, err := decimal.NewFromString(req.Balance)
	if err != nil {
		return badRequest("balance", "invalid decimal value")
	}

	if err := s.store.SetBalance(userID(c), int64(id), balance); err != nil {
		return err
	}
	account, err := s.store.GetAccount(userID(c), int64(id))
	if err != nil {
		return err
	}
	resp, err := s.renderAccount(userID(c), account)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// handleAccountsSummary rolls the user's active accounts up by type.
func (s *Server) handleAccountsSummary(c *fiber.Ctx) error {
	accounts, err := s.store.ListAccounts(userID(c))
	if err != nil {
		return err
	}

	total := decimal.Zero
	type typeRollup struct {
		AccountType  string          `json:"account_type"`
		Count        int             `json:"count"`
		TotalBalance decimal.Decimal `json:"total_balance"`
	}
	byType := make(map[model.AccountType]*typeRollup)
	var order []model.AccountType
	for _, a := range accounts {
		total = total.Add(a.Balance)
		r, ok := byType[a.Type]
		if !ok {
			r = &typeRollup{AccountType: string(a.Type)}
			byType[a.Type] = r
			order = append(order, a.Type)
		}
		r.Count++
		r.TotalBalance = r.TotalBalance.Add(a.Balance)
	}

	rollups := make([]typeRollup, 0, len(order))
	for _, t := range order {
		rollups = append(rollups, *byType[t])
	}
	return c.JSON(fiber.Map{
		"total_accounts":          len(accounts),
		"total_balance":           total,
		"total_balance_formatted": money.FormatBRL(total),
		"accounts_by_type":        rollups,
	})
}
