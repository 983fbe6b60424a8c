package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bolso-dev/bolso/internal/model"
	"github.com/bolso-dev/bolso/internal/money"
)

const dateLayout = "2006-01-02"

type categoryResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Color            string `json:"color"`
	Icon             string `json:"icon"`
	CategoryType     string `json:"category_type"`
	IsActive         bool   `json:"is_active"`
	TransactionCount int    `json:"transaction_count"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

type accountResponse struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	AccountType      string          `json:"account_type"`
	Balance          decimal.Decimal `json:"balance"`
	BalanceFormatted string          `json:"balance_formatted"`
	Currency         string          `json:"currency"`
	BankName         string          `json:"bank_name"`
	AccountNumber    string          `json:"account_number"`
	IsActive         bool            `json:"is_active"`
	TransactionCount int             `json:"transaction_count"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

type transactionResponse struct {
	ID                 int64             `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Amount             decimal.Decimal   `json:"amount"`
	AmountFormatted    string            `json:"amount_formatted"`
	TransactionType    string            `json:"transaction_type"`
	Category           *categoryResponse `json:"category"`
	Account            *accountResponse  `json:"account"`
	DestinationAccount *accountResponse  `json:"destination_account,omitempty"`
	Date               string            `json:"date"`
	Status             string            `json:"status"`
	IsRecurring        bool              `json:"is_recurring"`
	Tags               []string          `json:"tags"`
	Location           string            `json:"location"`
	Notes              string            `json:"notes"`
	CreatedAt          string            `json:"created_at"`
	UpdatedAt          string            `json:"updated_at"`
}

type recurringResponse struct {
	ID              int64             `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Amount          decimal.Decimal   `json:"amount"`
	AmountFormatted string            `json:"amount_formatted"`
	TransactionType string            `json:"transaction_type"`
	Category        *categoryResponse `json:"category"`
	Account         *accountResponse  `json:"account"`
	Frequency       string            `json:"frequency"`
	StartDate       string            `json:"start_date"`
	EndDate         *string           `json:"end_date"`
	NextExecution   string            `json:"next_execution"`
	IsActive        bool              `json:"is_active"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}

func (s *Server) renderCategory(uid int64, c model.Category) (*categoryResponse, error) {
	count, err := s.store.CountTransactionsForCategory(uid, c.ID)
	if err != nil {
		return nil, err
	}
	return &categoryResponse{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		Color:            c.Color,
		Icon:             c.Icon,
		CategoryType:     string(c.Type),
		IsActive:         c.Active,
		TransactionCount: count,
		CreatedAt:        c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        c.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *Server) renderAccount(uid int64, a model.Account) (*accountResponse, error) {
	count, err := s.store.CountTransactionsForAccount(uid, a.ID)
	if err != nil {
		return nil, err
	}
	return &accountResponse{
		ID:               a.ID,
		Name:             a.Name,
		AccountType:      string(a.Type),
		Balance:          a.Balance,
		BalanceFormatted: money.FormatBRL(a.Balance),
		Currency:         a.Currency,
		BankName:         a.BankName,
		AccountNumber:    a.AccountNumber,
		IsActive:         a.Active,
		TransactionCount: count,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        a.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *Server) renderTransaction(uid int64, t model.Transaction) (*transactionResponse, error) {
	resp := &transactionResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Amount:          t.Amount,
		AmountFormatted: money.FormatBRL(t.Amount),
		TransactionType: string(t.Type),
		Date:            t.Date.Format(dateLayout),
		Status:          string(t.Status),
		IsRecurring:     t.Recurring,
		Tags:            t.Tags,
		Location:        t.Location,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	// Referenced rows can be missing when they were deactivated after
	// the transaction was written; render what still resolves.
	if category, err := s.store.GetCategory(uid, t.CategoryID); err == nil {
		if resp.Category, err = s.renderCategory(uid, category); err != nil {
			return nil, err
		}
	}
	if account, err := s.store.GetAccount(uid, t.AccountID); err == nil {
		if resp.Account, err = s.renderAccount(uid, account); err != nil {
			return nil, err
		}
	}
	if t.DestinationAccountID != nil {
		if account, err := s.store.GetAccount(uid, *t.DestinationAccountID); err == nil {
			if resp.DestinationAccount, err = s.renderAccount(uid, account); err != nil {
				return nil, err
			}
		}
	}
	return resp, nil
}

func (s *Server) renderRecurring(uid int64, r model.RecurringTransaction) (*recurringResponse, error) {
	resp := &recurringResponse{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Amount:          r.Amount,
		AmountFormatted: money.FormatBRL(r.Amount),
		TransactionType: string(r.Type),
		Frequency:       string(r.Frequency),
		StartDate:       r.StartDate.Format(dateLayout),
		NextExecution:   r.NextExecution.Format(dateLayout),
		IsActive:        r.Active,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
	if r.EndDate != nil {
		end := r.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}
	if category, err := s.store.GetCategory(uid, r.CategoryID); err == nil {
		if resp.Category, err = s.renderCategory(uid, category); err != nil {
			return nil, err
		}
	}
	if account, err := s.store.GetAccount(uid, r.AccountID); err == nil {
		if resp.Account, err = s.renderAccount(uid, account); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
