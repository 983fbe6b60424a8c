package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolso-dev/bolso/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "bolso.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedUser(t *testing.T, st *Store, email string) model.User {
	t.Helper()
	u := model.User{
		Email:        email,
		Username:     email,
		PasswordHash: "x",
		Currency:     "BRL",
		Timezone:     "America/Sao_Paulo",
		Active:       true,
	}
	require.NoError(t, st.CreateUser(&u))
	return u
}

func seedAccount(t *testing.T, st *Store, userID int64, name string) model.Account {
	t.Helper()
	a := model.Account{
		UserID:   userID,
		Name:     name,
		Type:     model.AccountTypeChecking,
		Balance:  decimal.Zero,
		Currency: "BRL",
		Active:   true,
	}
	require.NoError(t, st.CreateAccount(&a))
	return a
}

func seedCategory(t *testing.T, st *Store, userID int64, name string, ct model.CategoryType) model.Category {
	t.Helper()
	c := model.Category{
		UserID: userID,
		Name:   name,
		Color:  "#3498db",
		Type:   ct,
		Active: true,
	}
	require.NoError(t, st.CreateCategory(&c))
	return c
}

func seedTransaction(t *testing.T, st *Store, tx *model.Transaction) {
	t.Helper()
	require.NoError(t, st.CreateTransaction(tx))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOpenRunsMigrations(t *testing.T) {
	st := newTestStore(t)
	version, err := st.SchemaVersion()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, uint(1))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	seedUser(t, st, "ana@example.com")

	dup := model.User{Email: "ana@example.com", Username: "other", PasswordHash: "x", Currency: "BRL", Timezone: "UTC", Active: true}
	err := st.CreateUser(&dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAccountNameUniquePerUser(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "ana@example.com")
	bob := seedUser(t, st, "bob@example.com")
	seedAccount(t, st, ana.ID, "Conta Corrente")

	dup := model.Account{UserID: ana.ID, Name: "Conta Corrente", Type: model.AccountTypeSavings, Currency: "BRL", Active: true}
	err := st.CreateAccount(&dup)
	assert.ErrorIs(t, err, ErrConflict)

	// Same name under a different user is fine.
	other := model.Account{UserID: bob.ID, Name: "Conta Corrente", Type: model.AccountTypeChecking, Currency: "BRL", Active: true}
	assert.NoError(t, st.CreateAccount(&other))
}

func TestGetAccountScopedAndActiveOnly(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "ana@example.com")
	bob := seedUser(t, st, "bob@example.com")
	acc := seedAccount(t, st, ana.ID, "Carteira")

	_, err := st.GetAccount(bob.ID, acc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	acc.Active = false
	require.NoError(t, st.UpdateAccount(&acc))
	_, err = st.GetAccount(ana.ID, acc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdjustBalanceKeepsExactDecimals(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "ana@example.com")
	acc := seedAccount(t, st, ana.ID, "Carteira")

	require.NoError(t, st.AdjustBalance(acc.ID, decimal.RequireFromString("0.10")))
	require.NoError(t, st.AdjustBalance(acc.ID, decimal.RequireFromString("0.20")))

	got, err := st.GetAccount(ana.ID, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.30", got.Balance.StringFixed(2))
}

func TestDeleteAccountWithTransactionsFails(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "ana@example.com")
	acc := seedAccount(t, st, ana.ID, "Carteira")
	cat := seedCategory(t, st, ana.ID, "Contas", model.CategoryTypeExpense)

	tx := model.Transaction{
		UserID:     ana.ID,
		Title:      "Luz",
		Amount:     decimal.RequireFromString("120.50"),
		Type:       model.TransactionTypeExpense,
		CategoryID: cat.ID,
		AccountID:  acc.ID,
		Date:       date(2024, time.March, 5),
		Status:     model.StatusCompleted,
	}
	seedTransaction(t, st, &tx)

	assert.ErrorIs(t, st.DeleteAccount(ana.ID, acc.ID), ErrInUse)

	require.NoError(t, st.DeleteTransaction(ana.ID, tx.ID))
	assert.NoError(t, st.DeleteAccount(ana.ID, acc.ID))
}

func TestDeleteCategoryWithTransactionsFails(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "ana@example.com")
	acc := seedAccount(t, st, ana.ID, "Carteira")
	cat := seedCategory(t, st, ana.ID, "Contas", model.CategoryTypeExpense)

	tx := model.Transaction{
		UserID:     ana.ID,
		Title:      "Água",
		Amount:     decimal.RequireFromString("80.00"),
		Type:       model.TransactionTypeExpense,
		CategoryID: cat.ID,
		AccountID:  acc.ID,
		Date:       date(2024, time.March, 6),
		Status:     model.StatusCompleted,
	}
	seedTransaction(t, st, &tx)

	assert.ErrorIs(t, st.DeleteCategory(ana.ID, cat.ID), ErrInUse)
}

func TestListCategoriesByTypeIncludesBoth(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "ana@example.com")
	seedCategory(t, st, ana.ID, "Salário", model.CategoryTypeIncome)
	seedCategory(t, st, ana.ID, "Contas", model.CategoryTypeExpense)
	seedCategory(t, st, ana.ID, "Transferência", model.CategoryTypeBoth)

	got, err := st.ListCategoriesByType(ana.ID, model.CategoryTypeExpense)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Contas", got[0].Name)
	assert.Equal(t, "Transferência", got[1].Name)
}

func TestTransactionRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "ana@example.com")
	src := seedAccount(t, st, ana.ID, "Conta Corrente")
	dst := seedAccount(t, st, ana.ID, "Poupança")
	cat := seedCategory(t, st, ana.ID, "Transferência", model.CategoryTypeBoth)

	tx := model.Transaction{
		UserID:               ana.ID,
		Title:                "Reserva",
		Description:          "aporte mensal",
		Amount:               decimal.RequireFromString("1234.56"),
		Type:                 model.TransactionTypeTransfer,
		CategoryID:           cat.ID,
		AccountID:            src.ID,
		DestinationAccountID: &dst.ID,
		Date:                 date(2024, time.January, 15),
		Status:               model.StatusCompleted,
		Tags:                 []string{"poupança", "mensal"},
		Location:             "app",
	}
	seedTransaction(t, st, &tx)

	got, err := st.GetTransaction(ana.ID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234.56", got.Amount.StringFixed(2))
	require.NotNil(t, got.DestinationAccountID)
	assert.Equal(t, dst.ID, *got.DestinationAccountID)
	assert.Equal(t, []string{"poupança", "mensal"}, got.Tags)
	assert.True(t, got.Date.Equal(date(2024, time.January, 15)))
}

func TestListTransactionsFilters(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "ana@example.com")
	acc := seedAccount(t, st, ana.ID, "Carteira")
	income := seedCategory(t, st, ana.ID, "Salário", model.CategoryTypeIncome)
	expense := seedCategory(t, st, ana.ID, "Contas", model.CategoryTypeExpense)

	mk := func(title string, amount string, tt model.TransactionType, catID int64, day int, status model.TransactionStatus) {
		tx := model.Transaction{
			UserID:     ana.ID,
			Title:      title,
			Amount:     decimal.RequireFromString(amount),
			Type:       tt,
			CategoryID: catID,
			AccountID:  acc.ID,
			Date:       date(2024, time.March, day),
			Status:     status,
		}
		seedTransaction(t, st, &tx)
	}
	mk("Salário março", "5000.00", model.TransactionTypeIncome, income.ID, 1, model.StatusCompleted)
	mk("Aluguel", "1800.00", model.TransactionTypeExpense, expense.ID, 5, model.StatusCompleted)
	mk("Internet", "99.90", model.TransactionTypeExpense, expense.ID, 10, model.StatusPending)
	mk("Luz abril", "150.00", model.TransactionTypeExpense, expense.ID, 31, model.StatusCompleted)

	byType, err := st.ListTransactions(ana.ID, TransactionFilter{Types: []model.TransactionType{model.TransactionTypeExpense}})
	require.NoError(t, err)
	assert.Len(t, byType, 3)

	from := date(2024, time.March, 1)
	to := date(2024, time.March, 15)
	inRange, err := st.ListTransactions(ana.ID, TransactionFilter{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	assert.Len(t, inRange, 3)

	min := decimal.RequireFromString("1000.00")
	big, err := st.ListTransactions(ana.ID, TransactionFilter{AmountFrom: &min})
	require.NoError(t, err)
	assert.Len(t, big, 2)

	search, err := st.ListTransactions(ana.ID, TransactionFilter{Search: "alug"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Aluguel", search[0].Title)

	completed, err := st.ListCompletedBetween(ana.ID, from, to, model.TransactionTypeExpense)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Aluguel", completed[0].Title)

	// Newest first.
	all, err := st.ListTransactions(ana.ID, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Luz abril", all[0].Title)
}

func TestRecurringRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ana := seedUser(t, st, "ana@example.com")
	acc := seedAccount(t, st, ana.ID, "Conta Corrente")
	cat := seedCategory(t, st, ana.ID, "Moradia", model.CategoryTypeExpense)

	end := date(2025, time.January, 15)
	r := model.RecurringTransaction{
		UserID:        ana.ID,
		Title:         "Aluguel",
		Amount:        decimal.RequireFromString("1800.00"),
		Type:          model.TransactionTypeExpense,
		CategoryID:    cat.ID,
		AccountID:     acc.ID,
		Frequency:     model.FrequencyMonthly,
		StartDate:     date(2024, time.January, 15),
		EndDate:       &end,
		NextExecution: date(2024, time.January, 15),
		Active:        true,
	}
	require.NoError(t, st.CreateRecurring(&r))

	got, err := st.GetRecurring(ana.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "1800.00", got.Amount.StringFixed(2))
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(end))
	assert.True(t, got.NextExecution.Equal(date(2024, time.January, 15)))

	require.NoError(t, st.UpdateNextExecution(ana.ID, r.ID, date(2024, time.February, 14)))
	got, err = st.GetRecurring(ana.ID, r.ID)
	require.NoError(t, err)
	assert.True(t, got.NextExecution.Equal(date(2024, time.February, 14)))

	// Deactivated templates disappear from reads.
	got.Active = false
	require.NoError(t, st.UpdateRecurring(&got))
	_, err = st.GetRecurring(ana.ID, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
