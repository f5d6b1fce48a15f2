package services

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/finance-tracker-api/config"
	"github.com/fintrack/finance-tracker-api/models"
)

// These tests run against a real Postgres when TEST_DATABASE_URL is
// set and skip otherwise.

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := config.InitDB(dsn)
	require.NoError(t, err)
	require.NoError(t, config.RunMigrations(db))

	_, err = db.Exec(`TRUNCATE users, categories, transactions, budgets RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func registerUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	auth := NewAuthService(db, []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"))
	user, err := auth.Register(context.Background(), models.RegisterRequest{
		Username: username,
		Email:    username + "@x.com",
		Password: "pw123456",
	})
	require.NoError(t, err)
	return user.ID
}

func createCategory(t *testing.T, db *sql.DB, userID int64, name string, categoryType models.CategoryType) int64 {
	t.Helper()

	category, err := NewCategoryService(db).Create(context.Background(), userID, models.CreateCategoryRequest{
		Name: name,
		Type: categoryType,
	})
	require.NoError(t, err)
	return category.ID
}

func createTransaction(t *testing.T, db *sql.DB, userID, categoryID int64, amount string, transactionType models.TransactionType, date time.Time) int64 {
	t.Helper()

	transaction, err := NewTransactionService(db).Create(context.Background(), userID, models.CreateTransactionRequest{
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		Type:       transactionType,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return transaction.ID
}

func assertKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	got, ok := KindOf(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	assert.Equal(t, kind, got)
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	auth := NewAuthService(db, []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"))

	user, err := auth.Register(ctx, models.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	_, err = auth.Register(ctx, models.RegisterRequest{Username: "alice", Email: "other@x.com", Password: "pw123456"})
	assertKind(t, err, KindConflict)

	_, err = auth.Register(ctx, models.RegisterRequest{Username: "bob", Email: "a@x.com", Password: "pw123456"})
	assertKind(t, err, KindConflict)

	_, err = auth.Register(ctx, models.RegisterRequest{Username: "carol", Email: "c@x.com", Password: ""})
	assertKind(t, err, KindInvalidInput)
}

func TestAuthService_LoginIsGeneric(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	auth := NewAuthService(db, []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"))

	_, err := auth.Register(ctx, models.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	token, err := auth.Login(ctx, models.LoginRequest{Username: "alice", Password: "pw123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, wrongPassword := auth.Login(ctx, models.LoginRequest{Username: "alice", Password: "nope"})
	assertKind(t, wrongPassword, KindUnauthorized)

	_, noSuchUser := auth.Login(ctx, models.LoginRequest{Username: "mallory", Password: "pw123456"})
	assertKind(t, noSuchUser, KindUnauthorized)

	// No distinguishing signal between the two failure modes.
	assert.Equal(t, wrongPassword.Error(), noSuchUser.Error())
}

func TestTransactionService_Balance(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := registerUser(t, db, "alice")

	salary := createCategory(t, db, userID, "Salary", models.CategoryTypeIncome)
	food := createCategory(t, db, userID, "Food", models.CategoryTypeExpense)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	createTransaction(t, db, userID, salary, "1000.00", models.TransactionTypeIncome, day)
	createTransaction(t, db, userID, food, "199.99", models.TransactionTypeExpense, day.AddDate(0, 0, 1))
	createTransaction(t, db, userID, salary, "50.01", models.TransactionTypeIncome, day.AddDate(0, 0, 2))

	balance, err := NewTransactionService(db).Balance(ctx, userID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("850.02")), "balance = %s", balance)
}

func TestTransactionService_FilterWindowInclusive(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := registerUser(t, db, "alice")
	food := createCategory(t, db, userID, "Food", models.CategoryTypeExpense)

	transactions := NewTransactionService(db)
	for day := 1; day <= 31; day++ {
		createTransaction(t, db, userID, food, "10.00", models.TransactionTypeExpense,
			time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC))
	}

	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	listed, err := transactions.List(ctx, userID, models.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)

	// Both bounds inclusive: Jan 10 through Jan 20.
	require.Len(t, listed, 11)
	for i, transaction := range listed {
		assert.False(t, transaction.Date.Before(start))
		assert.False(t, transaction.Date.After(end))
		if i > 0 {
			assert.False(t, listed[i-1].Date.Before(transaction.Date), "not ordered by date descending")
		}
	}
}

func TestTransactionService_CategorySummary(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := registerUser(t, db, "alice")

	food := createCategory(t, db, userID, "Food", models.CategoryTypeExpense)
	salary := createCategory(t, db, userID, "Salary", models.CategoryTypeIncome)
	unused := createCategory(t, db, userID, "Travel", models.CategoryTypeExpense)

	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	createTransaction(t, db, userID, food, "25.50", models.TransactionTypeExpense, day)
	createTransaction(t, db, userID, food, "14.50", models.TransactionTypeExpense, day.AddDate(0, 0, 1))
	createTransaction(t, db, userID, salary, "500.00", models.TransactionTypeIncome, day)
	// Outside the window.
	createTransaction(t, db, userID, food, "99.00", models.TransactionTypeExpense, day.AddDate(0, 1, 0))

	summary, err := NewTransactionService(db).CategorySummary(ctx, userID,
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, summary, 2)
	byID := map[int64]models.CategorySummary{}
	for _, row := range summary {
		byID[row.CategoryID] = row
	}
	assert.True(t, byID[food].TotalAmount.Equal(decimal.RequireFromString("40.00")))
	assert.Equal(t, "Food", byID[food].CategoryName)
	assert.Equal(t, models.CategoryTypeExpense, byID[food].Type)
	assert.True(t, byID[salary].TotalAmount.Equal(decimal.RequireFromString("500.00")))

	_, hasUnused := byID[unused]
	assert.False(t, hasUnused, "categories without transactions in range are omitted")
}

func TestBudgetService_Consumption(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := registerUser(t, db, "alice")
	groceries := createCategory(t, db, userID, "Groceries", models.CategoryTypeExpense)

	day := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	createTransaction(t, db, userID, groceries, "50.00", models.TransactionTypeExpense, day)

	budgets := NewBudgetService(db)
	budget, err := budgets.Create(ctx, userID, models.CreateBudgetRequest{
		Name:       "April groceries",
		Amount:     decimal.RequireFromString("200.00"),
		StartDate:  day.AddDate(0, 0, -1),
		EndDate:    day.AddDate(0, 0, 1),
		CategoryID: groceries,
	})
	require.NoError(t, err)

	assert.True(t, budget.SpentAmount.Equal(decimal.RequireFromString("50.00")), "spent = %s", budget.SpentAmount)
	assert.True(t, budget.RemainingAmount.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, budget.Percentage.Equal(decimal.RequireFromString("25")))
	assert.Equal(t, "Groceries", budget.CategoryName)

	// A qualifying transaction moves the spent amount by exactly its
	// amount; deleting it moves it back.
	extra := createTransaction(t, db, userID, groceries, "30.00", models.TransactionTypeExpense, day)
	reread, err := budgets.Get(ctx, userID, budget.ID)
	require.NoError(t, err)
	assert.True(t, reread.SpentAmount.Equal(decimal.RequireFromString("80.00")))

	require.NoError(t, NewTransactionService(db).Delete(ctx, userID, extra))
	reread, err = budgets.Get(ctx, userID, budget.ID)
	require.NoError(t, err)
	assert.True(t, reread.SpentAmount.Equal(decimal.RequireFromString("50.00")))

	// Income and out-of-window expenses never count.
	income := createCategory(t, db, userID, "Salary", models.CategoryTypeIncome)
	createTransaction(t, db, userID, income, "999.00", models.TransactionTypeIncome, day)
	createTransaction(t, db, userID, groceries, "77.00", models.TransactionTypeExpense, day.AddDate(0, 2, 0))
	reread, err = budgets.Get(ctx, userID, budget.ID)
	require.NoError(t, err)
	assert.True(t, reread.SpentAmount.Equal(decimal.RequireFromString("50.00")))
}

func TestBudgetService_RejectsEmptyWindow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := registerUser(t, db, "alice")
	groceries := createCategory(t, db, userID, "Groceries", models.CategoryTypeExpense)

	budgets := NewBudgetService(db)
	day := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	_, err := budgets.Create(ctx, userID, models.CreateBudgetRequest{
		Name:       "inverted",
		Amount:     decimal.RequireFromString("100.00"),
		StartDate:  day,
		EndDate:    day.AddDate(0, 0, -1),
		CategoryID: groceries,
	})
	assertKind(t, err, KindInvalidInput)

	_, err = budgets.Create(ctx, userID, models.CreateBudgetRequest{
		Name:       "empty",
		Amount:     decimal.RequireFromString("100.00"),
		StartDate:  day,
		EndDate:    day,
		CategoryID: groceries,
	})
	assertKind(t, err, KindInvalidInput)
}

func TestBudgetService_ListCurrent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := registerUser(t, db, "alice")
	groceries := createCategory(t, db, userID, "Groceries", models.CategoryTypeExpense)

	budgets := NewBudgetService(db)
	now := time.Now()

	mk := func(name string, start, end time.Time) {
		_, err := budgets.Create(ctx, userID, models.CreateBudgetRequest{
			Name:       name,
			Amount:     decimal.RequireFromString("100.00"),
			StartDate:  start,
			EndDate:    end,
			CategoryID: groceries,
		})
		require.NoError(t, err)
	}

	mk("past", now.AddDate(0, -2, 0), now.AddDate(0, -1, 0))
	mk("ends later", now.AddDate(0, 0, -1), now.AddDate(0, 1, 0))
	mk("ends sooner", now.AddDate(0, 0, -2), now.AddDate(0, 0, 5))
	mk("future", now.AddDate(0, 1, 0), now.AddDate(0, 2, 0))

	current, err := budgets.ListCurrent(ctx, userID)
	require.NoError(t, err)
	require.Len(t, current, 2)
	assert.Equal(t, "ends sooner", current[0].Name)
	assert.Equal(t, "ends later", current[1].Name)
}

func TestCategoryService_DeleteGuard(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := registerUser(t, db, "alice")
	food := createCategory(t, db, userID, "Food", models.CategoryTypeExpense)

	categories := NewCategoryService(db)
	transactions := NewTransactionService(db)

	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	transactionID := createTransaction(t, db, userID, food, "12.00", models.TransactionTypeExpense, day)

	err := categories.Delete(ctx, userID, food)
	assertKind(t, err, KindConflict)

	require.NoError(t, transactions.Delete(ctx, userID, transactionID))
	require.NoError(t, categories.Delete(ctx, userID, food))

	_, err = categories.Get(ctx, userID, food)
	assertKind(t, err, KindNotFound)
}

func TestCategoryService_DeleteCascadesBudgets(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := registerUser(t, db, "alice")
	food := createCategory(t, db, userID, "Food", models.CategoryTypeExpense)

	budgets := NewBudgetService(db)
	budget, err := budgets.Create(ctx, userID, models.CreateBudgetRequest{
		Name:       "Food cap",
		Amount:     decimal.RequireFromString("100.00"),
		StartDate:  time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
		CategoryID: food,
	})
	require.NoError(t, err)

	require.NoError(t, NewCategoryService(db).Delete(ctx, userID, food))

	_, err = budgets.Get(ctx, userID, budget.ID)
	assertKind(t, err, KindNotFound)
}

func TestCategoryService_ListOrdering(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := registerUser(t, db, "alice")

	createCategory(t, db, userID, "Rent", models.CategoryTypeExpense)
	createCategory(t, db, userID, "Bonus", models.CategoryTypeIncome)
	createCategory(t, db, userID, "Food", models.CategoryTypeExpense)
	createCategory(t, db, userID, "Salary", models.CategoryTypeIncome)

	categories := NewCategoryService(db)

	all, err := categories.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, all, 4)
	names := []string{all[0].Name, all[1].Name, all[2].Name, all[3].Name}
	assert.Equal(t, []string{"Bonus", "Salary", "Food", "Rent"}, names)

	expenses, err := categories.ListByType(ctx, userID, models.CategoryTypeExpense)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "Food", expenses[0].Name)
	assert.Equal(t, "Rent", expenses[1].Name)
}

func TestOwnershipScoping(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	aliceID := registerUser(t, db, "alice")
	bobID := registerUser(t, db, "bob")

	aliceCategory := createCategory(t, db, aliceID, "Food", models.CategoryTypeExpense)
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	aliceTransaction := createTransaction(t, db, aliceID, aliceCategory, "10.00", models.TransactionTypeExpense, day)

	budgets := NewBudgetService(db)
	aliceBudget, err := budgets.Create(ctx, aliceID, models.CreateBudgetRequest{
		Name:       "Food cap",
		Amount:     decimal.RequireFromString("100.00"),
		StartDate:  day.AddDate(0, 0, -1),
		EndDate:    day.AddDate(0, 0, 1),
		CategoryID: aliceCategory,
	})
	require.NoError(t, err)

	categories := NewCategoryService(db)
	transactions := NewTransactionService(db)

	// Every cross-user access reads as not found, never forbidden.
	_, err = categories.Get(ctx, bobID, aliceCategory)
	assertKind(t, err, KindNotFound)
	_, err = categories.Update(ctx, bobID, aliceCategory, models.UpdateCategoryRequest{Name: "Hijacked"})
	assertKind(t, err, KindNotFound)
	err = categories.Delete(ctx, bobID, aliceCategory)
	assertKind(t, err, KindNotFound)

	_, err = transactions.Get(ctx, bobID, aliceTransaction)
	assertKind(t, err, KindNotFound)
	err = transactions.Delete(ctx, bobID, aliceTransaction)
	assertKind(t, err, KindNotFound)

	_, err = budgets.Get(ctx, bobID, aliceBudget.ID)
	assertKind(t, err, KindNotFound)
	err = budgets.Delete(ctx, bobID, aliceBudget.ID)
	assertKind(t, err, KindNotFound)

	// Bob cannot attach a transaction or budget to Alice's category.
	_, err = transactions.Create(ctx, bobID, models.CreateTransactionRequest{
		Amount:     decimal.RequireFromString("5.00"),
		Date:       day,
		Type:       models.TransactionTypeExpense,
		CategoryID: aliceCategory,
	})
	assertKind(t, err, KindNotFound)

	_, err = budgets.Create(ctx, bobID, models.CreateBudgetRequest{
		Name:       "Leech",
		Amount:     decimal.RequireFromString("10.00"),
		StartDate:  day,
		EndDate:    day.AddDate(0, 0, 1),
		CategoryID: aliceCategory,
	})
	assertKind(t, err, KindNotFound)

	// Bob's own listings stay empty.
	bobTransactions, err := transactions.List(ctx, bobID, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, bobTransactions)

	bobBudgets, err := budgets.List(ctx, bobID)
	require.NoError(t, err)
	assert.Empty(t, bobBudgets)
}

func TestTransactionService_UpdateKeepsTypeAndRevalidatesCategory(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := registerUser(t, db, "alice")
	otherID := registerUser(t, db, "bob")

	food := createCategory(t, db, userID, "Food", models.CategoryTypeExpense)
	travel := createCategory(t, db, userID, "Travel", models.CategoryTypeExpense)
	foreign := createCategory(t, db, otherID, "Foreign", models.CategoryTypeExpense)

	transactions := NewTransactionService(db)
	day := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	id := createTransaction(t, db, userID, food, "20.00", models.TransactionTypeExpense, day)

	updated, err := transactions.Update(ctx, userID, id, models.UpdateTransactionRequest{
		Amount:      decimal.RequireFromString("25.00"),
		Description: "train ticket",
		Date:        day.AddDate(0, 0, 3),
		CategoryID:  travel,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTypeExpense, updated.Type)
	assert.Equal(t, travel, updated.CategoryID)
	assert.Equal(t, "Travel", updated.CategoryName)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("25.00")))

	// Reassignment to another user's category is a miss.
	_, err = transactions.Update(ctx, userID, id, models.UpdateTransactionRequest{
		Amount:     decimal.RequireFromString("25.00"),
		Date:       day,
		CategoryID: foreign,
	})
	assertKind(t, err, KindNotFound)
}
