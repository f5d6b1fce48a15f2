package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-api/models"
	"github.com/fintrack/finance-tracker-api/utils"
)

type TransactionService struct {
	db *sql.DB
}

func NewTransactionService(db *sql.DB) *TransactionService {
	return &TransactionService{db: db}
}

// Create records a transaction against one of the user's own
// categories. The ownership check and the insert share a transaction.
func (s *TransactionService) Create(ctx context.Context, userID int64, req models.CreateTransactionRequest) (*models.TransactionResponse, error) {
	if !req.Type.Valid() {
		return nil, invalidInput("transaction type must be 1 (income) or 2 (expense)")
	}
	if !req.Amount.IsPositive() {
		return nil, invalidInput("amount must be positive")
	}

	var resp *models.TransactionResponse
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		categoryName, err := categoryNameForUser(ctx, tx, userID, req.CategoryID)
		if err != nil {
			return err
		}

		transaction := models.Transaction{
			Amount:      req.Amount,
			Description: req.Description,
			Date:        req.Date,
			Type:        req.Type,
			CategoryID:  req.CategoryID,
			UserID:      userID,
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO transactions (amount, description, date, type, category_id, user_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, transaction.Amount, transaction.Description, transaction.Date,
			transaction.Type, transaction.CategoryID, transaction.UserID).Scan(&transaction.ID)
		if err != nil {
			return err
		}

		resp = transactionResponse(&transaction, categoryName)
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogEntityAction("Transaction", "create", resp.ID, userID)
	return resp, nil
}

// Get returns one of the user's transactions.
func (s *TransactionService) Get(ctx context.Context, userID, id int64) (*models.TransactionResponse, error) {
	var transaction models.Transaction
	var categoryName string
	err := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.amount, t.description, t.date, t.type, t.category_id, t.user_id, c.name
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.id = $1 AND t.user_id = $2
	`, id, userID).Scan(
		&transaction.ID,
		&transaction.Amount,
		&transaction.Description,
		&transaction.Date,
		&transaction.Type,
		&transaction.CategoryID,
		&transaction.UserID,
		&categoryName,
	)

	if err == sql.ErrNoRows {
		return nil, notFound("transaction not found")
	}
	if err != nil {
		return nil, err
	}

	return transactionResponse(&transaction, categoryName), nil
}

// List returns the user's transactions newest first. Filter fields are
// optional and conjunctive; date and amount bounds are inclusive.
func (s *TransactionService) List(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.TransactionResponse, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT t.id, t.amount, t.description, t.date, t.type, t.category_id, t.user_id, c.name
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1`)
	args := []interface{}{userID}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		fmt.Fprintf(&query, " AND %s $%d", clause, len(args))
	}

	if filter.StartDate != nil {
		addCondition("t.date >=", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addCondition("t.date <=", *filter.EndDate)
	}
	if filter.CategoryID != nil {
		addCondition("t.category_id =", *filter.CategoryID)
	}
	if filter.Type != nil {
		addCondition("t.type =", *filter.Type)
	}
	if filter.MinAmount != nil {
		addCondition("t.amount >=", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		addCondition("t.amount <=", *filter.MaxAmount)
	}

	query.WriteString(" ORDER BY t.date DESC")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.TransactionResponse{}
	for rows.Next() {
		var transaction models.Transaction
		var categoryName string
		err := rows.Scan(
			&transaction.ID,
			&transaction.Amount,
			&transaction.Description,
			&transaction.Date,
			&transaction.Type,
			&transaction.CategoryID,
			&transaction.UserID,
			&categoryName,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transactionResponse(&transaction, categoryName))
	}

	return transactions, rows.Err()
}

// Update rewrites amount, description, date and category. Type never
// changes after creation. A category switch re-validates ownership of
// the new category.
func (s *TransactionService) Update(ctx context.Context, userID, id int64, req models.UpdateTransactionRequest) (*models.TransactionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, invalidInput("amount must be positive")
	}

	var resp *models.TransactionResponse
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var transaction models.Transaction
		err := tx.QueryRowContext(ctx, `
			SELECT id, amount, description, date, type, category_id, user_id
			FROM transactions
			WHERE id = $1 AND user_id = $2
		`, id, userID).Scan(
			&transaction.ID,
			&transaction.Amount,
			&transaction.Description,
			&transaction.Date,
			&transaction.Type,
			&transaction.CategoryID,
			&transaction.UserID,
		)
		if err == sql.ErrNoRows {
			return notFound("transaction not found")
		}
		if err != nil {
			return err
		}

		categoryName, err := categoryNameForUser(ctx, tx, userID, req.CategoryID)
		if err != nil {
			return err
		}

		transaction.Amount = req.Amount
		transaction.Description = req.Description
		transaction.Date = req.Date
		transaction.CategoryID = req.CategoryID

		_, err = tx.ExecContext(ctx, `
			UPDATE transactions
			SET amount = $1, description = $2, date = $3, category_id = $4
			WHERE id = $5 AND user_id = $6
		`, transaction.Amount, transaction.Description, transaction.Date,
			transaction.CategoryID, id, userID)
		if err != nil {
			return err
		}

		resp = transactionResponse(&transaction, categoryName)
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogEntityAction("Transaction", "update", id, userID)
	return resp, nil
}

// Delete removes one of the user's transactions.
func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound("transaction not found")
	}

	utils.LogEntityAction("Transaction", "delete", id, userID)
	return nil
}

// Balance is income minus expense over all of the user's transactions,
// with no date constraint.
func (s *TransactionService) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var income, expense decimal.Decimal
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = $2), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = $3), 0)
		FROM transactions
		WHERE user_id = $1
	`, userID, models.TransactionTypeIncome, models.TransactionTypeExpense).Scan(&income, &expense)
	if err != nil {
		return decimal.Zero, err
	}

	return income.Sub(expense), nil
}

// CategorySummary groups the user's transactions in [startDate,
// endDate] by category and sums the amounts. Categories without a
// transaction in range do not appear.
func (s *TransactionService) CategorySummary(ctx context.Context, userID int64, startDate, endDate time.Time) ([]models.CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.category_id, c.name, c.type, SUM(t.amount)
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
		GROUP BY t.category_id, c.name, c.type
		ORDER BY t.category_id
	`, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.CategorySummary{}
	for rows.Next() {
		var summary models.CategorySummary
		err := rows.Scan(&summary.CategoryID, &summary.CategoryName, &summary.Type, &summary.TotalAmount)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// categoryNameForUser resolves a category id against the owner's
// categories. Misses and foreign categories both come back not found.
func categoryNameForUser(ctx context.Context, tx *sql.Tx, userID, categoryID int64) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx,
		`SELECT name FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", notFound("category not found")
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func transactionResponse(t *models.Transaction, categoryName string) *models.TransactionResponse {
	return &models.TransactionResponse{
		ID:           t.ID,
		Amount:       t.Amount,
		Description:  t.Description,
		Date:         t.Date,
		Type:         t.Type,
		CategoryID:   t.CategoryID,
		CategoryName: categoryName,
		UserID:       t.UserID,
	}
}
