package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/finance-tracker-api/models"
	"github.com/fintrack/finance-tracker-api/utils"
)

type BudgetService struct {
	db *sql.DB
}

func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{db: db}
}

// Create creates a budget over one of the user's categories. The date
// window must be non-empty.
func (s *BudgetService) Create(ctx context.Context, userID int64, req models.CreateBudgetRequest) (*models.BudgetResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, invalidInput("amount must be positive")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, invalidInput("end date must be after start date")
	}

	var resp *models.BudgetResponse
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		categoryName, err := categoryNameForUser(ctx, tx, userID, req.CategoryID)
		if err != nil {
			return err
		}

		budget := models.Budget{
			Name:       req.Name,
			Amount:     req.Amount,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			CategoryID: req.CategoryID,
			UserID:     userID,
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO budgets (name, amount, start_date, end_date, category_id, user_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, budget.Name, budget.Amount, budget.StartDate, budget.EndDate,
			budget.CategoryID, budget.UserID).Scan(&budget.ID)
		if err != nil {
			return err
		}

		spent, err := s.spentAmountTx(ctx, tx, &budget)
		if err != nil {
			return err
		}

		r := budget.Response(categoryName, spent)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogEntityAction("Budget", "create", resp.ID, userID)
	return resp, nil
}

// Get returns a budget with its consumption computed at read time.
func (s *BudgetService) Get(ctx context.Context, userID, id int64) (*models.BudgetResponse, error) {
	var budget models.Budget
	var categoryName string
	err := s.db.QueryRowContext(ctx, `
		SELECT b.id, b.name, b.amount, b.start_date, b.end_date, b.category_id, b.user_id, c.name
		FROM budgets b
		JOIN categories c ON b.category_id = c.id
		WHERE b.id = $1 AND b.user_id = $2
	`, id, userID).Scan(
		&budget.ID,
		&budget.Name,
		&budget.Amount,
		&budget.StartDate,
		&budget.EndDate,
		&budget.CategoryID,
		&budget.UserID,
		&categoryName,
	)

	if err == sql.ErrNoRows {
		return nil, notFound("budget not found")
	}
	if err != nil {
		return nil, err
	}

	spent, err := s.spentAmount(ctx, &budget)
	if err != nil {
		return nil, err
	}

	resp := budget.Response(categoryName, spent)
	return &resp, nil
}

// List returns all of the user's budgets ordered by start date, each
// with its spent amount recomputed.
func (s *BudgetService) List(ctx context.Context, userID int64) ([]models.BudgetResponse, error) {
	return s.list(ctx, `
		SELECT b.id, b.name, b.amount, b.start_date, b.end_date, b.category_id, b.user_id, c.name
		FROM budgets b
		JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = $1
		ORDER BY b.start_date
	`, userID)
}

// ListCurrent returns budgets whose window contains now, soonest to
// expire first.
func (s *BudgetService) ListCurrent(ctx context.Context, userID int64) ([]models.BudgetResponse, error) {
	return s.list(ctx, `
		SELECT b.id, b.name, b.amount, b.start_date, b.end_date, b.category_id, b.user_id, c.name
		FROM budgets b
		JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = $1 AND b.start_date <= $2 AND b.end_date >= $2
		ORDER BY b.end_date
	`, userID, time.Now())
}

// Update rewrites name, amount and window. The category binding never
// changes after creation.
func (s *BudgetService) Update(ctx context.Context, userID, id int64, req models.UpdateBudgetRequest) (*models.BudgetResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, invalidInput("amount must be positive")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, invalidInput("end date must be after start date")
	}

	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM budgets WHERE id = $1 AND user_id = $2)`, id, userID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("budget not found")
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE budgets
			SET name = $1, amount = $2, start_date = $3, end_date = $4
			WHERE id = $5 AND user_id = $6
		`, req.Name, req.Amount, req.StartDate, req.EndDate, id, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.LogEntityAction("Budget", "update", id, userID)
	return s.Get(ctx, userID, id)
}

// Delete removes one of the user's budgets.
func (s *BudgetService) Delete(ctx context.Context, userID, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound("budget not found")
	}

	utils.LogEntityAction("Budget", "delete", id, userID)
	return nil
}

func (s *BudgetService) list(ctx context.Context, query string, args ...interface{}) ([]models.BudgetResponse, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.BudgetResponse{}
	for rows.Next() {
		var budget models.Budget
		var categoryName string
		err := rows.Scan(
			&budget.ID,
			&budget.Name,
			&budget.Amount,
			&budget.StartDate,
			&budget.EndDate,
			&budget.CategoryID,
			&budget.UserID,
			&categoryName,
		)
		if err != nil {
			return nil, err
		}

		spent, err := s.spentAmount(ctx, &budget)
		if err != nil {
			return nil, err
		}

		budgets = append(budgets, budget.Response(categoryName, spent))
	}

	return budgets, rows.Err()
}

// spentAmount sums the owner's expense transactions in the budget's
// category and date window, bounds inclusive. Recomputed on every
// read; no stored aggregate to drift.
func (s *BudgetService) spentAmount(ctx context.Context, budget *models.Budget) (decimal.Decimal, error) {
	return spentAmountQuery(ctx, s.db, budget)
}

func (s *BudgetService) spentAmountTx(ctx context.Context, tx *sql.Tx, budget *models.Budget) (decimal.Decimal, error) {
	return spentAmountQuery(ctx, tx, budget)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func spentAmountQuery(ctx context.Context, db queryRower, budget *models.Budget) (decimal.Decimal, error) {
	var spent decimal.Decimal
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND type = $3
		  AND date >= $4 AND date <= $5
	`, budget.UserID, budget.CategoryID, models.TransactionTypeExpense,
		budget.StartDate, budget.EndDate).Scan(&spent)
	if err != nil {
		return decimal.Zero, err
	}
	return spent, nil
}
