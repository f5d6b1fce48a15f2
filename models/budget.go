package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	CategoryID int64           `json:"categoryId"`
	UserID     int64           `json:"userId"`
}

type CreateBudgetRequest struct {
	Name       string          `json:"name" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	StartDate  time.Time       `json:"startDate" binding:"required"`
	EndDate    time.Time       `json:"endDate" binding:"required"`
	CategoryID int64           `json:"categoryId" binding:"required"`
}

// UpdateBudgetRequest has no CategoryID: a budget stays bound to the
// category it was created for.
type UpdateBudgetRequest struct {
	Name      string          `json:"name" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	StartDate time.Time       `json:"startDate" binding:"required"`
	EndDate   time.Time       `json:"endDate" binding:"required"`
}

type BudgetResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	CategoryID      int64           `json:"categoryId"`
	CategoryName    string          `json:"categoryName"`
	UserID          int64           `json:"userId"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Percentage      decimal.Decimal `json:"percentage"`
}

// Response derives the consumption fields from the budget cap and the
// spent amount. Remaining may go negative (over budget). Percentage is
// zero when the cap is zero, never a division fault.
func (b *Budget) Response(categoryName string, spent decimal.Decimal) BudgetResponse {
	percentage := decimal.Zero
	if b.Amount.IsPositive() {
		percentage = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return BudgetResponse{
		ID:              b.ID,
		Name:            b.Name,
		Amount:          b.Amount,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		CategoryID:      b.CategoryID,
		CategoryName:    categoryName,
		UserID:          b.UserID,
		SpentAmount:     spent,
		RemainingAmount: b.Amount.Sub(spent),
		Percentage:      percentage,
	}
}
