package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Type        TransactionType `json:"type"`
	CategoryID  int64           `json:"categoryId"`
	UserID      int64           `json:"userId"`
}

type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date" binding:"required"`
	Type        TransactionType `json:"type" binding:"required"`
	CategoryID  int64           `json:"categoryId" binding:"required"`
}

// UpdateTransactionRequest has no Type field: only create sets the
// transaction direction.
type UpdateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date" binding:"required"`
	CategoryID  int64           `json:"categoryId" binding:"required"`
}

// TransactionFilter holds optional, AND'ed list constraints. A nil
// field leaves that dimension unconstrained.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int64
	Type       *TransactionType
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

type TransactionResponse struct {
	ID           int64           `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
	Type         TransactionType `json:"type"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	UserID       int64           `json:"userId"`
}

// CategorySummary is one row of the per-category aggregation over a
// date range: the summed amount of all transactions in that category.
type CategorySummary struct {
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Type         CategoryType    `json:"type"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}
