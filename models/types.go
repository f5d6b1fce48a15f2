package models

import "fmt"

// CategoryType partitions categories into income and expense.
// Serialized as an integer: 1 = Income, 2 = Expense.
type CategoryType int

const (
	CategoryTypeIncome  CategoryType = 1
	CategoryTypeExpense CategoryType = 2
)

func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

func (t CategoryType) String() string {
	switch t {
	case CategoryTypeIncome:
		return "income"
	case CategoryTypeExpense:
		return "expense"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// TransactionType mirrors CategoryType for transactions.
type TransactionType int

const (
	TransactionTypeIncome  TransactionType = 1
	TransactionTypeExpense TransactionType = 2
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeIncome:
		return "income"
	case TransactionTypeExpense:
		return "expense"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}
