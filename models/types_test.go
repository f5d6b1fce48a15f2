package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryType_Valid(t *testing.T) {
	assert.True(t, CategoryTypeIncome.Valid())
	assert.True(t, CategoryTypeExpense.Valid())
	assert.False(t, CategoryType(0).Valid())
	assert.False(t, CategoryType(3).Valid())
}

func TestTransactionType_Valid(t *testing.T) {
	assert.True(t, TransactionTypeIncome.Valid())
	assert.True(t, TransactionTypeExpense.Valid())
	assert.False(t, TransactionType(0).Valid())
	assert.False(t, TransactionType(-1).Valid())
}

func TestTypes_SerializeAsIntegers(t *testing.T) {
	category := Category{ID: 1, Name: "Salary", Type: CategoryTypeIncome, UserID: 2}
	data, err := json.Marshal(category.Response())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":1`)

	category.Type = CategoryTypeExpense
	data, err = json.Marshal(category.Response())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":2`)
}

func TestUserResponse_OmitsCredentials(t *testing.T) {
	user := User{ID: 1, Username: "alice", Email: "a@x.com", PasswordHash: "secret"}
	data, err := json.Marshal(user.Response())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")
}
