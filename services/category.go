package services

import (
	"context"
	"database/sql"

	"github.com/fintrack/finance-tracker-api/models"
	"github.com/fintrack/finance-tracker-api/utils"
)

type CategoryService struct {
	db *sql.DB
}

func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{db: db}
}

// Create creates a category for a user. Type is validated here and
// never changes afterwards.
func (s *CategoryService) Create(ctx context.Context, userID int64, req models.CreateCategoryRequest) (*models.CategoryResponse, error) {
	if !req.Type.Valid() {
		return nil, invalidInput("category type must be 1 (income) or 2 (expense)")
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Color:       req.Color,
		Icon:        req.Icon,
		UserID:      userID,
	}
	if category.Color == "" {
		category.Color = "#000000"
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, description, type, color, icon, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, category.Name, category.Description, category.Type, category.Color, category.Icon, category.UserID).Scan(&category.ID)

	if err != nil {
		return nil, err
	}

	utils.LogEntityAction("Category", "create", category.ID, userID)

	resp := category.Response()
	return &resp, nil
}

// Get returns a category owned by the user. A category that exists but
// belongs to someone else is reported as not found.
func (s *CategoryService) Get(ctx context.Context, userID, id int64) (*models.CategoryResponse, error) {
	category, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	resp := category.Response()
	return &resp, nil
}

// List returns all of a user's categories ordered by type then name.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]models.CategoryResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, type, color, icon, user_id
		FROM categories
		WHERE user_id = $1
		ORDER BY type, name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCategories(rows)
}

// ListByType returns a user's categories of one type ordered by name.
func (s *CategoryService) ListByType(ctx context.Context, userID int64, categoryType models.CategoryType) ([]models.CategoryResponse, error) {
	if !categoryType.Valid() {
		return nil, invalidInput("category type must be 1 (income) or 2 (expense)")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, type, color, icon, user_id
		FROM categories
		WHERE user_id = $1 AND type = $2
		ORDER BY name
	`, userID, categoryType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCategories(rows)
}

// Update changes everything except the type.
func (s *CategoryService) Update(ctx context.Context, userID, id int64, req models.UpdateCategoryRequest) (*models.CategoryResponse, error) {
	category, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.Description = req.Description
	category.Color = req.Color
	category.Icon = req.Icon

	_, err = s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $1, description = $2, color = $3, icon = $4
		WHERE id = $5 AND user_id = $6
	`, category.Name, category.Description, category.Color, category.Icon, id, userID)
	if err != nil {
		return nil, err
	}

	utils.LogEntityAction("Category", "update", id, userID)

	resp := category.Response()
	return &resp, nil
}

// Delete removes a category unless any of the user's transactions
// still reference it. The check and the delete run in one transaction
// so a concurrent insert cannot slip between them. Budgets on the
// category go with it (FK cascade).
func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	err := utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)`, id, userID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("category not found")
		}

		var inUse bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM transactions WHERE category_id = $1 AND user_id = $2)`, id, userID).Scan(&inUse)
		if err != nil {
			return err
		}
		if inUse {
			return conflict("category has transactions and cannot be deleted")
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
		return err
	})
	if err != nil {
		return err
	}

	utils.LogEntityAction("Category", "delete", id, userID)
	return nil
}

func (s *CategoryService) find(ctx context.Context, userID, id int64) (*models.Category, error) {
	var category models.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, type, color, icon, user_id
		FROM categories
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.Type,
		&category.Color,
		&category.Icon,
		&category.UserID,
	)

	if err == sql.ErrNoRows {
		return nil, notFound("category not found")
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}

func scanCategories(rows *sql.Rows) ([]models.CategoryResponse, error) {
	categories := []models.CategoryResponse{}
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.Type,
			&category.Color,
			&category.Icon,
			&category.UserID,
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category.Response())
	}

	return categories, rows.Err()
}
