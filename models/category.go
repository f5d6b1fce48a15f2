package models

type Category struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        CategoryType `json:"type"`
	Color       string       `json:"color"`
	Icon        string       `json:"icon"`
	UserID      int64        `json:"userId"`
}

type CreateCategoryRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Type        CategoryType `json:"type" binding:"required"`
	Color       string       `json:"color"`
	Icon        string       `json:"icon"`
}

// UpdateCategoryRequest deliberately has no Type field: a category's
// type is fixed at creation.
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

type CategoryResponse struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        CategoryType `json:"type"`
	Color       string       `json:"color"`
	Icon        string       `json:"icon"`
	UserID      int64        `json:"userId"`
}

func (c *Category) Response() CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
		Color:       c.Color,
		Icon:        c.Icon,
		UserID:      c.UserID,
	}
}
