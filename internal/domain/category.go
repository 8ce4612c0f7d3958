package domain

import "context"

// Category groups events (e.g. music, sports, technology).
// swagger:model Category
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// CategoryRepository defines the interface for category storage
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

// CategoryService defines read operations over categories.
type CategoryService interface {
	List(ctx context.Context) ([]*Category, error)
}
