package categories

import "time"

// Category groups products.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryForm is the create/update payload.
type CategoryForm struct {
	Name string `json:"name" validate:"required"`
}
