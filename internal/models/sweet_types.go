package models

// Sweet is the model for the 'sweets' table.
type Sweet struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Category    string  `json:"category" db:"category"`
	Price       float64 `json:"price" db:"price"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Image       *string `json:"image,omitempty" db:"image"`
	Description *string `json:"description,omitempty" db:"description"`
}

// SweetFilter holds the optional, conjunctive search criteria.
type SweetFilter struct {
	NameContains string
	Category     string
	MinPrice     *float64
	MaxPrice     *float64
}

// SweetPatch is a partial update. Nil fields are left untouched.
type SweetPatch struct {
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Category    *string  `json:"category" binding:"omitempty,min=1"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Quantity    *int     `json:"quantity" binding:"omitempty,gte=0"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
}

// Empty reports whether the patch changes nothing.
func (p SweetPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil &&
		p.Quantity == nil && p.Image == nil && p.Description == nil
}

// Category is a distinct catalog category with a URL-safe slug.
type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}
