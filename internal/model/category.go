package model

// Category is a static storefront bucket. Categories are enumerated, not persisted.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Categories returns the fixed category list served by the API.
func Categories() []Category {
	return []Category{
		{ID: 1, Name: "Todos"},
		{ID: 2, Name: "Electrónica"},
		{ID: 3, Name: "Hogar"},
		{ID: 4, Name: "Deportes"},
		{ID: 5, Name: "Ropa"},
	}
}
