package category

import "errors"

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category name already in use")
)

// Category labels incomes, expenses, debts and recurring bills. Records keep
// a nullable reference to it, so deleting a category detaches records instead
// of cascading.
type Category struct {
	ID          int
	Name        string
	Slug        string
	Description string
}
