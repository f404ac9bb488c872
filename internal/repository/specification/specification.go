package specification

import "gorm.io/gorm"

// Specification composes query conditions. Repositories apply them in order.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
