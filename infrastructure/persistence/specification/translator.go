package specification

import (
	"orderservice/domain/order"
	"orderservice/domain/shared"

	"gorm.io/gorm"
)

// Scope is a GORM query fragment
type Scope = func(*gorm.DB) *gorm.DB

// Translator converts domain specifications to GORM queries
// DDD principle: Infrastructure layer handles framework-specific concerns
type Translator interface {
	// Translate converts a domain specification to a GORM scope
	// Returns nil if the specification type is not supported
	Translate(spec shared.Specification[*order.Order]) Scope
}

// GormTranslator implements Translator for GORM
type GormTranslator struct{}

// NewGormTranslator creates a new GORM translator
func NewGormTranslator() *GormTranslator {
	return &GormTranslator{}
}

// Translate converts a domain specification to a GORM scope
func (t *GormTranslator) Translate(spec shared.Specification[*order.Order]) Scope {
	if spec == nil {
		return nil
	}

	switch s := spec.(type) {
	case shared.AndSpecification[*order.Order]:
		return t.translateAnd(s)
	case shared.OrSpecification[*order.Order]:
		return t.translateOr(s)
	case shared.NotSpecification[*order.Order]:
		return t.translateNot(s)
	case order.ByIDsSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("id IN ?", s.IDs)
		}
	case order.ByStatusesSpecification:
		statuses := make([]string, len(s.Statuses))
		for i, st := range s.Statuses {
			statuses[i] = string(st)
		}
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("status IN ?", statuses)
		}
	}

	// Unknown specification type
	return nil
}

// translateAnd chains both sides; nil if either side cannot be expressed in SQL
func (t *GormTranslator) translateAnd(spec shared.AndSpecification[*order.Order]) Scope {
	left, right := t.Translate(spec.Left), t.Translate(spec.Right)
	if left == nil || right == nil {
		return nil
	}
	return func(db *gorm.DB) *gorm.DB {
		return right(left(db))
	}
}

// translateOr builds two grouped conditions joined by OR
func (t *GormTranslator) translateOr(spec shared.OrSpecification[*order.Order]) Scope {
	left, right := t.Translate(spec.Left), t.Translate(spec.Right)
	if left == nil || right == nil {
		return nil
	}
	return func(db *gorm.DB) *gorm.DB {
		fresh := db.Session(&gorm.Session{NewDB: true})
		return db.Where(left(fresh)).Or(right(fresh))
	}
}

// translateNot negates a grouped condition
func (t *GormTranslator) translateNot(spec shared.NotSpecification[*order.Order]) Scope {
	inner := t.Translate(spec.Spec)
	if inner == nil {
		return nil
	}
	return func(db *gorm.DB) *gorm.DB {
		fresh := db.Session(&gorm.Session{NewDB: true})
		return db.Not(inner(fresh))
	}
}
