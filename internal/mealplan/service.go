// Package mealplan implements the meal, recipe and ingredient catalog. Every
// operation is scoped to an owner id; records owned by someone else behave as
// if they did not exist.
package mealplan

import (
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"prepclock/internal/fault"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Service performs validated reads and writes against the catalog tables.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// New builds a Service on top of db.
func New(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for total records split into pages of limit.
func NewPagination(page, limit int, total int64) Pagination {
	page, limit = normalizePage(page, limit)
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func offset(page, limit int) int {
	return (page - 1) * limit
}

// IngredientInput is an ingredient as submitted by a client.
type IngredientInput struct {
	Name     string
	Quantity string
}

// RecipeInput is a recipe as submitted by a client.
type RecipeInput struct {
	Instructions string
	Ingredients  []IngredientInput
}

func requireOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return fault.Unauthorized()
	}
	return nil
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// likePattern lower-cases term and escapes LIKE wildcards so the term matches
// as a literal substring.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(term))
	return "%" + escaped + "%"
}

// classify passes faults through untouched and wraps anything else as internal.
func classify(err error, action string) error {
	if err == nil {
		return nil
	}
	var fe *fault.Error
	if errors.As(err, &fe) {
		return fe
	}
	return fault.Internal(action, err)
}

func notFoundOr(err error, message, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fault.NotFound(message)
	}
	return fault.Internal(action, err)
}
