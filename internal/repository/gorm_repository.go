package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository is a GORM implementation of Repository
type GormRepository[T any] struct {
	db       *gorm.DB
	preloads []string
}

// NewGormRepository creates a Repository for T. Relations named in preload are
// loaded on every read.
func NewGormRepository[T any](db *gorm.DB, preload ...string) *GormRepository[T] {
	return &GormRepository[T]{db: db, preloads: preload}
}

func (r *GormRepository[T]) query(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		query = query.Preload(p)
	}
	return query
}

// FindAll returns every record ordered by ID
func (r *GormRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	entities := []T{}
	if err := r.query(ctx).Order("id").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("find all: %w", err)
	}
	return entities, nil
}

// FindByID finds a record by ID
func (r *GormRepository[T]) FindByID(ctx context.Context, id uint64) (*T, error) {
	var entity T
	if err := r.query(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find by id %d: %w", id, err)
	}
	return &entity, nil
}

// Save inserts or overwrites a record. Associations are never written.
func (r *GormRepository[T]) Save(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("save: %w: %v", ErrDuplicate, err)
		}
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// ExistsByID reports whether a record with the ID exists
func (r *GormRepository[T]) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("exists by id %d: %w", id, err)
	}
	return count > 0, nil
}

// DeleteByID deletes a record by ID
func (r *GormRepository[T]) DeleteByID(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Delete(new(T), id).Error; err != nil {
		return fmt.Errorf("delete by id %d: %w", id, err)
	}
	return nil
}
