package repository

import (
	"errors"
	"fmt"

	"simagis-server/internal/pagination"

	"gorm.io/gorm"
)

// CrudRepository is the shared gorm access layer every reference entity
// uses. Lookups return (nil, nil) when no row matches so services can run
// uniqueness pre-checks without treating absence as an error.
type CrudRepository[T any] struct {
	db *gorm.DB
}

func NewCrudRepo[T any](db *gorm.DB) *CrudRepository[T] {
	return &CrudRepository[T]{db: db}
}

// FindByID retrieves a row by primary key.
func (r *CrudRepository[T]) FindByID(id uint) (*T, error) {
	var e T
	err := r.db.First(&e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// FindOne retrieves the first row matching the condition.
func (r *CrudRepository[T]) FindOne(query string, args ...interface{}) (*T, error) {
	var e T
	err := r.db.Where(query, args...).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts a new row.
func (r *CrudRepository[T]) Create(e *T) error {
	return r.db.Create(e).Error
}

// Update overwrites all columns of an existing row with values, keeping
// the primary key and creation timestamp.
func (r *CrudRepository[T]) Update(existing *T, values *T) error {
	return r.db.Model(existing).
		Select("*").
		Omit("id", "created_at").
		Updates(values).Error
}

// Delete hard-deletes a row by primary key.
func (r *CrudRepository[T]) Delete(id uint) error {
	var e T
	return r.db.Delete(&e, id).Error
}

// Count counts rows matching the condition; an empty condition counts all.
func (r *CrudRepository[T]) Count(query string, args []interface{}) (int64, error) {
	var e T
	var count int64
	tx := r.db.Model(&e)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	err := tx.Count(&count).Error
	return count, err
}

// Page fetches one page of rows matching the condition, ordered and
// offset per the pagination params.
func (r *CrudRepository[T]) Page(p pagination.Params, query string, args []interface{}) ([]T, error) {
	var rows []T
	tx := r.db.Model(new(T))
	if query != "" {
		tx = tx.Where(query, args...)
	}
	err := tx.Order(p.OrderClause()).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&rows).Error
	return rows, err
}

// CountInTable counts rows of another table whose column equals value.
// Used for delete-blocking reference checks against a natural key.
func (r *CrudRepository[T]) CountInTable(table, column string, value interface{}) (int64, error) {
	var count int64
	err := r.db.Table(table).
		Where(fmt.Sprintf("%s = ?", column), value).
		Count(&count).Error
	return count, err
}

// GroupCount is one bucket of a group-by aggregate.
type GroupCount struct {
	Key   string `json:"key" gorm:"column:group_key"`
	Count int64  `json:"count" gorm:"column:group_count"`
}

// CountGroupedBy counts rows per distinct value of column.
func (r *CrudRepository[T]) CountGroupedBy(column string) ([]GroupCount, error) {
	var groups []GroupCount
	err := r.db.Model(new(T)).
		Select(fmt.Sprintf("%s AS group_key, COUNT(*) AS group_count", column)).
		Group(column).
		Order("group_count DESC").
		Scan(&groups).Error
	return groups, err
}

// CountWithChildren counts rows whose natural key is referenced by at
// least one child row.
func (r *CrudRepository[T]) CountWithChildren(keyColumn, childTable, childColumn string) (int64, error) {
	var count int64
	err := r.db.Model(new(T)).
		Where(fmt.Sprintf("%s IN (SELECT DISTINCT %s FROM %s)", keyColumn, childColumn, childTable)).
		Count(&count).Error
	return count, err
}
