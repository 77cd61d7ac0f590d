package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"simagis-server/internal/apperrors"
	"simagis-server/internal/events"
	"simagis-server/internal/pagination"
	"simagis-server/internal/repository"
)

// titleCase capitalizes the first letter of an entity name for messages.
func titleCase(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// UniqueRule declares one field whose value must be unique across the
// entity's table. Field is the name reported in conflict messages.
type UniqueRule[T any] struct {
	Field  string
	Column string
	Value  func(*T) string
}

// CodeRule constrains the entity's natural key format.
type CodeRule struct {
	Length  int            // exact length when > 0
	Pattern *regexp.Regexp // optional shape check, applied after uppercasing
	Hint    string         // validation message naming the expected shape
}

// CompositeRule declares a multi-column uniqueness rule, e.g. the
// (role, module) pair of a permission row.
type CompositeRule[T any] struct {
	Fields string // label used in the conflict message
	Clause func(*T) (string, []interface{})
}

// ChildRef names a child table whose rows reference this entity by its
// natural key and therefore block deletion.
type ChildRef struct {
	Relation string
	Table    string
	Column   string
}

// Descriptor parameterizes the generic CRUD service for one entity.
type Descriptor[T any] struct {
	Name         string // singular, lowercase, for messages and audit actions
	SearchFields []string
	DefaultSort  string
	MaxLimit     int
	CodeColumn   string // natural-key column; empty when the entity has none
	GetCode      func(*T) string
	SetCode      func(*T, string)
	Code         CodeRule
	Unique       []UniqueRule[T]
	Composite    []CompositeRule[T]
	Validate     func(*T) error // entity-specific field validation
	Children     []ChildRef
	StatsColumn  string            // group-by discriminator for Stats
	Filters      map[string]string // query param -> column
}

// ListQuery carries the raw list parameters from the HTTP boundary.
type ListQuery struct {
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
	Search    string
	Filters   map[string]string
}

// EntityStore is the persistence surface the generic service needs,
// satisfied by repository.CrudRepository. Lookups return (nil, nil) when
// no row matches.
type EntityStore[T any] interface {
	FindByID(id uint) (*T, error)
	FindOne(query string, args ...interface{}) (*T, error)
	Create(e *T) error
	Update(existing *T, values *T) error
	Delete(id uint) error
	Count(query string, args []interface{}) (int64, error)
	Page(p pagination.Params, query string, args []interface{}) ([]T, error)
	CountInTable(table, column string, value interface{}) (int64, error)
	CountGroupedBy(column string) ([]repository.GroupCount, error)
	CountWithChildren(keyColumn, childTable, childColumn string) (int64, error)
}

// CrudService implements the shared entity pattern: uniqueness pre-checks
// on create/update, reference checks before delete, paginated search and
// a stats aggregate.
type CrudService[T any] struct {
	repo   EntityStore[T]
	audit  AuditStore
	events *events.Publisher
	desc   Descriptor[T]
}

func NewCrudService[T any](repo EntityStore[T], audit AuditStore, pub *events.Publisher, desc Descriptor[T]) *CrudService[T] {
	if desc.MaxLimit <= 0 {
		desc.MaxLimit = pagination.DefaultMax
	}
	if desc.DefaultSort == "" {
		desc.DefaultSort = "created_at"
	}
	return &CrudService[T]{repo: repo, audit: audit, events: pub, desc: desc}
}

// Descriptor exposes the per-entity configuration, mainly for handlers
// that need the filter whitelist.
func (s *CrudService[T]) Descriptor() Descriptor[T] {
	return s.desc
}

// normalizeCode uppercases the natural key and enforces its format.
func (s *CrudService[T]) normalizeCode(e *T) error {
	if s.desc.GetCode == nil {
		return nil
	}
	code := strings.ToUpper(strings.TrimSpace(s.desc.GetCode(e)))
	if s.desc.Code.Length > 0 && len(code) != s.desc.Code.Length {
		return apperrors.Validation(fmt.Sprintf("%s code must be exactly %d characters", s.desc.Name, s.desc.Code.Length))
	}
	if s.desc.Code.Pattern != nil && !s.desc.Code.Pattern.MatchString(code) {
		return apperrors.Validation(s.desc.Code.Hint)
	}
	s.desc.SetCode(e, code)
	return nil
}

func (s *CrudService[T]) checkUnique(e *T, excludeID uint) error {
	for _, rule := range s.desc.Unique {
		value := rule.Value(e)
		if value == "" {
			continue
		}
		var (
			existing *T
			err      error
		)
		if excludeID > 0 {
			existing, err = s.repo.FindOne(fmt.Sprintf("%s = ? AND id <> ?", rule.Column), value, excludeID)
		} else {
			existing, err = s.repo.FindOne(fmt.Sprintf("%s = ?", rule.Column), value)
		}
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.Conflict(fmt.Sprintf("A %s with this %s already exists", s.desc.Name, rule.Field))
		}
	}
	for _, rule := range s.desc.Composite {
		clause, args := rule.Clause(e)
		if excludeID > 0 {
			clause += " AND id <> ?"
			args = append(args, excludeID)
		}
		existing, err := s.repo.FindOne(clause, args...)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.Conflict(fmt.Sprintf("A %s with this %s already exists", s.desc.Name, rule.Fields))
		}
	}
	return nil
}

// Create validates format and uniqueness, then inserts.
func (s *CrudService[T]) Create(e *T, actorID uint) (*T, error) {
	if err := s.normalizeCode(e); err != nil {
		return nil, err
	}
	if s.desc.Validate != nil {
		if err := s.desc.Validate(e); err != nil {
			return nil, err
		}
	}
	if err := s.checkUnique(e, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(e); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.desc.Name, err)
	}

	s.record(actorID, "create", e)
	return e, nil
}

// GetByID fetches one row or a typed not-found error.
func (s *CrudService[T]) GetByID(id uint) (*T, error) {
	e, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("%s not found", titleCase(s.desc.Name)))
	}
	return e, nil
}

// GetByCode fetches one row by natural key.
func (s *CrudService[T]) GetByCode(code string) (*T, error) {
	if s.desc.CodeColumn == "" {
		return nil, apperrors.NotFound(fmt.Sprintf("%s not found", titleCase(s.desc.Name)))
	}
	e, err := s.repo.FindOne(fmt.Sprintf("%s = ?", s.desc.CodeColumn), strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("%s not found", titleCase(s.desc.Name)))
	}
	return e, nil
}

// Update re-runs the create checks excluding the row itself, so updating
// a row to its own current values is not a conflict.
func (s *CrudService[T]) Update(id uint, values *T, actorID uint) (*T, error) {
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("%s not found", titleCase(s.desc.Name)))
	}

	if err := s.normalizeCode(values); err != nil {
		return nil, err
	}
	if s.desc.Validate != nil {
		if err := s.desc.Validate(values); err != nil {
			return nil, err
		}
	}
	if err := s.checkUnique(values, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(existing, values); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.desc.Name, err)
	}

	updated, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	s.record(actorID, "update", updated)
	return updated, nil
}

// Delete refuses while any configured child relation still references the
// row's natural key, then hard-deletes.
func (s *CrudService[T]) Delete(id uint, actorID uint) error {
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NotFound(fmt.Sprintf("%s not found", titleCase(s.desc.Name)))
	}

	if len(s.desc.Children) > 0 && s.desc.GetCode != nil {
		key := s.desc.GetCode(existing)
		for _, child := range s.desc.Children {
			count, err := s.repo.CountInTable(child.Table, child.Column, key)
			if err != nil {
				return err
			}
			if count > 0 {
				return apperrors.Conflict(fmt.Sprintf("Cannot delete %s: %d %s still reference it", s.desc.Name, count, child.Relation))
			}
		}
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.desc.Name, err)
	}

	s.record(actorID, "delete", existing)
	return nil
}

// List runs the pagination engine, merging the text-search filter with the
// entity's discriminator filters, counting before fetching the page.
func (s *CrudService[T]) List(q ListQuery) (*pagination.Result, error) {
	p := pagination.Parse(q.Page, q.Limit, q.SortBy, q.SortOrder, s.desc.DefaultSort, s.desc.MaxLimit)

	var (
		clauses []string
		args    []interface{}
	)
	if clause, searchArgs := pagination.SearchFilter(q.Search, s.desc.SearchFields); clause != "" {
		clauses = append(clauses, clause)
		args = append(args, searchArgs...)
	}
	for param, value := range q.Filters {
		column, ok := s.desc.Filters[param]
		if !ok || value == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = ?", column))
		args = append(args, value)
	}
	where := strings.Join(clauses, " AND ")

	total, err := s.repo.Count(where, args)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Page(p, where, args)
	if err != nil {
		return nil, err
	}

	return pagination.NewResult(rows, p.Page, p.Limit, total), nil
}

// Stats returns the entity's aggregate: a group-by breakdown when a
// discriminator column is configured, a referenced/unreferenced split when
// the entity has children, otherwise just the total.
func (s *CrudService[T]) Stats() (map[string]interface{}, error) {
	total, err := s.repo.Count("", nil)
	if err != nil {
		return nil, err
	}
	stats := map[string]interface{}{"total": total}

	if s.desc.StatsColumn != "" {
		groups, err := s.repo.CountGroupedBy(s.desc.StatsColumn)
		if err != nil {
			return nil, err
		}
		stats["by_"+s.desc.StatsColumn] = groups
		return stats, nil
	}

	if len(s.desc.Children) > 0 && s.desc.CodeColumn != "" {
		child := s.desc.Children[0]
		withChildren, err := s.repo.CountWithChildren(s.desc.CodeColumn, child.Table, child.Column)
		if err != nil {
			return nil, err
		}
		stats["with_"+child.Relation] = withChildren
		stats["without_"+child.Relation] = total - withChildren
	}

	return stats, nil
}

func (s *CrudService[T]) record(actorID uint, op string, e *T) {
	detail := s.desc.Name
	if s.desc.GetCode != nil && e != nil {
		detail = fmt.Sprintf("%s %s", s.desc.Name, s.desc.GetCode(e))
	}

	var actor *uint
	if actorID > 0 {
		actor = &actorID
	}
	_ = s.audit.CreateAuditLog(actor, fmt.Sprintf("%s_%s", s.desc.Name, op), fmt.Sprintf("%s %sd", detail, op))
	_ = s.events.Publish(context.Background(), fmt.Sprintf("%s.%sd", s.desc.Name, op), actorID, map[string]interface{}{"entity": detail})
}
