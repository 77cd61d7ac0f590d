package service

import (
	"context"
	"fmt"
	"strings"

	"simagis-server/internal/apperrors"
	"simagis-server/internal/events"
	"simagis-server/internal/models"
	"simagis-server/internal/pagination"
	"simagis-server/internal/repository"
	"simagis-server/pkg/utils"
)

var userSearchFields = []string{"code", "name", "email", "username", "phone"}

// UserService is the admin-facing user module. It reuses the register
// checks and layers role-hierarchy rules on top: an actor may only manage
// users whose role level is strictly below their own.
type UserService struct {
	repo   *repository.UserRepository
	audit  *repository.AuditRepository
	events *events.Publisher
}

func NewUserService(repo *repository.UserRepository, audit *repository.AuditRepository, pub *events.Publisher) *UserService {
	return &UserService{repo: repo, audit: audit, events: pub}
}

// CreateUserInput carries admin user-creation fields. Password may be
// empty, in which case one is generated and returned once.
type CreateUserInput struct {
	Email         string
	Password      string
	Name          string
	Username      string
	Phone         string
	Role          string
	Code          string
	Address       string
	ExpenseLimit  float64
	DiscountLimit float64
}

// UpdateUserInput uses pointers so absent fields stay untouched.
type UpdateUserInput struct {
	Email         *string
	Name          *string
	Username      *string
	Phone         *string
	Role          *string
	Code          *string
	Address       *string
	ExpenseLimit  *float64
	DiscountLimit *float64
}

func outranks(actorRole, targetRole string) bool {
	return models.RoleLevels[actorRole] > models.RoleLevels[targetRole]
}

// List pages through users with multi-field search and an optional role
// filter. Unknown role values are rejected rather than passed through.
func (s *UserService) List(q ListQuery) (*pagination.Result, error) {
	p := pagination.Parse(q.Page, q.Limit, q.SortBy, q.SortOrder, "created_at", pagination.DefaultMax)

	var (
		clauses []string
		args    []interface{}
	)
	if clause, searchArgs := pagination.SearchFilter(q.Search, userSearchFields); clause != "" {
		clauses = append(clauses, clause)
		args = append(args, searchArgs...)
	}
	if role := q.Filters["role"]; role != "" {
		if !models.IsValidRole(role) {
			return nil, apperrors.Validation("Invalid role filter")
		}
		clauses = append(clauses, "role = ?")
		args = append(args, role)
	}
	where := strings.Join(clauses, " AND ")

	total, err := s.repo.Count(where, args)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.Page(p, where, args)
	if err != nil {
		return nil, err
	}

	return pagination.NewResult(users, p.Page, p.Limit, total), nil
}

// GetByID fetches one user.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

// GetByCode fetches one user by code.
func (s *UserService) GetByCode(code string) (*models.User, error) {
	user, err := s.repo.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

// Create adds a user below the actor's role level. Returns the generated
// password when none was supplied; it is shown exactly once.
func (s *UserService) Create(input CreateUserInput, actorID uint, actorRole string) (*models.User, string, error) {
	if !models.IsValidRole(input.Role) {
		return nil, "", apperrors.Validation("Invalid role")
	}
	if !outranks(actorRole, input.Role) {
		return nil, "", apperrors.Authorization("Cannot create a user with an equal or higher role")
	}

	generated := ""
	password := input.Password
	if password == "" {
		pw, err := utils.GeneratePassword(12)
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate password: %w", err)
		}
		password = pw
		generated = pw
	} else if reasons := utils.ValidatePasswordStrength(password); len(reasons) > 0 {
		return nil, "", apperrors.Validation("Password does not meet requirements", reasons...)
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" || len(code) > 10 {
		return nil, "", apperrors.Validation("Code must be between 1 and 10 characters")
	}

	uniqueChecks := []struct {
		field string
		find  func(string) (*models.User, error)
		value string
	}{
		{"email", s.repo.FindByEmail, input.Email},
		{"username", s.repo.FindByUsername, input.Username},
		{"phone", s.repo.FindByPhone, input.Phone},
		{"code", s.repo.FindByCode, code},
	}
	for _, check := range uniqueChecks {
		existing, err := check.find(check.value)
		if err != nil {
			return nil, "", err
		}
		if existing != nil {
			return nil, "", apperrors.Conflict(fmt.Sprintf("A user with this %s already exists", check.field))
		}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Code:          code,
		Name:          input.Name,
		Email:         input.Email,
		Username:      input.Username,
		Phone:         input.Phone,
		Address:       input.Address,
		PasswordHash:  hash,
		Role:          input.Role,
		ExpenseLimit:  input.ExpenseLimit,
		DiscountLimit: input.DiscountLimit,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	_ = s.audit.CreateAuditLog(&actorID, "user_create", fmt.Sprintf("Created user %s (%s)", user.Email, user.Role))
	_ = s.events.Publish(context.Background(), "user.created", actorID, map[string]interface{}{"email": user.Email, "role": user.Role})

	return user, generated, nil
}

// Update modifies a user. The actor must outrank the target, and a role
// change must stay below the actor's own level.
func (s *UserService) Update(id uint, input UpdateUserInput, actorID uint, actorRole string) (*models.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	if !outranks(actorRole, user.Role) {
		return nil, apperrors.Authorization("Cannot modify a user with an equal or higher role")
	}

	if input.Role != nil {
		if !models.IsValidRole(*input.Role) {
			return nil, apperrors.Validation("Invalid role")
		}
		if !outranks(actorRole, *input.Role) {
			return nil, apperrors.Authorization("Cannot assign an equal or higher role")
		}
		user.Role = *input.Role
	}

	type uniqueField struct {
		column string
		field  string
		value  *string
		apply  func(string)
	}
	fields := []uniqueField{
		{"email", "email", input.Email, func(v string) { user.Email = v }},
		{"username", "username", input.Username, func(v string) { user.Username = v }},
		{"phone", "phone", input.Phone, func(v string) { user.Phone = v }},
	}
	if input.Code != nil {
		normalized := strings.ToUpper(strings.TrimSpace(*input.Code))
		if normalized == "" || len(normalized) > 10 {
			return nil, apperrors.Validation("Code must be between 1 and 10 characters")
		}
		fields = append(fields, uniqueField{"code", "code", &normalized, func(v string) { user.Code = v }})
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		existing, err := s.repo.FindByFieldExcluding(f.column, *f.value, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.Conflict(fmt.Sprintf("A user with this %s already exists", f.field))
		}
		f.apply(*f.value)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.ExpenseLimit != nil {
		user.ExpenseLimit = *input.ExpenseLimit
	}
	if input.DiscountLimit != nil {
		user.DiscountLimit = *input.DiscountLimit
	}

	if err := s.repo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	_ = s.audit.CreateAuditLog(&actorID, "user_update", fmt.Sprintf("Updated user %s", user.Email))
	return user, nil
}

// Delete hard-deletes a user and removes their refresh-token rows. The
// actor must outrank the target and cannot delete themselves.
func (s *UserService) Delete(id uint, actorID uint, actorRole string) error {
	if id == actorID {
		return apperrors.Validation("Cannot delete your own account")
	}

	user, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("User not found")
	}
	if !outranks(actorRole, user.Role) {
		return apperrors.Authorization("Cannot delete a user with an equal or higher role")
	}

	if err := s.repo.DeleteTokensForUser(id); err != nil {
		return fmt.Errorf("failed to remove user sessions: %w", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	_ = s.audit.CreateAuditLog(&actorID, "user_delete", fmt.Sprintf("Deleted user %s (%s)", user.Email, user.Role))
	_ = s.events.Publish(context.Background(), "user.deleted", actorID, map[string]interface{}{"email": user.Email})
	return nil
}

// Stats returns the total user count and a per-role breakdown.
func (s *UserService) Stats() (map[string]interface{}, error) {
	total, err := s.repo.Count("", nil)
	if err != nil {
		return nil, err
	}
	byRole, err := s.repo.CountByRole()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total":   total,
		"by_role": byRole,
	}, nil
}

// UpdateProfile lets a user change their own contact details. Role,
// limits and credentials are not reachable from here.
func (s *UserService) UpdateProfile(userID uint, name, phone, address string) (*models.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}

	if phone != "" && phone != user.Phone {
		existing, err := s.repo.FindByFieldExcluding("phone", phone, userID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.Conflict("A user with this phone already exists")
		}
		user.Phone = phone
	}
	if name != "" {
		user.Name = name
	}
	if address != "" {
		user.Address = address
	}

	if err := s.repo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
