package service

import (
	"regexp"

	"simagis-server/internal/apperrors"
	"simagis-server/internal/events"
	"simagis-server/internal/models"
	"simagis-server/internal/repository"

	"gorm.io/gorm"
)

// hexColorPattern matches a 7-character color code after uppercasing.
var hexColorPattern = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// NewBankService builds the Bank CRUD service. Banks are referenced by
// account numbers through their code, which blocks deletion.
func NewBankService(db *gorm.DB, audit *repository.AuditRepository, pub *events.Publisher) *CrudService[models.Bank] {
	return NewCrudService(repository.NewCrudRepo[models.Bank](db), audit, pub, Descriptor[models.Bank]{
		Name:         "bank",
		SearchFields: []string{"code", "name"},
		DefaultSort:  "created_at",
		CodeColumn:   "code",
		GetCode:      func(b *models.Bank) string { return b.Code },
		SetCode:      func(b *models.Bank, code string) { b.Code = code },
		Code:         CodeRule{Length: 3},
		Unique: []UniqueRule[models.Bank]{
			{Field: "code", Column: "code", Value: func(b *models.Bank) string { return b.Code }},
			{Field: "name", Column: "name", Value: func(b *models.Bank) string { return b.Name }},
		},
		Children: []ChildRef{
			{Relation: "account_numbers", Table: "account_numbers", Column: "bank_code"},
		},
	})
}

// NewAccountNumberService builds the AccountNumber CRUD service. Account
// numbers have no code of their own; their unique key is the number.
func NewAccountNumberService(db *gorm.DB, audit *repository.AuditRepository, pub *events.Publisher) *CrudService[models.AccountNumber] {
	return NewCrudService(repository.NewCrudRepo[models.AccountNumber](db), audit, pub, Descriptor[models.AccountNumber]{
		Name:         "account number",
		SearchFields: []string{"number", "owner_name"},
		DefaultSort:  "created_at",
		Unique: []UniqueRule[models.AccountNumber]{
			{Field: "number", Column: "number", Value: func(a *models.AccountNumber) string { return a.Number }},
		},
		StatsColumn: "bank_code",
		Filters:     map[string]string{"bank_code": "bank_code"},
	})
}

// NewBranchService builds the Branch CRUD service.
func NewBranchService(db *gorm.DB, audit *repository.AuditRepository, pub *events.Publisher) *CrudService[models.Branch] {
	return NewCrudService(repository.NewCrudRepo[models.Branch](db), audit, pub, Descriptor[models.Branch]{
		Name:         "branch",
		SearchFields: []string{"code", "name", "address"},
		DefaultSort:  "created_at",
		CodeColumn:   "code",
		GetCode:      func(b *models.Branch) string { return b.Code },
		SetCode:      func(b *models.Branch, code string) { b.Code = code },
		Code:         CodeRule{Length: 3},
		Validate: func(b *models.Branch) error {
			if !models.IsValidPriceType(b.PriceType) {
				return apperrors.Validation("Price type must be retail or wholesale")
			}
			return nil
		},
		Unique: []UniqueRule[models.Branch]{
			{Field: "code", Column: "code", Value: func(b *models.Branch) string { return b.Code }},
			{Field: "name", Column: "name", Value: func(b *models.Branch) string { return b.Name }},
		},
		StatsColumn: "price_type",
		Filters:     map[string]string{"price_type": "price_type"},
	})
}

// NewColorService builds the Color CRUD service. Color codes are hex
// values, e.g. #1A2B3C.
func NewColorService(db *gorm.DB, audit *repository.AuditRepository, pub *events.Publisher) *CrudService[models.Color] {
	return NewCrudService(repository.NewCrudRepo[models.Color](db), audit, pub, Descriptor[models.Color]{
		Name:         "color",
		SearchFields: []string{"code", "name"},
		DefaultSort:  "created_at",
		CodeColumn:   "code",
		GetCode:      func(c *models.Color) string { return c.Code },
		SetCode:      func(c *models.Color, code string) { c.Code = code },
		Code: CodeRule{
			Pattern: hexColorPattern,
			Hint:    "color code must be a 7-character hex value such as #1A2B3C",
		},
		Unique: []UniqueRule[models.Color]{
			{Field: "code", Column: "code", Value: func(c *models.Color) string { return c.Code }},
			{Field: "name", Column: "name", Value: func(c *models.Color) string { return c.Name }},
		},
	})
}

// NewPhoneService builds the Phone CRUD service.
func NewPhoneService(db *gorm.DB, audit *repository.AuditRepository, pub *events.Publisher) *CrudService[models.Phone] {
	return NewCrudService(repository.NewCrudRepo[models.Phone](db), audit, pub, Descriptor[models.Phone]{
		Name:         "phone",
		SearchFields: []string{"code", "owner_name", "number"},
		DefaultSort:  "created_at",
		CodeColumn:   "code",
		GetCode:      func(p *models.Phone) string { return p.Code },
		SetCode:      func(p *models.Phone, code string) { p.Code = code },
		Unique: []UniqueRule[models.Phone]{
			{Field: "code", Column: "code", Value: func(p *models.Phone) string { return p.Code }},
			{Field: "number", Column: "number", Value: func(p *models.Phone) string { return p.Number }},
		},
		StatsColumn: "module",
		Filters:     map[string]string{"module": "module"},
	})
}

// NewReimbursementTypeService builds the ReimbursementType CRUD service.
func NewReimbursementTypeService(db *gorm.DB, audit *repository.AuditRepository, pub *events.Publisher) *CrudService[models.ReimbursementType] {
	return NewCrudService(repository.NewCrudRepo[models.ReimbursementType](db), audit, pub, Descriptor[models.ReimbursementType]{
		Name:         "reimbursement type",
		SearchFields: []string{"code", "name"},
		DefaultSort:  "created_at",
		CodeColumn:   "code",
		GetCode:      func(r *models.ReimbursementType) string { return r.Code },
		SetCode:      func(r *models.ReimbursementType, code string) { r.Code = code },
		Code:         CodeRule{Length: 3},
		Unique: []UniqueRule[models.ReimbursementType]{
			{Field: "code", Column: "code", Value: func(r *models.ReimbursementType) string { return r.Code }},
			{Field: "name", Column: "name", Value: func(r *models.ReimbursementType) string { return r.Name }},
		},
	})
}

// NewCekGiroFailStatusService builds the CekGiroFailStatus CRUD service.
func NewCekGiroFailStatusService(db *gorm.DB, audit *repository.AuditRepository, pub *events.Publisher) *CrudService[models.CekGiroFailStatus] {
	return NewCrudService(repository.NewCrudRepo[models.CekGiroFailStatus](db), audit, pub, Descriptor[models.CekGiroFailStatus]{
		Name:         "cek giro fail status",
		SearchFields: []string{"code", "name"},
		DefaultSort:  "created_at",
		CodeColumn:   "code",
		GetCode:      func(c *models.CekGiroFailStatus) string { return c.Code },
		SetCode:      func(c *models.CekGiroFailStatus, code string) { c.Code = code },
		Code:         CodeRule{Length: 3},
		Unique: []UniqueRule[models.CekGiroFailStatus]{
			{Field: "code", Column: "code", Value: func(c *models.CekGiroFailStatus) string { return c.Code }},
			{Field: "name", Column: "name", Value: func(c *models.CekGiroFailStatus) string { return c.Name }},
		},
	})
}

// NewUserPermissionService builds the UserPermission CRUD service. The
// unique key is the (role, module) pair, checked as a composite.
func NewUserPermissionService(db *gorm.DB, audit *repository.AuditRepository, pub *events.Publisher) *CrudService[models.UserPermission] {
	return NewCrudService(repository.NewCrudRepo[models.UserPermission](db), audit, pub, Descriptor[models.UserPermission]{
		Name:         "user permission",
		SearchFields: []string{"role", "module"},
		DefaultSort:  "created_at",
		Validate: func(p *models.UserPermission) error {
			if !models.IsValidRole(p.Role) {
				return apperrors.Validation("Invalid role")
			}
			return nil
		},
		Composite: []CompositeRule[models.UserPermission]{
			{
				Fields: "role and module",
				Clause: func(p *models.UserPermission) (string, []interface{}) {
					return "role = ? AND module = ?", []interface{}{p.Role, p.Module}
				},
			},
		},
		StatsColumn: "module",
		Filters:     map[string]string{"role": "role", "module": "module"},
	})
}
