package service

import (
	"strings"
	"testing"

	"simagis-server/internal/apperrors"
	"simagis-server/internal/models"
	"simagis-server/internal/pagination"
	"simagis-server/internal/repository"
)

// fakeBankStore is an in-memory EntityStore for the bank descriptor. Its
// FindOne understands the clause shapes checkUnique and GetByCode build.
type fakeBankStore struct {
	rows        []models.Bank
	nextID      uint
	childCounts map[string]int64 // bank code -> referencing account numbers
}

func newFakeBankStore() *fakeBankStore {
	return &fakeBankStore{nextID: 1, childCounts: map[string]int64{}}
}

func (f *fakeBankStore) FindByID(id uint) (*models.Bank, error) {
	for _, b := range f.rows {
		if b.ID == id {
			copy := b
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeBankStore) FindOne(query string, args ...interface{}) (*models.Bank, error) {
	value, _ := args[0].(string)
	var exclude uint
	if strings.Contains(query, "id <> ?") {
		if id, ok := args[len(args)-1].(uint); ok {
			exclude = id
		}
	}
	for _, b := range f.rows {
		if exclude > 0 && b.ID == exclude {
			continue
		}
		if strings.HasPrefix(query, "code") && b.Code == value {
			copy := b
			return &copy, nil
		}
		if strings.HasPrefix(query, "name") && b.Name == value {
			copy := b
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeBankStore) Create(b *models.Bank) error {
	b.ID = f.nextID
	f.nextID++
	f.rows = append(f.rows, *b)
	return nil
}

func (f *fakeBankStore) Update(existing *models.Bank, values *models.Bank) error {
	for i := range f.rows {
		if f.rows[i].ID == existing.ID {
			id := f.rows[i].ID
			f.rows[i] = *values
			f.rows[i].ID = id
		}
	}
	return nil
}

func (f *fakeBankStore) Delete(id uint) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeBankStore) Count(query string, args []interface{}) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeBankStore) Page(p pagination.Params, query string, args []interface{}) ([]models.Bank, error) {
	return f.rows, nil
}

func (f *fakeBankStore) CountInTable(table, column string, value interface{}) (int64, error) {
	code, _ := value.(string)
	return f.childCounts[code], nil
}

func (f *fakeBankStore) CountGroupedBy(column string) ([]repository.GroupCount, error) {
	return nil, nil
}

func (f *fakeBankStore) CountWithChildren(keyColumn, childTable, childColumn string) (int64, error) {
	var n int64
	for _, b := range f.rows {
		if f.childCounts[b.Code] > 0 {
			n++
		}
	}
	return n, nil
}

func bankServiceWithStore(store EntityStore[models.Bank]) *CrudService[models.Bank] {
	return NewCrudService(store, &fakeAuditStore{}, nil, Descriptor[models.Bank]{
		Name:         "bank",
		SearchFields: []string{"code", "name"},
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

func bankDescriptorService() *CrudService[models.Bank] {
	return NewCrudService(nil, nil, nil, Descriptor[models.Bank]{
		Name:       "bank",
		CodeColumn: "code",
		GetCode:    func(b *models.Bank) string { return b.Code },
		SetCode:    func(b *models.Bank, code string) { b.Code = code },
		Code:       CodeRule{Length: 3},
	})
}

func colorDescriptorService() *CrudService[models.Color] {
	return NewCrudService(nil, nil, nil, Descriptor[models.Color]{
		Name:       "color",
		CodeColumn: "code",
		GetCode:    func(c *models.Color) string { return c.Code },
		SetCode:    func(c *models.Color, code string) { c.Code = code },
		Code: CodeRule{
			Pattern: hexColorPattern,
			Hint:    "color code must be a 7-character hex value such as #1A2B3C",
		},
	})
}

func TestNormalizeCodeLength(t *testing.T) {
	svc := bankDescriptorService()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"bca", "BCA", false},
		{" bni ", "BNI", false},
		{"BRI", "BRI", false},
		{"bc", "", true},
		{"mandiri", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		bank := &models.Bank{Code: tt.in}
		err := svc.normalizeCode(bank)
		if tt.wantErr {
			if err == nil {
				t.Errorf("normalizeCode(%q): expected error", tt.in)
			} else if apperrors.From(err).Code != apperrors.CodeValidation {
				t.Errorf("normalizeCode(%q): expected validation error, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("normalizeCode(%q): %v", tt.in, err)
			continue
		}
		if bank.Code != tt.want {
			t.Errorf("normalizeCode(%q) = %q, want %q", tt.in, bank.Code, tt.want)
		}
	}
}

func TestNormalizeCodePattern(t *testing.T) {
	svc := colorDescriptorService()

	valid := []string{"#1A2B3C", "#ff0000", "#ABCDEF"}
	for _, code := range valid {
		color := &models.Color{Code: code}
		if err := svc.normalizeCode(color); err != nil {
			t.Errorf("normalizeCode(%q): %v", code, err)
		} else if color.Code != strings.ToUpper(code) {
			t.Errorf("normalizeCode(%q) = %q, want uppercased", code, color.Code)
		}
	}

	invalid := []string{"1A2B3C", "#1A2B3", "#1A2B3CD", "#GGGGGG", "red", ""}
	for _, code := range invalid {
		color := &models.Color{Code: code}
		err := svc.normalizeCode(color)
		if err == nil {
			t.Errorf("normalizeCode(%q): expected error", code)
			continue
		}
		if appErr := apperrors.From(err); appErr.Message != svc.desc.Code.Hint {
			t.Errorf("normalizeCode(%q): message = %q, want the descriptor hint", code, appErr.Message)
		}
	}
}

func TestNormalizeCodeSkippedWithoutNaturalKey(t *testing.T) {
	svc := NewCrudService(nil, nil, nil, Descriptor[models.AccountNumber]{Name: "account number"})

	acct := &models.AccountNumber{Number: "1234567890"}
	if err := svc.normalizeCode(acct); err != nil {
		t.Fatalf("entities without a code must pass through: %v", err)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"bank":                 "Bank",
		"reimbursement type":   "Reimbursement type",
		"cek giro fail status": "Cek giro fail status",
		"":                     "",
	}
	for in, want := range tests {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCrudCreateConflictNamesField(t *testing.T) {
	svc := bankServiceWithStore(newFakeBankStore())

	if _, err := svc.Create(&models.Bank{Code: "bca", Name: "Bank Central Asia"}, 1); err != nil {
		t.Fatalf("seed create: %v", err)
	}

	_, err := svc.Create(&models.Bank{Code: "BCA", Name: "Something Else"}, 1)
	appErr := apperrors.From(err)
	if appErr.Code != apperrors.CodeConflict || !strings.Contains(appErr.Message, "code") {
		t.Fatalf("duplicate code must conflict naming the field, got %+v", appErr)
	}

	_, err = svc.Create(&models.Bank{Code: "BNI", Name: "Bank Central Asia"}, 1)
	if appErr := apperrors.From(err); appErr.Code != apperrors.CodeConflict || !strings.Contains(appErr.Message, "name") {
		t.Fatalf("duplicate name must conflict naming the field, got %+v", appErr)
	}

	if _, err := svc.Create(&models.Bank{Code: "BNI", Name: "Bank Negara Indonesia"}, 1); err != nil {
		t.Fatalf("distinct code and name must create cleanly: %v", err)
	}
}

func TestCrudUpdateExcludesOwnRow(t *testing.T) {
	store := newFakeBankStore()
	svc := bankServiceWithStore(store)

	bank, err := svc.Create(&models.Bank{Code: "BCA", Name: "Bank Central Asia"}, 1)
	if err != nil {
		t.Fatalf("seed create: %v", err)
	}
	other, err := svc.Create(&models.Bank{Code: "BNI", Name: "Bank Negara Indonesia"}, 1)
	if err != nil {
		t.Fatalf("seed create: %v", err)
	}

	// Re-saving a row with its own current values is not a conflict.
	if _, err := svc.Update(bank.ID, &models.Bank{Code: "BCA", Name: "Bank Central Asia"}, 1); err != nil {
		t.Fatalf("updating a row to its own values must succeed: %v", err)
	}

	// Taking another row's code still is.
	_, err = svc.Update(other.ID, &models.Bank{Code: "BCA", Name: "Bank Negara Indonesia"}, 1)
	if appErr := apperrors.From(err); appErr.Code != apperrors.CodeConflict || !strings.Contains(appErr.Message, "code") {
		t.Fatalf("stealing another row's code must conflict, got %+v", appErr)
	}
}

func TestCrudDeleteBlockedByReference(t *testing.T) {
	store := newFakeBankStore()
	svc := bankServiceWithStore(store)

	bank, err := svc.Create(&models.Bank{Code: "BCA", Name: "Bank Central Asia"}, 1)
	if err != nil {
		t.Fatalf("seed create: %v", err)
	}
	store.childCounts["BCA"] = 2

	delErr := svc.Delete(bank.ID, 1)
	appErr := apperrors.From(delErr)
	if appErr.Code != apperrors.CodeConflict {
		t.Fatalf("delete with references must conflict, got %+v", appErr)
	}
	if !strings.Contains(appErr.Message, "account_numbers") || !strings.Contains(appErr.Message, "2") {
		t.Errorf("conflict must name the relation and count, got %q", appErr.Message)
	}
	if row, _ := store.FindByID(bank.ID); row == nil {
		t.Fatal("blocked delete must keep the row")
	}

	store.childCounts["BCA"] = 0
	if err := svc.Delete(bank.ID, 1); err != nil {
		t.Fatalf("delete with no references must succeed: %v", err)
	}
	if row, _ := store.FindByID(bank.ID); row != nil {
		t.Fatal("row must be gone after delete")
	}
}

func TestOutranks(t *testing.T) {
	tests := []struct {
		actor  string
		target string
		want   bool
	}{
		{models.RoleSuperAdmin, models.RoleAdmin, true},
		{models.RoleAdmin, models.RoleAdmin, false},
		{models.RoleCashier, models.RoleAdmin, false},
		{models.RoleManager, models.RoleStaff, true},
		{models.RoleStaff, models.RoleSuperAdmin, false},
	}
	for _, tt := range tests {
		if got := outranks(tt.actor, tt.target); got != tt.want {
			t.Errorf("outranks(%s, %s) = %v, want %v", tt.actor, tt.target, got, tt.want)
		}
	}
}
