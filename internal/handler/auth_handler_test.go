package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"simagis-server/internal/models"
	"simagis-server/internal/service"
	"simagis-server/pkg/utils"

	"github.com/gin-gonic/gin"
)

type stubUserStore struct {
	byEmail map[string]*models.User
	created *models.User
	nextID  uint
}

func (s *stubUserStore) FindByID(id uint) (*models.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (s *stubUserStore) FindByEmail(email string) (*models.User, error) {
	return s.byEmail[email], nil
}
func (s *stubUserStore) FindByUsername(string) (*models.User, error) { return nil, nil }
func (s *stubUserStore) FindByPhone(string) (*models.User, error)    { return nil, nil }
func (s *stubUserStore) FindByCode(string) (*models.User, error)     { return nil, nil }
func (s *stubUserStore) Create(user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	s.created = user
	s.byEmail[user.Email] = user
	return nil
}
func (s *stubUserStore) UpdatePassword(uint, string) error { return nil }

type stubTokenStore struct{}

func (stubTokenStore) CreateRefreshToken(token *models.RefreshToken) error { token.ID = 1; return nil }
func (stubTokenStore) FindActiveTokenByHash(uint, string) (*models.RefreshToken, error) {
	return nil, nil
}
func (stubTokenStore) RevokeToken(uint) error                   { return nil }
func (stubTokenStore) RevokeAllForUser(uint) (int64, error)     { return 0, nil }
func (stubTokenStore) RevokeOlderThan(time.Time) (int64, error) { return 0, nil }

type stubAuditStore struct{}

func (stubAuditStore) CreateAuditLog(*uint, string, string) error { return nil }

func newAuthTestRouter(t *testing.T) (*gin.Engine, *stubUserStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitJWT("test-secret", time.Hour, 168*time.Hour)

	users := &stubUserStore{byEmail: map[string]*models.User{}, nextID: 1}
	h := NewAuthHandler(service.NewAuthService(users, stubTokenStore{}, stubAuditStore{}, nil))

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/auth/validate",
		func(c *gin.Context) {
			c.Set("userID", uint(7))
			c.Set("email", "budi@example.com")
			c.Set("role", models.RoleCashier)
			c.Set("code", "USR001")
		},
		h.Validate,
	)
	return r, users
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterCarriesAddress(t *testing.T) {
	r, users := newAuthTestRouter(t)

	w := postJSON(r, "/api/auth/register", `{
		"email": "budi@example.com",
		"password": "Sup3r$ecret",
		"name": "Budi",
		"username": "budi",
		"phone": "081234567890",
		"role": "cashier",
		"code": "USR001",
		"address": "Jl. Sudirman No. 1"
	}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if users.created == nil || users.created.Address != "Jl. Sudirman No. 1" {
		t.Fatalf("address must be persisted, got %+v", users.created)
	}
}

func TestLoginResponseShape(t *testing.T) {
	r, users := newAuthTestRouter(t)

	hash, err := utils.HashPassword("Sup3r$ecret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users.byEmail["budi@example.com"] = &models.User{
		ID:           1,
		Email:        "budi@example.com",
		PasswordHash: hash,
		Role:         models.RoleCashier,
		Code:         "USR001",
	}

	w := postJSON(r, "/api/auth/login", `{"email":"budi@example.com","password":"Sup3r$ecret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			User   *models.User `json:"user"`
			Tokens struct {
				AccessToken  string `json:"accessToken"`
				RefreshToken string `json:"refreshToken"`
			} `json:"tokens"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("success must be true")
	}
	if resp.Data.User == nil || resp.Data.User.Email != "budi@example.com" {
		t.Errorf("data.user = %+v", resp.Data.User)
	}
	if resp.Data.Tokens.AccessToken == "" || resp.Data.Tokens.RefreshToken == "" {
		t.Error("both tokens must be nested under data.tokens")
	}

	// The pair must not also appear flattened at the top of data.
	var raw struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if _, ok := raw.Data["accessToken"]; ok {
		t.Error("accessToken must not be a top-level data field")
	}
}

func TestValidateResponseShape(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Data struct {
			Valid bool `json:"valid"`
			User  struct {
				ID    uint   `json:"id"`
				Email string `json:"email"`
				Role  string `json:"role"`
				Code  string `json:"code"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data.Valid {
		t.Error("data.valid must be true")
	}
	if resp.Data.User.ID != 7 || resp.Data.User.Email != "budi@example.com" ||
		resp.Data.User.Role != models.RoleCashier || resp.Data.User.Code != "USR001" {
		t.Errorf("data.user = %+v", resp.Data.User)
	}
}
