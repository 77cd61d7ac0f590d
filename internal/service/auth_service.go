package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"simagis-server/internal/apperrors"
	"simagis-server/internal/events"
	"simagis-server/internal/models"
	"simagis-server/pkg/utils"
)

// tokenRetention is how long an unused refresh token row may live before
// the maintenance sweep revokes it.
const tokenRetention = 7 * 24 * time.Hour

// UserStore is the user persistence surface the auth service needs.
// Lookups return (nil, nil) when no row matches.
type UserStore interface {
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByPhone(phone string) (*models.User, error)
	FindByCode(code string) (*models.User, error)
	Create(user *models.User) error
	UpdatePassword(id uint, hash string) error
}

// TokenStore is the refresh-token persistence surface.
type TokenStore interface {
	CreateRefreshToken(token *models.RefreshToken) error
	FindActiveTokenByHash(userID uint, hash string) (*models.RefreshToken, error)
	RevokeToken(id uint) error
	RevokeAllForUser(userID uint) (int64, error)
	RevokeOlderThan(cutoff time.Time) (int64, error)
}

// AuditStore records auth events.
type AuditStore interface {
	CreateAuditLog(userID *uint, action string, details string) error
}

type AuthService struct {
	users  UserStore
	tokens TokenStore
	audit  AuditStore
	events *events.Publisher
}

func NewAuthService(users UserStore, tokens TokenStore, audit AuditStore, pub *events.Publisher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		audit:  audit,
		events: pub,
	}
}

// TokenPair is an access/refresh token couple issued together.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterInput carries the registration fields after binding.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Username string
	Phone    string
	Role     string
	Code     string
	Address  string
}

// Register creates a new user account. Uniqueness is checked over
// email, username, phone and code in that order and the first hit wins.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if !models.IsValidRole(input.Role) {
		return nil, apperrors.Validation("Invalid role")
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" || len(code) > 10 {
		return nil, apperrors.Validation("Code must be between 1 and 10 characters")
	}

	if reasons := utils.ValidatePasswordStrength(input.Password); len(reasons) > 0 {
		return nil, apperrors.Validation("Password does not meet requirements", reasons...)
	}

	uniqueChecks := []struct {
		field string
		find  func(string) (*models.User, error)
		value string
	}{
		{"email", s.users.FindByEmail, input.Email},
		{"username", s.users.FindByUsername, input.Username},
		{"phone", s.users.FindByPhone, input.Phone},
		{"code", s.users.FindByCode, code},
	}
	for _, check := range uniqueChecks {
		existing, err := check.find(check.value)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.Conflict(fmt.Sprintf("A user with this %s already exists", check.field))
		}
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Code:         code,
		Name:         input.Name,
		Email:        input.Email,
		Username:     input.Username,
		Phone:        input.Phone,
		Address:      input.Address,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	userIDPtr := &user.ID
	_ = s.audit.CreateAuditLog(userIDPtr, "user_register", fmt.Sprintf("User %s registered", user.Email))
	_ = s.events.Publish(context.Background(), "user.registered", user.ID, map[string]interface{}{"email": user.Email, "role": user.Role})

	return user, nil
}

// Login authenticates by email and password and issues a token pair. The
// error never reveals which of the two was wrong.
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !utils.ComparePassword(user.PasswordHash, password) {
		if user == nil {
			log.Println("login failed: unknown email")
		} else {
			log.Printf("login failed: password mismatch for user %d", user.ID)
		}
		return nil, nil, apperrors.Authentication("Invalid email or password")
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	userIDPtr := &user.ID
	_ = s.audit.CreateAuditLog(userIDPtr, "user_login", fmt.Sprintf("User %s logged in", user.Email))
	_ = s.events.Publish(context.Background(), "user.logged_in", user.ID, nil)

	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is verified,
// matched against its stored hash, revoked, and replaced by exactly one
// new row. A consumed token can never be refreshed again.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		log.Printf("refresh failed: token did not verify: %v", err)
		return nil, apperrors.Authentication("Invalid refresh token")
	}

	row, err := s.tokens.FindActiveTokenByHash(claims.UserID, utils.HashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if row == nil {
		log.Printf("refresh failed: no active token row for user %d", claims.UserID)
		return nil, apperrors.Authentication("Invalid refresh token")
	}
	if time.Now().After(row.ExpiresAt) {
		log.Printf("refresh failed: stored token row expired for user %d", claims.UserID)
		return nil, apperrors.Authentication("Invalid refresh token")
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Printf("refresh failed: user %d no longer exists", claims.UserID)
		return nil, apperrors.Authentication("Invalid refresh token")
	}

	// Rotation: revoke the consumed row before persisting its successor.
	if err := s.tokens.RevokeToken(row.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	userIDPtr := &user.ID
	_ = s.audit.CreateAuditLog(userIDPtr, "token_refresh", fmt.Sprintf("User %s rotated refresh token", user.Email))

	return pair, nil
}

// Logout revokes one refresh token when given, or every active token of
// the user when not. Revoking an unknown token is a silent no-op so
// logout stays idempotent.
func (s *AuthService) Logout(userID uint, refreshToken string) error {
	if refreshToken != "" {
		row, err := s.tokens.FindActiveTokenByHash(userID, utils.HashToken(refreshToken))
		if err != nil {
			return err
		}
		if row != nil {
			if err := s.tokens.RevokeToken(row.ID); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
	} else {
		if _, err := s.tokens.RevokeAllForUser(userID); err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}
	}

	userIDPtr := &userID
	_ = s.audit.CreateAuditLog(userIDPtr, "user_logout", fmt.Sprintf("User %d logged out", userID))
	return nil
}

// ChangePassword verifies the current password, enforces strength on the
// new one and revokes every active session afterwards, forcing re-login
// everywhere.
func (s *AuthService) ChangePassword(userID uint, current, newPassword string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.Authentication("Current password is incorrect")
	}

	if !utils.ComparePassword(user.PasswordHash, current) {
		return apperrors.Authentication("Current password is incorrect")
	}

	if reasons := utils.ValidatePasswordStrength(newPassword); len(reasons) > 0 {
		return apperrors.Validation("New password does not meet requirements", reasons...)
	}

	if utils.ComparePassword(user.PasswordHash, newPassword) {
		return apperrors.Validation("New password must be different from the current password")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if _, err := s.tokens.RevokeAllForUser(userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	userIDPtr := &userID
	_ = s.audit.CreateAuditLog(userIDPtr, "password_change", fmt.Sprintf("User %s changed password", user.Email))
	_ = s.events.Publish(context.Background(), "user.password_changed", userID, nil)

	return nil
}

// RevokeAllTokens bulk-revokes every active refresh token of a user and
// returns how many were affected.
func (s *AuthService) RevokeAllTokens(userID uint) (int64, error) {
	count, err := s.tokens.RevokeAllForUser(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	userIDPtr := &userID
	_ = s.audit.CreateAuditLog(userIDPtr, "tokens_revoke_all", fmt.Sprintf("Revoked %d session(s)", count))
	return count, nil
}

// CleanupExpiredTokens revokes active refresh-token rows older than the
// retention window. Intended for the periodic maintenance worker.
func (s *AuthService) CleanupExpiredTokens() (int64, error) {
	return s.tokens.RevokeOlderThan(time.Now().Add(-tokenRetention))
}

// GetProfile loads the current user for /me style endpoints.
func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email, user.Role, user.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Email, user.Role, user.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	row := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(utils.GetRefreshTokenExpiry()),
	}
	if err := s.tokens.CreateRefreshToken(row); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
