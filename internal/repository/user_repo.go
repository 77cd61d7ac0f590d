package repository

import (
	"errors"
	"fmt"
	"time"

	"simagis-server/internal/models"
	"simagis-server/internal/pagination"

	"gorm.io/gorm"
)

// UserRepository covers users and their refresh-token rows. Lookups
// return (nil, nil) when no row matches.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) findOne(query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByID finds a user by primary key
func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	return r.findOne("id = ?", id)
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	return r.findOne("email = ?", email)
}

// FindByUsername finds a user by username
func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	return r.findOne("username = ?", username)
}

// FindByPhone finds a user by phone number
func (r *UserRepository) FindByPhone(phone string) (*models.User, error) {
	return r.findOne("phone = ?", phone)
}

// FindByCode finds a user by code
func (r *UserRepository) FindByCode(code string) (*models.User, error) {
	return r.findOne("code = ?", code)
}

// FindByFieldExcluding finds a user whose column equals value, skipping
// the given id. Used for update-time uniqueness checks.
func (r *UserRepository) FindByFieldExcluding(column, value string, excludeID uint) (*models.User, error) {
	return r.findOne(fmt.Sprintf("%s = ? AND id <> ?", column), value, excludeID)
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Save persists all fields of an existing user
func (r *UserRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(id uint, hash string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

// Delete hard-deletes a user
func (r *UserRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// Count counts users matching the condition; empty condition counts all
func (r *UserRepository) Count(query string, args []interface{}) (int64, error) {
	var count int64
	tx := r.db.Model(&models.User{})
	if query != "" {
		tx = tx.Where(query, args...)
	}
	err := tx.Count(&count).Error
	return count, err
}

// Page fetches one page of users matching the condition
func (r *UserRepository) Page(p pagination.Params, query string, args []interface{}) ([]models.User, error) {
	var users []models.User
	tx := r.db.Model(&models.User{})
	if query != "" {
		tx = tx.Where(query, args...)
	}
	err := tx.Order(p.OrderClause()).
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&users).Error
	return users, err
}

// CountByRole counts users per role
func (r *UserRepository) CountByRole() ([]GroupCount, error) {
	var groups []GroupCount
	err := r.db.Model(&models.User{}).
		Select("role AS group_key, COUNT(*) AS group_count").
		Group("role").
		Order("group_count DESC").
		Scan(&groups).Error
	return groups, err
}

// CreateRefreshToken creates a new refresh token row
func (r *UserRepository) CreateRefreshToken(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// FindActiveTokenByHash finds a non-revoked refresh token for a user by
// its hash
func (r *UserRepository) FindActiveTokenByHash(userID uint, hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.Where("user_id = ? AND token_hash = ? AND revoked = ?", userID, hash, false).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// RevokeToken marks one refresh token as revoked
func (r *UserRepository) RevokeToken(id uint) error {
	return r.db.Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

// RevokeAllForUser revokes every active refresh token of a user and
// returns how many rows were affected
func (r *UserRepository) RevokeAllForUser(userID uint) (int64, error) {
	tx := r.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true)
	return tx.RowsAffected, tx.Error
}

// RevokeOlderThan revokes all active refresh tokens created before the
// cutoff and returns how many rows were affected
func (r *UserRepository) RevokeOlderThan(cutoff time.Time) (int64, error) {
	tx := r.db.Model(&models.RefreshToken{}).
		Where("revoked = ? AND created_at < ?", false, cutoff).
		Update("revoked", true)
	return tx.RowsAffected, tx.Error
}

// DeleteTokensForUser removes all refresh token rows of a user. Called
// when the user itself is deleted.
func (r *UserRepository) DeleteTokensForUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}
