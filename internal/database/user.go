package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account in the gallery. The ID is the identity provider's
// subject for accounts that signed in, or a locally generated UUID for ghost
// accounts the gallery created on someone's behalf. Claimed is false exactly
// for those ghost accounts; it flips to true once via the claim transaction.
type User struct {
	ID        string `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	AvatarURL string
	Bio       string
	Claimed   bool `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Projects  []Project `gorm:"foreignKey:AuthorID"`
	Likes     []Like    `gorm:"foreignKey:UserID"`
}

func (c *Client) GetUserByID(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUser makes sure an account row exists for an authenticated principal.
// The row is created on first use with the given username, already claimed
// since the principal is signed in.
func (c *Client) EnsureUser(ctx context.Context, id, username string) (*User, error) {
	user, err := c.GetUserByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := User{
		ID:       id,
		Username: username,
		Claimed:  true,
	}
	if err := c.db.WithContext(ctx).Create(&created).Error; err != nil {
		log.Error("failed to create user", "error", err)
		return nil, err
	}
	return &created, nil
}

// GetOrCreateGhost returns the ghost account with the given username,
// creating it with a fresh local ID if it doesn't exist yet. Used for the
// curator account that owns admin submissions until their authors claim them.
func (c *Client) GetOrCreateGhost(ctx context.Context, username string) (*User, error) {
	user, err := c.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	ghost := User{
		ID:       uuid.New().String(),
		Username: username,
		Claimed:  false,
	}
	if err := c.db.WithContext(ctx).Create(&ghost).Error; err != nil {
		log.Error("failed to create ghost user", "error", err)
		return nil, err
	}
	return &ghost, nil
}

func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, err
	}
	return users, nil
}
