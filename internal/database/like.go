package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Like records one user's endorsement of one project. The composite unique
// index makes "at most one like per (user, project)" a database constraint,
// not a convention. No soft delete: an unliked row must free its slot in the
// unique index immediately.
type Like struct {
	ID        uint   `gorm:"primarykey"`
	UserID    string `gorm:"not null;uniqueIndex:idx_likes_user_project"`
	ProjectID uint   `gorm:"not null;uniqueIndex:idx_likes_user_project"`
	CreatedAt time.Time
}

// ToggleLike likes the project if the user hasn't liked it yet, and removes
// the like otherwise. Returns the resulting state and like count.
func (c *Client) ToggleLike(ctx context.Context, userID string, projectID uint) (liked bool, count int64, err error) {
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Like
		findErr := tx.Where("user_id = ? AND project_id = ?", userID, projectID).First(&existing).Error
		switch {
		case findErr == nil:
			if err := tx.Delete(&Like{}, existing.ID).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			if err := tx.Create(&Like{UserID: userID, ProjectID: projectID}).Error; err != nil {
				return err
			}
			liked = true
		default:
			return findErr
		}
		return tx.Model(&Like{}).Where("project_id = ?", projectID).Count(&count).Error
	})
	if err != nil {
		log.Error("failed to toggle like", "error", err)
		return false, 0, err
	}
	return liked, count, nil
}

func (c *Client) CountLikes(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Like{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		log.Error("failed to count likes", "error", err)
		return 0, err
	}
	return count, nil
}

func (c *Client) GetLikesByUser(ctx context.Context, userID string) ([]Like, error) {
	var likes []Like
	if err := c.db.WithContext(ctx).Where("user_id = ?", userID).Find(&likes).Error; err != nil {
		log.Error("failed to get likes by user", "error", err)
		return nil, err
	}
	return likes, nil
}

// LikedProjectIDs returns which of the given projects the user has liked.
func (c *Client) LikedProjectIDs(ctx context.Context, userID string, projectIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(projectIDs))
	if userID == "" || len(projectIDs) == 0 {
		return liked, nil
	}
	var likes []Like
	if err := c.db.WithContext(ctx).Where("user_id = ? AND project_id IN ?", userID, projectIDs).Find(&likes).Error; err != nil {
		log.Error("failed to get liked project IDs", "error", err)
		return nil, err
	}
	for _, l := range likes {
		liked[l.ProjectID] = true
	}
	return liked, nil
}
