package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// ClaimProfile merges a ghost account's identity and content into the
// authenticated principal's account and deletes the ghost.
//
// If the principal has no account yet, one is created under the principal's
// ID reusing the ghost's username, avatar and bio: the principal literally
// becomes the former ghost. If the principal already has an account, it is
// left untouched and the ghost's content is absorbed into it; the ghost's
// username is abandoned. Every project owned by the ghost moves to the
// principal. Every like owned by the ghost either moves to the principal or,
// when the principal already likes the same project, is deleted so the
// (user, project) uniqueness constraint can never be violated.
//
// The whole read-check-mutate-delete sequence runs in one transaction, and
// the ghost's existence and claimed flag are re-checked inside it. That
// re-check is load-bearing: a second claim racing on the same ghost observes
// the already-deleted or already-claimed row and becomes a no-op instead of
// corrupting state. Checking before the transaction opens would reintroduce
// the double-claim race.
//
// Returns the merged account, or nil without error when the ghost is gone,
// already claimed, or is the principal's own account.
func (c *Client) ClaimProfile(ctx context.Context, ghostID, principalID string) (*User, error) {
	var merged *User
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ghost User
		if err := tx.First(&ghost, "id = ?", ghostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Debug("claim skipped, ghost not found", "ghost_id", ghostID)
				return nil
			}
			return err
		}
		if ghost.Claimed {
			log.Debug("claim skipped, profile already claimed", "ghost_id", ghostID)
			return nil
		}
		if ghost.ID == principalID {
			// Claiming your own account would delete it.
			return nil
		}

		var account User
		hasAccount := true
		if err := tx.First(&account, "id = ?", principalID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hasAccount = false
			// The ghost row still holds the username, so park it on the
			// ghost's own ID to free the unique index before the insert.
			// The ghost is deleted at the end of the transaction anyway.
			if err := tx.Model(&User{}).Where("id = ?", ghost.ID).
				Update("username", ghost.ID).Error; err != nil {
				return err
			}
			account = User{
				ID:        principalID,
				Username:  ghost.Username,
				AvatarURL: ghost.AvatarURL,
				Bio:       ghost.Bio,
				Claimed:   true,
			}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&Project{}).Where("author_id = ?", ghost.ID).
			Update("author_id", account.ID).Error; err != nil {
			return err
		}

		var ghostLikes []Like
		if err := tx.Where("user_id = ?", ghost.ID).Find(&ghostLikes).Error; err != nil {
			return err
		}
		for _, like := range ghostLikes {
			if hasAccount {
				var dup int64
				if err := tx.Model(&Like{}).
					Where("user_id = ? AND project_id = ?", account.ID, like.ProjectID).
					Count(&dup).Error; err != nil {
					return err
				}
				if dup > 0 {
					// The principal already likes this project, the
					// ghost's like would be a duplicate.
					if err := tx.Delete(&Like{}, like.ID).Error; err != nil {
						return err
					}
					continue
				}
			}
			if err := tx.Model(&Like{}).Where("id = ?", like.ID).
				Update("user_id", account.ID).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&User{}, "id = ?", ghost.ID).Error; err != nil {
			return err
		}

		merged = &account
		return nil
	})
	if err != nil {
		log.Error("failed to claim profile", "ghost_id", ghostID, "error", err)
		return nil, err
	}
	if merged != nil {
		log.Info("profile claimed", "ghost_id", ghostID, "user_id", merged.ID, "username", merged.Username)
	}
	return merged, nil
}
