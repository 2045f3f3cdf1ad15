package models

import (
	"github.com/samber/lo"

	"github.com/CYule/vibe-gallery/internal/database"
)

// ToProjectCard converts a database listing row to a view model.
func ToProjectCard(item database.ProjectListItem, likedByMe bool) ProjectCard {
	return ProjectCard{
		ID:                 item.ID,
		Title:              item.Title,
		Description:        item.Description,
		Link:               item.Link,
		Thumbnail:          item.Thumbnail,
		MonetizationStatus: item.MonetizationStatus,
		VerifiedAmount:     item.VerifiedAmount,
		Featured:           item.Featured,
		CreatedAt:          item.CreatedAt,
		AuthorUsername:     item.AuthorUsername,
		LikeCount:          item.LikeCount,
		LikedByMe:          likedByMe,
	}
}

// ToProjectCards converts listing rows to view models, marking the ones the
// current user has liked.
func ToProjectCards(items []database.ProjectListItem, liked map[uint]bool) []ProjectCard {
	return lo.Map(items, func(item database.ProjectListItem, _ int) ProjectCard {
		return ToProjectCard(item, liked[item.ID])
	})
}

// SplitFeatured partitions the cards into the featured section and the rest,
// preserving order.
func SplitFeatured(cards []ProjectCard) (featured, rest []ProjectCard) {
	featured = lo.Filter(cards, func(card ProjectCard, _ int) bool { return card.Featured })
	rest = lo.Filter(cards, func(card ProjectCard, _ int) bool { return !card.Featured })
	return featured, rest
}

// ToProfile converts a user and their projects to a profile view model.
func ToProfile(user database.User, projects []ProjectCard, viewer *User) Profile {
	isOwner := viewer != nil && viewer.Sub == user.ID
	return Profile{
		ID:              user.ID,
		Username:        user.Username,
		AvatarURL:       user.AvatarURL,
		Bio:             user.Bio,
		Claimed:         user.Claimed,
		Projects:        projects,
		ShowClaimBanner: !user.Claimed && !isOwner,
	}
}
