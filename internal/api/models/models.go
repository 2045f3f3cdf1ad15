package models

import (
	"time"

	"github.com/CYule/vibe-gallery/internal/database"
)

// User represents the authenticated principal resolved from the session.
// It is passed explicitly into every operation that needs it, never looked
// up from ambient state.
type User struct {
	Sub         string // stable subject from the identity provider
	Email       string
	Name        string
	Username    string
	IsAdmin     bool
	GravatarURL string // URL to the user's Gravatar image, empty if not available
}

// ProjectCard is a project prepared for rendering in a grid or detail page.
type ProjectCard struct {
	ID                 uint
	Title              string
	Description        string
	Link               string
	Thumbnail          string
	MonetizationStatus database.MonetizationStatus
	VerifiedAmount     *float64
	Featured           bool
	CreatedAt          time.Time
	AuthorUsername     string
	LikeCount          int64
	LikedByMe          bool
}

// Profile is a user profile prepared for rendering.
type Profile struct {
	ID        string
	Username  string
	AvatarURL string
	Bio       string
	Claimed   bool
	Projects  []ProjectCard
	// ShowClaimBanner is true for unclaimed profiles viewed by anyone but
	// the profile's own account.
	ShowClaimBanner bool
}
