package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// MonetizationStatus describes whether a project makes money.
type MonetizationStatus string

const (
	MonetizationNotMonetized MonetizationStatus = "NOT_MONETIZED"
	MonetizationTrying       MonetizationStatus = "TRYING"
	MonetizationSelfReported MonetizationStatus = "MONETIZED_SELF_REPORTED"
	MonetizationVerified     MonetizationStatus = "VERIFIED"
)

// ValidMonetizationStatus reports whether s is one of the known statuses.
func ValidMonetizationStatus(s MonetizationStatus) bool {
	switch s {
	case MonetizationNotMonetized, MonetizationTrying, MonetizationSelfReported, MonetizationVerified:
		return true
	}
	return false
}

// Project is a submitted link. Ownership is reassignable: the claim
// transaction moves projects from a ghost account to the claiming account.
type Project struct {
	gorm.Model
	Title              string `gorm:"not null"`
	Description        string
	Link               string `gorm:"not null"`
	Thumbnail          string
	MonetizationStatus MonetizationStatus `gorm:"not null;default:NOT_MONETIZED"`
	VerifiedAmount     *float64
	Featured           bool   `gorm:"default:false"`
	AuthorID           string `gorm:"index;not null"`
	Author             User   `gorm:"foreignKey:AuthorID"`
	Likes              []Like `gorm:"foreignKey:ProjectID"`
}

// ProjectListItem is a project row enriched with the fields the pages need.
type ProjectListItem struct {
	Project
	AuthorUsername string
	LikeCount      int64
}

const projectListSelect = "projects.*, users.username AS author_username, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.project_id = projects.id) AS like_count"

func (c *Client) CreateProject(ctx context.Context, project *Project) error {
	if project.MonetizationStatus == "" {
		project.MonetizationStatus = MonetizationNotMonetized
	}
	if err := c.db.WithContext(ctx).Create(project).Error; err != nil {
		log.Error("failed to create project", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetProjectByID(ctx context.Context, id uint) (*ProjectListItem, error) {
	var item ProjectListItem
	err := c.db.WithContext(ctx).
		Model(&Project{}).
		Select(projectListSelect).
		Joins("LEFT JOIN users ON users.id = projects.author_id").
		Where("projects.id = ?", id).
		First(&item).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get project by ID", "error", err)
		}
		return nil, err
	}
	return &item, nil
}

// ListProjects returns all projects, featured first, newest first within
// each group.
func (c *Client) ListProjects(ctx context.Context) ([]ProjectListItem, error) {
	var items []ProjectListItem
	err := c.db.WithContext(ctx).
		Model(&Project{}).
		Select(projectListSelect).
		Joins("LEFT JOIN users ON users.id = projects.author_id").
		Order("projects.featured DESC, projects.created_at DESC").
		Find(&items).Error
	if err != nil {
		log.Error("failed to list projects", "error", err)
		return nil, err
	}
	return items, nil
}

// ListProjectsByAuthor returns the author's projects, newest first.
func (c *Client) ListProjectsByAuthor(ctx context.Context, authorID string) ([]ProjectListItem, error) {
	var items []ProjectListItem
	err := c.db.WithContext(ctx).
		Model(&Project{}).
		Select(projectListSelect).
		Joins("LEFT JOIN users ON users.id = projects.author_id").
		Where("projects.author_id = ?", authorID).
		Order("projects.created_at DESC").
		Find(&items).Error
	if err != nil {
		log.Error("failed to list projects by author", "error", err)
		return nil, err
	}
	return items, nil
}

// UpdateProject updates the user-editable fields of a project.
func (c *Client) UpdateProject(ctx context.Context, id uint, updates map[string]any) error {
	if err := c.db.WithContext(ctx).Model(&Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		log.Error("failed to update project", "error", err)
		return err
	}
	return nil
}

// DeleteProject removes a project and its likes.
func (c *Client) DeleteProject(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&Like{}).Error; err != nil {
			log.Error("failed to delete project likes", "error", err)
			return err
		}
		if err := tx.Delete(&Project{}, id).Error; err != nil {
			log.Error("failed to delete project", "error", err)
			return err
		}
		return nil
	})
}
