package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}

func seedGhost(t *testing.T, c *Client, id, username string) *User {
	t.Helper()
	ghost := &User{
		ID:        id,
		Username:  username,
		AvatarURL: "https://example.com/" + username + ".png",
		Bio:       "built things before signing up",
		Claimed:   false,
	}
	require.NoError(t, c.db.Create(ghost).Error)
	return ghost
}

func seedProject(t *testing.T, c *Client, authorID, title string) *Project {
	t.Helper()
	project := &Project{
		Title:    title,
		Link:     "https://example.com/" + title,
		AuthorID: authorID,
	}
	require.NoError(t, c.db.Create(project).Error)
	return project
}

func seedLike(t *testing.T, c *Client, userID string, projectID uint) *Like {
	t.Helper()
	like := &Like{UserID: userID, ProjectID: projectID}
	require.NoError(t, c.db.Create(like).Error)
	return like
}

func TestClaimProfile_FreshAccountTakesGhostIdentity(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ghost := seedGhost(t, c, "g1", "alice")
	other := seedGhost(t, c, "g2", "someoneelse")
	p1 := seedProject(t, c, ghost.ID, "p1")
	p9 := seedProject(t, c, other.ID, "p9")
	seedLike(t, c, ghost.ID, p9.ID)

	merged, err := c.ClaimProfile(ctx, ghost.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, merged)

	// The principal literally became the former ghost
	account, err := c.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, ghost.AvatarURL, account.AvatarURL)
	assert.Equal(t, ghost.Bio, account.Bio)
	assert.True(t, account.Claimed)
	assert.Equal(t, "alice", merged.Username)

	// All projects moved over
	var project Project
	require.NoError(t, c.db.First(&project, p1.ID).Error)
	assert.Equal(t, "u1", project.AuthorID)

	// The like moved over
	var likes []Like
	require.NoError(t, c.db.Where("project_id = ?", p9.ID).Find(&likes).Error)
	require.Len(t, likes, 1)
	assert.Equal(t, "u1", likes[0].UserID)

	// The ghost's original ID no longer exists
	_, err = c.GetUserByID(ctx, ghost.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// The username changed hands without ever violating its unique index:
	// exactly one row holds it after the takeover
	var holders int64
	require.NoError(t, c.db.Model(&User{}).Where("username = ?", "alice").Count(&holders).Error)
	assert.EqualValues(t, 1, holders)
}

func TestClaimProfile_MergeIntoExistingAccount(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ghost := seedGhost(t, c, "g1", "alice")
	bob := &User{ID: "u2", Username: "bob", Claimed: true}
	require.NoError(t, c.db.Create(bob).Error)

	p1 := seedProject(t, c, ghost.ID, "p1")
	p9 := seedProject(t, c, "u2", "p9")
	seedLike(t, c, ghost.ID, p9.ID)
	seedLike(t, c, bob.ID, p9.ID)

	merged, err := c.ClaimProfile(ctx, ghost.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, merged)

	// The pre-existing account keeps its identity, the ghost's username is abandoned
	assert.Equal(t, "bob", merged.Username)
	_, err = c.GetUserByUsername(ctx, "alice")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	account, err := c.GetUserByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "bob", account.Username)

	// The duplicate like was deleted, exactly one (u2, p9) like survives
	var likes []Like
	require.NoError(t, c.db.Where("project_id = ?", p9.ID).Find(&likes).Error)
	require.Len(t, likes, 1)
	assert.Equal(t, "u2", likes[0].UserID)

	var project Project
	require.NoError(t, c.db.First(&project, p1.ID).Error)
	assert.Equal(t, "u2", project.AuthorID)

	_, err = c.GetUserByID(ctx, ghost.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestClaimProfile_MixedLikesMoveOrCollapse(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ghost := seedGhost(t, c, "g1", "alice")
	bob := &User{ID: "u2", Username: "bob", Claimed: true}
	require.NoError(t, c.db.Create(bob).Error)

	p1 := seedProject(t, c, "u2", "p1")
	p2 := seedProject(t, c, "u2", "p2")
	seedLike(t, c, ghost.ID, p1.ID)
	seedLike(t, c, ghost.ID, p2.ID)
	seedLike(t, c, bob.ID, p1.ID) // overlap on p1 only

	merged, err := c.ClaimProfile(ctx, ghost.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, merged)

	count, err := c.CountLikes(ctx, p1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	var like Like
	require.NoError(t, c.db.Where("project_id = ?", p2.ID).First(&like).Error)
	assert.Equal(t, "u2", like.UserID)
}

func TestClaimProfile_AlreadyClaimedIsNoop(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	claimed := &User{ID: "g1", Username: "alice", Claimed: true}
	require.NoError(t, c.db.Create(claimed).Error)
	p1 := seedProject(t, c, claimed.ID, "p1")
	seedLike(t, c, claimed.ID, p1.ID)

	merged, err := c.ClaimProfile(ctx, claimed.ID, "u1")
	require.NoError(t, err)
	assert.Nil(t, merged)

	// Nothing changed
	account, err := c.GetUserByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)

	var project Project
	require.NoError(t, c.db.First(&project, p1.ID).Error)
	assert.Equal(t, "g1", project.AuthorID)

	_, err = c.GetUserByID(ctx, "u1")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestClaimProfile_MissingGhostIsNoop(t *testing.T) {
	c := newTestClient(t)

	merged, err := c.ClaimProfile(context.Background(), "does-not-exist", "u1")
	require.NoError(t, err)
	assert.Nil(t, merged)
}

func TestClaimProfile_OwnAccountIsNoop(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ghost := seedGhost(t, c, "g1", "alice")

	merged, err := c.ClaimProfile(ctx, ghost.ID, ghost.ID)
	require.NoError(t, err)
	assert.Nil(t, merged)

	_, err = c.GetUserByID(ctx, ghost.ID)
	require.NoError(t, err)
}

func TestClaimProfile_SecondClaimLosesRace(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ghost := seedGhost(t, c, "g1", "alice")
	p1 := seedProject(t, c, ghost.ID, "p1")

	first, err := c.ClaimProfile(ctx, ghost.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, first)

	// The second claim re-checks inside its transaction, finds the ghost
	// gone and becomes a no-op.
	second, err := c.ClaimProfile(ctx, ghost.ID, "u2")
	require.NoError(t, err)
	assert.Nil(t, second)

	var project Project
	require.NoError(t, c.db.First(&project, p1.ID).Error)
	assert.Equal(t, "u1", project.AuthorID)

	_, err = c.GetUserByID(ctx, "u2")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
