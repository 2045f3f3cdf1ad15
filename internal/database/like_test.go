package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	author := seedGhost(t, c, "g1", "alice")
	project := seedProject(t, c, author.ID, "demo")
	user := &User{ID: "u1", Username: "bob", Claimed: true}
	require.NoError(t, c.db.Create(user).Error)

	liked, count, err := c.ToggleLike(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, count)

	// Toggling again removes the like
	liked, count, err = c.ToggleLike(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 0, count)

	// And a re-like works, the unique index slot was freed
	liked, count, err = c.ToggleLike(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, count)
}

func TestToggleLike_CountsAcrossUsers(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	author := seedGhost(t, c, "g1", "alice")
	project := seedProject(t, c, author.ID, "demo")
	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, c.db.Create(&User{ID: id, Username: "user-" + id, Claimed: true}).Error)
	}

	for _, id := range []string{"u1", "u2", "u3"} {
		_, _, err := c.ToggleLike(ctx, id, project.ID)
		require.NoError(t, err)
	}

	count, err := c.CountLikes(ctx, project.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestLikedProjectIDs(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	author := seedGhost(t, c, "g1", "alice")
	p1 := seedProject(t, c, author.ID, "one")
	p2 := seedProject(t, c, author.ID, "two")
	user := &User{ID: "u1", Username: "bob", Claimed: true}
	require.NoError(t, c.db.Create(user).Error)
	seedLike(t, c, user.ID, p1.ID)

	liked, err := c.LikedProjectIDs(ctx, user.ID, []uint{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.True(t, liked[p1.ID])
	assert.False(t, liked[p2.ID])

	// Anonymous viewers have liked nothing
	liked, err = c.LikedProjectIDs(ctx, "", []uint{p1.ID})
	require.NoError(t, err)
	assert.Empty(t, liked)
}
