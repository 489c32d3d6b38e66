package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/yatube/models"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, db, " leo ", "leo@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "leo", user.Username)

	_, err = CreateUser(ctx, db, "leo", "", "hash")
	assert.ErrorIs(t, err, ErrConstraintViolation)

	_, err = CreateUser(ctx, db, "a", "", "hash")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateUser(ctx, db, "has space", "", "hash")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateUser(ctx, db, "mail", "not-an-email", "hash")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	leo := mustUser(t, db, "leo")
	ann := mustUser(t, db, "ann")

	leoPost := seedPost(t, db, leo.ID, nil, "by leo", time.Now())
	annPost := seedPost(t, db, ann.ID, nil, "by ann", time.Now())
	_, err := AddComment(ctx, db, leoPost.ID, ann.ID, "ann on leo")
	require.NoError(t, err)
	_, err = AddComment(ctx, db, annPost.ID, leo.ID, "leo on ann")
	require.NoError(t, err)
	_, err = AddComment(ctx, db, annPost.ID, ann.ID, "ann on ann")
	require.NoError(t, err)
	require.NoError(t, Follow(ctx, db, leo.ID, ann.ID))
	require.NoError(t, Follow(ctx, db, ann.ID, leo.ID))

	require.NoError(t, DeleteUser(ctx, db, leo.ID))

	assert.EqualValues(t, 0, countRows(t, db, &models.User{}, "id = ?", leo.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.Post{}, "author_id = ?", leo.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.Follow{}, ""))
	assert.EqualValues(t, 1, countRows(t, db, &models.Comment{}, ""))
	assert.EqualValues(t, 1, countRows(t, db, &models.Post{}, ""))

	err = DeleteUser(ctx, db, leo.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	leo := mustUser(t, db, "leo")
	ann := mustUser(t, db, "ann")
	mustGroup(t, db, "cats")
	post := seedPost(t, db, leo.ID, nil, "p", time.Now())
	_, err := AddComment(ctx, db, post.ID, ann.ID, "c")
	require.NoError(t, err)
	require.NoError(t, Follow(ctx, db, ann.ID, leo.ID))

	stats, err := CountAll(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 2, Posts: 1, Groups: 1, Comments: 1, Follows: 1}, stats)
}
