package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/yatube/models"
)

func TestCreateGroup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	group, err := CreateGroup(ctx, db, GroupInput{Title: "Cats", Slug: "cats", Description: "all about cats"})
	require.NoError(t, err)
	assert.Equal(t, "cats", group.Slug)

	_, err = CreateGroup(ctx, db, GroupInput{Title: "More cats", Slug: "cats"})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	_, err = CreateGroup(ctx, db, GroupInput{Title: "Bad", Slug: "no spaces"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateGroup(ctx, db, GroupInput{Slug: "untitled"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListGroups(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	for _, in := range []GroupInput{{Title: "Zebras", Slug: "z"}, {Title: "Ants", Slug: "a"}} {
		_, err := CreateGroup(ctx, db, in)
		require.NoError(t, err)
	}

	groups, err := ListGroups(ctx, db)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Ants", groups[0].Title)
	assert.Equal(t, "Zebras", groups[1].Title)
}

func TestDeleteGroup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	leo := mustUser(t, db, "leo")
	cats := mustGroup(t, db, "cats")
	post := seedPost(t, db, leo.ID, &cats.ID, "cat post", time.Now())

	require.NoError(t, DeleteGroup(ctx, db, "cats"))

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Nil(t, stored.GroupID)
	assert.EqualValues(t, 0, countRows(t, db, &models.Group{}, ""))

	assert.ErrorIs(t, DeleteGroup(ctx, db, "cats"), ErrNotFound)
}
