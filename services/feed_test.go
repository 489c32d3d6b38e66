package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalFeed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	leo := mustUser(t, db, "leo")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	oldest := seedPost(t, db, leo.ID, nil, "first", base)
	newest := seedPost(t, db, leo.ID, nil, "third", base.Add(2*time.Minute))
	middle := seedPost(t, db, leo.ID, nil, "second", base.Add(time.Minute))

	t.Run("newest first", func(t *testing.T) {
		feed, err := GlobalFeed(ctx, db, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []uint{newest.ID, middle.ID, oldest.ID}, postIDs(feed.Items))
		assert.Equal(t, 3, feed.Total)
		assert.Equal(t, "leo", feed.Items[0].Author.Username)
	})

	t.Run("ties broken by id", func(t *testing.T) {
		twin := seedPost(t, db, leo.ID, nil, "twin", base.Add(2*time.Minute))
		feed, err := GlobalFeed(ctx, db, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []uint{twin.ID, newest.ID, middle.ID, oldest.ID}, postIDs(feed.Items))
	})

	t.Run("empty store", func(t *testing.T) {
		feed, err := GlobalFeed(ctx, newTestDB(t), 1, 10)
		require.NoError(t, err)
		assert.NotNil(t, feed.Items)
		assert.Empty(t, feed.Items)
		assert.Equal(t, 1, feed.NumPages)
	})
}

func TestGroupFeed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	leo := mustUser(t, db, "leo")
	cats := mustGroup(t, db, "cats")
	dogs := mustGroup(t, db, "dogs")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 13; i++ {
		seedPost(t, db, leo.ID, &cats.ID, fmt.Sprintf("cat %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	seedPost(t, db, leo.ID, &dogs.ID, "dog", base)
	seedPost(t, db, leo.ID, nil, "no group", base)

	first, err := GroupFeed(ctx, db, "cats", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "cats", first.Group.Slug)
	assert.Len(t, first.Posts.Items, 10)
	assert.Equal(t, 13, first.Posts.Total)
	assert.Equal(t, 2, first.Posts.NumPages)
	assert.Equal(t, "cat 12", first.Posts.Items[0].Text)
	for _, p := range first.Posts.Items {
		require.NotNil(t, p.Group)
		assert.Equal(t, cats.ID, p.Group.ID)
	}

	second, err := GroupFeed(ctx, db, "cats", 2, 10)
	require.NoError(t, err)
	assert.Len(t, second.Posts.Items, 3)
	assert.Equal(t, "cat 0", second.Posts.Items[2].Text)

	beyond, err := GroupFeed(ctx, db, "cats", 3, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond.Posts.Items)

	other, err := GroupFeed(ctx, db, "dogs", 1, 10)
	require.NoError(t, err)
	assert.Len(t, other.Posts.Items, 1)

	_, err = GroupFeed(ctx, db, "birds", 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileFeed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	leo := mustUser(t, db, "leo")
	ann := mustUser(t, db, "ann")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, db, leo.ID, nil, "by leo", base)
	seedPost(t, db, ann.ID, nil, "by ann", base)

	view, err := ProfileFeed(ctx, db, "leo", 0, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, leo.ID, view.Author.ID)
	require.Len(t, view.Posts.Items, 1)
	assert.Equal(t, "by leo", view.Posts.Items[0].Text)
	assert.False(t, view.Following)

	view, err = ProfileFeed(ctx, db, "leo", ann.ID, 1, 10)
	require.NoError(t, err)
	assert.False(t, view.Following)

	require.NoError(t, Follow(ctx, db, ann.ID, leo.ID))
	view, err = ProfileFeed(ctx, db, "leo", ann.ID, 1, 10)
	require.NoError(t, err)
	assert.True(t, view.Following)

	// The author following others does not mark the profile as followed.
	view, err = ProfileFeed(ctx, db, "ann", leo.ID, 1, 10)
	require.NoError(t, err)
	assert.False(t, view.Following)

	_, err = ProfileFeed(ctx, db, "nobody", 0, 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollowedFeed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	reader := mustUser(t, db, "reader")
	stranger := mustUser(t, db, "stranger")
	author := mustUser(t, db, "author")
	other := mustUser(t, db, "other")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	empty, err := FollowedFeed(ctx, db, reader.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	require.NoError(t, Follow(ctx, db, reader.ID, author.ID))
	post := seedPost(t, db, author.ID, nil, "news", base)
	seedPost(t, db, other.ID, nil, "unrelated", base.Add(time.Minute))

	feed, err := FollowedFeed(ctx, db, reader.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{post.ID}, postIDs(feed.Items))

	feed, err = FollowedFeed(ctx, db, stranger.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)

	require.NoError(t, Unfollow(ctx, db, reader.ID, author.ID))
	feed, err = FollowedFeed(ctx, db, reader.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
}
