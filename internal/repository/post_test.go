package repository

import (
	"context"
	"regexp"
	"testing"

	"quill/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreateSyncsAssociations(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "author@example.com")
	tagA := models.Tag{Name: "go"}
	tagB := models.Tag{Name: "testing"}
	catA := models.Category{Name: "tech"}
	require.NoError(t, db.Create(&tagA).Error)
	require.NoError(t, db.Create(&tagB).Error)
	require.NoError(t, db.Create(&catA).Error)

	post := &models.Post{UserID: user.ID, Title: "a fine title", Description: "a long enough description"}
	require.NoError(t, repo.Create(ctx, post, []uint{tagA.ID, tagB.ID}, []uint{catA.ID}))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 2)
	assert.Len(t, got.Categories, 1)

	// Replace-set semantics: the new set wins, nothing is appended.
	require.NoError(t, repo.Update(ctx, post, []uint{tagB.ID}, nil))
	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "testing", got.Tags[0].Name)
	assert.Empty(t, got.Categories)
}

func TestPostRepository_LikeIsIdempotent(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "liker@example.com")
	post := createPost(t, db, user.ID)

	changed, err := repo.Like(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Like(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 1, got.LikeCount)

	liked, err := repo.IsLiked(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestPostRepository_UnlikeOnlyWhenLiked(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "unliker@example.com")
	post := createPost(t, db, user.ID)

	// Unliking something never liked changes nothing.
	changed, err := repo.Unlike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = repo.Like(ctx, user.ID, post.ID)
	require.NoError(t, err)

	changed, err = repo.Unlike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 0, got.LikeCount)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "owner@example.com")
	fan := createUser(t, db, "fan@example.com")
	tag := models.Tag{Name: "doomed"}
	require.NoError(t, db.Create(&tag).Error)

	post := &models.Post{UserID: author.ID, Title: "a fine title", Description: "a long enough description"}
	require.NoError(t, repo.Create(ctx, post, []uint{tag.ID}, nil))

	comment := createComment(t, db, fan.ID, post.ID, models.RootParentID)
	_, err := repo.Like(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Like{
		UserID: fan.ID, LikableType: models.LikeComment, LikableID: comment.ID,
	}).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	var posts, comments, likes, joins int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.Like{}).Count(&likes).Error)
	require.NoError(t, db.Table("post_tags").Count(&joins).Error)
	assert.Zero(t, posts)
	assert.Zero(t, comments)
	assert.Zero(t, likes)
	assert.Zero(t, joins)

	// The tag itself survives.
	var tags int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(1), tags)
}

func TestPostRepository_CommentCountDecrementGuard(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "counts@example.com")
	post := createPost(t, db, user.ID)

	require.NoError(t, repo.IncrementCommentCount(ctx, post.ID, 2))

	require.NoError(t, repo.DecrementCommentCount(ctx, post.ID, 1))
	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 1, got.CommentCount)

	// A decrement that would land on zero is skipped.
	require.NoError(t, repo.DecrementCommentCount(ctx, post.ID, 1))
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 1, got.CommentCount)
}

func TestPostRepository_ListLikedByUserOrdersByLikeRecency(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "writer@example.com")
	reader := createUser(t, db, "reader@example.com")
	first := createPost(t, db, author.ID)
	second := createPost(t, db, author.ID)

	// Like the older post last; it must come back first.
	_, err := repo.Like(ctx, reader.ID, second.ID)
	require.NoError(t, err)
	_, err = repo.Like(ctx, reader.ID, first.ID)
	require.NoError(t, err)

	page, err := repo.ListLikedByUser(ctx, reader.ID, "/api/user/1/liked-posts", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, first.ID, page.Data[0].ID)
	assert.Equal(t, second.ID, page.Data[1].ID)
}

func TestPostRepository_DecrementCommentCountSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE "posts" SET "comment_count"=comment_count - $1 WHERE id = $2 AND comment_count - $3 > 0`,
	)).WithArgs(2, 7, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DecrementCommentCount(ctx, 7, 2)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
