package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix  = "user:%d"
	postKeyPrefix  = "post:%d"
	postsFirstPage = "posts:index:first"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 30 * time.Minute
	PostIndexTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// PostIndexKey is the cache key for the first page of the public post index.
// Only the hottest page is cached; deeper pages always hit the database.
func PostIndexKey() string {
	return postsFirstPage
}

func Invalidate(ctx context.Context, keys ...string) {
	if client == nil {
		return
	}
	client.Del(ctx, keys...)
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID), PostIndexKey())
}

func InvalidatePostIndex(ctx context.Context) {
	Invalidate(ctx, PostIndexKey())
}
