// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. All seeded users share
// the password "password123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:            gofakeit.Name(),
		Email:           gofakeit.Email(),
		Password:        string(hashed),
		Type:            models.TypeUser,
		ProfileImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a category, optionally below a parent.
func (f *Factory) CreateCategory(parentID uint) (*models.Category, error) {
	category := &models.Category{
		Name:     fmt.Sprintf("%s %s", gofakeit.BuzzWord(), gofakeit.NounAbstract()),
		ParentID: parentID,
	}
	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateTag persists a tag with a unique-ish hyphenated name.
func (f *Factory) CreateTag() (*models.Tag, error) {
	tag := &models.Tag{
		Name: fmt.Sprintf("%s-%d", strings.ToLower(gofakeit.HackerNoun()), gofakeit.Number(10, 9999)),
	}
	if err := f.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// CreatePost persists a post for the given author and attaches the given
// taxonomy rows. CreatedAt is spread over the last 90 days.
func (f *Factory) CreatePost(user *models.User, tags []models.Tag, categories []models.Category) (*models.Post, error) {
	post := &models.Post{
		UserID:      user.ID,
		Title:       gofakeit.Sentence(f.rand.Intn(5) + 5),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		CreatedAt: time.Now().
			Add(-time.Duration(f.rand.Intn(90*24)) * time.Hour).
			Add(-time.Duration(f.rand.Intn(60)) * time.Minute),
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := f.db.Model(post).Association("Tags").Append(&tags); err != nil {
			return nil, err
		}
	}
	if len(categories) > 0 {
		if err := f.db.Model(post).Association("Categories").Append(&categories); err != nil {
			return nil, err
		}
	}
	return post, nil
}

// CreateComment persists a comment and bumps the post counter, the same
// two steps the API performs.
func (f *Factory) CreateComment(user *models.User, post *models.Post, parentID uint) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:   user.ID,
		PostID:   post.ID,
		ParentID: parentID,
		Text:     gofakeit.Sentence(f.rand.Intn(10) + 3),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	err := f.db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records a like and bumps the counter when the row is new.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{
		UserID:      user.ID,
		LikableType: models.LikePost,
		LikableID:   post.ID,
	}
	res := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return f.db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error
}
