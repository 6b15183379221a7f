package seed

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"quill/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RootAdminEmail is the development admin account ensured by EnsureRootAdmin.
const RootAdminEmail = "admin@quill.local"

// Options controls how much data Seed generates.
type Options struct {
	Users      int
	Posts      int
	Categories int
	Tags       int
}

// DefaultOptions mirrors a small but lively development dataset.
func DefaultOptions() Options {
	return Options{Users: 25, Posts: 60, Categories: 8, Tags: 15}
}

// Seeder populates the database with generated content.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rand    *rand.Rand
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seedable data. Join and child tables go first.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"likes", "comments", "post_tags", "post_categories",
		"posts", "tags", "categories", "password_resets", "auth_tokens", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// EnsureRootAdmin creates the development admin account if it does not exist.
// Idempotent.
func EnsureRootAdmin(db *gorm.DB) (*models.User, error) {
	var admin models.User
	err := db.Where("email = ?", RootAdminEmail).First(&admin).Error
	if err == nil {
		return &admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin = models.User{
		Name:     "Quill Admin",
		Email:    RootAdminEmail,
		Password: string(hashed),
		Type:     models.TypeAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}
	log.Printf("Created root admin %s", RootAdminEmail)
	return &admin, nil
}

// Seed generates users, a category tree, tags, posts with taxonomy links,
// threaded comments and likes. Counters end up consistent with the rows.
func (s *Seeder) Seed(opts Options) error {
	if _, err := EnsureRootAdmin(s.db); err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	categories := make([]models.Category, 0, opts.Categories)
	for i := 0; i < opts.Categories; i++ {
		parentID := models.RootParentID
		// Roughly a third of categories nest below an earlier one.
		if len(categories) > 0 && s.rand.Intn(3) == 0 {
			parentID = categories[s.rand.Intn(len(categories))].ID
		}
		category, err := s.factory.CreateCategory(parentID)
		if err != nil {
			return err
		}
		categories = append(categories, *category)
	}

	tags := make([]models.Tag, 0, opts.Tags)
	for i := 0; i < opts.Tags; i++ {
		tag, err := s.factory.CreateTag()
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}
	log.Printf("Created %d categories, %d tags", len(categories), len(tags))

	posts := make([]*models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		author := users[s.rand.Intn(len(users))]
		post, err := s.factory.CreatePost(author, s.pickTags(tags), s.pickCategories(categories))
		if err != nil {
			return err
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))

	var comments, likes int
	for _, post := range posts {
		roots := make([]uint, 0, 4)
		for i := 0; i < s.rand.Intn(5); i++ {
			commenter := users[s.rand.Intn(len(users))]
			comment, err := s.factory.CreateComment(commenter, post, models.RootParentID)
			if err != nil {
				return err
			}
			roots = append(roots, comment.ID)
			comments++
		}
		for _, rootID := range roots {
			if s.rand.Intn(2) == 0 {
				continue
			}
			replier := users[s.rand.Intn(len(users))]
			if _, err := s.factory.CreateComment(replier, post, rootID); err != nil {
				return err
			}
			comments++
		}

		for i := 0; i < s.rand.Intn(len(users)/2+1); i++ {
			liker := users[s.rand.Intn(len(users))]
			if err := s.factory.CreateLike(liker, post); err != nil {
				return err
			}
			likes++
		}
	}
	log.Printf("Created %d comments and %d like attempts", comments, likes)

	return nil
}

func (s *Seeder) pickTags(tags []models.Tag) []models.Tag {
	if len(tags) == 0 {
		return nil
	}
	n := s.rand.Intn(3) + 1
	picked := make([]models.Tag, 0, n)
	for _, i := range s.rand.Perm(len(tags))[:min(n, len(tags))] {
		picked = append(picked, tags[i])
	}
	return picked
}

func (s *Seeder) pickCategories(categories []models.Category) []models.Category {
	if len(categories) == 0 {
		return nil
	}
	n := s.rand.Intn(2) + 1
	picked := make([]models.Category, 0, n)
	for _, i := range s.rand.Perm(len(categories))[:min(n, len(categories))] {
		picked = append(picked, categories[i])
	}
	return picked
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
