package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/portfolio/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user whose password is hashed with the minimum
// bcrypt cost to keep tests fast.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, password, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  string(hash),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateAdmin inserts an admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, password, models.RoleAdmin)
}

// CreateProject inserts a project with empty click stats and a live demo
// and frontend link.
func (f *Fixtures) CreateProject(ctx context.Context, title string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:      primitive.NewObjectID(),
		Title:   title,
		TitleCI: text.Fold(title),
		Slug:    strings.ReplaceAll(text.Fold(title), " ", "-") + "-" + primitive.NewObjectID().Hex()[18:],
		Links: models.ProjectLinks{
			LiveDemo:       "https://example.com/" + title,
			GitHubFrontend: "https://github.com/example/" + title,
		},
		ClickStats: models.EmptyClickStats(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateSettings inserts the site settings document.
func (f *Fixtures) CreateSettings(ctx context.Context, siteName string) models.SiteSettings {
	f.t.Helper()

	s := models.SiteSettings{
		ID:           primitive.NewObjectID(),
		SiteName:     siteName,
		Tagline:      "Building things",
		ContactEmail: "hello@example.com",
		Social:       models.SocialLinks{GitHub: "https://github.com/example"},
	}
	if _, err := f.db.Collection("site_settings").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test settings: %v", err)
	}
	return s
}
