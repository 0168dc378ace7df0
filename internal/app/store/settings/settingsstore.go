// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the site_settings collection.
// The site has a single settings document.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_settings")}
}

// Get returns the site settings, or apierr.ErrSettingsNotFound if they
// have never been saved.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.c.FindOne(ctx, bson.M{}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SiteSettings{}, apierr.ErrSettingsNotFound
	}
	if err != nil {
		return models.SiteSettings{}, err
	}
	return settings, nil
}

// Save writes the settings document, creating it on first use, and returns
// the stored result.
func (s *Store) Save(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error) {
	now := time.Now().UTC()
	if settings.SiteName == "" {
		settings.SiteName = models.DefaultSiteName
	}

	update := bson.M{
		"$set": bson.M{
			"site_name":       settings.SiteName,
			"tagline":         settings.Tagline,
			"about_html":      settings.AboutHTML,
			"contact_email":   settings.ContactEmail,
			"resume_url":      settings.ResumeURL,
			"social":          settings.Social,
			"updated_at":      now,
			"updated_by_id":   settings.UpdatedByID,
			"updated_by_name": settings.UpdatedByName,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var out models.SiteSettings
	if err := s.c.FindOneAndUpdate(ctx, bson.M{}, update, opts).Decode(&out); err != nil {
		return models.SiteSettings{}, err
	}
	return out, nil
}
