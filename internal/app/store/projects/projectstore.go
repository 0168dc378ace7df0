// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/portfolio/internal/app/system/apierr"
	"github.com/dalemusser/portfolio/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateSlug is returned when a project slug is already taken.
var ErrDuplicateSlug = errors.New("a project with this slug already exists")

// Store provides access to the projects collection and its embedded click
// analytics.
type Store struct {
	c *mongo.Collection
}

// New creates a new project store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// listOrder puts featured projects first, then the manual order.
var listOrder = bson.D{
	{Key: "featured", Value: -1},
	{Key: "order", Value: 1},
	{Key: "title_ci", Value: 1},
}

// Create inserts a project with zeroed click analytics. A blank slug is
// derived from the title.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	p.Title = strings.TrimSpace(p.Title)
	p.TitleCI = text.Fold(p.Title)
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	p.ClickStats = models.EmptyClickStats()

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) || mongo.IsDuplicateKeyError(err) {
			return models.Project{}, ErrDuplicateSlug
		}
		return models.Project{}, err
	}
	return p, nil
}

// Slugify lowercases, folds diacritics, and joins words with hyphens.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range text.Fold(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// List returns every project in display order, without click analytics.
func (s *Store) List(ctx context.Context) ([]models.Project, error) {
	opts := options.Find().
		SetSort(listOrder).
		SetProjection(bson.M{"click_stats": 0})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Project{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordClick appends ev to the category window and bumps the category and
// total counters in a single atomic update. The window keeps only the most
// recent MaxRetainedClicks events; counts are never trimmed.
//
// Concurrent calls on the same project need no coordination here: the
// server applies $inc and $push/$slice atomically per document.
func (s *Store) RecordClick(ctx context.Context, id primitive.ObjectID, lt models.LinkType, ev models.ClickEvent) error {
	field := lt.Field()
	if field == "" {
		return fmt.Errorf("unknown link type %q", lt)
	}
	base := "click_stats." + field

	update := bson.M{
		"$inc": bson.M{
			base + ".count":            1,
			"click_stats.total_clicks": 1,
		},
		"$push": bson.M{
			base + ".clicks": bson.M{
				"$each":  []models.ClickEvent{ev},
				"$slice": -models.MaxRetainedClicks,
			},
		},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	if res.MatchedCount == 0 {
		return apierr.ErrProjectNotFound
	}
	return nil
}

// ClickStats returns the counters of a project plus, per category, its
// most recent events (at most recent, newest first). The window is cut on
// the server so the full history never leaves the database.
func (s *Store) ClickStats(ctx context.Context, id primitive.ObjectID, recent int) (*models.ClickStats, error) {
	proj := bson.M{"click_stats.total_clicks": 1}
	for _, lt := range models.LinkTypes {
		base := "click_stats." + lt.Field()
		proj[base+".count"] = 1
		proj[base+".clicks"] = bson.M{"$slice": -recent}
	}

	var doc struct {
		ClickStats models.ClickStats `bson:"click_stats"`
	}
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(proj)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apierr.ErrProjectNotFound
		}
		return nil, err
	}

	stats := doc.ClickStats
	for _, lt := range models.LinkTypes {
		lc := stats.For(lt)
		if lc.Clicks == nil {
			lc.Clicks = []models.ClickEvent{}
		}
		reverse(lc.Clicks)
	}
	return &stats, nil
}

func reverse(evs []models.ClickEvent) {
	for i, j := 0, len(evs)-1; i < j; i, j = i+1, j-1 {
		evs[i], evs[j] = evs[j], evs[i]
	}
}

// ClickSummary is the per-project counter view used by the admin dashboard.
type ClickSummary struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Slug           string             `bson:"slug" json:"slug"`
	LiveDemo       int                `bson:"live_demo" json:"liveDemo"`
	GitHubFrontend int                `bson:"github_frontend" json:"githubFrontend"`
	GitHubBackend  int                `bson:"github_backend" json:"githubBackend"`
	GitHubMobile   int                `bson:"github_mobile" json:"githubMobile"`
	TotalClicks    int                `bson:"total_clicks" json:"totalClicks"`
}

// Summary returns click counters for every project, most clicked first.
// Event windows are not loaded.
func (s *Store) Summary(ctx context.Context) ([]ClickSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"title":           1,
			"slug":            1,
			"live_demo":       bson.M{"$ifNull": bson.A{"$click_stats.live_demo.count", 0}},
			"github_frontend": bson.M{"$ifNull": bson.A{"$click_stats.github_frontend.count", 0}},
			"github_backend":  bson.M{"$ifNull": bson.A{"$click_stats.github_backend.count", 0}},
			"github_mobile":   bson.M{"$ifNull": bson.A{"$click_stats.github_mobile.count", 0}},
			"total_clicks":    bson.M{"$ifNull": bson.A{"$click_stats.total_clicks", 0}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_clicks", Value: -1}, {Key: "title", Value: 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []ClickSummary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of projects.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
