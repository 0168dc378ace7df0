package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	Users            int64 `json:"users"`
	Projects         int64 `json:"projects"`
	FeaturedProjects int64 `json:"featuredProjects"`
	TotalClicks      int64 `json:"totalClicks"`
}

// FetchDashboardCounts returns the high-level counts used by the dashboard.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{}); err == nil {
		out.Users = n
	}

	projects := db.Collection("projects")
	if n, err := projects.CountDocuments(ctx, bson.M{}); err == nil {
		out.Projects = n
	}
	if n, err := projects.CountDocuments(ctx, bson.M{"featured": true}); err == nil {
		out.FeaturedProjects = n
	}

	// clicks across all projects
	cur, err := projects.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$click_stats.total_clicks", 0}}},
		}}},
	})
	if err == nil {
		defer cur.Close(ctx)
		var rows []struct {
			Total int64 `bson:"total"`
		}
		if err := cur.All(ctx, &rows); err == nil && len(rows) == 1 {
			out.TotalClicks = rows[0].Total
		}
	}

	return out
}
