// internal/domain/models/sitesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteSettings holds the global, admin-editable settings of the portfolio.
// There is a single settings document for the whole site.
type SiteSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	// Display settings
	SiteName string `bson:"site_name" json:"site_name"`
	Tagline  string `bson:"tagline,omitempty" json:"tagline,omitempty"`

	// About section. Sanitized before it is stored.
	AboutHTML string `bson:"about_html,omitempty" json:"about_html,omitempty"`

	ContactEmail string      `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	ResumeURL    string      `bson:"resume_url,omitempty" json:"resume_url,omitempty"`
	Social       SocialLinks `bson:"social" json:"social"`

	// Audit fields
	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// SocialLinks are the outbound profile links shown in the footer.
type SocialLinks struct {
	GitHub   string `bson:"github,omitempty" json:"github,omitempty"`
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter  string `bson:"twitter,omitempty" json:"twitter,omitempty"`
}

// DefaultSiteName is used when an update leaves the site name blank.
const DefaultSiteName = "Portfolio"
