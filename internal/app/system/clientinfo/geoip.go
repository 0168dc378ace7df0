package clientinfo

import (
	"fmt"
	"net"

	"github.com/dalemusser/portfolio/internal/domain/models"
	"github.com/oschwald/geoip2-golang"
)

// GeoIP resolves locations from a MaxMind City database (GeoLite2-City or
// GeoIP2-City).
type GeoIP struct {
	db *geoip2.Reader
}

// OpenGeoIP opens the database at path.
func OpenGeoIP(path string) (*GeoIP, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %q: %w", path, err)
	}
	return &GeoIP{db: db}, nil
}

// Locate implements Locator with English place names.
func (g *GeoIP) Locate(ip net.IP) (models.Location, error) {
	rec, err := g.db.City(ip)
	if err != nil {
		return models.Location{}, err
	}
	loc := models.Location{
		Country: rec.Country.IsoCode,
		City:    rec.City.Names["en"],
	}
	if len(rec.Subdivisions) > 0 {
		loc.Region = rec.Subdivisions[0].Names["en"]
	}
	return loc, nil
}

// Close releases the database.
func (g *GeoIP) Close() error {
	return g.db.Close()
}

// NoLocation is the Locator used when no database is configured.
type NoLocation struct{}

func (NoLocation) Locate(net.IP) (models.Location, error) {
	return models.Location{}, nil
}
