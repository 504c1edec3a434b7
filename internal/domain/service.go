package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Category is the fixed set of service kinds the directory knows about.
type Category string

const (
	CategoryLodging    Category = "lodging"
	CategoryAirline    Category = "airline"
	CategoryRideshare  Category = "rideshare"
	CategoryRestaurant Category = "restaurant"
)

// Categories returns all categories in the fixed order used for trending.
func Categories() []Category {
	return []Category{CategoryLodging, CategoryAirline, CategoryRideshare, CategoryRestaurant}
}

func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryLodging, CategoryAirline, CategoryRideshare, CategoryRestaurant:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Service mirrors the catalog wire format exactly; fields the catalog may
// leave out are pointers or omitempty.
type Service struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address,omitempty"`
	Geolocation   string     `json:"geolocation,omitempty"` // "lat,lng"
	Type          Category   `json:"type"`
	Phone         string     `json:"phone,omitempty"`
	Website       string     `json:"website,omitempty"`
	Email         string     `json:"email,omitempty"`
	Description   string     `json:"description,omitempty"`
	UserID        *int64     `json:"user_id,omitempty"` // owning business user
	MainImageURL  *string    `json:"main_image_url,omitempty"`
	ImageURLs     []string   `json:"image_urls,omitempty"`
	AverageRating *float64   `json:"average_rating,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// Rating returns the catalog-supplied average rating, 0 when absent.
func (s Service) Rating() float64 {
	if s.AverageRating == nil {
		return 0
	}
	return *s.AverageRating
}

type Coords struct{ Lat, Lon float64 }

// Coords parses the "lat,lng" geolocation string. Second return is false
// when the field is empty or malformed.
func (s Service) Coords() (Coords, bool) {
	parts := strings.SplitN(s.Geolocation, ",", 2)
	if len(parts) != 2 {
		return Coords{}, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return Coords{}, false
	}
	return Coords{Lat: lat, Lon: lon}, true
}

// ServicesPage is one page of the catalog listing endpoint.
type ServicesPage struct {
	Items []Service `json:"services"`
	Total int       `json:"total"`
}
