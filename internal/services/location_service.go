package services

import (
	"context"
	"math"
	"strings"

	"anynow/internal/domain"
	"anynow/internal/storage"
)

type City struct {
	Name string  `json:"name"`
	Area string  `json:"area"`
	Lat  float64 `json:"-"`
	Lon  float64 `json:"-"`
}

// Cities is the delivery coverage list. Only the first entries carry
// coordinates for nearest-city lookup.
var Cities = []City{
	{"Mumbai", "400001", 19.0760, 72.8777},
	{"Delhi", "110001", 28.6139, 77.2090},
	{"Bangalore", "560001", 12.9716, 77.5946},
	{"Chennai", "600001", 13.0827, 80.2707},
	{"Kolkata", "700001", 22.5726, 88.3639},
	{"Hyderabad", "500001", 17.3850, 78.4867},
	{"Pune", "411001", 18.5204, 73.8567},
	{"Ahmedabad", "380001", 23.0225, 72.5714},
	{"Jaipur", "302001", 0, 0},
	{"Lucknow", "226001", 0, 0},
	{"Kanpur", "208001", 0, 0},
	{"Nagpur", "440001", 0, 0},
	{"Indore", "452001", 0, 0},
	{"Thane", "400601", 0, 0},
	{"Bhopal", "462001", 0, 0},
	{"Visakhapatnam", "530001", 0, 0},
	{"Patna", "800001", 0, 0},
	{"Vadodara", "390001", 0, 0},
	{"Agra", "282001", 0, 0},
	{"Nashik", "422001", 0, 0},
}

var DefaultLocation = domain.Location{City: "Mumbai", Area: "400001"}

type LocationService struct {
	Store *storage.Store
}

func NewLocationService(store *storage.Store) *LocationService { return &LocationService{Store: store} }

func locationKey(sid string) string { return "location_" + sid }

// Search matches q case-insensitively against city names. An empty query
// matches nothing.
func (s *LocationService) Search(q string) []City {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []City{}
	if q == "" {
		return out
	}
	for _, c := range Cities {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

// Nearest picks the closest city that has coordinates.
func Nearest(lat, lon float64) City {
	best, dist := Cities[0], math.Inf(1)
	for _, c := range Cities {
		if c.Lat == 0 && c.Lon == 0 {
			continue
		}
		if d := math.Hypot(lat-c.Lat, lon-c.Lon); d < dist {
			best, dist = c, d
		}
	}
	return best
}

func (s *LocationService) Get(ctx context.Context, sid string) domain.Location {
	var loc domain.Location
	if found, err := s.Store.Load(ctx, locationKey(sid), &loc); err != nil || !found || loc.City == "" {
		return DefaultLocation
	}
	return loc
}

func (s *LocationService) Set(ctx context.Context, sid string, loc domain.Location) (domain.Location, error) {
	loc.City = strings.TrimSpace(loc.City)
	loc.Area = strings.TrimSpace(loc.Area)
	if loc.City == "" || len(loc.City) > 60 || len(loc.Area) > 60 {
		return domain.Location{}, invalid("choose a city")
	}
	if loc.Area == "" {
		for _, c := range Cities {
			if strings.EqualFold(c.Name, loc.City) {
				loc.Area = c.Area
				break
			}
		}
	}
	if err := s.Store.Save(ctx, locationKey(sid), loc); err != nil {
		return domain.Location{}, err
	}
	return loc, nil
}
