// Package boarding holds the boarding and dropping points served in each
// city. The booking workflow accepts any point name; the directory exists for
// callers building a booking request.
package boarding

import (
	"sort"
	"strings"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/config"
)

// Point is a named pickup or drop-off location.
type Point struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Time    string `json:"time,omitempty"`
}

// Directory looks up points by city. Unknown cities yield an empty list.
type Directory interface {
	BoardingPoints(city string) []Point
	DroppingPoints(city string) []Point
}

type cityPoints struct {
	city     string
	boarding []Point
	dropping []Point
}

// StaticDirectory is an immutable Directory. City lookup ignores case.
type StaticDirectory struct {
	cities map[string]cityPoints
}

// NewStaticDirectory builds a directory from per-city points.
func NewStaticDirectory(boarding, dropping map[string][]Point) *StaticDirectory {
	d := &StaticDirectory{cities: make(map[string]cityPoints)}
	for city, pts := range boarding {
		cp := d.entry(city)
		cp.boarding = append([]Point(nil), pts...)
		d.cities[key(city)] = cp
	}
	for city, pts := range dropping {
		cp := d.entry(city)
		cp.dropping = append([]Point(nil), pts...)
		d.cities[key(city)] = cp
	}
	return d
}

// FromConfig returns the configured directory, or Default when none is
// configured.
func FromConfig(cities map[string]config.CityPoints) *StaticDirectory {
	if len(cities) == 0 {
		return Default()
	}
	boarding := make(map[string][]Point, len(cities))
	dropping := make(map[string][]Point, len(cities))
	for city, cp := range cities {
		boarding[city] = named(city, cp.Boarding)
		dropping[city] = named(city, cp.Dropping)
	}
	return NewStaticDirectory(boarding, dropping)
}

func (d *StaticDirectory) BoardingPoints(city string) []Point {
	return append([]Point{}, d.cities[key(city)].boarding...)
}

func (d *StaticDirectory) DroppingPoints(city string) []Point {
	return append([]Point{}, d.cities[key(city)].dropping...)
}

// Cities returns the known city names in sorted order.
func (d *StaticDirectory) Cities() []string {
	out := make([]string, 0, len(d.cities))
	for _, cp := range d.cities {
		out = append(out, cp.city)
	}
	sort.Strings(out)
	return out
}

func (d *StaticDirectory) entry(city string) cityPoints {
	if cp, ok := d.cities[key(city)]; ok {
		return cp
	}
	return cityPoints{city: strings.TrimSpace(city)}
}

func key(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func named(city string, names []string) []Point {
	out := make([]Point, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, Point{Name: n, Address: n + ", " + city})
		}
	}
	return out
}
