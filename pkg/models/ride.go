package models

import (
	"sort"
	"strings"
	"time"

	"rideshare/pkg/apperrors"
)

type Luggage struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

type Features struct {
	InstantBook bool `json:"instantBook"`
	Wifi        bool `json:"wifi"`
	Music       bool `json:"music"`
	Pets        bool `json:"pets"`
	Smoking     bool `json:"smoking"`
	WinterTires bool `json:"winterTires"`
}

type Ride struct {
	ID             string    `json:"id"`
	DriverID       string    `json:"driverId"`
	Driver         *User     `json:"driver,omitempty"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	Stops          []string  `json:"stops"`
	DepartureTime  time.Time `json:"departureTime"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	Price          int       `json:"price"`
	Currency       string    `json:"currency"`
	TotalSeats     int       `json:"totalSeats"`
	SeatsAvailable int       `json:"seatsAvailable"`
	Luggage        Luggage   `json:"luggage"`
	Features       Features  `json:"features"`
	DistanceKm     float64   `json:"distanceKm"`
	Description    string    `json:"description,omitempty"`
}

// Validate checks required fields and the seat and time invariants.
func (r *Ride) Validate() error {
	switch {
	case strings.TrimSpace(r.Origin) == "":
		return apperrors.Validation("origin is required")
	case strings.TrimSpace(r.Destination) == "":
		return apperrors.Validation("destination is required")
	case r.DepartureTime.IsZero() || r.ArrivalTime.IsZero():
		return apperrors.Validation("departure and arrival times are required")
	case !r.ArrivalTime.After(r.DepartureTime):
		return apperrors.Validation("arrival must be after departure")
	case r.Price <= 0:
		return apperrors.Validation("price must be positive")
	case r.TotalSeats <= 0:
		return apperrors.Validation("total seats must be positive")
	case r.SeatsAvailable < 0 || r.SeatsAvailable > r.TotalSeats:
		return apperrors.Validation("seats available must be between 0 and %d", r.TotalSeats)
	case r.Luggage.Small < 0 || r.Luggage.Medium < 0 || r.Luggage.Large < 0:
		return apperrors.Validation("luggage capacity cannot be negative")
	case r.DistanceKm < 0:
		return apperrors.Validation("distance cannot be negative")
	}
	return nil
}

// Bookable reports whether the ride has not departed yet.
func (r *Ride) Bookable(now time.Time) bool {
	return r.DepartureTime.After(now)
}

// Unfinished reports whether the ride has not arrived yet.
func (r *Ride) Unfinished(now time.Time) bool {
	return r.ArrivalTime.After(now)
}

func (r *Ride) SeatsSold() int {
	return r.TotalSeats - r.SeatsAvailable
}

func (r *Ride) Clone() *Ride {
	if r == nil {
		return nil
	}
	c := *r
	c.Driver = r.Driver.Clone()
	if r.Stops != nil {
		c.Stops = append([]string(nil), r.Stops...)
	}
	return &c
}

// SortByDeparture orders rides by departure time ascending, in place.
func SortByDeparture(rides []*Ride) {
	sort.SliceStable(rides, func(i, j int) bool {
		return rides[i].DepartureTime.Before(rides[j].DepartureTime)
	})
}
