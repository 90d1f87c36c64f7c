package storage

import (
	"encoding/json"

	"rideshare/pkg/models"
)

const (
	KeyRides    = "rideshare_rides"
	KeyUsers    = "rideshare_users"
	KeyBookings = "rideshare_bookings"
)

// Keys lists every collection key, in load order.
var Keys = []string{KeyUsers, KeyRides, KeyBookings}

// Collections are serialized as plain JSON arrays; time.Time fields round-trip
// as RFC 3339 text.

func EncodeRides(rides []*models.Ride) ([]byte, error) {
	return encode(rides)
}

func DecodeRides(data []byte) ([]*models.Ride, error) {
	var rides []*models.Ride
	if err := decode(data, &rides); err != nil {
		return nil, err
	}
	return rides, nil
}

func EncodeUsers(users []*models.User) ([]byte, error) {
	return encode(users)
}

func DecodeUsers(data []byte) ([]*models.User, error) {
	var users []*models.User
	if err := decode(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func EncodeBookings(bookings []*models.Booking) ([]byte, error) {
	return encode(bookings)
}

func DecodeBookings(data []byte) ([]*models.Booking, error) {
	var bookings []*models.Booking
	if err := decode(data, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func decode(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
