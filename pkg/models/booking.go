package models

import "time"

// Booking is a passenger's reservation of seats on a ride. Ride is a copy
// taken at booking time and is not updated afterwards.
type Booking struct {
	ID          string    `json:"id"`
	PassengerID string    `json:"passengerId"`
	RideID      string    `json:"rideId"`
	Ride        *Ride     `json:"ride"`
	Seats       int       `json:"seats"`
	TotalPrice  int       `json:"totalPrice"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"createdAt"`
}
