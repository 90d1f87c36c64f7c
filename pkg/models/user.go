package models

import (
	"strings"
	"time"
)

type Role string

const (
	RolePassenger Role = "passenger"
	RoleDriver    Role = "driver"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePassenger, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Role       Role    `json:"role"`
	Avatar     string  `json:"avatar,omitempty"`
	IsVerified bool    `json:"isVerified"`
	Rating     float64 `json:"rating"`
	TotalRides int     `json:"totalRides"`

	// Driver only.
	Vehicle           *Vehicle                `json:"vehicle,omitempty"`
	DriverStatus      DriverStatus            `json:"driverStatus,omitempty"`
	DocumentsUploaded *DocumentChecklist      `json:"documentsUploaded,omitempty"`
	DocumentsData     map[DocumentType]string `json:"documentsData,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsDriver() bool {
	return u != nil && u.Role == RoleDriver
}

// Clone returns a deep copy so callers never share vehicle or document maps
// with the store.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Vehicle != nil {
		v := *u.Vehicle
		c.Vehicle = &v
	}
	if u.DocumentsUploaded != nil {
		d := *u.DocumentsUploaded
		c.DocumentsUploaded = &d
	}
	if u.DocumentsData != nil {
		c.DocumentsData = make(map[DocumentType]string, len(u.DocumentsData))
		for k, v := range u.DocumentsData {
			c.DocumentsData[k] = v
		}
	}
	return &c
}

// Public strips raw document payloads. Used for snapshots embedded in rides.
func (u *User) Public() *User {
	c := u.Clone()
	if c != nil {
		c.DocumentsData = nil
	}
	return c
}

// NormalizeEmail is the form emails are compared and stored in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CanPostRide is the ride-posting gate: only approved drivers publish.
func CanPostRide(u *User) bool {
	return u != nil && u.Role == RoleDriver && u.DriverStatus == DriverApproved
}
