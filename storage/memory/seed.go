package memory

import (
	"time"

	"rideshare/pkg/models"
)

func seedData(now time.Time) ([]*models.User, []*models.Ride) {
	day := now.Truncate(time.Hour).Add(24 * time.Hour)

	sarah := &models.User{
		ID: "seed-driver-sarah", FirstName: "Sarah", LastName: "Johnson",
		Email: "sarah.johnson@example.com", Phone: "+1 416 555 0101",
		Role: models.RoleDriver, IsVerified: true, Rating: 4.9, TotalRides: 127,
		Vehicle:           &models.Vehicle{Make: "Toyota", Model: "RAV4", Year: "2022", Color: "Silver", Plate: "CKRW 482"},
		DriverStatus:      models.DriverApproved,
		DocumentsUploaded: &models.DocumentChecklist{License: true, Insurance: true, Photo: true},
		CreatedAt:         now.Add(-400 * 24 * time.Hour),
	}
	marc := &models.User{
		ID: "seed-driver-marc", FirstName: "Marc", LastName: "Tremblay",
		Email: "marc.tremblay@example.com", Phone: "+1 514 555 0144",
		Role: models.RoleDriver, IsVerified: true, Rating: 4.7, TotalRides: 58,
		Vehicle:           &models.Vehicle{Make: "Honda", Model: "Civic", Year: "2020", Color: "Blue", Plate: "G42 MKT"},
		DriverStatus:      models.DriverApproved,
		DocumentsUploaded: &models.DocumentChecklist{License: true, Insurance: true, Photo: true},
		CreatedAt:         now.Add(-200 * 24 * time.Hour),
	}
	emma := &models.User{
		ID: "seed-passenger-emma", FirstName: "Emma", LastName: "Wilson",
		Email: "emma.wilson@example.com", Phone: "+1 613 555 0199",
		Role: models.RolePassenger, IsVerified: true, Rating: 5, TotalRides: 12,
		CreatedAt: now.Add(-90 * 24 * time.Hour),
	}

	rides := []*models.Ride{
		{
			ID: "seed-ride-1", DriverID: sarah.ID, Driver: sarah.Public(),
			Origin: "Toronto, ON", Destination: "Montreal, QC", Stops: []string{"Kingston, ON"},
			DepartureTime: day.Add(8 * time.Hour), ArrivalTime: day.Add(13*time.Hour + 30*time.Minute),
			Price: 45, Currency: "CAD", TotalSeats: 3, SeatsAvailable: 3,
			Luggage:     models.Luggage{Small: 2, Medium: 2, Large: 1},
			Features:    models.Features{InstantBook: true, Wifi: true, Music: true, WinterTires: true},
			DistanceKm:  541,
			Description: "Direct highway trip with one coffee stop in Kingston.",
		},
		{
			ID: "seed-ride-2", DriverID: marc.ID, Driver: marc.Public(),
			Origin: "Montreal, QC", Destination: "Quebec City, QC",
			DepartureTime: day.Add(33 * time.Hour), ArrivalTime: day.Add(36 * time.Hour),
			Price: 30, Currency: "CAD", TotalSeats: 4, SeatsAvailable: 4,
			Luggage:    models.Luggage{Small: 3, Medium: 1},
			Features:   models.Features{Music: true, Pets: true},
			DistanceKm: 253,
		},
		{
			ID: "seed-ride-3", DriverID: sarah.ID, Driver: sarah.Public(),
			Origin: "Ottawa, ON", Destination: "Toronto, ON",
			DepartureTime: day.Add(56 * time.Hour), ArrivalTime: day.Add(61 * time.Hour),
			Price: 40, Currency: "CAD", TotalSeats: 2, SeatsAvailable: 2,
			Luggage:    models.Luggage{Small: 1, Large: 1},
			Features:   models.Features{InstantBook: true, WinterTires: true},
			DistanceKm: 450,
		},
	}

	return []*models.User{sarah, marc, emma}, rides
}
