package bot

import (
	"fmt"
	"strings"

	"rideshare/pkg/models"
)

const displayLayout = "Mon 02 Jan 15:04"

func formatRide(r *models.Ride) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🚗 %s ➡️ %s\n", r.Origin, r.Destination)
	if len(r.Stops) > 0 {
		fmt.Fprintf(&sb, "📍 via %s\n", strings.Join(r.Stops, ", "))
	}
	fmt.Fprintf(&sb, "🕒 %s - %s\n", r.DepartureTime.Format(displayLayout), r.ArrivalTime.Format(displayLayout))
	fmt.Fprintf(&sb, "💰 %d %s per seat\n", r.Price, r.Currency)
	fmt.Fprintf(&sb, "💺 %d of %d seats left", r.SeatsAvailable, r.TotalSeats)
	if d := r.Driver; d != nil {
		fmt.Fprintf(&sb, "\n👤 %s ⭐ %.1f", d.FullName(), d.Rating)
		if d.Vehicle != nil {
			fmt.Fprintf(&sb, "\n🚙 %s", d.Vehicle.String())
		}
	}
	if f := featureList(r.Features); f != "" {
		fmt.Fprintf(&sb, "\n✨ %s", f)
	}
	if r.Description != "" {
		fmt.Fprintf(&sb, "\n📝 %s", r.Description)
	}
	fmt.Fprintf(&sb, "\n🆔 %s", r.ID)
	return sb.String()
}

func formatTicket(b *models.Booking) string {
	route := b.RideID
	when := ""
	if r := b.Ride; r != nil {
		route = r.Origin + " ➡️ " + r.Destination
		when = r.DepartureTime.Format(displayLayout)
	}
	return fmt.Sprintf("🎫 %s\n🕒 %s\n💺 %d seat(s)\n💰 %d %s total\n🆔 %s",
		route, when, b.Seats, b.TotalPrice, b.Currency, b.ID)
}

func featureList(f models.Features) string {
	var out []string
	if f.InstantBook {
		out = append(out, "instant book")
	}
	if f.Wifi {
		out = append(out, "wifi")
	}
	if f.Music {
		out = append(out, "music")
	}
	if f.Pets {
		out = append(out, "pets ok")
	}
	if f.Smoking {
		out = append(out, "smoking ok")
	}
	if f.WinterTires {
		out = append(out, "winter tires")
	}
	return strings.Join(out, ", ")
}

func driverStatusLine(u *models.User) string {
	switch u.DriverStatus {
	case models.DriverApproved:
		return "✅ Verified driver"
	case models.DriverPending:
		return "⏳ Application under review"
	case models.DriverRejected:
		return "❌ Application rejected"
	default:
		return "📝 Not verified yet. Start with /apply"
	}
}

func formatApplication(u *models.User) string {
	vehicle := "no vehicle"
	if u.Vehicle != nil {
		vehicle = u.Vehicle.String()
	}
	phone := u.Phone
	if phone == "" {
		phone = "not provided"
	}
	return fmt.Sprintf("👤 %s\n📧 %s\n📞 %s\n🚙 %s\n🆔 %s", u.FullName(), u.Email, phone, vehicle, u.ID)
}
