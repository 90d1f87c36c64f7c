package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"rideshare/pkg/logger"
	"rideshare/pkg/models"
)

type Config struct {
	CalendarID      string
	CredentialsFile string
	AccessToken     string
	TimeZone        string
}

// Notifier puts every booked ride on a Google Calendar. Without a calendar
// id or credentials it only logs the event it would have created.
type Notifier struct {
	calendarID string
	timeZone   string
	events     *gcal.EventsService
	log        logger.ILogger
}

func New(ctx context.Context, cfg Config, log logger.ILogger) (*Notifier, error) {
	n := &Notifier{
		calendarID: cfg.CalendarID,
		timeZone:   cfg.TimeZone,
		log:        log,
	}
	if n.timeZone == "" {
		n.timeZone = "UTC"
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.AccessToken != "":
		opts = append(opts, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})))
	}
	if cfg.CalendarID == "" || len(opts) == 0 {
		log.Info("google calendar sync disabled")
		return n, nil
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google calendar client: %w", err)
	}
	n.events = gcal.NewEventsService(svc)
	return n, nil
}

func (n *Notifier) Enabled() bool {
	return n.events != nil
}

func (n *Notifier) BookingCreated(ctx context.Context, b *models.Booking) error {
	event := BuildEvent(b, n.timeZone)
	if !n.Enabled() {
		n.log.Debug("calendar event skipped", logger.String("booking_id", b.ID), logger.String("summary", event.Summary))
		return nil
	}

	created, err := n.events.Insert(n.calendarID, event).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	n.log.Info("booking synced to calendar", logger.String("booking_id", b.ID), logger.String("event_link", created.HtmlLink))
	return nil
}

// BuildEvent describes a booking as a calendar event spanning the ride.
func BuildEvent(b *models.Booking, timeZone string) *gcal.Event {
	ride := b.Ride
	if ride == nil {
		ride = &models.Ride{ID: b.RideID}
	}

	lines := []string{
		fmt.Sprintf("Seats: %d", b.Seats),
		fmt.Sprintf("Total: %d %s", b.TotalPrice, b.Currency),
	}
	if d := ride.Driver; d != nil {
		lines = append(lines, "Driver: "+d.FullName())
		if d.Vehicle != nil {
			lines = append(lines, "Vehicle: "+d.Vehicle.String())
		}
	}
	if len(ride.Stops) > 0 {
		lines = append(lines, "Stops: "+strings.Join(ride.Stops, ", "))
	}
	lines = append(lines, "Booking: #"+b.ID)

	return &gcal.Event{
		Summary:     fmt.Sprintf("🚗 Ride: %s ➞ %s", ride.Origin, ride.Destination),
		Location:    ride.Origin,
		Description: strings.Join(lines, "\n"),
		Start: &gcal.EventDateTime{
			DateTime: ride.DepartureTime.Format(time.RFC3339),
			TimeZone: timeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: ride.ArrivalTime.Format(time.RFC3339),
			TimeZone: timeZone,
		},
	}
}
