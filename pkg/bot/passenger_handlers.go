package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
	"rideshare/service"
)

const maxListedRides = 10

func (b *Bot) handleRides(c tele.Context) error {
	if b.requireUser(c) == nil {
		return nil
	}
	from, to := parseRoute(c.Message().Payload)

	rides, err := b.Svc.Ride().Search(context.Background(), service.SearchFilter{Origin: from, Destination: to})
	if err != nil {
		return b.replyError(c, err)
	}
	if len(rides) == 0 {
		return c.Send(msg("no_rides"))
	}
	if len(rides) > maxListedRides {
		rides = rides[:maxListedRides]
	}

	for _, r := range rides {
		menu := &tele.ReplyMarkup{}
		var btns []tele.Btn
		for seats := 1; seats <= r.SeatsAvailable && seats <= 3; seats++ {
			btns = append(btns, menu.Data(fmt.Sprintf("Book %d", seats), cbBook, r.ID, strconv.Itoa(seats)))
		}
		menu.Inline(menu.Row(btns...))
		c.Send(formatRide(r), menu)
	}
	return nil
}

func (b *Bot) handleBook(c tele.Context) error {
	user := b.requireUser(c)
	if user == nil {
		return nil
	}
	rideID, seats, err := parseBook(c.Args())
	if err != nil {
		return b.replyError(c, err)
	}
	booking, err := b.book(user, rideID, seats)
	if err != nil {
		return b.replyError(c, err)
	}
	return c.Send("✅ Booked!\n\n" + formatTicket(booking))
}

func (b *Bot) handleBookCallback(c tele.Context) error {
	user, err := b.currentUser(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: msg("need_login"), ShowAlert: true})
	}
	args := c.Args()
	if len(args) != 2 {
		return c.Respond()
	}
	seats, err := strconv.Atoi(args[1])
	if err != nil {
		return c.Respond()
	}

	booking, err := b.book(user, args[0], seats)
	if err != nil {
		return b.respondError(c, err)
	}
	c.Respond(&tele.CallbackResponse{Text: "✅ Booked!"})
	return c.Send(formatTicket(booking))
}

func (b *Bot) book(user *models.User, rideID string, seats int) (*models.Booking, error) {
	booking, err := b.Svc.Booking().Book(context.Background(), rideID, user.ID, seats)
	if err != nil {
		return nil, err
	}
	if r := booking.Ride; r != nil {
		b.notifyUser(r.DriverID, fmt.Sprintf(msg("notif_booked"), r.Origin+" ➡️ "+r.Destination, booking.Seats, r.SeatsAvailable))
	}
	return booking, nil
}

func (b *Bot) handleTickets(c tele.Context) error {
	user := b.requireUser(c)
	if user == nil {
		return nil
	}
	bookings, err := b.Svc.Booking().PassengerBookings(context.Background(), user.ID)
	if err != nil {
		return b.replyError(c, err)
	}
	if len(bookings) == 0 {
		return c.Send(msg("no_tickets"))
	}
	for _, bk := range bookings {
		c.Send(formatTicket(bk))
	}
	return nil
}

func (b *Bot) handleBrief(c tele.Context) error {
	if b.requireUser(c) == nil {
		return nil
	}
	args := c.Args()
	if len(args) == 0 {
		return c.Send("Usage: /brief <ride id>")
	}
	ride, err := b.Svc.Ride().Get(context.Background(), args[0])
	if err != nil {
		return b.replyError(c, err)
	}

	ctx, cancel := enrichContext()
	defer cancel()
	brief := b.GenAI.SafetyBrief(ctx, ride.Origin, ride.Destination)
	return c.Send(fmt.Sprintf("🛡 Safety brief for %s ➡️ %s\n\n%s", ride.Origin, ride.Destination, brief))
}

func (b *Bot) handleWhere(c tele.Context) error {
	user := b.requireUser(c)
	if user == nil {
		return nil
	}
	place := strings.TrimSpace(c.Message().Payload)
	if place == "" {
		return b.replyError(c, apperrors.Validation("usage: /where <place>"))
	}

	ctx, cancel := enrichContext()
	defer cancel()
	loc := b.GenAI.ResolveLocation(ctx, place, b.defaultOrigin(ctx, user))

	caption := fmt.Sprintf("📍 %s\n🗺 %s", loc.Address, loc.MapLinkURI)
	photo := &tele.Photo{File: tele.FromURL(b.Maps.URL(loc.Address)), Caption: caption}
	if err := c.Send(photo); err != nil {
		b.Log.Warning("static map send failed", logger.Error(err))
		return c.Send(caption)
	}
	return nil
}

// defaultOrigin is the origin of the passenger's latest ticket, if any.
func (b *Bot) defaultOrigin(ctx context.Context, user *models.User) string {
	bookings, err := b.Svc.Booking().PassengerBookings(ctx, user.ID)
	if err != nil || len(bookings) == 0 || bookings[0].Ride == nil {
		return ""
	}
	return bookings[0].Ride.Origin
}
