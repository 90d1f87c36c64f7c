package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v3"

	"rideshare/pkg/logger"
	"rideshare/pkg/models"
)

func (b *Bot) handlePublish(c tele.Context) error {
	user := b.requireUser(c)
	if user == nil {
		return nil
	}
	if !models.CanPostRide(user) {
		return c.Send("🚫 " + driverStatusLine(user))
	}

	req, err := parsePublish(c.Message().Payload, b.location)
	if err != nil {
		return b.replyError(c, err)
	}
	req.Draft.Currency = b.Cfg.DefaultCurrency

	ctx, cancel := enrichContext()
	defer cancel()
	if req.AutoPrice {
		req.Draft.Price = b.GenAI.SuggestPrice(ctx, req.Draft.Origin, req.Draft.Destination, req.DistanceKm)
	}
	req.Draft.Description = b.GenAI.RideDescription(ctx, req.Draft.Origin, req.Draft.Destination, req.Draft.Stops)

	ride, err := b.Svc.Ride().Publish(context.Background(), user.ID, req.Draft)
	if err != nil {
		return b.replyError(c, err)
	}
	return c.Send("✅ Ride published!\n\n" + formatRide(ride))
}

func (b *Bot) handleMyTrips(c tele.Context) error {
	user := b.requireUser(c)
	if user == nil {
		return nil
	}
	ctx := context.Background()
	rides, err := b.Svc.Ride().Upcoming(ctx, user.ID)
	if err != nil {
		return b.replyError(c, err)
	}
	if len(rides) == 0 {
		return c.Send(msg("no_trips"))
	}

	for _, r := range rides {
		txt := formatRide(r)
		if bookings, err := b.Svc.Booking().RideBookings(ctx, r.ID); err == nil && len(bookings) > 0 {
			txt += fmt.Sprintf("\n🎫 %d booking(s)", len(bookings))
		}
		if !cancellable(r, b.Cfg.AllowCancelBooked) {
			c.Send(txt)
			continue
		}
		menu := &tele.ReplyMarkup{}
		menu.Inline(menu.Row(menu.Data("❌ Cancel trip", cbCancel, r.ID)))
		c.Send(txt, menu)
	}
	return nil
}

func (b *Bot) handleCancelTrip(c tele.Context) error {
	user := b.requireUser(c)
	if user == nil {
		return nil
	}
	args := c.Args()
	if len(args) == 0 {
		return c.Send("Usage: /canceltrip <ride id>")
	}
	if err := b.cancelTrip(user, args[0]); err != nil {
		return b.replyError(c, err)
	}
	return c.Send("❌ Trip cancelled.")
}

func (b *Bot) handleCancelCallback(c tele.Context) error {
	user, err := b.currentUser(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: msg("need_login"), ShowAlert: true})
	}
	if err := b.cancelTrip(user, c.Callback().Data); err != nil {
		return b.respondError(c, err)
	}
	b.Bot.Edit(c.Callback().Message, "❌ Trip cancelled.")
	return c.Respond()
}

func (b *Bot) cancelTrip(user *models.User, rideID string) error {
	ctx := context.Background()
	if err := b.Svc.Ride().Cancel(ctx, user.ID, rideID); err != nil {
		return err
	}
	bookings, err := b.Svc.Booking().RideBookings(ctx, rideID)
	if err != nil {
		b.Log.Error("failed to list bookings of cancelled ride", logger.String("ride_id", rideID), logger.Error(err))
		return nil
	}
	for _, bk := range bookings {
		route := rideID
		if bk.Ride != nil {
			route = bk.Ride.Origin + " ➡️ " + bk.Ride.Destination
		}
		b.notifyUser(bk.PassengerID, fmt.Sprintf(msg("notif_cancelled"), route))
	}
	return nil
}

// cancellable reports whether the cancel button is offered for a trip.
func cancellable(r *models.Ride, allowBooked bool) bool {
	return r.SeatsSold() == 0 || allowBooked
}
