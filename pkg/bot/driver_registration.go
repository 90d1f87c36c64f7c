package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v3"

	"rideshare/pkg/logger"
	"rideshare/pkg/models"
)

// documentPrefix marks a document payload that is a Telegram file id.
const documentPrefix = "tg:"

func (b *Bot) handleApply(c tele.Context) error {
	user := b.requireUser(c)
	if user == nil {
		return nil
	}
	if !user.IsDriver() {
		return c.Send(msg("drivers_only"))
	}
	if user.DriverStatus != "" && user.DriverStatus != models.DriverNew {
		return c.Send("ℹ️ " + driverStatusLine(user))
	}

	vehicle, err := parseVehicle(c.Message().Payload)
	if err != nil {
		return b.replyError(c, err)
	}

	sess, _ := b.sessions.get(c.Chat().ID)
	sess.State = StateAwaitingDocs
	sess.Vehicle = &vehicle
	sess.Documents = make(map[models.DocumentType]string)
	b.sessions.save(c.Chat().ID, sess)

	next, _ := sess.nextDocument()
	return c.Send(fmt.Sprintf("🚙 %s saved.\n\n", vehicle.String()) + fmt.Sprintf(msg("send_document"), next))
}

func (b *Bot) handleDocumentPhoto(c tele.Context) error {
	sess, ok := b.sessions.get(c.Chat().ID)
	if !ok || sess.State != StateAwaitingDocs || c.Message().Photo == nil {
		return nil
	}

	docs := make(map[models.DocumentType]string, len(sess.Documents)+1)
	for k, v := range sess.Documents {
		docs[k] = v
	}
	doc, _ := sess.nextDocument()
	docs[doc] = documentPrefix + c.Message().Photo.FileID
	sess.Documents = docs
	b.sessions.save(c.Chat().ID, sess)

	if next, more := sess.nextDocument(); more {
		return c.Send(fmt.Sprintf("✅ %s received.\n", doc) + fmt.Sprintf(msg("send_document"), next))
	}
	return b.submitApplication(c, sess)
}

func (b *Bot) submitApplication(c tele.Context, sess UserSession) error {
	user, err := b.Svc.Driver().SubmitApplication(context.Background(), sess.UserID, *sess.Vehicle, sess.Documents)

	sess.State = StateIdle
	sess.Vehicle = nil
	sess.Documents = nil
	b.sessions.save(c.Chat().ID, sess)

	if err != nil {
		return b.replyError(c, err)
	}

	b.Log.Info("driver application received", logger.String("user_id", user.ID))
	b.notifyAdmins(fmt.Sprintf(msg("notif_pending"), user.FullName(), user.Vehicle.String()))
	return c.Send(msg("application_in"))
}
