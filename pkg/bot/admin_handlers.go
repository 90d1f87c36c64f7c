package bot

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
)

func (b *Bot) handlePending(c tele.Context) error {
	if b.requireAdmin(c) == nil {
		return nil
	}
	drivers, err := b.Svc.Driver().PendingReview(context.Background())
	if err != nil {
		return b.replyError(c, err)
	}
	if len(drivers) == 0 {
		return c.Send(msg("no_pending"))
	}
	for _, d := range drivers {
		c.Send("🔎 Application\n\n"+formatApplication(d), b.reviewMarkup(d.ID))
	}
	return nil
}

func (b *Bot) reviewMarkup(driverID string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var docs []tele.Btn
	for _, d := range models.RequiredDocuments {
		docs = append(docs, menu.Data("📄 "+string(d), cbDoc, driverID, string(d)))
	}
	menu.Inline(
		menu.Row(docs...),
		menu.Row(
			menu.Data("✅ Approve", cbApprove, driverID),
			menu.Data("❌ Reject", cbReject, driverID),
		),
	)
	return menu
}

func (b *Bot) handleDocCallback(c tele.Context) error {
	if _, err := b.adminFromCallback(c); err != nil {
		return b.respondError(c, err)
	}
	args := c.Args()
	if len(args) != 2 {
		return c.Respond()
	}
	driverID := args[0]
	doc, ok := models.ParseDocumentType(args[1])
	if !ok {
		return c.Respond()
	}

	driver, err := b.Svc.Auth().Get(context.Background(), driverID)
	if err != nil {
		return b.respondError(c, err)
	}
	payload := driver.DocumentsData[doc]
	if payload == "" {
		return b.respondError(c, apperrors.NotFound("%s was not uploaded", doc))
	}

	b.reviews.open(driverID, doc)
	c.Respond()

	caption := fmt.Sprintf("📄 %s of %s", doc, driver.FullName())
	if fileID, ok := strings.CutPrefix(payload, documentPrefix); ok {
		return c.Send(&tele.Photo{File: tele.File{FileID: fileID}, Caption: caption})
	}
	return c.Send(caption + "\n\n" + payload)
}

func (b *Bot) handleApproveCallback(c tele.Context) error {
	if _, err := b.adminFromCallback(c); err != nil {
		return b.respondError(c, err)
	}
	driverID := c.Callback().Data
	if missing := b.reviews.missing(driverID); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, d := range missing {
			names = append(names, string(d))
		}
		return c.Respond(&tele.CallbackResponse{
			Text:      "Open every document before approving: " + strings.Join(names, ", "),
			ShowAlert: true,
		})
	}

	driver, err := b.Svc.Driver().Approve(context.Background(), driverID)
	if err != nil {
		return b.respondError(c, err)
	}
	b.reviews.clear(driverID)
	b.Log.Info("driver approved via bot", logger.String("driver_id", driverID))
	b.notifyUser(driverID, msg("notif_approved"))
	b.Bot.Edit(c.Callback().Message, "✅ Approved\n\n"+formatApplication(driver))
	return c.Respond()
}

func (b *Bot) handleRejectCallback(c tele.Context) error {
	if _, err := b.adminFromCallback(c); err != nil {
		return b.respondError(c, err)
	}
	driverID := c.Callback().Data

	driver, err := b.Svc.Driver().Reject(context.Background(), driverID)
	if err != nil {
		return b.respondError(c, err)
	}
	b.reviews.clear(driverID)
	b.Log.Info("driver rejected via bot", logger.String("driver_id", driverID))
	b.notifyUser(driverID, msg("notif_rejected"))
	b.Bot.Edit(c.Callback().Message, "❌ Rejected\n\n"+formatApplication(driver))
	return c.Respond()
}

func (b *Bot) adminFromCallback(c tele.Context) (*models.User, error) {
	user, err := b.currentUser(c)
	if err != nil {
		return nil, apperrors.InvalidState("please sign in first")
	}
	if user.Role != models.RoleAdmin {
		return nil, apperrors.InvalidState("only admins can review applications")
	}
	return user, nil
}
