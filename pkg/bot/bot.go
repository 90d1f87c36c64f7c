package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"rideshare/config"
	"rideshare/pkg/apperrors"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
	"rideshare/service"
)

type BotType string

const (
	BotTypePassenger   BotType = "passenger"
	BotTypeDriverAdmin BotType = "driver_admin"
)

const enrichTimeout = 10 * time.Second

// Callback uniques.
const (
	cbBook    = "book"
	cbCancel  = "cancel"
	cbDoc     = "doc"
	cbApprove = "approve"
	cbReject  = "reject"
)

// Enricher produces best-effort ride text. It never fails.
type Enricher interface {
	SafetyBrief(ctx context.Context, origin, destination string) string
	RideDescription(ctx context.Context, from, to string, stops []string) string
	ResolveLocation(ctx context.Context, description, defaultOrigin string) models.Location
	SuggestPrice(ctx context.Context, from, to string, distanceKm float64) int
}

type MapURLer interface {
	URL(address string) string
}

type Bot struct {
	Type  BotType
	Bot   *tele.Bot
	Log   logger.ILogger
	Cfg   *config.Config
	Svc   service.IServiceManager
	GenAI Enricher
	Maps  MapURLer
	Peer  *Bot // Link for cross-bot notifications

	sessions *sessionStore
	reviews  *reviewBook
	location *time.Location
}

func New(botType BotType, cfg *config.Config, svc service.IServiceManager, genai Enricher, maps MapURLer, log logger.ILogger) (*Bot, error) {
	token := cfg.TelegramBotToken
	if botType == BotTypeDriverAdmin {
		token = cfg.AdminBotToken
	}

	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error("telegram handler failed", logger.String("bot", string(botType)), logger.Error(err))
		},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.GoogleCalendarTimeZone)
	if err != nil {
		loc = time.UTC
	}

	bot := &Bot{
		Type:     botType,
		Bot:      b,
		Log:      log.With(logger.String("bot", string(botType))),
		Cfg:      cfg,
		Svc:      svc,
		GenAI:    genai,
		Maps:     maps,
		sessions: newSessionStore(),
		reviews:  newReviewBook(),
		location: loc,
	}
	bot.registerHandlers()
	return bot, nil
}

func (b *Bot) Start() {
	b.Log.Info(fmt.Sprintf("🤖 %s Bot Started...", b.Type))
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.Bot.Stop()
}

var messages = map[string]map[string]string{
	"en": {
		"welcome":         "👋 Welcome to RideShare!\nSign in with /login <email> or create an account with /signup.",
		"welcome_back":    "👋 Welcome back, %s!",
		"need_login":      "🔒 Please /login or /signup first.",
		"menu_passenger":  "🧳 Passenger commands:\n/rides [from -> to] - find a ride\n/book <ride id> [seats]\n/tickets - your bookings\n/brief <ride id> - safety brief\n/where <place> - resolve a pickup spot",
		"menu_driver":     "🚗 Driver commands:\n/apply <make> | <model> | <year> | <plate> [| <color>]\n/publish <from> -> <to> | <YYYY-MM-DD HH:MM> | <duration> | <seats> | <price|auto> [| <km>] [| <stops>]\n/mytrips - upcoming trips\n/canceltrip <ride id>",
		"menu_admin":      "🛠 Admin commands:\n/pending - driver applications awaiting review",
		"no_rides":        "📭 No rides match right now.",
		"no_tickets":      "🎫 You have no bookings yet.",
		"no_trips":        "📭 You have no upcoming trips.",
		"no_pending":      "✅ No applications are waiting for review.",
		"send_document":   "📎 Send a photo of your %s.",
		"application_in":  "🎉 Application submitted! An admin will review your documents.",
		"passengers_only": "🚫 Drivers and admins use the driver bot.",
		"drivers_only":    "🚫 This bot is for drivers and admins.",
		"admins_only":     "🚫 Only admins can do that.",
		"notif_booked":    "🔔 New booking on %s: %d seat(s), %d left.",
		"notif_approved":  "✅ Your driver application was approved. You can now /publish rides.",
		"notif_rejected":  "❌ Your driver application was rejected.",
		"notif_pending":   "🔔 New driver application from %s (%s). Use /pending to review.",
		"notif_cancelled": "⚠️ Your ride %s was cancelled by the driver.",
	},
}

func msg(key string) string {
	return messages["en"][key]
}

func (b *Bot) registerHandlers() {
	b.Bot.Handle("/start", b.handleStart)
	b.Bot.Handle("/signup", b.handleSignup)
	b.Bot.Handle("/login", b.handleLogin)

	if b.Type == BotTypePassenger {
		b.Bot.Handle("/rides", b.handleRides)
		b.Bot.Handle("/book", b.handleBook)
		b.Bot.Handle("/tickets", b.handleTickets)
		b.Bot.Handle("/brief", b.handleBrief)
		b.Bot.Handle("/where", b.handleWhere)
		b.Bot.Handle(&tele.Btn{Unique: cbBook}, b.handleBookCallback)
	} else {
		b.Bot.Handle("/apply", b.handleApply)
		b.Bot.Handle(tele.OnPhoto, b.handleDocumentPhoto)
		b.Bot.Handle("/publish", b.handlePublish)
		b.Bot.Handle("/mytrips", b.handleMyTrips)
		b.Bot.Handle("/canceltrip", b.handleCancelTrip)
		b.Bot.Handle(&tele.Btn{Unique: cbCancel}, b.handleCancelCallback)

		b.Bot.Handle("/pending", b.handlePending)
		b.Bot.Handle(&tele.Btn{Unique: cbDoc}, b.handleDocCallback)
		b.Bot.Handle(&tele.Btn{Unique: cbApprove}, b.handleApproveCallback)
		b.Bot.Handle(&tele.Btn{Unique: cbReject}, b.handleRejectCallback)
	}
}

func (b *Bot) handleStart(c tele.Context) error {
	user, err := b.currentUser(c)
	if err != nil {
		return c.Send(msg("welcome"))
	}
	c.Send(fmt.Sprintf(msg("welcome_back"), user.FirstName))
	return b.showMenu(c, user)
}

func (b *Bot) handleSignup(c tele.Context) error {
	profile, err := parseSignup(c.Args())
	if err != nil {
		return b.replyError(c, err)
	}
	if b.Type == BotTypePassenger && profile.Role != models.RolePassenger {
		return c.Send(msg("passengers_only"))
	}
	if b.Type == BotTypeDriverAdmin && profile.Role != models.RoleDriver {
		return c.Send(msg("drivers_only"))
	}

	user, err := b.Svc.Auth().Signup(context.Background(), profile)
	if err != nil {
		return b.replyError(c, err)
	}
	b.sessions.bind(c.Chat().ID, user)
	c.Send(fmt.Sprintf("🎉 Account created for %s.", user.Email))
	return b.showMenu(c, user)
}

func (b *Bot) handleLogin(c tele.Context) error {
	args := c.Args()
	if len(args) == 0 {
		return c.Send("Usage: /login <email> [password]")
	}
	password := ""
	if len(args) > 1 {
		password = args[1]
		// Keep credentials out of the chat history.
		if err := c.Delete(); err != nil {
			b.Log.Debug("could not delete login message", logger.Error(err))
		}
	}

	user, err := b.Svc.Auth().Login(context.Background(), args[0], password)
	if err != nil {
		return b.replyError(c, err)
	}
	if b.Type == BotTypePassenger && user.Role != models.RolePassenger {
		return c.Send(msg("passengers_only"))
	}
	if b.Type == BotTypeDriverAdmin && user.Role == models.RolePassenger {
		return c.Send(msg("drivers_only"))
	}

	b.sessions.bind(c.Chat().ID, user)
	c.Send(fmt.Sprintf(msg("welcome_back"), user.FirstName))
	return b.showMenu(c, user)
}

func (b *Bot) showMenu(c tele.Context, user *models.User) error {
	switch {
	case b.Type == BotTypePassenger:
		return c.Send(msg("menu_passenger"))
	case user.Role == models.RoleAdmin:
		return c.Send(msg("menu_admin"))
	default:
		return c.Send(msg("menu_driver") + "\n\n" + driverStatusLine(user))
	}
}

// currentUser resolves the signed-in account for the chat.
func (b *Bot) currentUser(c tele.Context) (*models.User, error) {
	sess, ok := b.sessions.get(c.Chat().ID)
	if !ok {
		return nil, apperrors.NotFound("chat %d is not signed in", c.Chat().ID)
	}
	return b.Svc.Auth().Get(context.Background(), sess.UserID)
}

// requireUser sends the login hint and returns nil when nobody is signed in.
func (b *Bot) requireUser(c tele.Context) *models.User {
	user, err := b.currentUser(c)
	if err != nil {
		c.Send(msg("need_login"))
		return nil
	}
	return user
}

func (b *Bot) requireAdmin(c tele.Context) *models.User {
	user := b.requireUser(c)
	if user == nil {
		return nil
	}
	if user.Role != models.RoleAdmin {
		c.Send(msg("admins_only"))
		return nil
	}
	return user
}

func (b *Bot) replyError(c tele.Context, err error) error {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		b.Log.Error("command failed", logger.String("command", c.Text()), logger.Error(err))
		return c.Send("❌ Something went wrong. Please try again.")
	}
	return c.Send("⚠️ " + userMessage(err))
}

func (b *Bot) respondError(c tele.Context, err error) error {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		b.Log.Error("callback failed", logger.Error(err))
	}
	return c.Respond(&tele.CallbackResponse{Text: userMessage(err), ShowAlert: true})
}

func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		m := appErr.Message
		return strings.ToUpper(m[:1]) + m[1:]
	}
	return "Something went wrong"
}

// notifyUser messages an account on whichever linked bot it is signed in to.
func (b *Bot) notifyUser(userID, text string) {
	for _, target := range []*Bot{b, b.Peer} {
		if target == nil {
			continue
		}
		if chat, ok := target.sessions.chatOf(userID); ok {
			if _, err := target.Bot.Send(&tele.Chat{ID: chat}, text); err != nil {
				b.Log.Error("failed to notify user", logger.String("user_id", userID), logger.Error(err))
			}
			return
		}
	}
}

func (b *Bot) notifyAdmins(text string) {
	target := b
	if b.Type != BotTypeDriverAdmin && b.Peer != nil {
		target = b.Peer
	}
	for _, chat := range target.sessions.chatsWithRole(models.RoleAdmin) {
		if _, err := target.Bot.Send(&tele.Chat{ID: chat}, text); err != nil {
			b.Log.Error("failed to notify admin", logger.Int64("chat_id", chat), logger.Error(err))
		}
	}
}

func enrichContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), enrichTimeout)
}
