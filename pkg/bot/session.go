package bot

import (
	"sync"

	"rideshare/pkg/models"
)

const (
	StateIdle         = "idle"
	StateAwaitingDocs = "awaiting_documents"
)

type UserSession struct {
	UserID string
	Role   models.Role
	State  string

	// Driver application in progress.
	Vehicle   *models.Vehicle
	Documents map[models.DocumentType]string
}

// nextDocument is the first required document not uploaded yet.
func (s *UserSession) nextDocument() (models.DocumentType, bool) {
	for _, d := range models.RequiredDocuments {
		if s.Documents[d] == "" {
			return d, true
		}
	}
	return "", false
}

// sessionStore maps Telegram chats to signed-in accounts.
type sessionStore struct {
	mu     sync.Mutex
	byChat map[int64]*UserSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{byChat: make(map[int64]*UserSession)}
}

// get returns a copy of the chat's session.
func (s *sessionStore) get(chatID int64) (UserSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byChat[chatID]
	if !ok {
		return UserSession{}, false
	}
	return *sess, true
}

func (s *sessionStore) save(chatID int64, sess UserSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byChat[chatID] = &sess
}

func (s *sessionStore) bind(chatID int64, user *models.User) {
	s.save(chatID, UserSession{UserID: user.ID, Role: user.Role, State: StateIdle})
}

func (s *sessionStore) chatOf(userID string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for chat, sess := range s.byChat {
		if sess.UserID == userID {
			return chat, true
		}
	}
	return 0, false
}

func (s *sessionStore) chatsWithRole(role models.Role) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int64
	for chat, sess := range s.byChat {
		if sess.Role == role {
			out = append(out, chat)
		}
	}
	return out
}

// reviewBook tracks which documents an admin has opened per driver.
// Approval is offered only once every required document was viewed.
type reviewBook struct {
	mu     sync.Mutex
	opened map[string]map[models.DocumentType]bool
}

func newReviewBook() *reviewBook {
	return &reviewBook{opened: make(map[string]map[models.DocumentType]bool)}
}

func (r *reviewBook) open(driverID string, doc models.DocumentType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.opened[driverID] == nil {
		r.opened[driverID] = make(map[models.DocumentType]bool)
	}
	r.opened[driverID][doc] = true
}

// missing lists required documents not opened yet.
func (r *reviewBook) missing(driverID string) []models.DocumentType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DocumentType
	for _, d := range models.RequiredDocuments {
		if !r.opened[driverID][d] {
			out = append(out, d)
		}
	}
	return out
}

func (r *reviewBook) clear(driverID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.opened, driverID)
}
