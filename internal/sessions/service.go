package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gotodo/gotodo/internal/flash"
)

// Service wraps repository operations with business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// Create stores a new session for the given user and returns the opaque token
// placed in the cookie. An empty userID creates an anonymous session (used to
// carry flash messages for logged-out visitors).
func (s *Service) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	sess := &Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

// Get returns the session if the token is valid and not expired
func (s *Service) Get(ctx context.Context, token string) (*Session, error) {
	sess, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		// cleanup expired session
		_ = s.repo.DeleteByToken(ctx, token)
		return nil, nil
	}
	return sess, nil
}

func (s *Service) Delete(ctx context.Context, token string) error {
	return s.repo.DeleteByToken(ctx, token)
}

// Login binds an authenticated user to an existing session.
func (s *Service) Login(ctx context.Context, token, userID string) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	sess.UserID = userID
	return s.repo.Update(ctx, sess)
}

// Logout unbinds the user but keeps the session alive, so the goodbye
// flash message can still be delivered on the next request.
func (s *Service) Logout(ctx context.Context, token string) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	sess.UserID = ""
	return s.repo.Update(ctx, sess)
}

// AddFlash queues a feedback message on the session. The message becomes
// visible to the next request that drains the flash and is then discarded.
func (s *Service) AddFlash(ctx context.Context, token, category, message string) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	if sess.Flash == nil {
		sess.Flash = flash.Messages{}
	}
	sess.Flash.Add(category, message)
	return s.repo.Update(ctx, sess)
}

// DrainFlash returns the queued feedback messages and clears them, giving
// exactly-once visibility across a redirect.
func (s *Service) DrainFlash(ctx context.Context, token string) (flash.Messages, error) {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Flash.Empty() {
		return flash.Messages{}, nil
	}
	out := sess.Flash
	sess.Flash = nil
	if err := s.repo.Update(ctx, sess); err != nil {
		return nil, err
	}
	return out, nil
}
