package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmorelli/guessphrase/internal/dependencies/clock"
	"github.com/dmorelli/guessphrase/internal/model"
	"github.com/dmorelli/guessphrase/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	// StartingCoins seeds the balance of newly registered players
	StartingCoins int64
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		StartingCoins:   100,
	}
}

// Service handles registration, login, and session management
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Register creates a player account seeded with the starting coin balance
// and opens a session for it
func (s *Service) Register(ctx context.Context, username, password, mail string) (*Session, error) {
	_, err := s.storage.GetPlayerByUsername(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameExists
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := &model.Player{
		Username:     username,
		PasswordHash: string(hash),
		Mail:         mail,
		Coins:        s.cfg.StartingCoins,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	return s.createSession(player), nil
}

// Login authenticates a player and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	player, err := s.storage.GetPlayerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(player), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// createSession creates a new session for a player
func (s *Service) createSession(player *model.Player) *Session {
	token := generateToken()
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		PlayerID:  player.ID,
		Username:  player.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
