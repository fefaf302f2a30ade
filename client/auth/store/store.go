package store

import (
	"errors"
	"log/slog"
	"sync"
)

// Tier identifies a storage location for the credential pair.
type Tier string

const (
	Durable   Tier = "durable"
	Ephemeral Tier = "ephemeral"
)

// Keys used in every tier.
const (
	AccessTokenKey  = "jwtToken"
	RefreshTokenKey = "refreshToken"
	ConsentKey      = "cookieConsent"
)

// Storage is a string key/value tier.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Store is the credential store: it reads and writes the token pair across the
// durable and ephemeral tiers.
type Store struct {
	mu        sync.RWMutex
	durable   Storage
	ephemeral Storage
	logger    *slog.Logger
}

type Option func(*Store)

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a credential store over the given tiers; nil tiers default to memory.
func New(durable, ephemeral Storage, options ...Option) *Store {
	if durable == nil {
		durable = NewMemoryStorage()
	}
	if ephemeral == nil {
		ephemeral = NewMemoryStorage()
	}
	ret := &Store{durable: durable, ephemeral: ephemeral, logger: slog.Default()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// NewMemory creates a store with both tiers in memory.
func NewMemory(options ...Option) *Store {
	return New(NewMemoryStorage(), NewMemoryStorage(), options...)
}

// Storage returns the backing storage of a tier.
func (s *Store) Storage(tier Tier) Storage {
	if tier == Durable {
		return s.durable
	}
	return s.ephemeral
}

// AccessToken returns the durable access token, else the ephemeral one.
func (s *Store) AccessToken() (string, bool) {
	return s.lookup(AccessTokenKey)
}

// RefreshToken returns the durable refresh token, else the ephemeral one.
func (s *Store) RefreshToken() (string, bool) {
	return s.lookup(RefreshTokenKey)
}

func (s *Store) lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.durable.Get(key); ok && v != "" {
		return v, true
	}
	if v, ok := s.ephemeral.Get(key); ok && v != "" {
		return v, true
	}
	return "", false
}

// ActiveTier returns the tier currently holding the session: durable when it has
// an access token, ephemeral otherwise.
func (s *Store) ActiveTier() Tier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.durable.Get(AccessTokenKey); ok && v != "" {
		return Durable
	}
	return Ephemeral
}

// Save writes both tokens to the durable tier when preferDurable is set, to the
// ephemeral tier otherwise.
//
// The ephemeral tier is left alone by a durable save since durable reads win.
// An ephemeral save drops any durable pair, which would otherwise shadow the
// values just written.
func (s *Store) Save(accessToken, refreshToken string, preferDurable bool) error {
	if accessToken == "" || refreshToken == "" {
		return errors.New("store: access and refresh tokens are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.ephemeral
	tier := Ephemeral
	if preferDurable {
		target = s.durable
		tier = Durable
	}
	if err := target.Set(AccessTokenKey, accessToken); err != nil {
		return err
	}
	if err := target.Set(RefreshTokenKey, refreshToken); err != nil {
		return err
	}
	if !preferDurable {
		if err := deletePair(s.durable); err != nil {
			return err
		}
	}
	s.logger.Debug("credentials saved", slog.String("tier", string(tier)))
	return nil
}

// Clear removes both tokens from both tiers.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := errors.Join(deletePair(s.durable), deletePair(s.ephemeral))
	if err != nil {
		s.logger.Warn("failed to clear credentials", slog.String("error", err.Error()))
	}
	return err
}

func deletePair(storage Storage) error {
	return errors.Join(storage.Delete(AccessTokenKey), storage.Delete(RefreshTokenKey))
}
