package store

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Pair is a snapshot of the stored credentials.
type Pair struct {
	AccessToken  string
	RefreshToken string
	Tier         Tier
	// Expiry is read from the access token "exp" claim; zero when the token is not a JWT.
	Expiry time.Time
}

// Pair returns the current credentials, or false when no access token is stored.
func (s *Store) Pair() (*Pair, bool) {
	tier := s.ActiveTier()
	storage := s.Storage(tier)
	s.mu.RLock()
	access, _ := storage.Get(AccessTokenKey)
	refresh, _ := storage.Get(RefreshTokenKey)
	s.mu.RUnlock()
	if access == "" {
		return nil, false
	}
	return &Pair{AccessToken: access, RefreshToken: refresh, Tier: tier, Expiry: Expiry(access)}, true
}

// Token converts the pair into an oauth2 bearer token.
func (p *Pair) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       p.Expiry,
	}
}

// Expired reports whether the access token expiry has passed; unknown expiry is never expired.
func (p *Pair) Expired() bool {
	return !p.Expiry.IsZero() && time.Now().After(p.Expiry)
}

// Expiry decodes the "exp" claim without verifying the signature; the API is
// the only party that validates tokens.
func Expiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
