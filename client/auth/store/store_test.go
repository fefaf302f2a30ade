package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Save(t *testing.T) {
	testCases := []struct {
		description   string
		preferDurable bool
		expectTier    Tier
	}{
		{description: "durable", preferDurable: true, expectTier: Durable},
		{description: "ephemeral", preferDurable: false, expectTier: Ephemeral},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			s := NewMemory()
			require.NoError(t, s.Save("access", "refresh", tc.preferDurable))

			access, ok := s.AccessToken()
			require.True(t, ok)
			assert.Equal(t, "access", access)
			refresh, ok := s.RefreshToken()
			require.True(t, ok)
			assert.Equal(t, "refresh", refresh)
			assert.Equal(t, tc.expectTier, s.ActiveTier())

			other := Ephemeral
			if tc.expectTier == Ephemeral {
				other = Durable
			}
			_, ok = s.Storage(other).Get(AccessTokenKey)
			assert.False(t, ok, "pair must not be split across tiers")
		})
	}
}

func TestStore_DurableWinsOverStaleEphemeral(t *testing.T) {
	s := NewMemory()
	ephemeral := s.Storage(Ephemeral)
	require.NoError(t, ephemeral.Set(AccessTokenKey, "stale-access"))
	require.NoError(t, ephemeral.Set(RefreshTokenKey, "stale-refresh"))

	require.NoError(t, s.Save("a", "r", true))

	access, _ := s.AccessToken()
	refresh, _ := s.RefreshToken()
	assert.Equal(t, "a", access)
	assert.Equal(t, "r", refresh)
}

func TestStore_EphemeralSaveDropsDurablePair(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.Save("old-a", "old-r", true))
	require.NoError(t, s.Save("new-a", "new-r", false))

	access, _ := s.AccessToken()
	refresh, _ := s.RefreshToken()
	assert.Equal(t, "new-a", access)
	assert.Equal(t, "new-r", refresh)
	assert.Equal(t, Ephemeral, s.ActiveTier())
}

func TestStore_Clear(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.SetConsent(true))
	require.NoError(t, s.Save("a", "r", true))
	require.NoError(t, s.Storage(Ephemeral).Set(AccessTokenKey, "e"))

	require.NoError(t, s.Clear())

	_, ok := s.AccessToken()
	assert.False(t, ok)
	_, ok = s.RefreshToken()
	assert.False(t, ok)
	assert.Equal(t, ConsentAccepted, s.Consent(), "consent survives logout")
}

func TestStore_Save_RequiresBothTokens(t *testing.T) {
	s := NewMemory()
	assert.Error(t, s.Save("", "r", false))
	assert.Error(t, s.Save("a", "", false))
}

func TestStore_DurableAllowed(t *testing.T) {
	testCases := []struct {
		description string
		consent     *bool
		remember    bool
		expect      bool
	}{
		{description: "remember with accepted consent", consent: boolPtr(true), remember: true, expect: true},
		{description: "remember with rejected consent", consent: boolPtr(false), remember: true, expect: false},
		{description: "remember without consent", remember: true, expect: false},
		{description: "accepted consent without remember", consent: boolPtr(true), expect: false},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			s := NewMemory()
			if tc.consent != nil {
				require.NoError(t, s.SetConsent(*tc.consent))
			}
			assert.Equal(t, tc.expect, s.DurableAllowed(tc.remember))
		})
	}
}

func TestStore_Pair(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": expiry.Unix()}).SignedString([]byte("secret"))
	require.NoError(t, err)

	s := NewMemory()
	_, ok := s.Pair()
	assert.False(t, ok)

	require.NoError(t, s.Save(token, "refresh", false))
	pair, ok := s.Pair()
	require.True(t, ok)
	assert.Equal(t, Ephemeral, pair.Tier)
	assert.True(t, expiry.Equal(pair.Expiry))
	assert.False(t, pair.Expired())

	oauthToken := pair.Token()
	assert.Equal(t, "Bearer", oauthToken.Type())
	assert.Equal(t, "refresh", oauthToken.RefreshToken)
}

func TestExpiry_NotJWT(t *testing.T) {
	assert.True(t, Expiry("opaque-token").IsZero())
}

func TestFileStorage_Persists(t *testing.T) {
	location := filepath.Join(t.TempDir(), "credentials.json")
	storage, err := NewFileStorage(location)
	require.NoError(t, err)

	s := New(storage, nil)
	require.NoError(t, s.SetConsent(true))
	require.NoError(t, s.Save("a", "r", true))

	reopened, err := NewFileStorage(location)
	require.NoError(t, err)
	restored := New(reopened, nil)
	access, ok := restored.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "a", access)
	assert.Equal(t, ConsentAccepted, restored.Consent())

	require.NoError(t, restored.Clear())
	again, err := NewFileStorage(location)
	require.NoError(t, err)
	_, ok = again.Get(AccessTokenKey)
	assert.False(t, ok)
}

func TestFileStorage_Encrypted(t *testing.T) {
	location := filepath.Join(t.TempDir(), "credentials.json")
	storage, err := NewFileStorage(location, WithEncryptionKey("blowfish://default"))
	require.NoError(t, err)
	require.NoError(t, New(storage, nil).Save("secret-access", "secret-refresh", true))

	reopened, err := NewFileStorage(location, WithEncryptionKey("blowfish://default"))
	require.NoError(t, err)
	refresh, ok := New(reopened, nil).RefreshToken()
	require.True(t, ok)
	assert.Equal(t, "secret-refresh", refresh)
}

func TestFileStorage_EmptyLocation(t *testing.T) {
	_, err := NewFileStorage("")
	assert.Error(t, err)
}

func boolPtr(b bool) *bool { return &b }
