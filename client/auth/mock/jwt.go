package mock

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenType  = "access_token"
	refreshTokenType = "refresh_token"
)

// createJWT creates a signed JWT for subject with the given type and expiry
func (m *APIService) createJWT(subject, tokenType string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	generation := m.generation
	m.mu.Unlock()
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": m.Issuer,
		"sub": subject,
		"exp": now.Add(expiry).Unix(),
		"iat": now.Unix(),
		"typ": tokenType,
		"gen": generation,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(m.PrivateKey)
}

// verifyJWT validates signature, expiry, type and generation, returning the subject.
func (m *APIService) verifyJWT(tokenString, tokenType string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &m.PrivateKey.PublicKey, nil
	})
	if err != nil {
		return "", err
	}
	if typ, _ := claims["typ"].(string); typ != tokenType {
		return "", fmt.Errorf("expected %v, got %v", tokenType, typ)
	}
	if tokenType == accessTokenType {
		generation, _ := claims["gen"].(float64)
		m.mu.Lock()
		current := m.generation
		m.mu.Unlock()
		if int(generation) < current {
			return "", errors.New("token has been revoked")
		}
	}
	return claims.GetSubject()
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// authenticated rejects requests without a valid access token.
func (m *APIService) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing authorization token")
			return
		}
		subject, err := m.verifyJWT(token, accessTokenType)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token has expired")
			return
		}
		next(w, r.WithContext(withSubject(r.Context(), subject)))
	}
}
