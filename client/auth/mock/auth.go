package mock

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/datambit/datambit/schema"
)

type subjectKey struct{}

func withSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

func subject(r *http.Request) string {
	s, _ := r.Context().Value(subjectKey{}).(string)
	return s
}

func writeJSON(w http.ResponseWriter, status int, message interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	code := schema.CodeSuccess
	if status >= 300 {
		code = "error"
	}
	_ = json.NewEncoder(w).Encode(&schema.Envelope[interface{}]{Code: code, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, message)
}

func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (m *APIService) loginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials schema.Credentials
	if !decodeBody(w, r, &credentials) {
		return
	}
	m.mu.Lock()
	u, ok := m.users[credentials.Username]
	m.mu.Unlock()
	if !ok || u.password != credentials.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	accessToken, err := m.createJWT(credentials.Username, accessTokenType, m.AccessTokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	refreshToken, err := m.createJWT(credentials.Username, refreshTokenType, m.RefreshTokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, &schema.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken})
}

func (m *APIService) registerHandler(w http.ResponseWriter, r *http.Request) {
	var registration schema.Registration
	if !decodeBody(w, r, &registration) {
		return
	}
	if registration.Username == "" || registration.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if registration.AccessCode != m.AccessCode {
		writeError(w, http.StatusBadRequest, "Invalid access code")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[registration.Username]; ok {
		writeError(w, http.StatusConflict, "user already exists")
		return
	}
	m.users[registration.Username] = &user{password: registration.Password}
	writeJSON(w, http.StatusCreated, "user registered")
}

func (m *APIService) refreshHandler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	reject := m.rejectRefresh
	m.mu.Unlock()
	if reject {
		writeError(w, http.StatusUnauthorized, "Refresh token rejected")
		return
	}
	subject, err := m.verifyJWT(bearerToken(r), refreshTokenType)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	accessToken, err := m.createJWT(subject, accessTokenType, m.AccessTokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, accessToken)
}

func (m *APIService) validateTokenHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Token is valid for "+subject(r))
}

func (m *APIService) requestResetHandler(w http.ResponseWriter, r *http.Request) {
	var request schema.PasswordResetRequest
	if !decodeBody(w, r, &request) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[request.Username]; !ok {
		writeError(w, http.StatusNotFound, "user doesnt exist")
		return
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	m.resetCodes[request.Username] = fmt.Sprintf("%06d", n.Int64())
	writeJSON(w, http.StatusOK, "OTP sent")
}

func (m *APIService) updateResetHandler(w http.ResponseWriter, r *http.Request) {
	var update schema.PasswordUpdate
	if !decodeBody(w, r, &update) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.resetCodes[update.Username]
	if !ok || code != update.AccessCode {
		writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}
	delete(m.resetCodes, update.Username)
	m.users[update.Username] = &user{password: update.Password}
	writeJSON(w, http.StatusOK, "Password updated")
}

func (m *APIService) accessRequestHandler(w http.ResponseWriter, r *http.Request) {
	var request schema.AccessRequest
	if !decodeBody(w, r, &request) {
		return
	}
	if request.Name == "" || request.OrganisationEmail == "" {
		writeError(w, http.StatusBadRequest, "name and organisation email are required")
		return
	}
	m.mu.Lock()
	m.accessRequests = append(m.accessRequests, &request)
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, "Access request submitted")
}
