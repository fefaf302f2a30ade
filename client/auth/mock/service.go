package mock

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/datambit/datambit/internal/collection"
	"github.com/datambit/datambit/schema"
)

type user struct {
	password string
}

type upload struct {
	entry *schema.ReportEntry
	files []*schema.FileUpload
}

// APIService is a test server that simulates the Datambit API
type APIService struct {
	PrivateKey      *rsa.PrivateKey
	Issuer          string
	AccessCode      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	// Handler overrides, keyed by endpoint path; see Handler.
	Handlers map[string]http.HandlerFunc

	mu             sync.Mutex
	generation     int
	rejectRefresh  bool
	users          map[string]*user
	resetCodes     map[string]string
	uploads        map[string]*upload
	uploadOrder    []string
	tickets        []*schema.SupportTicket
	accessRequests []*schema.AccessRequest
	calls          *collection.SyncMap[string, int]
}

type Option func(*APIService)

// WithUser registers a user
func WithUser(username, password string) Option {
	return func(s *APIService) {
		s.users[username] = &user{password: password}
	}
}

// WithAccessTokenTTL sets access token lifetime
func WithAccessTokenTTL(ttl time.Duration) Option {
	return func(s *APIService) {
		s.AccessTokenTTL = ttl
	}
}

// NewAPIService creates a new fake API
func NewAPIService(opts ...Option) (*APIService, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %v", err)
	}
	service := &APIService{
		PrivateKey:      privateKey,
		AccessCode:      "test_access_code",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		Handlers:        map[string]http.HandlerFunc{},
		users:           map[string]*user{},
		resetCodes:      map[string]string{},
		uploads:         map[string]*upload{},
		calls:           collection.NewSyncMap[string, int](),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Register registers HTTP handlers for all fake endpoints onto the given ServeMux.
func (m *APIService) Register(mux *http.ServeMux) {
	mux.Handle("/", &Handler{Server: m})
}

// Handler returns an http.Handler for all fake endpoints.
func (m *APIService) Handler() http.Handler {
	mux := http.NewServeMux()
	m.Register(mux)
	return mux
}

// Calls returns the number of requests received for path.
func (m *APIService) Calls(path string) int {
	count, _ := m.calls.Get(path)
	return count
}

// ExpireAccessTokens invalidates every access token issued so far.
func (m *APIService) ExpireAccessTokens() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
}

// RejectRefresh makes the refresh endpoint answer 401 while reject is set.
func (m *APIService) RejectRefresh(reject bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectRefresh = reject
}

// AddUser registers a user.
func (m *APIService) AddUser(username, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = &user{password: password}
}

// ResetCode returns the one-time code last issued to username.
func (m *APIService) ResetCode(username string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetCodes[username]
}

// AccessRequests returns the access requests received.
func (m *APIService) AccessRequests() []*schema.AccessRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*schema.AccessRequest(nil), m.accessRequests...)
}

func (m *APIService) countCall(path string) {
	m.calls.Update(path, func(count int) int { return count + 1 })
}
