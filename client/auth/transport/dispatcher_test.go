package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datambit/datambit/client/auth/store"
	"github.com/datambit/datambit/schema"
)

const testEndpoint = "/api/v2/report/recent-uploads"

// fakeAPI serves testEndpoint through respond and the refresh endpoint through refresh.
type fakeAPI struct {
	mu             sync.Mutex
	calls          int32
	refreshCalls   int32
	authorizations []string
	requestIDs     []string
	respond        func(attempt int, w http.ResponseWriter, r *http.Request)
	refresh        func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case schema.EndpointRefresh:
		atomic.AddInt32(&f.refreshCalls, 1)
		if f.refresh != nil {
			f.refresh(w, r)
			return
		}
		writeBody(w, http.StatusOK, `{"code":"success","message":"new-access"}`)
	default:
		attempt := int(atomic.AddInt32(&f.calls, 1))
		f.mu.Lock()
		f.authorizations = append(f.authorizations, r.Header.Get("Authorization"))
		f.requestIDs = append(f.requestIDs, r.Header.Get(requestIDHeader))
		f.mu.Unlock()
		f.respond(attempt, w, r)
	}
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newFixture(t *testing.T, api *fakeAPI, options ...Option) (*Dispatcher, *store.Store) {
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	credentials := store.NewMemory()
	require.NoError(t, credentials.Save("old-access", "refresh", false))
	return New(server.URL, credentials, options...), credentials
}

func TestDispatcher_Do_RetriesOnceAfterRefresh(t *testing.T) {
	api := &fakeAPI{respond: func(attempt int, w http.ResponseWriter, r *http.Request) {
		if attempt == 1 {
			writeBody(w, http.StatusUnauthorized, `{"message":"Token has expired"}`)
			return
		}
		writeBody(w, http.StatusOK, `{"code":"success","message":"second"}`)
	}}
	dispatcher, credentials := newFixture(t, api)

	body, err := dispatcher.Do(context.Background(), &Request{Endpoint: testEndpoint, RequiresAuth: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"success","message":"second"}`, string(body))
	assert.EqualValues(t, 2, api.calls)
	assert.EqualValues(t, 1, api.refreshCalls)
	assert.Equal(t, []string{"Bearer old-access", "Bearer new-access"}, api.authorizations)
	require.Len(t, api.requestIDs, 2)
	assert.NotEmpty(t, api.requestIDs[0])
	assert.Equal(t, api.requestIDs[0], api.requestIDs[1])

	access, _ := credentials.AccessToken()
	assert.Equal(t, "new-access", access)
}

func TestDispatcher_Do_NeverRetriesTwice(t *testing.T) {
	api := &fakeAPI{respond: func(attempt int, w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusUnauthorized, `{"message":"Token has expired"}`)
	}}
	dispatcher, _ := newFixture(t, api)

	_, err := dispatcher.Do(context.Background(), &Request{Endpoint: testEndpoint, RequiresAuth: true})
	require.Error(t, err)
	var apiErr *schema.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Token has expired", apiErr.Message)
	assert.EqualValues(t, 2, api.calls)
	assert.EqualValues(t, 1, api.refreshCalls)
}

func TestDispatcher_Do_TokenMissing(t *testing.T) {
	api := &fakeAPI{respond: func(attempt int, w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{}`)
	}}
	var redirected int
	server := httptest.NewServer(api)
	defer server.Close()
	dispatcher := New(server.URL, store.NewMemory(), WithUnauthenticated(func(ctx context.Context) {
		redirected++
	}))

	_, err := dispatcher.Do(context.Background(), &Request{Endpoint: testEndpoint, RequiresAuth: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrTokenMissing))
	assert.Equal(t, 1, redirected)
	assert.EqualValues(t, 0, api.calls)
}

func TestDispatcher_Do_SkipRefresh(t *testing.T) {
	api := &fakeAPI{respond: func(attempt int, w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusUnauthorized, `{"code":"error","message":"Invalid credentials"}`)
	}}
	dispatcher, _ := newFixture(t, api)

	_, err := dispatcher.Do(context.Background(), &Request{Endpoint: testEndpoint, Method: http.MethodPost, SkipRefresh: true})
	var apiErr *schema.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, "error", apiErr.Code)
	assert.EqualValues(t, 1, api.calls)
	assert.EqualValues(t, 0, api.refreshCalls)
}

func TestDispatcher_Do_NoRetryOnOtherStatus(t *testing.T) {
	testCases := []struct {
		description string
		status      int
		body        string
		expect      string
	}{
		{description: "forbidden with message", status: http.StatusForbidden, body: `{"message":"forbidden"}`, expect: "forbidden"},
		{description: "server error without message", status: http.StatusInternalServerError, body: `{}`, expect: "Error: 500"},
		{description: "non json body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, expect: "Error: 502"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			api := &fakeAPI{respond: func(attempt int, w http.ResponseWriter, r *http.Request) {
				writeBody(w, tc.status, tc.body)
			}}
			dispatcher, _ := newFixture(t, api)
			_, err := dispatcher.Do(context.Background(), &Request{Endpoint: testEndpoint, RequiresAuth: true})
			require.Error(t, err)
			assert.EqualError(t, err, tc.expect)
			assert.EqualValues(t, 1, api.calls)
			assert.EqualValues(t, 0, api.refreshCalls)
		})
	}
}

func TestDispatcher_Do_RefreshFailure(t *testing.T) {
	testCases := []struct {
		description string
		purge       bool
	}{
		{description: "credentials kept by default"},
		{description: "credentials purged when configured", purge: true},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			api := &fakeAPI{
				respond: func(attempt int, w http.ResponseWriter, r *http.Request) {
					writeBody(w, http.StatusUnauthorized, `{}`)
				},
				refresh: func(w http.ResponseWriter, r *http.Request) {
					writeBody(w, http.StatusUnauthorized, `{"message":"Invalid refresh token"}`)
				},
			}
			var redirected int
			dispatcher, credentials := newFixture(t, api,
				WithPurgeOnReauthFailure(tc.purge),
				WithUnauthenticated(func(ctx context.Context) { redirected++ }))

			_, err := dispatcher.Do(context.Background(), &Request{Endpoint: testEndpoint, RequiresAuth: true})
			require.Error(t, err)
			assert.True(t, errors.Is(err, schema.ErrReauthenticationFailed))
			assert.EqualValues(t, 1, api.calls)

			_, ok := credentials.AccessToken()
			assert.Equal(t, !tc.purge, ok)
			if tc.purge {
				assert.Equal(t, 1, redirected)
			} else {
				assert.Equal(t, 0, redirected)
			}
		})
	}
}

func TestDispatcher_Do_Request(t *testing.T) {
	var query url.Values
	var header http.Header
	var payload []byte
	api := &fakeAPI{respond: func(attempt int, w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		header = r.Header.Clone()
		payload, _ = io.ReadAll(r.Body)
		writeBody(w, http.StatusOK, `{"message":"ok"}`)
	}}
	dispatcher, _ := newFixture(t, api)

	_, err := dispatcher.Do(context.Background(), &Request{
		Endpoint: testEndpoint,
		Method:   http.MethodPost,
		Body:     map[string]string{"username": "a@b.c"},
		Query:    map[string]string{"page": "2", "per_page": "10"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "10", query.Get("per_page"))
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Empty(t, header.Get("Authorization"))
	assert.JSONEq(t, `{"username":"a@b.c"}`, string(payload))

	_, err = dispatcher.Do(context.Background(), &Request{
		Endpoint:     testEndpoint,
		Method:       http.MethodPost,
		Body:         strings.NewReader("form"),
		FormData:     true,
		RequiresAuth: true,
		Header:       http.Header{"Content-Type": []string{"multipart/form-data; boundary=xyz"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data; boundary=xyz", header.Get("Content-Type"))
	assert.Equal(t, "Bearer old-access", header.Get("Authorization"))
	assert.Equal(t, "form", string(payload))
	assert.Empty(t, query)
}

func TestDispatcher_Do_ReplaysFormBody(t *testing.T) {
	var payloads []string
	api := &fakeAPI{respond: func(attempt int, w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		payloads = append(payloads, string(data))
		if attempt == 1 {
			writeBody(w, http.StatusUnauthorized, `{}`)
			return
		}
		writeBody(w, http.StatusOK, `{"message":"uploaded"}`)
	}}
	dispatcher, _ := newFixture(t, api)

	_, err := dispatcher.Do(context.Background(), &Request{
		Endpoint: "/api/v1/audio/upload", Method: http.MethodPost,
		Body: strings.NewReader("multipart"), FormData: true, RequiresAuth: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"multipart", "multipart"}, payloads)
}

func TestDispatcher_Do_EmptyEndpoint(t *testing.T) {
	dispatcher := New("http://localhost", store.NewMemory())
	_, err := dispatcher.Do(context.Background(), &Request{})
	assert.Error(t, err)
}

func TestCall(t *testing.T) {
	api := &fakeAPI{respond: func(attempt int, w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"code":"success","message":{"data":[{"upload_id":"u1"}],"total":1}}`)
	}}
	dispatcher, _ := newFixture(t, api)

	page, err := Call[schema.Envelope[schema.ReportPage]](context.Background(), dispatcher, &Request{Endpoint: testEndpoint, RequiresAuth: true})
	require.NoError(t, err)
	assert.True(t, page.Succeeded())
	require.Len(t, page.Message.Data, 1)
	assert.Equal(t, "u1", page.Message.Data[0].UploadID)
	assert.Equal(t, 1, page.Message.Total)
}

func TestCall_InvalidJSON(t *testing.T) {
	api := &fakeAPI{respond: func(attempt int, w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `not json`)
	}}
	dispatcher, _ := newFixture(t, api)
	_, err := Call[json.RawMessage](context.Background(), dispatcher, &Request{Endpoint: testEndpoint})
	assert.Error(t, err)
}
