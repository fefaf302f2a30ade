package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Request describes one API call.
type Request struct {
	// Endpoint is the path appended to the base URL, e.g. /api/v2/auth/login.
	Endpoint string
	// Method defaults to GET.
	Method string
	// Body is JSON encoded, unless FormData is set in which case it must be an
	// io.Reader or []byte holding the encoded form.
	Body interface{}
	Query map[string]string
	// RequiresAuth attaches the stored access token, failing before sending when there is none.
	RequiresAuth bool
	// FormData suppresses the JSON content type; set the multipart Content-Type through Header.
	FormData bool
	// SkipRefresh disables the refresh-and-retry on 401.
	SkipRefresh bool
	Header      http.Header
}

func (r *Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// payload returns the encoded body; it is buffered so the request can be replayed.
func (r *Request) payload() ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	if !r.FormData {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %v request: %w", r.Endpoint, err)
		}
		return data, nil
	}
	switch actual := r.Body.(type) {
	case []byte:
		return actual, nil
	case io.Reader:
		data, err := io.ReadAll(actual)
		if err != nil {
			return nil, fmt.Errorf("failed to read %v form: %w", r.Endpoint, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported form body type: %T", r.Body)
}

func (r *Request) header() http.Header {
	ret := http.Header{}
	if !r.FormData {
		ret.Set("Content-Type", contentTypeJSON)
	}
	for k, values := range r.Header {
		for _, v := range values {
			ret.Add(k, v)
		}
	}
	return ret
}

func withBody(req *http.Request, body []byte) *http.Request {
	if body != nil {
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
	return req
}
