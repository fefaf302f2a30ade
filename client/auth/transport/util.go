package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	neturl "net/url"

	"golang.org/x/oauth2"
)

const contentTypeJSON = "application/json"

func successful(status int) bool {
	return status >= 200 && status < 300
}

func setBearer(req *http.Request, token string) {
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
}

// composeURL appends the endpoint and, when present, the query string to the base URL.
func composeURL(baseURL, endpoint string, query map[string]string) string {
	URL := baseURL + endpoint
	if len(query) == 0 {
		return URL
	}
	values := neturl.Values{}
	for k, v := range query {
		values.Set(k, v)
	}
	return URL + "?" + values.Encode()
}

func unmarshal(data []byte, target interface{}) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(data, target)
}

// apiMessage extracts the "code" and string "message" fields of an error body.
func apiMessage(data []byte) (code, message string) {
	var body struct {
		Code    string          `json:"code"`
		Message json.RawMessage `json:"message"`
	}
	if json.Unmarshal(bytes.TrimSpace(data), &body) != nil {
		return "", ""
	}
	_ = json.Unmarshal(body.Message, &message)
	return body.Code, message
}
