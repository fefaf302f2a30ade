package mock

import "net/http/httptest"

type HTTPTestAPIServer struct {
	*APIService
	Server *httptest.Server
	URL    string
}

// NewHTTPTestAPIServer starts the fake API on a local listener.
func NewHTTPTestAPIServer(opts ...Option) (*HTTPTestAPIServer, error) {
	service, err := NewAPIService(opts...)
	if err != nil {
		return nil, err
	}
	server := &HTTPTestAPIServer{
		APIService: service,
	}
	server.Server = httptest.NewServer(service.Handler())
	service.Issuer = server.Server.URL
	server.URL = server.Server.URL
	return server, nil
}

func (s *HTTPTestAPIServer) Close() {
	if s.Server != nil {
		s.Server.Close()
	}
	s.Server = nil
}
