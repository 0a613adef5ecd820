package mock

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"

	"github.com/thrasher-corp/bfxprivate/encoding/json"
)

var errNoMockFile = errors.New("no mock file path supplied")

// VCRMock defines the main mock JSON file and attributes
type VCRMock struct {
	Routes map[string]map[string][]HTTPResponse `json:"routes"`
}

// HTTPResponse defines expected response from the end point including request
// data for pathing on the VCR server
type HTTPResponse struct {
	Data        json.RawMessage   `json:"data"`
	StatusCode  int               `json:"statusCode,omitempty"`
	QueryString string            `json:"queryString"`
	BodyParams  string            `json:"bodyParams"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// Server replays canned responses and records what it was asked
type Server struct {
	*httptest.Server
	mock VCRMock

	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
}

// NewVCRServer starts a new VCR server for replaying HTTP requests for
// testing purposes and returns the server URL and a client for it
func NewVCRServer(path string) (string, *http.Client, error) {
	s, err := NewServer(path)
	if err != nil {
		return "", nil, err
	}
	return s.URL, s.Client(), nil
}

// NewServer loads the routes at path and starts serving them
func NewServer(path string) (*Server, error) {
	if path == "" {
		return nil, errNoMockFile
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Server{}
	if err := json.Unmarshal(contents, &s.mock); err != nil {
		return nil, fmt.Errorf("mock file %s: %w", path, err)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s, nil
}

// Requests returns the requests served so far and their bodies
func (s *Server) Requests() ([]*http.Request, [][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...), append([][]byte(nil), s.bodies...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.bodies = append(s.bodies, body)
	s.mu.Unlock()

	resp, err := s.match(r, body)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprintf(w, `["error",10020,%q]`, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	if resp.StatusCode != 0 {
		w.WriteHeader(resp.StatusCode)
	}
	_, _ = w.Write(resp.Data)
}

func (s *Server) match(r *http.Request, body []byte) (*HTTPResponse, error) {
	candidates := s.mock.Routes[r.URL.Path][r.Method]
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no route for %s %s", r.Method, r.URL.Path)
	}
	bodyVals, err := DeriveURLValsFromJSONMap(body)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		q, err := url.ParseQuery(candidates[i].QueryString)
		if err != nil {
			return nil, err
		}
		if !MatchURLVals(q, r.URL.Query()) {
			continue
		}
		b, err := url.ParseQuery(candidates[i].BodyParams)
		if err != nil {
			return nil, err
		}
		if MatchURLVals(b, bodyVals) {
			return &candidates[i], nil
		}
	}
	return nil, fmt.Errorf("no response matches %s %s body %s", r.Method, r.URL.Path, body)
}
