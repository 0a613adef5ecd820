package request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/bfxprivate/log"
	"golang.org/x/time/rate"
)

var (
	errRequestSystemIsNil   = errors.New("request system is nil")
	errMaxRequestJobs       = errors.New("max request jobs reached")
	errRequestFunctionIsNil = errors.New("request function is nil")
	errRequestItemNil       = errors.New("request item is nil")
	errInvalidPath          = errors.New("invalid path")
	errHTTPClientIsNil      = errors.New("http client is nil")
	errHeaderResponseIsNil  = errors.New("header response is nil")
)

// StatusError is returned when the remote end answers with a non 2xx status.
// Body holds the response as received.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unsuccessful HTTP status code: %d raw response: %s", e.StatusCode, e.Body)
}

// WithLimiter sets a rate limiter applied before every request. Requests are
// unlimited when no limiter is set.
func WithLimiter(l *rate.Limiter) RequesterOption {
	return func(r *Requester) {
		r.limiter = l
	}
}

// WithUserAgent sets a user agent header on every request that does not
// already carry one
func WithUserAgent(ua string) RequesterOption {
	return func(r *Requester) {
		r.userAgent = ua
	}
}

// New returns a new Requester
func New(name string, httpRequester *http.Client, opts ...RequesterOption) (*Requester, error) {
	if httpRequester == nil {
		return nil, errHTTPClientIsNil
	}
	r := &Requester{
		httpClient: httpRequester,
		name:       name,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Name returns the requester's service name
func (r *Requester) Name() string { return r.name }

// SendPayload handles sending HTTP/HTTPS requests and returns the raw
// response body. Requests are never retried.
func (r *Requester) SendPayload(ctx context.Context, ep EndpointLimit, newRequest Generate, requestType AuthType) ([]byte, error) {
	if r == nil {
		return nil, errRequestSystemIsNil
	}
	if newRequest == nil {
		return nil, errRequestFunctionIsNil
	}
	if r.jobs.Load() >= MaxRequestJobs {
		return nil, errMaxRequestJobs
	}
	r.jobs.Add(1)
	defer r.jobs.Add(-1)
	return r.doRequest(ctx, ep, newRequest, requestType)
}

// validateRequest validates the requester item fields
func (i *Item) validateRequest(ctx context.Context, r *Requester) (*http.Request, error) {
	if i == nil {
		return nil, errRequestItemNil
	}
	if i.Path == "" {
		return nil, errInvalidPath
	}
	if i.HeaderResponse != nil && *i.HeaderResponse == nil {
		return nil, errHeaderResponseIsNil
	}

	req, err := http.NewRequestWithContext(ctx, i.Method, i.Path, i.Body)
	if err != nil {
		return nil, err
	}
	for k, v := range i.Headers {
		req.Header.Add(k, v)
	}
	if r.userAgent != "" && req.Header.Get(userAgent) == "" {
		req.Header.Add(userAgent, r.userAgent)
	}
	return req, nil
}

func (r *Requester) doRequest(ctx context.Context, ep EndpointLimit, newRequest Generate, requestType AuthType) ([]byte, error) {
	if err := r.InitiateRateLimit(ctx, ep); err != nil {
		return nil, err
	}

	jobID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	resp, p, err := r.send(ctx, newRequest, requestType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	verbose := IsVerbose(ctx, p.Verbose)
	if verbose {
		log.Debugf(log.RequestSys, "%s [%s] %s %s", r.name, jobID, p.Method, p.Path)
	}
	if p.HTTPDebugging {
		if dump, err := httputil.DumpResponse(resp, false); err == nil {
			log.Debugf(log.RequestSys, "%s [%s] DumpResponse Headers (%v):\n%s", r.name, jobID, p.Path, dump)
		}
	}

	contents, err := io.ReadAll(io.LimitReader(resp.Body, defaultResponseBufferLimit))
	if err != nil {
		return nil, err
	}

	if p.HeaderResponse != nil {
		for k, v := range resp.Header {
			(*p.HeaderResponse)[k] = v
		}
	}

	if verbose {
		log.Debugf(log.RequestSys, "%s [%s] HTTP status: %s raw response: %s", r.name, jobID, resp.Status, contents)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: contents}
	}
	return contents, nil
}

// send builds the request via newRequest and performs it. Authenticated
// requests hold the nonce lock across both steps.
func (r *Requester) send(ctx context.Context, newRequest Generate, requestType AuthType) (*http.Response, *Item, error) {
	if requestType == AuthenticatedRequest {
		r.nonceLock.Lock()
		defer r.nonceLock.Unlock()
	}

	p, err := newRequest()
	if err != nil {
		return nil, nil, err
	}
	req, err := p.validateRequest(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	if p.HTTPDebugging {
		if dump, err := httputil.DumpRequestOut(req, true); err == nil {
			log.Debugf(log.RequestSys, "%s DumpRequest:\n%s", r.name, dump)
		}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	return resp, p, nil
}
