package bitfinex

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/thrasher-corp/bfxprivate/encoding/json"
	"github.com/thrasher-corp/bfxprivate/encoding/positional"
	"github.com/thrasher-corp/bfxprivate/exchanges/account"
	"github.com/thrasher-corp/bfxprivate/exchanges/nonce"
	"github.com/thrasher-corp/bfxprivate/exchanges/request"
	"github.com/thrasher-corp/bfxprivate/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultAPIURL is the production REST endpoint
	DefaultAPIURL       = "https://api.bitfinex.com"
	bitfinexAPIVersion2 = "/v2/"
	bitfinexAuthPath    = "auth/"
	exchangeName        = "Bitfinex"

	// Authenticated endpoints
	bitfinexWallets          = "wallets"
	bitfinexMarginBase       = "info/margin/base"
	bitfinexMarginInfo       = "info/margin/"
	bitfinexFundingInfo      = "info/funding/"
	bitfinexDepositAddress   = "deposit/address"
	bitfinexDepositInvoice   = "deposit/invoice"
	bitfinexTransfer         = "transfer"
	bitfinexWithdrawal       = "withdraw"
	bitfinexMovementInfo     = "movements/info"
	bitfinexMovements        = "movements/"
	bitfinexMovementsHistory = "hist"
	bitfinexOrders           = "orders"
	bitfinexOrderHistory     = "orders/hist"
	bitfinexOrderSubmit      = "order/submit"
	bitfinexOrderCancel      = "order/cancel"
)

var (
	emptyObject = []byte("{}")
	nullJSON    = []byte("null")
)

// Exchange is the overarching type across the bitfinex package. It is safe
// for concurrent use; the nonce source is its only mutable state.
type Exchange struct {
	Verbose       bool
	HTTPDebugging bool

	apiURL      string
	credentials account.Credentials
	requester   *request.Requester
	nonce       nonce.Nonce
}

type settings struct {
	apiURL        string
	credentials   account.Credentials
	client        *http.Client
	limiter       *rate.Limiter
	verbose       bool
	httpDebugging bool
}

// Option configures an Exchange at construction
type Option func(*settings)

// WithCredentials sets the API key and secret used to sign requests
func WithCredentials(key, secret string) Option {
	return func(s *settings) {
		s.credentials = account.Credentials{Key: key, Secret: secret}
	}
}

// WithAPIURL overrides the REST endpoint, trailing slashes are dropped
func WithAPIURL(u string) Option {
	return func(s *settings) {
		s.apiURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the client requests are sent with
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.client = c
	}
}

// WithRateLimiter throttles outbound requests. There is no limit by default.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(s *settings) {
		s.limiter = l
	}
}

// WithVerbose logs request and response bodies at debug level
func WithVerbose(verbose bool) Option {
	return func(s *settings) {
		s.verbose = verbose
	}
}

// WithHTTPDebugging dumps full HTTP exchanges at debug level
func WithHTTPDebugging(debug bool) Option {
	return func(s *settings) {
		s.httpDebugging = debug
	}
}

// New returns an Exchange handle. Missing credentials are not an error here;
// authenticated calls fail with a *ConfigurationError instead.
func New(opts ...Option) (*Exchange, error) {
	s := settings{
		apiURL: DefaultAPIURL,
		client: &http.Client{Timeout: request.DefaultTimeout},
	}
	for _, o := range opts {
		o(&s)
	}

	var reqOpts []request.RequesterOption
	if s.limiter != nil {
		reqOpts = append(reqOpts, request.WithLimiter(s.limiter))
	}
	r, err := request.New(exchangeName, s.client, reqOpts...)
	if err != nil {
		return nil, err
	}
	e := &Exchange{
		Verbose:       s.verbose,
		HTTPDebugging: s.httpDebugging,
		apiURL:        s.apiURL,
		credentials:   s.credentials,
		requester:     r,
	}
	if e.Verbose {
		log.Debugf(log.ExchangeSys, "%s REST endpoint %s credentials %s", exchangeName, e.apiURL, e.credentials.String())
	}
	return e, nil
}

// GetName returns the exchange name
func (e *Exchange) GetName() string { return exchangeName }

// GetDefaultCredentials returns a copy of the credentials the handle was
// constructed with
func (e *Exchange) GetDefaultCredentials() *account.Credentials {
	c := e.credentials
	return &c
}

// VerifyAPICredentials checks creds can sign a request
func (e *Exchange) VerifyAPICredentials(creds *account.Credentials) error {
	if err := creds.Validate(); err != nil {
		return &ConfigurationError{Err: err}
	}
	return nil
}

// GetCredentials returns the credentials for a call: those deployed to ctx
// with account.DeployCredentialsToContext, otherwise the default ones
func (e *Exchange) GetCredentials(ctx context.Context) (*account.Credentials, error) {
	creds, ok := account.CredentialsFromContext(ctx)
	if !ok {
		creds = e.GetDefaultCredentials()
	}
	if err := e.VerifyAPICredentials(creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// SendAuthenticatedQuery sends a signed read-scope request to
// /v2/auth/r/<path> and decodes the response directly into result. A nil req
// sends an empty JSON object.
func (e *Exchange) SendAuthenticatedQuery(ctx context.Context, path string, req, result any) error {
	return e.sendAuthenticatedDecode(ctx, readQuery, path, req, result)
}

// SendAuthenticatedCommand sends a signed write-scope request to
// /v2/auth/w/<path>. The notification envelope is checked first: any status
// other than SUCCESS is returned as an *ExchangeError and the payload is not
// decoded. Otherwise the whole envelope is decoded into result.
func (e *Exchange) SendAuthenticatedCommand(ctx context.Context, path string, req, result any) error {
	if result == nil {
		return errNilResult
	}
	raw, err := e.sendAuthenticated(ctx, writeCommand, path, req)
	if err != nil {
		return err
	}

	var header Notification
	if err := header.decode(raw, "Notification", positional.Placeholder()); err != nil {
		return newProtocolError(path, "Notification", raw, err)
	}
	if header.Status != StatusSuccess {
		return header.exchangeError(path)
	}
	return decodeResponse(path, raw, result)
}

func (e *Exchange) sendAuthenticatedDecode(ctx context.Context, kind operationKind, path string, req, result any) error {
	if result == nil {
		return errNilResult
	}
	raw, err := e.sendAuthenticated(ctx, kind, path, req)
	if err != nil {
		return err
	}
	return decodeResponse(path, raw, result)
}

// sendAuthenticatedList is SendAuthenticatedQuery for list endpoints, which
// answer with an array even when there is nothing to return
func (e *Exchange) sendAuthenticatedList(ctx context.Context, path string, req, result any) error {
	if result == nil {
		return errNilResult
	}
	raw, err := e.sendAuthenticated(ctx, readQuery, path, req)
	if err != nil {
		return err
	}
	if bytes.Equal(bytes.TrimSpace(raw), nullJSON) {
		return newProtocolError(path, fmt.Sprintf("%T", result), raw, errNullResponse)
	}
	return decodeResponse(path, raw, result)
}

func decodeResponse(path string, raw []byte, result any) error {
	if err := json.Unmarshal(raw, result); err != nil {
		return newProtocolError(path, fmt.Sprintf("%T", result), raw, err)
	}
	return nil
}

// sendAuthenticated signs and sends a request and returns the raw response.
// Credentials are checked before a nonce is issued; the nonce is issued
// inside the request generator so issue order matches send order.
func (e *Exchange) sendAuthenticated(ctx context.Context, kind operationKind, path string, req any) ([]byte, error) {
	creds, err := e.GetCredentials(ctx)
	if err != nil {
		return nil, err
	}

	payload := emptyObject
	if req != nil {
		if payload, err = json.Marshal(req); err != nil {
			return nil, newProtocolError(path, fmt.Sprintf("%T", req), nil, fmt.Errorf("%w: %w", errEncodingRequest, err))
		}
		// a typed nil pointer encodes as null
		if bytes.Equal(payload, nullJSON) {
			payload = emptyObject
		}
	}

	verbose := request.IsVerbose(ctx, e.Verbose)
	if verbose {
		log.Debugf(log.ExchangeSys, "%s %s %s request JSON: %s", exchangeName, kind, path, payload)
	}

	endpoint := e.apiURL + bitfinexAPIVersion2 + bitfinexAuthPath + kind.scope() + "/" + path
	raw, err := e.requester.SendPayload(ctx, request.Auth, func() (*request.Item, error) {
		n := e.nonce.GetAndIncrement(nonce.UnixMilli)
		headers, err := signRequest(creds, kind, path, n, payload)
		if err != nil {
			return nil, err
		}
		return &request.Item{
			Method:        http.MethodPost,
			Path:          endpoint,
			Headers:       headers,
			Body:          bytes.NewReader(payload),
			Verbose:       verbose,
			HTTPDebugging: e.HTTPDebugging,
		}, nil
	}, request.AuthenticatedRequest)
	if err != nil {
		return nil, classifyTransportError(path, err)
	}
	return raw, nil
}

// prefixSymbol returns symbol with the t (trading) or f (funding) prefix
// Bitfinex expects, unless it already carries one
func prefixSymbol(prefix byte, symbol string) string {
	if len(symbol) > 1 && symbol[0] == prefix && unicode.IsUpper(rune(symbol[1])) {
		return symbol
	}
	return string(prefix) + strings.ToUpper(symbol)
}
