package request

import (
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Const vars for rate limiter and jobs
const (
	MaxRequestJobs             = 50
	DefaultTimeout             = 15 * time.Second
	userAgent                  = "User-Agent"
	UnauthenticatedRequest     = AuthType(false)
	AuthenticatedRequest       = AuthType(true)
	defaultResponseBufferLimit = 1 << 22
)

// AuthType helps distinguish the purpose of a HTTP request. Authenticated
// requests carry a nonce and are issued and sent one at a time.
type AuthType bool

// Requester struct for the request client
type Requester struct {
	httpClient *http.Client
	name       string
	userAgent  string
	limiter    *rate.Limiter
	jobs       atomic.Int32
	// nonceLock is held from nonce issue until the transport returns so the
	// remote end observes authenticated requests in nonce order
	nonceLock sync.Mutex
}

// Item is a temp item for requests
type Item struct {
	Method         string
	Path           string
	Headers        map[string]string
	Body           io.Reader
	Verbose        bool
	HTTPDebugging  bool
	HeaderResponse *http.Header
}

// Generate defines a closure for functionality outside the requester to be
// used on each request. For authenticated requests the closure is invoked
// with the nonce lock held, so nonces must be issued inside it.
type Generate func() (*Item, error)

// RequesterOption is a function option that can be applied to configure a
// Requester when creating it.
type RequesterOption func(*Requester)
