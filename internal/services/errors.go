package services

import (
	"fmt"

	"github.com/desertthunder/trackbrowse/internal/shared"
)

// ErrorKind classifies a [RemoteError].
type ErrorKind int

const (
	KindNetwork ErrorKind = iota // transport failure, canceled context, unreadable body
	KindClient                   // 4xx status
	KindServer                   // 5xx or other non-2xx status
	KindDecode                   // malformed payload
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// RemoteError is returned by every failed catalog operation.
//
// errors.Is(err, [shared.ErrAPIRequest]) holds for all of them; the underlying cause, if any, is also unwrapped.
type RemoteError struct {
	Op         string
	URL        string
	Kind       ErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: %s error: status %d: %s", e.Op, e.Kind, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s error: status %d", e.Op, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrAPIRequest}
	}
	return []error{shared.ErrAPIRequest, e.Err}
}

func statusKind(code int) ErrorKind {
	if code >= 400 && code < 500 {
		return KindClient
	}
	return KindServer
}
