package fetcher

import (
	"errors"
	"fmt"
)

// Kind classifies why a fetch failed
type Kind int

const (
	// KindTransport is a network-level failure: dial, TLS, read, decompression
	KindTransport Kind = iota + 1
	// KindStatus is a non-2xx response; StatusCode carries the code
	KindStatus
	// KindParse is a body that is not the expected job list
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// FetchError is returned by FetchAll for every failure
type FetchError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("failed to fetch jobs: %d", e.StatusCode)
	case KindParse:
		return fmt.Sprintf("failed to parse jobs: %v", e.Err)
	default:
		return fmt.Sprintf("failed to fetch jobs: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or 0 when err is not a FetchError
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
