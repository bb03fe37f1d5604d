package retry

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// Policy classifies failed round trips as retryable. The condition names
// follow Envoy's retry_on values.
type Policy struct {
	serverErrors    bool
	gatewayErrors   bool
	connectFailures bool
	conflicts       bool
	statusCodes     []int
}

func DefaultPolicy() *Policy {
	return &Policy{
		gatewayErrors:   true,
		connectFailures: true,
		conflicts:       true,
	}
}

// ParsePolicy reads a comma separated list such as "5xx,connect-failure,429".
func ParsePolicy(s string) (*Policy, error) {
	p := &Policy{}
	for _, condition := range strings.Split(s, ",") {
		switch condition = strings.TrimSpace(condition); condition {
		case "5xx":
			p.serverErrors = true
		case "gateway-error":
			p.gatewayErrors = true
		case "connect-failure":
			p.connectFailures = true
		case "retriable-4xx":
			p.conflicts = true
		default:
			statusCode, err := strconv.Atoi(condition)
			if err != nil {
				return nil, xerrors.Errorf("invalid retry condition: %q", condition)
			}
			p.statusCodes = append(p.statusCodes, statusCode)
		}
	}
	return p, nil
}

func (p *Policy) RetryResponse(response *http.Response) bool {
	code := response.StatusCode
	switch {
	case p.serverErrors && code >= 500 && code < 600:
		return true
	case p.gatewayErrors && code >= 502 && code <= 504:
		return true
	case p.conflicts && code == http.StatusConflict:
		return true
	}

	for _, statusCode := range p.statusCodes {
		if statusCode == code {
			return true
		}
	}
	return false
}

func (p *Policy) RetryError(err error) bool {
	if !p.connectFailures && !p.serverErrors {
		return false
	}

	type temporary interface{ Temporary() bool }
	var terr temporary
	return (errors.As(err, &terr) && terr.Temporary()) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
