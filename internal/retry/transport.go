package retry

import (
	"io"
	"net/http"
	"time"

	"golang.org/x/xerrors"
)

// Transport retries round trips according to Policy, waiting between attempts
// as Backoff says. Requests with a body are replayed through GetBody.
type Transport struct {
	Base    http.RoundTripper
	Backoff Backoff
	Policy  *Policy
}

func (t *Transport) RoundTrip(request *http.Request) (*http.Response, error) {
	for attempt := uint(0); ; attempt++ {
		if attempt > 0 && request.Body != nil && request.Body != http.NoBody {
			if request.GetBody == nil {
				return nil, xerrors.New("cannot retry request without GetBody")
			}
			body, err := request.GetBody()
			if err != nil {
				return nil, xerrors.Errorf("failed to rewind request body: %w", err)
			}
			request = request.Clone(request.Context())
			request.Body = body
		}

		wait, done := t.backoff().Delay(attempt)
		response, err := t.base().RoundTrip(request)

		retryable := false
		if err != nil {
			retryable = t.Policy != nil && t.Policy.RetryError(err)
		} else {
			retryable = t.Policy != nil && t.Policy.RetryResponse(response)
		}
		if done || !retryable {
			return response, err
		}

		if response != nil {
			_, _ = io.Copy(io.Discard, response.Body)
			response.Body.Close()
		}

		timer := time.NewTimer(wait)
		select {
		case <-request.Context().Done():
			timer.Stop()
			return nil, request.Context().Err()
		case <-timer.C:
		}
	}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) backoff() Backoff {
	if t.Backoff != nil {
		return t.Backoff
	}
	return NewNoRetry()
}
