package retry

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"golang.org/x/exp/constraints"
)

// Backoff decides how long to wait before retry number attempt. done is true
// once no further attempt may be made.
type Backoff interface {
	Delay(attempt uint) (wait time.Duration, done bool)
}

type noRetry struct{}

func NewNoRetry() Backoff {
	return noRetry{}
}

func (noRetry) Delay(uint) (time.Duration, bool) {
	return 0, true
}

// Entropy returns a value in [0, n); it is rand.Int63n unless overridden.
type Entropy func(n int64) int64

type exponentialBackoff struct {
	base       time.Duration
	max        time.Duration
	maxRetries uint
	entropy    Entropy
}

// NewExponentialBackoff waits a random duration below min(base*2^attempt, max)
// and gives up after maxRetries retries.
func NewExponentialBackoff(base time.Duration, max time.Duration, maxRetries uint, entropy Entropy) Backoff {
	if entropy == nil {
		entropy = rand.Int63n
	}
	return &exponentialBackoff{
		base:       base,
		max:        max,
		maxRetries: maxRetries,
		entropy:    entropy,
	}
}

func (eb *exponentialBackoff) Delay(attempt uint) (time.Duration, bool) {
	if attempt >= eb.maxRetries {
		return 0, true
	}

	ceiling := int64(eb.max)
	if attempt < 63 {
		if delay, err := checkedMul(int64(1)<<attempt, int64(eb.base)); err == nil {
			ceiling = lesser(delay, ceiling)
		}
	}
	if ceiling <= 0 {
		return 0, false
	}
	return time.Duration(eb.entropy(ceiling)), false
}

func lesser[T constraints.Ordered](l T, r T) T {
	if l > r {
		return r
	}
	return l
}

var ErrOverflow = errors.New("overflow")

func checkedMul(l int64, r int64) (int64, error) {
	if l == 0 || r == 0 {
		return 0, nil
	}
	if l > math.MaxInt64/r {
		return 0, ErrOverflow
	}
	return l * r, nil
}
