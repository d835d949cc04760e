package retry

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
	"github.com/sirupsen/logrus"
)

const (
	defaultRetryMinBackoff = 50 * time.Millisecond
	defaultRetryMaxBackoff = 1 * time.Second
)

type RunFunc func() error
type RunValueFunc[T any] func() (T, error)
type CheckFunc func(tries int, err error) bool
type checkFuncWithPrevious func(tries int, err error, shouldRetry bool) bool

// used only in tests to mock the run and check functions
//
//go:generate mockery --name=retryable --inpackage
type retryable interface {
	Run() error
	ShouldRetry(tries int, err error) bool
}

type Retry[T any] struct {
	ctx     context.Context
	run     RunValueFunc[T]
	check   CheckFunc
	backoff *backoff.Backoff
}

func New(run RunFunc) *Retry[any] {
	return NewWithValue(func() (any, error) {
		return nil, run()
	})
}

func NewWithValue[T any](run RunValueFunc[T]) *Retry[T] {
	return &Retry[T]{
		ctx: context.Background(),
		run: run,
		check: func(_ int, _ error) bool {
			return true
		},
		backoff: &backoff.Backoff{Min: defaultRetryMinBackoff, Max: defaultRetryMaxBackoff},
	}
}

func (r *Retry[T]) wrapCheck(newCheck checkFuncWithPrevious) *Retry[T] {
	originalCheck := r.check
	return r.WithCheck(func(tries int, err error) bool {
		shouldRetry := false
		if originalCheck != nil {
			shouldRetry = originalCheck(tries, err)
		}

		return newCheck(tries, err, shouldRetry)
	})
}

func (r *Retry[T]) WithCheck(check CheckFunc) *Retry[T] {
	r.check = check
	return r
}

func (r *Retry[T]) WithMaxTries(max int) *Retry[T] {
	return r.wrapCheck(func(tries int, err error, shouldRetry bool) bool {
		if tries >= max {
			return false
		}

		return shouldRetry
	})
}

func (r *Retry[T]) WithBackoff(min, max time.Duration) *Retry[T] {
	r.backoff = &backoff.Backoff{Min: min, Max: max}
	return r
}

// WithContext stops retrying once ctx is done. The last error of the run
// function is returned in that case.
func (r *Retry[T]) WithContext(ctx context.Context) *Retry[T] {
	r.ctx = ctx
	return r
}

func (r *Retry[T]) WithLogrus(log logrus.FieldLogger) *Retry[T] {
	return r.wrapCheck(func(tries int, err error, shouldRetry bool) bool {
		if shouldRetry {
			log.WithError(err).WithField("tries", tries).Warningln("Retrying...")
		}

		return shouldRetry
	})
}

func (r *Retry[T]) Run() error {
	_, err := r.RunValue()
	return err
}

func (r *Retry[T]) RunValue() (T, error) {
	var err error
	var tries int
	var value T
	for {
		tries++
		value, err = r.run()
		if err == nil || !r.check(tries, err) {
			break
		}

		timer := time.NewTimer(r.backoff.Duration())
		select {
		case <-r.ctx.Done():
			timer.Stop()
			return value, err
		case <-timer.C:
		}
	}

	return value, err
}
