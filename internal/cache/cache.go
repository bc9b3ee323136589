package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/antonio-alexander/go-learning-history/internal/data"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"
)

var (
	ErrEmployeesNotCached = errors.New("employees not cached")
	ErrEmployeeNotCached  = errors.New("employee not cached")
	ErrGenerationStale    = errors.New("generation stale, a newer snapshot has been written")
)

// Cache holds the last full employee snapshot fetched from the remote store.
// Writers take a generation from GenerationIncrement before they fetch and
// hand it back to EmployeesWrite; a write with a generation older than the
// last one written is rejected with ErrGenerationStale.
type Cache interface {
	GenerationIncrement(ctx context.Context) (int64, error)
	EmployeeRead(ctx context.Context, delegateId string) (*data.Employee, error)
	EmployeesRead(ctx context.Context) ([]*data.Employee, error)
	EmployeesWrite(ctx context.Context, generation int64, employees ...*data.Employee) error
}

type retryConfig struct {
	maxRetries     uint
	retryInterval  time.Duration
	exponentialOff bool
}

func (r *retryConfig) configure(envs map[string]string) {
	r.maxRetries, r.retryInterval = 1, time.Second
	if s, ok := envs["CACHE_MAX_RETRIES"]; ok {
		if i, err := strconv.ParseUint(s, 10, 32); err == nil && i > 0 {
			r.maxRetries = uint(i)
		}
	}
	if s, ok := envs["CACHE_RETRY_INTERVAL"]; ok {
		if i, err := strconv.Atoi(s); err == nil && i > 0 {
			r.retryInterval = time.Duration(i) * time.Second
		}
	}
	if s, ok := envs["CACHE_RETRY_EXP_BACKOFF"]; ok {
		r.exponentialOff, _ = strconv.ParseBool(s)
	}
}

// retry executes fx until it succeeds or the configured number of tries is
// exhausted
func (r *retryConfig) retry(ctx context.Context, fx func() error) error {
	var b backoff.BackOff = backoff.NewConstantBackOff(r.retryInterval)
	if r.exponentialOff {
		exponential := backoff.NewExponentialBackOff()
		exponential.InitialInterval = r.retryInterval
		b = exponential
	}
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, fx()
	}, backoff.WithBackOff(b), backoff.WithMaxTries(r.maxRetries))
	return err
}

func findEmployee(employees []*data.Employee, delegateId string) (*data.Employee, error) {
	for _, employee := range employees {
		if employee.DelegateId == delegateId {
			return employee, nil
		}
	}
	return nil, errors.Wrapf(ErrEmployeeNotCached, "delegate id: %s", delegateId)
}
