package cache

import (
	"context"
	"sync"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/pkg/errors"
)

type memoryCache struct {
	sync.RWMutex
	employees  data.Employees
	cached     bool
	generation int64 //last issued
	applied    int64 //last written
	utilities.Logger
}

func NewMemory(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &memoryCache{Logger: utilities.NewNullLogger()}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	return c
}

func (c *memoryCache) Configure(envs map[string]string) error {
	return nil
}

func (c *memoryCache) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.employees, c.cached = nil, false
	return nil
}

func (c *memoryCache) Close(ctx context.Context) error {
	return nil
}

// Clear drops the snapshot but keeps the generations so a write that was
// in flight while clearing still can't go backwards
func (c *memoryCache) Clear(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.employees, c.cached = nil, false
	return nil
}

func (c *memoryCache) GenerationIncrement(ctx context.Context) (int64, error) {
	c.Lock()
	defer c.Unlock()

	c.generation++
	return c.generation, nil
}

func (c *memoryCache) EmployeeRead(ctx context.Context, delegateId string) (*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	if !c.cached {
		return nil, ErrEmployeesNotCached
	}
	employee, err := findEmployee(c.employees, delegateId)
	if err != nil {
		return nil, err
	}
	return employee.Copy(), nil
}

func (c *memoryCache) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	if !c.cached {
		return nil, ErrEmployeesNotCached
	}
	return c.employees.Copy(), nil
}

func (c *memoryCache) EmployeesWrite(ctx context.Context, generation int64, employees ...*data.Employee) error {
	c.Lock()
	defer c.Unlock()

	if generation < c.applied {
		c.Debug(ctx, "discarding employees snapshot (generation %d < %d)",
			generation, c.applied)
		return errors.Wrapf(ErrGenerationStale, "generation %d", generation)
	}
	c.employees, c.cached = data.Employees(employees).Copy(), true
	c.applied = generation
	if generation > c.generation {
		c.generation = generation
	}
	c.Trace(ctx, "cached %d employees (generation %d)", len(c.employees), generation)
	return nil
}
