package cache

import (
	"context"
	"strconv"
	"sync"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/antonio-alexander/go-stash"
	"github.com/pkg/errors"
)

// generation is how the last written generation is kept in the stash
type generation int64

func (g *generation) MarshalBinary() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(*g), 10)), nil
}

func (g *generation) UnmarshalBinary(data []byte) error {
	i, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*g = generation(i)
	return nil
}

type stashCache struct {
	sync.Mutex
	logger utilities.Logger
	stash  interface {
		stash.Configurer
		stash.Parameterizer
		stash.Initializer
		stash.Shutdowner
	}
	stash.Stasher
	generation int64
}

// NewStash wraps a go-stash implementation (memory or redis); the snapshot
// and the last written generation are stashed while generations are issued
// in process
func NewStash(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &stashCache{logger: utilities.NewNullLogger()}
	for _, p := range parameters {
		switch p := p.(type) {
		case utilities.Logger:
			c.logger = p
		case interface {
			stash.Configurer
			stash.Parameterizer
			stash.Initializer
			stash.Shutdowner
			stash.Stasher
		}:
			c.stash = p
			c.Stasher = p
		}
	}
	if c.stash != nil {
		c.stash.SetParameters(parameters...)
	}
	return c
}

func (c *stashCache) Configure(envs map[string]string) error {
	if c.stash != nil {
		if err := c.stash.Configure(envs); err != nil {
			return err
		}
	}
	return nil
}

func (c *stashCache) Open(ctx context.Context) error {
	if c.stash == nil {
		return errors.New("stash not provided")
	}
	return c.stash.Initialize()
}

func (c *stashCache) Close(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Shutdown()
	}
	return nil
}

func (c *stashCache) Clear(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	if err := c.Stasher.Delete(keyEmployees); err != nil {
		c.logger.Trace(ctx, "error while deleting employees: %s", err)
	}
	return nil
}

func (c *stashCache) GenerationIncrement(ctx context.Context) (int64, error) {
	c.Lock()
	defer c.Unlock()

	c.generation++
	return c.generation, nil
}

func (c *stashCache) EmployeeRead(ctx context.Context, delegateId string) (*data.Employee, error) {
	employees, err := c.EmployeesRead(ctx)
	if err != nil {
		return nil, err
	}
	return findEmployee(employees, delegateId)
}

func (c *stashCache) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	c.Lock()
	defer c.Unlock()

	employees := data.Employees{}
	if err := c.Stasher.Read(keyEmployees, &employees); err != nil {
		c.logger.Trace(ctx, "cache miss for employees: %s", err)
		return nil, ErrEmployeesNotCached
	}
	c.logger.Trace(ctx, "cache hit for employees")
	return employees, nil
}

func (c *stashCache) EmployeesWrite(ctx context.Context, g int64, employees ...*data.Employee) error {
	c.Lock()
	defer c.Unlock()

	var applied generation

	//KIM: a missing generation means nothing has been written yet
	if err := c.Stasher.Read(keyGenerationApplied, &applied); err == nil && g < int64(applied) {
		c.logger.Debug(ctx, "discarding employees snapshot (generation %d < %d)", g, applied)
		return errors.Wrapf(ErrGenerationStale, "generation %d", g)
	}
	snapshot := data.Employees(employees).Copy()
	if _, err := c.Stasher.Write(keyEmployees, &snapshot); err != nil {
		c.logger.Error(ctx, "error while writing employees: %s", err)
		return err
	}
	applied = generation(g)
	if _, err := c.Stasher.Write(keyGenerationApplied, &applied); err != nil {
		c.logger.Error(ctx, "error while writing generation: %s", err)
		return err
	}
	if g > c.generation {
		c.generation = g
	}
	c.logger.Trace(ctx, "cached %d employees (generation %d)", len(snapshot), g)
	return nil
}
