package cache

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	keyEmployees         string = "employees"
	keyGeneration        string = "generation"
	keyGenerationApplied string = "generation_applied"
)

// scriptEmployeesWrite replaces the snapshot only if the generation isn't
// older than the last one applied, it returns 1 when written
const scriptEmployeesWrite string = `
	local applied = tonumber(redis.call('GET', KEYS[2]) or '0')
	local generation = tonumber(ARGV[1])

	if generation < applied then
		return 0
	end
	redis.call('SET', KEYS[1], ARGV[2])
	redis.call('SET', KEYS[2], ARGV[1])
	return 1
`

type redisCache struct {
	redisClient *redis.Client
	config      struct {
		address   string
		port      string
		password  string
		database  int
		timeout   time.Duration
		keyPrefix string
		retryConfig
	}
	utilities.Logger
}

func NewRedis(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &redisCache{Logger: utilities.NewNullLogger()}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	return c
}

func (c *redisCache) key(key string) string {
	return c.config.keyPrefix + ":" + key
}

func (c *redisCache) Configure(envs map[string]string) error {
	c.config.address, c.config.port = "localhost", "6379"
	c.config.timeout = 10 * time.Second
	c.config.keyPrefix = "learning_history"
	if redisAddress, ok := envs["REDIS_ADDRESS"]; ok {
		c.config.address = redisAddress
	}
	if redisPort, ok := envs["REDIS_PORT"]; ok {
		c.config.port = redisPort
	}
	if redisPassword, ok := envs["REDIS_PASSWORD"]; ok {
		c.config.password = redisPassword
	}
	if redisDatabase, ok := envs["REDIS_DATABASE"]; ok {
		i, _ := strconv.ParseInt(redisDatabase, 10, 64)
		c.config.database = int(i)
	}
	if redisTimeout, ok := envs["REDIS_TIMEOUT"]; ok {
		if i, _ := strconv.ParseInt(redisTimeout, 10, 64); i > 0 {
			c.config.timeout = time.Duration(i) * time.Second
		}
	}
	if keyPrefix := envs["REDIS_KEY_PREFIX"]; keyPrefix != "" {
		c.config.keyPrefix = keyPrefix
	}
	c.config.retryConfig.configure(envs)
	return nil
}

func (c *redisCache) Open(ctx context.Context) error {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(c.config.address, c.config.port),
		Password: c.config.password,
		DB:       c.config.database,
	})
	if err := c.config.retry(ctx, func() error {
		ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.Debug(ctx, "unable to ping redis: %s", err)
			return err
		}
		return nil
	}); err != nil {
		_ = redisClient.Close()
		return errors.Wrap(err, "error while connecting to redis")
	}
	c.redisClient = redisClient
	return nil
}

func (c *redisCache) Close(ctx context.Context) error {
	if c.redisClient == nil {
		return nil
	}
	if err := c.redisClient.Close(); err != nil {
		c.Error(ctx, "error while shutting down redis client: %s", err)
	}
	c.redisClient = nil
	return nil
}

func (c *redisCache) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()

	if _, err := c.redisClient.Del(ctx, c.key(keyEmployees)).Result(); err != nil {
		return err
	}
	return nil
}

func (c *redisCache) GenerationIncrement(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()

	return c.redisClient.Incr(ctx, c.key(keyGeneration)).Result()
}

func (c *redisCache) EmployeeRead(ctx context.Context, delegateId string) (*data.Employee, error) {
	employees, err := c.EmployeesRead(ctx)
	if err != nil {
		return nil, err
	}
	return findEmployee(employees, delegateId)
}

func (c *redisCache) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()

	value, err := c.redisClient.Get(ctx, c.key(keyEmployees)).Result()
	if err != nil {
		switch {
		default:
			return nil, err
		case errors.Is(err, redis.Nil):
			return nil, ErrEmployeesNotCached
		}
	}
	employees := data.Employees{}
	if err := employees.UnmarshalBinary([]byte(value)); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *redisCache) EmployeesWrite(ctx context.Context, generation int64, employees ...*data.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()

	snapshot := data.Employees(employees).Copy()
	bytes, err := snapshot.MarshalBinary()
	if err != nil {
		return err
	}
	written, err := c.redisClient.Eval(ctx, scriptEmployeesWrite,
		[]string{c.key(keyEmployees), c.key(keyGenerationApplied)},
		generation, string(bytes)).Int()
	if err != nil {
		return err
	}
	if written != 1 {
		c.Debug(ctx, "discarding employees snapshot (generation %d)", generation)
		return errors.Wrapf(ErrGenerationStale, "generation %d", generation)
	}
	c.Trace(ctx, "cached %d employees (generation %d)", len(snapshot), generation)
	return nil
}
