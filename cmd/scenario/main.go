package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/cache"
	"github.com/antonio-alexander/go-learning-history/internal/client"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/logic"
	"github.com/antonio-alexander/go-learning-history/internal/storetest"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/antonio-alexander/go-stash/memory"
	"github.com/antonio-alexander/go-stash/redis"

	"github.com/pkg/errors"
	dto "github.com/prometheus/client_model/go"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

func main() {
	args := os.Args[1:]
	envs, err := internal.Envs(os.Environ())
	if err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
}

func createCache(envs map[string]string, parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	cache.Cache
} {
	switch envs["CACHE_TYPE"] {
	default:
		return cache.NewMemory(parameters...)
	case "redis":
		return cache.NewRedis(parameters...)
	case "stash-memory":
		stash := memory.New()
		_ = stash.Configure(envs)
		parameters = append(parameters, stash)
		return cache.NewStash(parameters...)
	case "stash-redis":
		stash := redis.New()
		_ = stash.Configure(envs)
		parameters = append(parameters, stash)
		return cache.NewStash(parameters...)
	}
}

func durationFromEnvs(envs map[string]string, key string, d time.Duration) time.Duration {
	if s := envs[key]; s != "" {
		if i, err := strconv.Atoi(s); err == nil && i > 0 {
			return time.Duration(i) * time.Millisecond
		}
	}
	return d
}

func refreshes(result string) float64 {
	metric := &dto.Metric{}
	if err := utilities.RefreshesTotal.WithLabelValues(result).Write(metric); err != nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}

// scenarioConcurrentRefresh has several employee lists share one cache and
// refresh concurrently while a writer keeps renaming an employee; refreshes
// that complete out of order are discarded so every list ends on the same
// (latest) snapshot
func scenarioConcurrentRefresh(ctx context.Context, envs map[string]string, logger utilities.Logger,
	client client.Client, lists ...*logic.EmployeeList) error {
	const correlationId string = "scenario_concurrent_refresh"
	const minLists int = 2

	var wg sync.WaitGroup

	refreshInterval := durationFromEnvs(envs, "SCENARIO_REFRESH_INTERVAL", 50*time.Millisecond)
	updateInterval := durationFromEnvs(envs, "SCENARIO_UPDATE_INTERVAL", 200*time.Millisecond)
	scenarioDuration := durationFromEnvs(envs, "SCENARIO_DURATION", 5*time.Second)
	if len(lists) < minLists {
		return errors.New("not enough employee lists")
	}

	//generate context
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)

	//create an employee using the add employee form of the first list
	form := logic.NewEmployeeForm(client, lists[0], logger)
	if err := form.Change(data.FieldFirstName, internal.GenerateId()[:8]); err != nil {
		return err
	}
	if err := form.Change(data.FieldLastName, internal.GenerateId()[:8]); err != nil {
		return err
	}
	employee, _, err := form.Submit(ctx)
	if err != nil {
		return err
	}
	delegateId := employee.DelegateId
	defer func() {
		if _, err := client.EmployeeDelete(ctx, delegateId); err != nil {
			logger.Error(ctx, "error while deleting employee (%s): %s", delegateId, err)
			return
		}
		logger.Info(ctx, "deleted employee: %s", delegateId)
	}()
	logger.Info(ctx, "created employee: %s", delegateId)

	//generate start/stop channels
	start, stop := make(chan struct{}), make(chan struct{})

	//create writer go routine
	nameEditor := logic.NewNameEditor(client, lists[0], logger)
	wg.Add(1)
	go func() {
		defer wg.Done()

		tUpdate := time.NewTicker(updateInterval)
		defer tUpdate.Stop()
		<-start
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			case <-tUpdate.C:
				employee, err := lists[0].Employee(ctx, delegateId)
				if err != nil {
					logger.Error(ctx, "error while reading employee: %s", err)
					continue
				}
				if err := nameEditor.Start(employee); err != nil {
					logger.Error(ctx, "error while starting edit: %s", err)
					continue
				}
				if err := nameEditor.Change(data.FieldLastName, fmt.Sprintf("update-%d", i)); err != nil {
					logger.Error(ctx, "error while changing employee: %s", err)
					continue
				}
				if _, err := nameEditor.Commit(ctx); err != nil {
					logger.Error(ctx, "error while updating employee: %s", err)
				}
			}
		}
	}()

	//create refresh go routines
	for i, list := range lists {
		wg.Add(1)
		go func(ctx context.Context, list *logic.EmployeeList) {
			defer wg.Done()

			tRefresh := time.NewTicker(refreshInterval)
			defer tRefresh.Stop()
			<-start
			for {
				select {
				case <-stop:
					return
				case <-tRefresh.C:
					if err := list.Refresh(ctx); err != nil {
						logger.Error(ctx, "error while refreshing: %s", err)
					}
				}
			}
		}(internal.CtxWithCorrelationId(ctx, fmt.Sprintf("%s_%d", correlationId, i)), list)
	}

	applied, stale := refreshes("applied"), refreshes("stale")
	close(start)
	<-time.After(scenarioDuration)
	close(stop)
	wg.Wait()

	//a last refresh makes sure the snapshot has the last update
	if err := lists[0].Refresh(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "refreshes applied: %0.0f, stale (discarded): %0.0f",
		refreshes("applied")-applied, refreshes("stale")-stale)
	var lastName string
	for i, list := range lists {
		employee, err := list.Employee(ctx, delegateId)
		if err != nil {
			return err
		}
		if i > 0 && employee.LastName != lastName {
			return errors.Errorf("list %d has %q, expected %q", i, employee.LastName, lastName)
		}
		lastName = employee.LastName
	}
	logger.Info(ctx, "every list has the latest name: %s", lastName)
	return nil
}

// scenarioStampedingHerd has several lists read their view while the
// cache is cleared and refreshed, the cache counters give the hit ratio
func scenarioStampedingHerd(ctx context.Context, envs map[string]string, logger utilities.Logger,
	cache internal.Clearer, counter utilities.Counter, lists ...*logic.EmployeeList) error {
	const correlationId string = "scenario_stampeding_herd"

	var wg sync.WaitGroup

	readInterval := durationFromEnvs(envs, "SCENARIO_READ_INTERVAL", 10*time.Millisecond)
	clearInterval := durationFromEnvs(envs, "SCENARIO_CLEAR_INTERVAL", 500*time.Millisecond)
	scenarioDuration := durationFromEnvs(envs, "SCENARIO_DURATION", 5*time.Second)
	if len(lists) == 0 {
		return errors.New("no employee lists")
	}

	ctx = internal.CtxWithCorrelationId(ctx, correlationId)
	start, stop := make(chan struct{}), make(chan struct{})
	for _, list := range lists {
		wg.Add(1)
		go func(list *logic.EmployeeList) {
			defer wg.Done()

			tRead := time.NewTicker(readInterval)
			defer tRead.Stop()
			<-start
			for {
				select {
				case <-stop:
					return
				case <-tRead.C:
					if _, err := list.View(ctx); err != nil {
						logger.Error(ctx, "error while reading employees: %s", err)
					}
				}
			}
		}(list)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()

		tClear := time.NewTicker(clearInterval)
		defer tClear.Stop()
		<-start
		for {
			select {
			case <-stop:
				return
			case <-tClear.C:
				if err := cache.Clear(ctx); err != nil {
					logger.Error(ctx, "error while clearing cache: %s", err)
					continue
				}
				if err := lists[0].Refresh(ctx); err != nil {
					logger.Error(ctx, "error while refreshing: %s", err)
				}
			}
		}
	}()

	counter.Reset()
	close(start)
	<-time.After(scenarioDuration)
	close(stop)
	wg.Wait()

	hit, miss := counter.Read("employees")
	total := hit + miss
	if total <= 0 {
		return errors.New("no employee reads")
	}
	logger.Info(ctx, "cache hit miss ratio (%d/%d): %0.2f%%",
		hit, total, float64(hit)/float64(total)*100)
	return nil
}

func Main(args []string, envs map[string]string, osSignal chan (os.Signal)) error {
	var lists []*logic.EmployeeList
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	// create logger
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)
	counter := utilities.NewCounter()

	//print version info
	logger.Info(ctx, "scenarios: go-learning-history v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//SCENARIO_STORE=fake runs against an in process store
	if envs["SCENARIO_STORE"] == "fake" {
		server := storetest.NewServer()
		defer server.Close()
		for key, value := range server.Envs() {
			envs[key] = value
		}
	}

	//create the cache shared by every list
	cache := createCache(envs, logger)
	if err := cache.Configure(envs); err != nil {
		return err
	}
	if err := cache.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(context.Background()); err != nil {
			logger.Error(ctx, "error while closing cache: %s", err)
		}
	}()

	//create client
	client := client.NewClient(logger)
	if err := client.Configure(envs); err != nil {
		return err
	}
	if err := client.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Error(ctx, "error while closing client: %s", err)
		}
	}()

	nLists, _ := strconv.Atoi(envs["N_LISTS"])
	for range max(nLists, 2) {
		lists = append(lists, logic.NewEmployeeList(client, cache, counter, logger))
	}

	// execute scenario
	switch scenario := envs["SCENARIO"]; scenario {
	default:
		return errors.Errorf("unsupported scenario: %s", scenario)
	case "concurrent_refresh":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioConcurrentRefresh(ctx, envs, logger, client, lists...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	case "stampeding_herd":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioStampedingHerd(ctx, envs, logger, cache, counter, lists...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	}
	cancel()
	wg.Wait()
	return nil
}
