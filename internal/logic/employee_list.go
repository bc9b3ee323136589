package logic

import (
	"context"
	"strings"
	"sync"

	"github.com/antonio-alexander/go-learning-history/internal/cache"
	"github.com/antonio-alexander/go-learning-history/internal/client"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/pkg/errors"
)

const (
	DefaultPageSize int    = 10
	counterKey      string = "employees"
)

// FilterEmployees returns the employees whose delegate id or full name
// ("first last") contains search, ignoring case; an empty search returns
// every employee
func FilterEmployees(employees []*data.Employee, search string) []*data.Employee {
	search = strings.ToLower(search)
	filtered := make([]*data.Employee, 0, len(employees))
	for _, employee := range employees {
		if employee == nil {
			continue
		}
		if search == "" ||
			strings.Contains(strings.ToLower(employee.DelegateId), search) ||
			strings.Contains(strings.ToLower(employee.FullName()), search) {
			filtered = append(filtered, employee)
		}
	}
	return filtered
}

// PageCount returns ceil(total/pageSize)
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate returns the slice [page*pageSize, page*pageSize+pageSize) of
// employees, pages are zero based and a page past the end is empty
func Paginate(employees []*data.Employee, page, pageSize int) []*data.Employee {
	if page < 0 || pageSize <= 0 {
		return []*data.Employee{}
	}
	start := page * pageSize
	if start >= len(employees) {
		return []*data.Employee{}
	}
	end := min(start+pageSize, len(employees))
	return employees[start:end]
}

// EmployeeList owns the employee snapshot and the transient view state
// (search, page and page size) of the employee list
type EmployeeList struct {
	sync.RWMutex
	client  client.Client
	cache   cache.Cache
	counter utilities.Counter
	utilities.Logger
	search        string
	page          int
	pageSize      int
	pendingDelete string
}

// NewEmployeeList creates an employee list; without a cache it keeps its
// snapshot in memory
func NewEmployeeList(parameters ...any) *EmployeeList {
	e := &EmployeeList{
		Logger:   utilities.NewNullLogger(),
		pageSize: DefaultPageSize,
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case client.Client:
			e.client = p
		case cache.Cache:
			e.cache = p
		case utilities.Counter:
			e.counter = p
		case utilities.Logger:
			e.Logger = p
		}
	}
	if e.cache == nil {
		e.cache = cache.NewMemory(e.Logger)
	}
	return e
}

// Refresh replaces the snapshot with a full fetch of the remote store; on
// failure the prior snapshot is kept. A fetch that completes after a more
// recent one has been written is discarded.
func (e *EmployeeList) Refresh(ctx context.Context) error {
	generation, err := e.cache.GenerationIncrement(ctx)
	if err != nil {
		utilities.RefreshesTotal.WithLabelValues("failed").Inc()
		e.Error(ctx, "error while incrementing generation: %s", err)
		return err
	}
	employees, err := e.client.EmployeesList(ctx)
	if err != nil {
		utilities.RefreshesTotal.WithLabelValues("failed").Inc()
		e.Error(ctx, "error while refreshing employees: %s", err)
		return err
	}
	if err := e.cache.EmployeesWrite(ctx, generation, employees...); err != nil {
		if errors.Is(err, cache.ErrGenerationStale) {
			utilities.RefreshesTotal.WithLabelValues("stale").Inc()
			e.Debug(ctx, "refresh superseded: %s", err)
			return nil
		}
		utilities.RefreshesTotal.WithLabelValues("failed").Inc()
		e.Error(ctx, "error while writing employees to cache: %s", err)
		return err
	}
	utilities.RefreshesTotal.WithLabelValues("applied").Inc()
	e.Debug(ctx, "refreshed %d employees (generation %d)", len(employees), generation)
	return nil
}

// Employees returns the whole snapshot, it's empty until the first
// successful refresh
func (e *EmployeeList) Employees(ctx context.Context) ([]*data.Employee, error) {
	employees, err := e.cache.EmployeesRead(ctx)
	switch {
	case err == nil:
		if e.counter != nil {
			e.counter.IncrementHit(counterKey)
		}
		return employees, nil
	case errors.Is(err, cache.ErrEmployeesNotCached):
		if e.counter != nil {
			e.counter.IncrementMiss(counterKey)
		}
		return []*data.Employee{}, nil
	default:
		e.Error(ctx, "error while reading employees from cache: %s", err)
		return nil, err
	}
}

// Employee returns the employee with delegateId from the snapshot
func (e *EmployeeList) Employee(ctx context.Context, delegateId string) (*data.Employee, error) {
	employees, err := e.Employees(ctx)
	if err != nil {
		return nil, err
	}
	for _, employee := range employees {
		if employee.DelegateId == delegateId {
			return employee, nil
		}
	}
	return nil, errors.Wrapf(ErrEmployeeNotFound, "delegate id: %s", delegateId)
}

func (e *EmployeeList) View(ctx context.Context) (*data.EmployeePage, error) {
	employees, err := e.Employees(ctx)
	if err != nil {
		return nil, err
	}

	e.RLock()
	defer e.RUnlock()

	filtered := FilterEmployees(employees, e.search)
	return &data.EmployeePage{
		Employees: Paginate(filtered, e.page, e.pageSize),
		Search:    e.search,
		Page:      e.page,
		PageSize:  e.pageSize,
		Pages:     PageCount(len(filtered), e.pageSize),
		Total:     len(filtered),
	}, nil
}

func (e *EmployeeList) Query() data.EmployeeQuery {
	e.RLock()
	defer e.RUnlock()

	search, page, pageSize := e.search, e.page, e.pageSize
	return data.EmployeeQuery{
		Search:   &search,
		Page:     &page,
		PageSize: &pageSize,
	}
}

// SetQuery applies the non-nil fields of query; when the search changes
// the page is reset to the first page and any page in query is ignored
func (e *EmployeeList) SetQuery(query data.EmployeeQuery) error {
	e.Lock()
	defer e.Unlock()

	if query.PageSize != nil {
		if *query.PageSize <= 0 {
			return errors.Wrapf(ErrInvalidPageSize, "%d", *query.PageSize)
		}
	}
	if query.Page != nil {
		if *query.Page < 0 {
			return errors.Wrapf(ErrInvalidPage, "%d", *query.Page)
		}
	}
	if query.PageSize != nil && *query.PageSize != e.pageSize {
		e.pageSize, e.page = *query.PageSize, 0
	}
	if query.Search != nil && *query.Search != e.search {
		e.search, e.page = *query.Search, 0
		return nil
	}
	if query.Page != nil {
		e.page = *query.Page
	}
	return nil
}

// SetSearch always resets the page to the first page
func (e *EmployeeList) SetSearch(search string) {
	e.Lock()
	defer e.Unlock()

	e.search, e.page = search, 0
}

func (e *EmployeeList) SetPage(page int) error {
	if page < 0 {
		return errors.Wrapf(ErrInvalidPage, "%d", page)
	}

	e.Lock()
	defer e.Unlock()

	e.page = page
	return nil
}

// SetPageSize resets the page to the first page
func (e *EmployeeList) SetPageSize(pageSize int) error {
	if pageSize <= 0 {
		return errors.Wrapf(ErrInvalidPageSize, "%d", pageSize)
	}

	e.Lock()
	defer e.Unlock()

	e.pageSize, e.page = pageSize, 0
	return nil
}

// DeleteRequest opens the delete confirmation for an employee, nothing is
// sent to the remote store until DeleteConfirm
func (e *EmployeeList) DeleteRequest(ctx context.Context, delegateId string) error {
	if _, err := e.Employee(ctx, delegateId); err != nil {
		return err
	}

	e.Lock()
	defer e.Unlock()

	e.pendingDelete = delegateId
	return nil
}

func (e *EmployeeList) PendingDelete() (string, bool) {
	e.RLock()
	defer e.RUnlock()

	return e.pendingDelete, e.pendingDelete != ""
}

func (e *EmployeeList) DeleteCancel() {
	e.Lock()
	defer e.Unlock()

	e.pendingDelete = ""
}

// DeleteConfirm deletes the pending employee (the remote store removes its
// courses too) and refreshes; the confirmation closes whether or not the
// delete succeeds
func (e *EmployeeList) DeleteConfirm(ctx context.Context) (*data.Acknowledgement, error) {
	e.Lock()
	delegateId := e.pendingDelete
	e.pendingDelete = ""
	e.Unlock()

	if delegateId == "" {
		return nil, ErrNoDeletePending
	}
	acknowledgement, err := e.client.EmployeeDelete(ctx, delegateId)
	if err != nil {
		e.Error(ctx, "error while deleting employee (%s): %s", delegateId, err)
		return nil, err
	}
	if err := e.Refresh(ctx); err != nil {
		e.Debug(ctx, "employee (%s) deleted but not refreshed: %s", delegateId, err)
	}
	return acknowledgement, nil
}
