package logic

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/antonio-alexander/go-learning-history/internal/cache"
	"github.com/antonio-alexander/go-learning-history/internal/client"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/pkg/errors"
)

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseCodeExists    = errors.New("course code already exists")
	ErrCourseCodeImmutable = errors.New("course code can't be changed")
	ErrFieldReadOnly       = errors.New("field is read only")
	ErrNoEdit              = errors.New("no edit in progress")
	ErrNoAdd               = errors.New("no add in progress")
	ErrNoDeletePending     = errors.New("no delete pending")
	ErrCourseEditorClosed  = errors.New("course editor closed")
	ErrNoCourseEditor      = errors.New("no course editor open")
	ErrInvalidPage         = errors.New("invalid page")
	ErrInvalidPageSize     = errors.New("invalid page size")
)

// Logic is one console session: the employee list and its snapshot, the
// name editor, the add employee form, the dashboard and at most one open
// course editor
type Logic struct {
	sync.RWMutex
	client  client.Client
	cache   cache.Cache
	counter utilities.Counter
	random  *rand.Rand
	utilities.Logger
	employees    *EmployeeList
	nameEditor   *NameEditor
	employeeForm *EmployeeForm
	dashboard    *Dashboard
	courseEditor *CourseEditor
	config       struct {
		pageSize      int
		refreshOnOpen bool
	}
}

func NewLogic(parameters ...any) *Logic {
	l := &Logic{Logger: utilities.NewNullLogger()}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case client.Client:
			l.client = p
		case cache.Cache:
			l.cache = p
		case utilities.Counter:
			l.counter = p
		case *rand.Rand:
			l.random = p
		case utilities.Logger:
			l.Logger = p
		}
	}
	l.config.pageSize, l.config.refreshOnOpen = DefaultPageSize, true
	l.employees = NewEmployeeList(l.client, l.cache, l.counter, l.Logger)
	l.nameEditor = NewNameEditor(l.client, l.employees, l.Logger)
	l.dashboard = NewDashboard(l.employees)
	return l
}

func (l *Logic) Configure(envs map[string]string) error {
	l.Lock()
	defer l.Unlock()

	if s, ok := envs["LOGIC_PAGE_SIZE"]; ok {
		pageSize, err := strconv.Atoi(s)
		if err != nil || pageSize <= 0 {
			return errors.Wrapf(ErrInvalidPageSize, "LOGIC_PAGE_SIZE: %s", s)
		}
		l.config.pageSize = pageSize
	}
	if s, ok := envs["LOGIC_REFRESH_ON_OPEN"]; ok {
		l.config.refreshOnOpen, _ = strconv.ParseBool(s)
	}
	if s, ok := envs["LOGIC_ID_SEED"]; ok && l.random == nil {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return errors.Wrap(err, "LOGIC_ID_SEED")
		}
		l.random = rand.New(rand.NewPCG(seed, seed))
	}
	return nil
}

// Open loads the first snapshot; a failure is logged and the list stays
// empty until the next successful refresh
func (l *Logic) Open(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	if l.client == nil {
		return errors.New("client not provided")
	}
	if err := l.employees.SetPageSize(l.config.pageSize); err != nil {
		return err
	}
	parameters := []any{l.client, l.employees, l.Logger}
	if l.random != nil {
		parameters = append(parameters, l.random)
	}
	l.employeeForm = NewEmployeeForm(parameters...)
	if l.config.refreshOnOpen {
		if err := l.employees.Refresh(ctx); err != nil {
			l.Error(ctx, "error while loading employees: %s", err)
		}
	}
	return nil
}

func (l *Logic) Close(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	l.courseEditor = nil
	return nil
}

func (l *Logic) Employees() *EmployeeList {
	return l.employees
}

func (l *Logic) NameEditor() *NameEditor {
	return l.nameEditor
}

func (l *Logic) EmployeeForm() *EmployeeForm {
	l.RLock()
	defer l.RUnlock()

	return l.employeeForm
}

func (l *Logic) Dashboard() *Dashboard {
	return l.dashboard
}

// CourseCodes lists the course codes known to the remote store ranked
// against query
func (l *Logic) CourseCodes(ctx context.Context, query string) ([]string, error) {
	courseCodes, err := l.client.CourseCodesList(ctx)
	if err != nil {
		l.Error(ctx, "error while listing course codes: %s", err)
		return nil, err
	}
	return RankCourseCodes(query, courseCodes), nil
}

// OpenCourseEditor opens the course editor of an employee in the snapshot,
// an editor already open for another employee is closed first
func (l *Logic) OpenCourseEditor(ctx context.Context, delegateId string) (*CourseEditor, error) {
	if _, err := l.employees.Employee(ctx, delegateId); err != nil {
		return nil, err
	}

	l.Lock()
	courseEditor := l.courseEditor
	if courseEditor != nil && courseEditor.DelegateId() == delegateId {
		l.Unlock()
		return courseEditor, nil
	}
	l.courseEditor = NewCourseEditor(delegateId, l.client, l.employees, l.Logger)
	opened := l.courseEditor
	l.Unlock()

	if courseEditor != nil {
		if err := courseEditor.Close(ctx); err != nil {
			l.Debug(ctx, "course editor (%s) closed but not refreshed: %s",
				courseEditor.DelegateId(), err)
		}
	}
	return opened, nil
}

// CourseEditor returns the course editor open for delegateId
func (l *Logic) CourseEditor(delegateId string) (*CourseEditor, error) {
	l.RLock()
	defer l.RUnlock()

	if l.courseEditor == nil || l.courseEditor.DelegateId() != delegateId {
		return nil, errors.Wrapf(ErrNoCourseEditor, "delegate id: %s", delegateId)
	}
	return l.courseEditor, nil
}

// CloseCourseEditor closes the open course editor, which refreshes the
// employee list
func (l *Logic) CloseCourseEditor(ctx context.Context) error {
	l.Lock()
	courseEditor := l.courseEditor
	l.courseEditor = nil
	l.Unlock()

	if courseEditor == nil {
		return ErrNoCourseEditor
	}
	return courseEditor.Close(ctx)
}
