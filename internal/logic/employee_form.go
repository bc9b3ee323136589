package logic

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-learning-history/internal/client"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/pkg/errors"
)

// maxIdAttempts bounds how many delegate ids are generated looking for one
// that isn't in the snapshot
const maxIdAttempts int = 10

type employeeOwner interface {
	Refresh(ctx context.Context) error
	Employee(ctx context.Context, delegateId string) (*data.Employee, error)
}

// EmployeeForm is the add employee form, its employee and delegate ids are
// generated when the form is reset and can't be edited
type EmployeeForm struct {
	sync.RWMutex
	client client.Client
	owner  employeeOwner
	random *rand.Rand
	utilities.Logger
	employee data.Employee
}

func NewEmployeeForm(parameters ...any) *EmployeeForm {
	f := &EmployeeForm{Logger: utilities.NewNullLogger()}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case client.Client:
			f.client = p
		case employeeOwner:
			f.owner = p
		case *rand.Rand:
			f.random = p
		case utilities.Logger:
			f.Logger = p
		}
	}
	if f.random == nil {
		seed := uint64(time.Now().UnixNano())
		f.random = rand.New(rand.NewPCG(seed, seed>>1))
	}
	f.reset(context.Background())
	return f
}

func (f *EmployeeForm) taken(ctx context.Context, delegateId string) bool {
	if f.owner == nil {
		return false
	}
	_, err := f.owner.Employee(ctx, delegateId)
	return err == nil
}

// reset must be called with the lock held (or before the form is shared)
func (f *EmployeeForm) reset(ctx context.Context) {
	delegateId := data.GenerateDelegateId(f.random)
	for i := 1; i < maxIdAttempts && f.taken(ctx, delegateId); i++ {
		delegateId = data.GenerateDelegateId(f.random)
	}
	f.employee = data.Employee{
		EmployeeId: data.GenerateEmployeeId(f.random),
		DelegateId: delegateId,
		Active:     true,
	}
}

// Form returns a copy of the employee being added
func (f *EmployeeForm) Form() data.Employee {
	f.RLock()
	defer f.RUnlock()

	return f.employee
}

func (f *EmployeeForm) Change(field, value string) error {
	f.Lock()
	defer f.Unlock()

	switch field {
	default:
		return errors.Wrapf(data.ErrUnknownField, "employee: %q", field)
	case data.FieldEmployeeId, data.FieldDelegateId:
		return errors.Wrapf(ErrFieldReadOnly, "employee: %q", field)
	case data.FieldFirstName:
		f.employee.FirstName = value
	case data.FieldLastName:
		f.employee.LastName = value
	case data.FieldActive:
		active, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(err, "employee: %q", field)
		}
		f.employee.Active = active
	}
	return nil
}

// Submit creates the employee, refreshes the owner and resets the form with
// new ids; on failure the form is kept as is
func (f *EmployeeForm) Submit(ctx context.Context) (*data.Employee, *data.Acknowledgement, error) {
	f.RLock()
	employee := f.employee
	f.RUnlock()

	if err := data.Validate(&employee); err != nil {
		return nil, nil, err
	}
	acknowledgement, err := f.client.EmployeeCreate(ctx, employee)
	if err != nil {
		f.Error(ctx, "error while adding employee (%s): %s", employee.DelegateId, err)
		return nil, nil, err
	}
	if f.owner != nil {
		if err := f.owner.Refresh(ctx); err != nil {
			f.Debug(ctx, "employee (%s) added but not refreshed: %s", employee.DelegateId, err)
		}
	}

	f.Lock()
	defer f.Unlock()

	if f.employee.DelegateId == employee.DelegateId {
		f.reset(ctx)
	}
	return &employee, acknowledgement, nil
}

// Cancel resets the form and refreshes the owner
func (f *EmployeeForm) Cancel(ctx context.Context) error {
	f.Lock()
	f.reset(ctx)
	f.Unlock()

	if f.owner != nil {
		return f.owner.Refresh(ctx)
	}
	return nil
}
