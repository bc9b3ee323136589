package logic

import (
	"context"
	"sync"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/client"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/pkg/errors"
)

// NameEditor holds at most one in-progress edit of an employee's names, the
// working copy is independent of the snapshot until it's committed
type NameEditor struct {
	sync.RWMutex
	client client.Client
	owner  internal.Refresher
	utilities.Logger
	edit     *data.EmployeeEdit
	sequence uint64
}

func NewNameEditor(parameters ...any) *NameEditor {
	n := &NameEditor{Logger: utilities.NewNullLogger()}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case client.Client:
			n.client = p
		case internal.Refresher:
			n.owner = p
		case utilities.Logger:
			n.Logger = p
		}
	}
	return n
}

// Start replaces any edit in progress with a working copy of employee
func (n *NameEditor) Start(employee *data.Employee) error {
	if employee == nil {
		return ErrEmployeeNotFound
	}
	firstName, lastName := employee.Names()

	n.Lock()
	defer n.Unlock()

	n.edit = &data.EmployeeEdit{
		EmployeeId: employee.EmployeeId,
		DelegateId: employee.DelegateId,
		FirstName:  firstName,
		LastName:   lastName,
	}
	n.sequence++
	return nil
}

func (n *NameEditor) Change(field, value string) error {
	n.Lock()
	defer n.Unlock()

	if n.edit == nil {
		return ErrNoEdit
	}
	switch field {
	default:
		return errors.Wrapf(data.ErrUnknownField, "employee name: %q", field)
	case data.FieldFirstName:
		n.edit.FirstName = value
	case data.FieldLastName:
		n.edit.LastName = value
	}
	n.sequence++
	return nil
}

// Editing returns a copy of the working copy
func (n *NameEditor) Editing() (data.EmployeeEdit, bool) {
	n.RLock()
	defer n.RUnlock()

	if n.edit == nil {
		return data.EmployeeEdit{}, false
	}
	return *n.edit, true
}

// Commit sends the working copy to the remote store. On success the
// working copy is cleared (unless it was changed while the update was in
// flight) and the owner refreshed; on failure it's kept so the commit can
// be retried.
func (n *NameEditor) Commit(ctx context.Context) (*data.Acknowledgement, error) {
	n.RLock()
	if n.edit == nil {
		n.RUnlock()
		return nil, ErrNoEdit
	}
	edit, sequence := *n.edit, n.sequence
	n.RUnlock()

	if err := data.Validate(&edit); err != nil {
		return nil, err
	}
	acknowledgement, err := n.client.EmployeeUpdate(ctx, edit.DelegateId,
		data.EmployeeNamePartial{
			FirstName: &edit.FirstName,
			LastName:  &edit.LastName,
		})
	if err != nil {
		n.Error(ctx, "error while updating employee (%s): %s", edit.DelegateId, err)
		return nil, err
	}
	n.Lock()
	if n.sequence == sequence {
		n.edit = nil
	}
	n.Unlock()
	if n.owner != nil {
		if err := n.owner.Refresh(ctx); err != nil {
			n.Debug(ctx, "employee (%s) updated but not refreshed: %s", edit.DelegateId, err)
		}
	}
	return acknowledgement, nil
}

// Cancel drops the working copy, nothing is sent
func (n *NameEditor) Cancel() {
	n.Lock()
	defer n.Unlock()

	n.edit = nil
	n.sequence++
}
