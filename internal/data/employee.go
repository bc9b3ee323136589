package data

import "encoding/json"

const (
	FieldEmployeeId string = "employee_id"
	FieldDelegateId string = "delegate_id"
	FieldFirstName  string = "first_name"
	FieldLastName   string = "last_name"
	FieldActive     string = "active"
)

type Employee struct {
	EmployeeId      string           `json:"employee_id" validate:"omitempty,numeric,len=5"`
	DelegateId      string           `json:"delegate_id" validate:"required,delegate_id"`
	FirstName       string           `json:"first_name" validate:"required,max=100"`
	LastName        string           `json:"last_name" validate:"required,max=100"`
	Active          bool             `json:"active"`
	LearningHistory *LearningHistory `json:"learning_history,omitempty"`
}

// Names returns the employee's first and last name; each falls back to the
// name recorded on the learning history when the employee's own is empty
func (e *Employee) Names() (firstName, lastName string) {
	firstName, lastName = e.FirstName, e.LastName
	if e.LearningHistory != nil {
		if firstName == "" {
			firstName = e.LearningHistory.FirstName
		}
		if lastName == "" {
			lastName = e.LearningHistory.LastName
		}
	}
	return
}

func (e *Employee) FullName() string {
	firstName, lastName := e.Names()
	return firstName + " " + lastName
}

// Records always returns a non-nil slice, an absent learning history has
// no records
func (e *Employee) Records() []Course {
	if e == nil || e.LearningHistory == nil {
		return []Course{}
	}
	return e.LearningHistory.records()
}

// Record returns the course identified by courseCode
func (e *Employee) Record(courseCode string) (Course, bool) {
	for _, course := range e.Records() {
		if course.CourseCode == courseCode {
			return course, true
		}
	}
	return Course{}, false
}

func (e *Employee) Copy() *Employee {
	employee := &Employee{}
	*employee = *e
	if e.LearningHistory != nil {
		employee.LearningHistory = e.LearningHistory.Copy()
	}
	return employee
}

func (e *Employee) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Employee) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}

// Employees is a full snapshot of the remote employee collection
type Employees []*Employee

func (e *Employees) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Employees) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}

func (e Employees) Copy() Employees {
	employees := make(Employees, 0, len(e))
	for _, employee := range e {
		if employee == nil {
			continue
		}
		employees = append(employees, employee.Copy())
	}
	return employees
}

// EmployeeEdit is the working copy of an in-progress name edit
type EmployeeEdit struct {
	EmployeeId string `json:"employee_id"`
	DelegateId string `json:"delegate_id" validate:"required"`
	FirstName  string `json:"first_name" validate:"max=100"`
	LastName   string `json:"last_name" validate:"max=100"`
}
