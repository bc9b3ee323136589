package data

import "encoding/json"

// EmployeeNamePartial is the body of an employee update, only the name
// fields can change once an employee exists
type EmployeeNamePartial struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

func (e *EmployeeNamePartial) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *EmployeeNamePartial) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}
