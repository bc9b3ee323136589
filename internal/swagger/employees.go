package swagger

import "github.com/antonio-alexander/go-learning-history/internal/data"

// swagger:route GET /console/employees Employee ViewEmployees
// Reads the current page of the employee list; changing the search resets
// the page to the first page.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesViewResponseOk
//   400: ErrorResponse

// swagger:response EmployeesViewResponseOk
type EmployeesViewResponseOk struct {
	// in:body
	EmployeePage data.EmployeePage
}

// swagger:parameters ViewEmployees
type EmployeesViewParams struct {
	// in:query
	Search string `json:"search"`

	// in:query
	Page int `json:"page"`

	// in:query
	PageSize int `json:"page_size"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// swagger:route POST /console/employees/refresh Employee RefreshEmployees
// Replaces the employee snapshot with the remote store's employees.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesViewResponseOk
//   502: ErrorResponse

// swagger:parameters RefreshEmployees
type EmployeesRefreshParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// swagger:route POST /console/employees Employee CreateEmployee
// Submits the add employee form, the employee and delegate ids are
// generated.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeResponseOk
//   400: ErrorResponse
//   502: ErrorResponse

// swagger:response EmployeeResponseOk
type EmployeeResponseOk struct {
	// in:body
	EmployeeResponse data.EmployeeResponse
}

// swagger:parameters CreateEmployee
type EmployeeCreateParams struct {
	// in:body
	EmployeeCreateRequest data.EmployeeCreateRequest

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// swagger:route GET /console/employees/{delegate_id} Employee ReadEmployee
// Reads an employee from the snapshot.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeResponseOk
//   404: ErrorResponse

// swagger:parameters ReadEmployee
type EmployeeReadParams struct {
	// in:path
	DelegateId string `json:"delegate_id"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// swagger:route DELETE /console/employees/{delegate_id} Employee DeleteEmployee
// Without confirm, opens the delete confirmation. With confirm=true, deletes
// the employee (and its courses) whose confirmation is open; confirm=false
// cancels it.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeResponseOk
//   204: EmployeeDeleteResponseNoContent
//   404: ErrorResponse
//   409: ErrorResponse

// swagger:response EmployeeDeleteResponseNoContent
type EmployeeDeleteResponseNoContent struct{}

// swagger:parameters DeleteEmployee
type EmployeeDeleteParams struct {
	// in:path
	DelegateId string `json:"delegate_id"`

	// in:query
	Confirm bool `json:"confirm"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// swagger:route PUT /console/employees/{delegate_id}/name Employee UpdateEmployeeName
// Edits the first and last name of an employee.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeResponseOk
//   404: ErrorResponse
//   502: ErrorResponse

// swagger:parameters UpdateEmployeeName
type EmployeeNameParams struct {
	// in:path
	DelegateId string `json:"delegate_id"`

	// in:body
	EmployeeNameRequest data.EmployeeNameRequest

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
