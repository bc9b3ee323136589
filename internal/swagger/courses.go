package swagger

import "github.com/antonio-alexander/go-learning-history/internal/data"

// swagger:route GET /console/employees/{delegate_id}/courses Course ReadCourses
// Opens the course editor of an employee and reads its courses.
//
//     Produces:
//     - application/json
//
// responses:
//   200: CoursesResponseOk
//   404: ErrorResponse

// swagger:response CoursesResponseOk
type CoursesResponseOk struct {
	// in:body
	CoursesResponse data.CoursesResponse
}

// swagger:parameters ReadCourses
type CoursesReadParams struct {
	// in:path
	DelegateId string `json:"delegate_id"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// swagger:route POST /console/employees/{delegate_id}/courses Course AddCourse
// Adds a course, its code must not already be in the learning history.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: CourseResponseOk
//   400: ErrorResponse
//   409: ErrorResponse

// swagger:response CourseResponseOk
type CourseResponseOk struct {
	// in:body
	CourseResponse data.CourseResponse
}

// swagger:parameters AddCourse
type CourseAddParams struct {
	// in:path
	DelegateId string `json:"delegate_id"`

	// in:body
	Course data.Course

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// swagger:route PUT /console/employees/{delegate_id}/courses/{course_code} Course UpdateCourse
// Updates a course, the course code can't be changed.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: CourseResponseOk
//   400: ErrorResponse
//   404: ErrorResponse

// swagger:parameters UpdateCourse
type CourseUpdateParams struct {
	// in:path
	DelegateId string `json:"delegate_id"`

	// in:path
	CourseCode string `json:"course_code"`

	// in:body
	Course data.Course

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// swagger:route DELETE /console/employees/{delegate_id}/courses/{course_code} Course DeleteCourse
// Without confirm, opens the delete confirmation. With confirm=true, deletes
// the course whose confirmation is open; confirm=false cancels it.
//
//     Produces:
//     - application/json
//
// responses:
//   200: CourseResponseOk
//   204: CourseDeleteResponseNoContent
//   404: ErrorResponse
//   409: ErrorResponse

// swagger:response CourseDeleteResponseNoContent
type CourseDeleteResponseNoContent struct{}

// swagger:parameters DeleteCourse
type CourseDeleteParams struct {
	// in:path
	DelegateId string `json:"delegate_id"`

	// in:path
	CourseCode string `json:"course_code"`

	// in:query
	Confirm bool `json:"confirm"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// swagger:route GET /console/course-codes Course ReadCourseCodes
// Lists the known course codes ranked against query.
//
//     Produces:
//     - application/json
//
// responses:
//   200: CourseCodesResponseOk
//   502: ErrorResponse

// swagger:response CourseCodesResponseOk
type CourseCodesResponseOk struct {
	// in:body
	CourseCodesResponse data.CourseCodesResponse
}

// swagger:parameters ReadCourseCodes
type CourseCodesParams struct {
	// in:query
	Query string `json:"query"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
