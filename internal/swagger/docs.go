// Package Swagger go-learning-history
//
// The console API of go-learning-history: the employee list, the add
// employee form, name edits, course editing and the learning dashboard.
//
//   Schemes: http, https
//   Version: 1.0
//   Host: localhost:8080
//   BasePath:/
//
//   Consumes:
//   - application/json
//
//   Produces:
//   - application/json
//
// swagger:meta
package swagger

// swagger:response ErrorResponse
type ErrorResponse struct {
	// in:body
	Error struct {
		Error string `json:"error"`
	}
}
