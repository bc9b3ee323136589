package swagger

import "github.com/antonio-alexander/go-learning-history/internal/data"

// swagger:route GET /console/dashboard Dashboard ReadDashboard
// Summarizes the course records of the snapshot.
//
//     Produces:
//     - application/json
//
// responses:
//   200: DashboardResponseOk
//   400: ErrorResponse

// swagger:response DashboardResponseOk
type DashboardResponseOk struct {
	// in:body
	DashboardSummary data.DashboardSummary
}

// swagger:parameters ReadDashboard
type DashboardParams struct {
	// in:query
	Country string `json:"country"`

	// in:query
	TrainingProvider string `json:"training_provider"`

	// in:query
	CompletedOn string `json:"completed_on"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
