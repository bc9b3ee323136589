package data

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// remote store routes, relative to the api base path
const (
	RouteApi                         string = "/api"
	RouteEmployees                   string = "/employees"
	RouteEmployeesAdd                string = RouteEmployees + "/addEmployee"
	RouteEmployeesDelegateId         string = RouteEmployees + "/{" + PathDelegateId + "}"
	RouteLearningHistories           string = "/learninghistory"
	RouteLearningHistory             string = "/learningHistory"
	RouteLearningHistoryCourseCodes  string = RouteLearningHistory + "/getCourseCode"
	RouteLearningHistoryDelegateId   string = RouteLearningHistory + "/{" + PathDelegateId + "}"
	RouteLearningHistoryCourse       string = RouteLearningHistory + "/{" + PathDelegateId + "}/{" + PathCourseCode + "}"
	RouteLearningHistoryCourseDelete string = RouteLearningHistory + "/{" + PathCourseCode + "}/{" + PathDelegateId + "}"
)

// console routes
const (
	RouteConsole                 string = "/console"
	RouteConsoleEmployees        string = RouteConsole + "/employees"
	RouteConsoleEmployeesRefresh string = RouteConsoleEmployees + "/refresh"
	RouteConsoleEmployee         string = RouteConsoleEmployees + "/{" + PathDelegateId + "}"
	RouteConsoleEmployeeName     string = RouteConsoleEmployee + "/name"
	RouteConsoleCourses          string = RouteConsoleEmployee + "/courses"
	RouteConsoleCourse           string = RouteConsoleCourses + "/{" + PathCourseCode + "}"
	RouteConsoleCourseCodes      string = RouteConsole + "/course-codes"
	RouteConsoleDashboard        string = RouteConsole + "/dashboard"
	RouteMetrics                 string = "/metrics"
	RouteCache                   string = "/cache"
	RouteCacheCounters           string = RouteCache + "/counters"
	RouteTimers                  string = "/timers"
)

const (
	PathDelegateId string = "delegate_id"
	PathCourseCode string = "course_code"
)

const (
	ParameterSearch           string = "search"
	ParameterPage             string = "page"
	ParameterPageSize         string = "page_size"
	ParameterConfirm          string = "confirm"
	ParameterQuery            string = "query"
	ParameterCountry          string = "country"
	ParameterTrainingProvider string = "training_provider"
	ParameterCompletedOn      string = "completed_on"
)

func RouteEmployeesDelegateIdf(delegateId string) string {
	return fmt.Sprintf(RouteEmployees+"/%s", url.PathEscape(delegateId))
}

func RouteLearningHistoryDelegateIdf(delegateId string) string {
	return fmt.Sprintf(RouteLearningHistory+"/%s", url.PathEscape(delegateId))
}

func RouteLearningHistoryCoursef(delegateId, courseCode string) string {
	return fmt.Sprintf(RouteLearningHistory+"/%s/%s",
		url.PathEscape(delegateId), url.PathEscape(courseCode))
}

// RouteLearningHistoryCourseDeletef builds the delete course path; unless
// standard is set it uses the remote store's reversed segment order
// (course code first, then delegate id)
func RouteLearningHistoryCourseDeletef(delegateId, courseCode string, standard bool) string {
	if standard {
		return RouteLearningHistoryCoursef(delegateId, courseCode)
	}
	return fmt.Sprintf(RouteLearningHistory+"/%s/%s",
		url.PathEscape(courseCode), url.PathEscape(delegateId))
}

// Acknowledgement is whatever the remote store returned for a mutation
type Acknowledgement struct {
	Message string          `json:"message,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"`
}

func NewAcknowledgement(body []byte) *Acknowledgement {
	var message struct {
		Message string `json:"message"`
	}

	acknowledgement := &Acknowledgement{}
	if len(body) == 0 {
		return acknowledgement
	}
	if json.Valid(body) {
		acknowledgement.Body = append(json.RawMessage{}, body...)
		if err := json.Unmarshal(body, &message); err == nil {
			acknowledgement.Message = message.Message
		}
		return acknowledgement
	}
	acknowledgement.Message = string(body)
	return acknowledgement
}

// Error is the body of any failed console request
type Error struct {
	Error string `json:"error"`
}

type EmployeeCreateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    *bool  `json:"active,omitempty"`
}

type EmployeeNameRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type EmployeeResponse struct {
	Employee        *Employee        `json:"employee,omitempty"`
	Acknowledgement *Acknowledgement `json:"acknowledgement,omitempty"`
	PendingDelete   bool             `json:"pending_delete,omitempty"`
}

type CoursesResponse struct {
	DelegateId string   `json:"delegate_id"`
	Courses    []Course `json:"courses"`
}

type CourseResponse struct {
	Course        *Course `json:"course,omitempty"`
	PendingDelete bool    `json:"pending_delete,omitempty"`
}

type CourseCodesResponse struct {
	CourseCodes []string `json:"course_codes"`
}
