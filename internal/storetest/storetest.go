// Package storetest provides an in-memory stand-in for the remote learning
// history REST store; it records every request it receives and can be told
// to fail or hold specific routes.
package storetest

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/antonio-alexander/go-learning-history/internal/data"

	"github.com/gorilla/mux"
)

// Request is a request received by the server
type Request struct {
	Method        string
	Path          string
	Route         string
	Body          []byte
	CorrelationId string
}

type hold struct {
	arrived chan struct{}
	release chan struct{}
}

type Server struct {
	sync.Mutex
	*httptest.Server
	employees     []*data.Employee
	employeesBody []byte
	courseCodes   []any
	requests      []Request
	failures      map[string]int
	holds         map[string]*hold
	standard      bool
}

// NewServer starts a server seeded with employees, it must be closed
func NewServer(employees ...*data.Employee) *Server {
	s := &Server{
		employees: data.Employees(employees).Copy(),
		failures:  make(map[string]int),
		holds:     make(map[string]*hold),
	}
	router := mux.NewRouter()
	api := router.PathPrefix(data.RouteApi).Subrouter()
	api.Use(s.middleware)
	api.HandleFunc(data.RouteEmployees, s.employeesList).Methods(http.MethodGet)
	api.HandleFunc(data.RouteEmployeesAdd, s.employeeCreate).Methods(http.MethodPost)
	api.HandleFunc(data.RouteEmployeesDelegateId, s.employeeUpdate).Methods(http.MethodPut)
	api.HandleFunc(data.RouteEmployeesDelegateId, s.employeeDelete).Methods(http.MethodDelete)
	api.HandleFunc(data.RouteLearningHistories, s.learningHistoriesList).Methods(http.MethodGet)
	api.HandleFunc(data.RouteLearningHistoryCourseCodes, s.courseCodesList).Methods(http.MethodGet)
	api.HandleFunc(data.RouteLearningHistoryDelegateId, s.courseAdd).Methods(http.MethodPost)
	api.HandleFunc(data.RouteLearningHistoryCourse, s.courseUpdate).Methods(http.MethodPut)
	api.HandleFunc(data.RouteLearningHistoryCourseDelete, s.courseDelete).Methods(http.MethodDelete)
	s.Server = httptest.NewServer(router)
	return s
}

// Envs returns the client configuration pointing at the server
func (s *Server) Envs() map[string]string {
	u, _ := url.Parse(s.URL)
	host, port, _ := net.SplitHostPort(u.Host)
	return map[string]string{
		"CLIENT_PROTOCOL": u.Scheme,
		"CLIENT_ADDRESS":  host,
		"CLIENT_PORT":     port,
	}
}

// SetStandardDelete makes the delete course route expect the delegate id
// before the course code
func (s *Server) SetStandardDelete(standard bool) {
	s.Lock()
	defer s.Unlock()

	s.standard = standard
}

func (s *Server) SetEmployees(employees ...*data.Employee) {
	s.Lock()
	defer s.Unlock()

	s.employees = data.Employees(employees).Copy()
}

// SetEmployeesBody replaces the body returned when listing employees, nil
// restores the default
func (s *Server) SetEmployeesBody(body []byte) {
	s.Lock()
	defer s.Unlock()

	s.employeesBody = body
}

func (s *Server) Employees() []*data.Employee {
	s.Lock()
	defer s.Unlock()

	return data.Employees(s.employees).Copy()
}

// SetCourseCodes sets the items returned when listing course codes, they
// can be strings or objects
func (s *Server) SetCourseCodes(courseCodes ...any) {
	s.Lock()
	defer s.Unlock()

	s.courseCodes = courseCodes
}

// Fail makes every request to route (a template such as
// data.RouteEmployeesDelegateId) with method fail with statusCode; a
// statusCode of zero removes the failure
func (s *Server) Fail(method, route string, statusCode int) {
	s.Lock()
	defer s.Unlock()

	key := method + " " + data.RouteApi + route
	if statusCode == 0 {
		delete(s.failures, key)
		return
	}
	s.failures[key] = statusCode
}

// Hold makes the next request to route with method compute its response
// and then wait until release is called before responding; arrived is
// closed once the response has been computed
func (s *Server) Hold(method, route string) (arrived <-chan struct{}, release func()) {
	s.Lock()
	defer s.Unlock()

	h := &hold{
		arrived: make(chan struct{}),
		release: make(chan struct{}),
	}
	s.holds[method+" "+data.RouteApi+route] = h
	var once sync.Once
	return h.arrived, func() { once.Do(func() { close(h.release) }) }
}

func (s *Server) Requests() []Request {
	s.Lock()
	defer s.Unlock()

	requests := make([]Request, len(s.requests))
	copy(requests, s.requests)
	return requests
}

func (s *Server) ResetRequests() {
	s.Lock()
	defer s.Unlock()

	s.requests = nil
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		route, _ := mux.CurrentRoute(request).GetPathTemplate()
		key := request.Method + " " + route
		body, _ := io.ReadAll(request.Body)
		request.Body = io.NopCloser(newReader(body))

		s.Lock()
		s.requests = append(s.requests, Request{
			Method:        request.Method,
			Path:          request.URL.Path,
			Route:         route,
			Body:          body,
			CorrelationId: request.Header.Get("Correlation-Id"),
		})
		statusCode, fail := s.failures[key]
		h, held := s.holds[key]
		delete(s.holds, key)
		s.Unlock()

		if fail {
			writeJson(writer, statusCode, data.Error{Error: http.StatusText(statusCode)})
			return
		}
		if !held {
			next.ServeHTTP(writer, request)
			return
		}
		recorder := httptest.NewRecorder()
		next.ServeHTTP(recorder, request)
		close(h.arrived)
		<-h.release
		for key, values := range recorder.Header() {
			writer.Header()[key] = values
		}
		writer.WriteHeader(recorder.Code)
		_, _ = writer.Write(recorder.Body.Bytes())
	})
}

func (s *Server) employee(delegateId string) (int, *data.Employee) {
	for i, employee := range s.employees {
		if employee.DelegateId == delegateId {
			return i, employee
		}
	}
	return -1, nil
}

func (s *Server) employeesList(writer http.ResponseWriter, request *http.Request) {
	s.Lock()
	defer s.Unlock()

	if s.employeesBody != nil {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write(s.employeesBody)
		return
	}
	writeJson(writer, http.StatusOK, s.employees)
}

func (s *Server) employeeCreate(writer http.ResponseWriter, request *http.Request) {
	var employee data.Employee

	if err := json.NewDecoder(request.Body).Decode(&employee); err != nil {
		writeJson(writer, http.StatusBadRequest, data.Error{Error: err.Error()})
		return
	}
	s.Lock()
	defer s.Unlock()

	if _, e := s.employee(employee.DelegateId); e != nil {
		writeJson(writer, http.StatusConflict, data.Error{Error: "employee exists"})
		return
	}
	s.employees = append(s.employees, employee.Copy())
	writeJson(writer, http.StatusCreated, map[string]string{"message": "Employee added"})
}

func (s *Server) employeeUpdate(writer http.ResponseWriter, request *http.Request) {
	var employeePartial data.EmployeeNamePartial

	if err := json.NewDecoder(request.Body).Decode(&employeePartial); err != nil {
		writeJson(writer, http.StatusBadRequest, data.Error{Error: err.Error()})
		return
	}
	s.Lock()
	defer s.Unlock()

	_, employee := s.employee(mux.Vars(request)[data.PathDelegateId])
	if employee == nil {
		writeJson(writer, http.StatusNotFound, data.Error{Error: "employee not found"})
		return
	}
	if employeePartial.FirstName != nil {
		employee.FirstName = *employeePartial.FirstName
	}
	if employeePartial.LastName != nil {
		employee.LastName = *employeePartial.LastName
	}
	writeJson(writer, http.StatusOK, map[string]string{"message": "Employee updated"})
}

func (s *Server) employeeDelete(writer http.ResponseWriter, request *http.Request) {
	s.Lock()
	defer s.Unlock()

	i, employee := s.employee(mux.Vars(request)[data.PathDelegateId])
	if employee == nil {
		writeJson(writer, http.StatusNotFound, data.Error{Error: "employee not found"})
		return
	}
	s.employees = append(s.employees[:i], s.employees[i+1:]...)
	writeJson(writer, http.StatusOK, map[string]string{"message": "Employee and courses deleted"})
}

func (s *Server) learningHistoriesList(writer http.ResponseWriter, request *http.Request) {
	s.Lock()
	defer s.Unlock()

	learningHistories := make([]*data.LearningHistory, 0, len(s.employees))
	for _, employee := range s.employees {
		if employee.LearningHistory == nil {
			continue
		}
		learningHistory := employee.LearningHistory.Copy()
		learningHistory.DelegateId = employee.DelegateId
		learningHistories = append(learningHistories, learningHistory)
	}
	writeJson(writer, http.StatusOK, learningHistories)
}

func (s *Server) courseCodesList(writer http.ResponseWriter, request *http.Request) {
	s.Lock()
	defer s.Unlock()

	courseCodes := s.courseCodes
	if courseCodes == nil {
		courseCodes = []any{}
	}
	writeJson(writer, http.StatusOK, courseCodes)
}

func (s *Server) courseAdd(writer http.ResponseWriter, request *http.Request) {
	var course data.Course

	if err := json.NewDecoder(request.Body).Decode(&course); err != nil {
		writeJson(writer, http.StatusBadRequest, data.Error{Error: err.Error()})
		return
	}
	s.Lock()
	defer s.Unlock()

	_, employee := s.employee(mux.Vars(request)[data.PathDelegateId])
	if employee == nil {
		writeJson(writer, http.StatusNotFound, data.Error{Error: "employee not found"})
		return
	}
	if employee.LearningHistory == nil {
		employee.LearningHistory = &data.LearningHistory{
			FirstName: employee.FirstName,
			LastName:  employee.LastName,
		}
	}
	employee.LearningHistory.Records = append(employee.LearningHistory.Records, course)
	writeJson(writer, http.StatusCreated, map[string]string{"message": "Course added"})
}

func (s *Server) courseUpdate(writer http.ResponseWriter, request *http.Request) {
	var course data.Course

	if err := json.NewDecoder(request.Body).Decode(&course); err != nil {
		writeJson(writer, http.StatusBadRequest, data.Error{Error: err.Error()})
		return
	}
	vars := mux.Vars(request)
	s.Lock()
	defer s.Unlock()

	_, employee := s.employee(vars[data.PathDelegateId])
	if employee == nil || employee.LearningHistory == nil {
		writeJson(writer, http.StatusNotFound, data.Error{Error: "employee not found"})
		return
	}
	for i, record := range employee.LearningHistory.Records {
		if record.CourseCode == vars[data.PathCourseCode] {
			employee.LearningHistory.Records[i] = course
			writeJson(writer, http.StatusOK, map[string]string{"message": "Course updated"})
			return
		}
	}
	writeJson(writer, http.StatusNotFound, data.Error{Error: "course not found"})
}

func (s *Server) courseDelete(writer http.ResponseWriter, request *http.Request) {
	vars := mux.Vars(request)
	s.Lock()
	defer s.Unlock()

	//the route template names the segments in the reversed order
	delegateId, courseCode := vars[data.PathDelegateId], vars[data.PathCourseCode]
	if s.standard {
		delegateId, courseCode = courseCode, delegateId
	}
	_, employee := s.employee(delegateId)
	if employee == nil || employee.LearningHistory == nil {
		writeJson(writer, http.StatusNotFound, data.Error{Error: "employee not found"})
		return
	}
	records := employee.LearningHistory.Records
	for i, record := range records {
		if record.CourseCode == courseCode {
			employee.LearningHistory.Records = append(records[:i:i], records[i+1:]...)
			writeJson(writer, http.StatusOK, map[string]string{"message": "Course deleted"})
			return
		}
	}
	writeJson(writer, http.StatusNotFound, data.Error{Error: "course not found"})
}
