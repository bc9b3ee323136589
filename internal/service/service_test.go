package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/cache"
	"github.com/antonio-alexander/go-learning-history/internal/client"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/logic"
	"github.com/antonio-alexander/go-learning-history/internal/service"
	"github.com/antonio-alexander/go-learning-history/internal/storetest"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/stretchr/testify/assert"
)

var envs = map[string]string{
	//client
	"CLIENT_TIMEOUT": "10",

	//logic
	"LOGIC_PAGE_SIZE": "10",

	//service
	"SERVICE_ADDRESS":                "localhost",
	"SERVICE_PORT":                   "0",
	"SERVICE_SHUTDOWN_TIMEOUT":       "30",
	"SERVICE_CORS_ALLOW_CREDENTIALS": "",
	"SERVICE_CORS_ALLOWED_ORIGINS":   "",
	"SERVICE_CORS_ALLOWED_METHODS":   "",
	"SERVICE_CORS_DISABLED":          "",
	"SERVICE_CORS_DEBUG":             "",
	"SERVICE_TIMERS_ENABLED":         "true",
}

func init() {
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func newEmployees() []*data.Employee {
	return []*data.Employee{
		{
			EmployeeId: "10001",
			DelegateId: "AK3Z0B7Q2",
			FirstName:  "Ada",
			LastName:   "Lovelace",
			Active:     true,
			LearningHistory: &data.LearningHistory{
				FirstName: "Ada",
				LastName:  "Lovelace",
				Found:     boolPtr(true),
				Records: []data.Course{
					{
						CourseTitle:      "Safety",
						CourseCode:       "C-001",
						Country:          "Denmark",
						TrainingProvider: "RelyOn Nutec",
						CompletedOn:      "2024-01-31",
					},
					{
						CourseTitle:      "First Aid",
						CourseCode:       "C-002",
						Country:          "India",
						TrainingProvider: "Maersk Training A/S",
						CompletedOn:      "2024-02-01",
					},
				},
			},
		},
		{
			EmployeeId: "10002",
			DelegateId: "AB1C2D3E4",
			FirstName:  "Grace",
			LastName:   "Hopper",
			Active:     true,
			LearningHistory: &data.LearningHistory{
				Found: boolPtr(true),
				Records: []data.Course{
					{
						CourseTitle: "Safety",
						CourseCode:  "C-001",
						Country:     "Denmark",
					},
				},
			},
		},
		{
			EmployeeId: "10003",
			DelegateId: "AC2D3E4F5",
			FirstName:  "Alan",
			LastName:   "Turing",
		},
		{
			EmployeeId: "10004",
			DelegateId: "AD3E4F5G6",
			FirstName:  "Katherine",
			LastName:   "Johnson",
			LearningHistory: &data.LearningHistory{
				Found: boolPtr(false),
			},
		},
	}
}

type serviceTest struct {
	server *storetest.Server
	client interface {
		internal.Configurer
		internal.Opener
		client.Client
	}
	logic   *logic.Logic
	service interface {
		internal.Configurer
		internal.Opener
		Address() string
	}
	httpClient *http.Client
}

func newServiceTest(t *testing.T) *serviceTest {
	ctx := context.TODO()
	timers := utilities.NewTimers()
	c := client.NewClient(timers)
	memory := cache.NewMemory()
	l := logic.NewLogic(c, memory, utilities.NewCounter(),
		rand.New(rand.NewPCG(3, 4)))
	s := &serviceTest{
		server:     storetest.NewServer(newEmployees()...),
		client:     c,
		logic:      l,
		httpClient: &http.Client{},
	}
	s.service = service.NewService(l, memory, timers)
	configuration := make(map[string]string)
	for key, value := range envs {
		configuration[key] = value
	}
	for key, value := range s.server.Envs() {
		configuration[key] = value
	}
	for _, configurer := range []internal.Configurer{s.client, s.logic, s.service} {
		if err := configurer.Configure(configuration); !assert.Nil(t, err) {
			assert.FailNow(t, "unable to configure")
		}
	}
	for _, opener := range []internal.Opener{s.client, s.logic, s.service} {
		if err := opener.Open(ctx); !assert.Nil(t, err) {
			assert.FailNow(t, "unable to open")
		}
	}
	t.Cleanup(func() {
		_ = s.service.Close(ctx)
		_ = s.logic.Close(ctx)
		_ = s.client.Close(ctx)
		s.server.Close()
	})
	return s
}

func (s *serviceTest) uri(path string) string {
	return "http://" + s.service.Address() + path
}

func (s *serviceTest) do(t *testing.T, method, path string, item any) (int, []byte) {
	var body io.Reader

	if item != nil {
		byts, err := json.Marshal(item)
		if !assert.Nil(t, err) {
			return 0, nil
		}
		body = bytes.NewReader(byts)
	}
	request, err := http.NewRequest(method, s.uri(path), body)
	if !assert.Nil(t, err) {
		return 0, nil
	}
	response, err := s.httpClient.Do(request)
	if !assert.Nil(t, err) {
		return 0, nil
	}
	defer response.Body.Close()
	byts, err := io.ReadAll(response.Body)
	assert.Nil(t, err)
	return response.StatusCode, byts
}

func (s *serviceTest) page(t *testing.T, params url.Values) *data.EmployeePage {
	page := &data.EmployeePage{}
	_, err := internal.DoRequest(context.TODO(), s.httpClient,
		s.uri(data.RouteConsoleEmployees), http.MethodGet, params, page)
	assert.Nil(t, err)
	return page
}

func TestDefault(t *testing.T) {
	s := newServiceTest(t)

	statusCode, body := s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Contains(t, string(body), "go-learning-history")
}

func TestEmployees(t *testing.T) {
	s := newServiceTest(t)

	page := s.page(t, url.Values{data.ParameterPageSize: {"3"}})
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Employees, 3)
	page = s.page(t, url.Values{data.ParameterPage: {"1"}})
	assert.Equal(t, 1, page.Page)
	if assert.Len(t, page.Employees, 1) {
		assert.Equal(t, "AD3E4F5G6", page.Employees[0].DelegateId)
	}

	//a new search resets the page
	page = s.page(t, url.Values{data.ParameterSearch: {"hopper"}, data.ParameterPage: {"1"}})
	assert.Equal(t, 0, page.Page)
	if assert.Len(t, page.Employees, 1) {
		assert.Equal(t, "AB1C2D3E4", page.Employees[0].DelegateId)
	}

	statusCode, _ := s.do(t, http.MethodGet, data.RouteConsoleEmployees+"?page=-1", nil)
	assert.Equal(t, http.StatusBadRequest, statusCode)
	statusCode, _ = s.do(t, http.MethodGet, "/console/employees/AZ9Z9Z9Z9", nil)
	assert.Equal(t, http.StatusNotFound, statusCode)
	statusCode, body := s.do(t, http.MethodGet, "/console/employees/AK3Z0B7Q2", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Contains(t, string(body), "Lovelace")
}

func TestEmployeeCreate(t *testing.T) {
	s := newServiceTest(t)
	var response data.EmployeeResponse

	statusCode, _ := s.do(t, http.MethodPost, data.RouteConsoleEmployees,
		&data.EmployeeCreateRequest{FirstName: "Mary"})
	assert.Equal(t, http.StatusBadRequest, statusCode)
	assert.Len(t, s.server.Employees(), 4)

	statusCode, body := s.do(t, http.MethodPost, data.RouteConsoleEmployees,
		&data.EmployeeCreateRequest{FirstName: "Mary", LastName: "Jackson", Active: boolPtr(false)})
	assert.Equal(t, http.StatusOK, statusCode)
	err := json.Unmarshal(body, &response)
	assert.Nil(t, err)
	if assert.NotNil(t, response.Employee) {
		assert.True(t, data.ValidDelegateId(response.Employee.DelegateId))
		assert.False(t, response.Employee.Active)
	}
	if assert.NotNil(t, response.Acknowledgement) {
		assert.Equal(t, "Employee added", response.Acknowledgement.Message)
	}
	assert.Len(t, s.server.Employees(), 5)
	assert.Equal(t, 5, s.page(t, nil).Total)
}

func TestEmployeeName(t *testing.T) {
	s := newServiceTest(t)
	var response data.EmployeeResponse

	statusCode, _ := s.do(t, http.MethodPut, "/console/employees/AZ9Z9Z9Z9/name",
		&data.EmployeeNameRequest{FirstName: "Nobody"})
	assert.Equal(t, http.StatusNotFound, statusCode)

	statusCode, body := s.do(t, http.MethodPut, "/console/employees/AB1C2D3E4/name",
		&data.EmployeeNameRequest{FirstName: "Amazing", LastName: "Grace"})
	assert.Equal(t, http.StatusOK, statusCode)
	err := json.Unmarshal(body, &response)
	assert.Nil(t, err)
	if assert.NotNil(t, response.Employee) {
		assert.Equal(t, "Amazing Grace", response.Employee.FullName())
	}

	//a failed update is reported as a bad gateway
	s.server.Fail(http.MethodPut, data.RouteEmployeesDelegateId, http.StatusInternalServerError)
	statusCode, body = s.do(t, http.MethodPut, "/console/employees/AB1C2D3E4/name",
		&data.EmployeeNameRequest{FirstName: "Grace", LastName: "Hopper"})
	assert.Equal(t, http.StatusBadGateway, statusCode)
	assert.Contains(t, string(body), "error")
}

func TestEmployeeNameConcurrent(t *testing.T) {
	const rounds int = 10

	s := newServiceTest(t)
	var wg sync.WaitGroup

	//every update sent to the store carries the names of its own request
	delegateIds := []string{"AK3Z0B7Q2", "AB1C2D3E4", "AC2D3E4F5", "AD3E4F5G6"}
	for _, delegateId := range delegateIds {
		wg.Add(1)
		go func(delegateId string) {
			defer wg.Done()

			for i := 0; i < rounds; i++ {
				statusCode, _ := s.do(t, http.MethodPut, "/console/employees/"+delegateId+"/name",
					&data.EmployeeNameRequest{FirstName: "F-" + delegateId, LastName: "Round"})
				assert.Equal(t, http.StatusOK, statusCode)
			}
		}(delegateId)
	}
	wg.Wait()
	updates := 0
	for _, request := range s.server.Requests() {
		if request.Method != http.MethodPut {
			continue
		}
		var employeePartial data.EmployeeNamePartial

		updates++
		err := json.Unmarshal(request.Body, &employeePartial)
		assert.Nil(t, err)
		delegateId := strings.TrimPrefix(request.Path, "/api/employees/")
		if assert.NotNil(t, employeePartial.FirstName) {
			assert.Equal(t, "F-"+delegateId, *employeePartial.FirstName)
		}
	}
	assert.Equal(t, len(delegateIds)*rounds, updates)
	for _, employee := range s.server.Employees() {
		assert.Equal(t, "F-"+employee.DelegateId, employee.FirstName)
	}
}

func TestEmployeeDelete(t *testing.T) {
	s := newServiceTest(t)

	//confirming without a request deletes nothing
	statusCode, _ := s.do(t, http.MethodDelete, "/console/employees/AC2D3E4F5?confirm=true", nil)
	assert.Equal(t, http.StatusConflict, statusCode)

	statusCode, body := s.do(t, http.MethodDelete, "/console/employees/AC2D3E4F5", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Contains(t, string(body), `"pending_delete":true`)
	statusCode, _ = s.do(t, http.MethodDelete, "/console/employees/AC2D3E4F5?confirm=false", nil)
	assert.Equal(t, http.StatusNoContent, statusCode)
	assert.Len(t, s.server.Employees(), 4)

	statusCode, _ = s.do(t, http.MethodDelete, "/console/employees/AC2D3E4F5?confirm=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, statusCode)
	statusCode, _ = s.do(t, http.MethodDelete, "/console/employees/AC2D3E4F5", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	statusCode, _ = s.do(t, http.MethodDelete, "/console/employees/AC2D3E4F5?confirm=true", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Len(t, s.server.Employees(), 3)
	assert.Equal(t, 3, s.page(t, nil).Total)
}

func TestCourses(t *testing.T) {
	s := newServiceTest(t)
	var courses data.CoursesResponse

	statusCode, body := s.do(t, http.MethodGet, "/console/employees/AK3Z0B7Q2/courses", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	err := json.Unmarshal(body, &courses)
	assert.Nil(t, err)
	assert.Len(t, courses.Courses, 2)

	//add
	statusCode, _ = s.do(t, http.MethodPost, "/console/employees/AK3Z0B7Q2/courses",
		&data.Course{CourseCode: "C-001", CourseTitle: "Safety"})
	assert.Equal(t, http.StatusConflict, statusCode)
	statusCode, _ = s.do(t, http.MethodPost, "/console/employees/AK3Z0B7Q2/courses",
		&data.Course{CourseCode: "C-003", CourseTitle: "Sea Survival", CompletedOn: "2024-03-01"})
	assert.Equal(t, http.StatusOK, statusCode)

	//update
	statusCode, _ = s.do(t, http.MethodPut, "/console/employees/AK3Z0B7Q2/courses/C-002",
		&data.Course{CourseCode: "C-020", CourseTitle: "First Aid"})
	assert.Equal(t, http.StatusBadRequest, statusCode)
	statusCode, _ = s.do(t, http.MethodPut, "/console/employees/AK3Z0B7Q2/courses/C-002",
		&data.Course{CourseTitle: "First Aid", Country: "Norway"})
	assert.Equal(t, http.StatusOK, statusCode)
	statusCode, _ = s.do(t, http.MethodPut, "/console/employees/AK3Z0B7Q2/courses/C-009",
		&data.Course{CourseTitle: "Unknown"})
	assert.Equal(t, http.StatusNotFound, statusCode)

	//delete
	statusCode, body = s.do(t, http.MethodDelete, "/console/employees/AK3Z0B7Q2/courses/C-001", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Contains(t, string(body), `"pending_delete":true`)
	statusCode, _ = s.do(t, http.MethodDelete, "/console/employees/AK3Z0B7Q2/courses/C-001?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, statusCode)
	requests := s.server.Requests()
	deletes := 0
	for _, request := range requests {
		if request.Method == http.MethodDelete {
			deletes++
			assert.Equal(t, "/api/learningHistory/C-001/AK3Z0B7Q2", request.Path)
		}
	}
	assert.Equal(t, 1, deletes)

	statusCode, body = s.do(t, http.MethodGet, "/console/employees/AK3Z0B7Q2/courses", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	err = json.Unmarshal(body, &courses)
	assert.Nil(t, err)
	if assert.Len(t, courses.Courses, 2) {
		assert.Equal(t, "C-002", courses.Courses[0].CourseCode)
		assert.Equal(t, "Norway", courses.Courses[0].Country)
		assert.Equal(t, "C-003", courses.Courses[1].CourseCode)
	}
}

func TestCourseAddConcurrent(t *testing.T) {
	const courses int = 20

	s := newServiceTest(t)
	var wg sync.WaitGroup

	//every course sent to the store is built from a single request
	for i := 0; i < courses; i++ {
		wg.Add(1)
		go func(courseCode string) {
			defer wg.Done()

			statusCode, _ := s.do(t, http.MethodPost, "/console/employees/AC2D3E4F5/courses",
				&data.Course{CourseCode: courseCode, CourseTitle: "Title " + courseCode})
			assert.Equal(t, http.StatusOK, statusCode)
		}(fmt.Sprintf("K-%02d", i))
	}
	wg.Wait()
	adds := 0
	for _, request := range s.server.Requests() {
		if request.Method != http.MethodPost {
			continue
		}
		var course data.Course

		adds++
		assert.Equal(t, "/api/learningHistory/AC2D3E4F5", request.Path)
		err := json.Unmarshal(request.Body, &course)
		assert.Nil(t, err)
		assert.Equal(t, "Title "+course.CourseCode, course.CourseTitle)
	}
	assert.Equal(t, courses, adds)
	for _, employee := range s.server.Employees() {
		if employee.DelegateId == "AC2D3E4F5" {
			assert.Len(t, employee.Records(), courses)
		}
	}
}

func TestCourseCodes(t *testing.T) {
	s := newServiceTest(t)
	var courseCodes data.CourseCodesResponse

	s.server.SetCourseCodes("C-001", "HSE-101", map[string]string{"course_code": "C-002"})
	statusCode, body := s.do(t, http.MethodGet, "/console/course-codes?query=hse", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	err := json.Unmarshal(body, &courseCodes)
	assert.Nil(t, err)
	assert.Equal(t, []string{"HSE-101"}, courseCodes.CourseCodes)
	statusCode, body = s.do(t, http.MethodGet, "/console/course-codes", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	err = json.Unmarshal(body, &courseCodes)
	assert.Nil(t, err)
	assert.Equal(t, []string{"C-001", "HSE-101", "C-002"}, courseCodes.CourseCodes)
}

func TestDashboard(t *testing.T) {
	s := newServiceTest(t)
	var summary data.DashboardSummary

	statusCode, body := s.do(t, http.MethodGet, "/console/dashboard?country=Denmark", nil)
	assert.Equal(t, http.StatusOK, statusCode)
	err := json.Unmarshal(body, &summary)
	assert.Nil(t, err)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, []data.CourseCount{{CourseTitle: "Safety", Count: 2}}, summary.CourseCounts)
	assert.Equal(t, []string{"Denmark", "India"}, summary.Countries)
	assert.Equal(t, 2, summary.Found)
	assert.Equal(t, 1, summary.NotFound)

	statusCode, _ = s.do(t, http.MethodGet, "/console/dashboard?completed_on=31-01-2024", nil)
	assert.Equal(t, http.StatusBadRequest, statusCode)
}

func TestRefresh(t *testing.T) {
	s := newServiceTest(t)

	s.server.SetEmployees(newEmployees()[:2]...)
	statusCode, body := s.do(t, http.MethodPost, data.RouteConsoleEmployeesRefresh, nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Contains(t, string(body), `"total":2`)

	//a failed refresh keeps the snapshot
	s.server.Fail(http.MethodGet, data.RouteEmployees, http.StatusServiceUnavailable)
	statusCode, _ = s.do(t, http.MethodPost, data.RouteConsoleEmployeesRefresh, nil)
	assert.Equal(t, http.StatusBadGateway, statusCode)
	assert.Equal(t, 2, s.page(t, nil).Total)

	statusCode, _ = s.do(t, http.MethodGet, data.RouteConsoleEmployeesRefresh, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, statusCode)
}

func TestDiagnostics(t *testing.T) {
	s := newServiceTest(t)
	var timers data.Timers
	var counters data.CacheCounters

	_ = s.page(t, nil)
	statusCode, body := s.do(t, http.MethodGet, data.RouteTimers, nil)
	assert.Equal(t, http.StatusOK, statusCode)
	err := json.Unmarshal(body, &timers)
	assert.Nil(t, err)
	assert.Equal(t, 1, timers.Counts["employees_view"])
	assert.Equal(t, 1, timers.Counts[client.OperationEmployeesList])
	statusCode, _ = s.do(t, http.MethodDelete, data.RouteTimers, nil)
	assert.Equal(t, http.StatusNoContent, statusCode)

	statusCode, body = s.do(t, http.MethodGet, data.RouteCacheCounters, nil)
	assert.Equal(t, http.StatusOK, statusCode)
	err = json.Unmarshal(body, &counters)
	assert.Nil(t, err)
	assert.Equal(t, 1, counters.CounterHits["employees"])
	statusCode, _ = s.do(t, http.MethodDelete, data.RouteCacheCounters, nil)
	assert.Equal(t, http.StatusNoContent, statusCode)

	//clearing the cache drops the snapshot until the next refresh
	statusCode, _ = s.do(t, http.MethodDelete, data.RouteCache, nil)
	assert.Equal(t, http.StatusNoContent, statusCode)
	assert.Equal(t, 0, s.page(t, nil).Total)
	statusCode, _ = s.do(t, http.MethodPost, data.RouteConsoleEmployeesRefresh, nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Equal(t, 4, s.page(t, nil).Total)

	statusCode, body = s.do(t, http.MethodGet, data.RouteMetrics, nil)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Contains(t, string(body), "learning_history_console_requests_total")
	assert.Contains(t, string(body), "learning_history_snapshot_refreshes_total")
}
