package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/pkg/errors"
)

const (
	OperationEmployeesList         string = "employees_list"
	OperationEmployeeCreate        string = "employee_create"
	OperationEmployeeUpdate        string = "employee_update"
	OperationEmployeeDelete        string = "employee_delete"
	OperationLearningHistoriesList string = "learning_histories_list"
	OperationCourseAdd             string = "course_add"
	OperationCourseUpdate          string = "course_update"
	OperationCourseDelete          string = "course_delete"
	OperationCourseCodesList       string = "course_codes_list"
)

const (
	coursePathReversed string = "reversed"
	coursePathStandard string = "standard"
)

// Client issues exactly one request to the remote store per call, there's
// no retry and no caching at this layer
type Client interface {
	EmployeesList(ctx context.Context) ([]*data.Employee, error)
	EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Acknowledgement, error)
	EmployeeUpdate(ctx context.Context, delegateId string, employeePartial data.EmployeeNamePartial) (*data.Acknowledgement, error)
	EmployeeDelete(ctx context.Context, delegateId string) (*data.Acknowledgement, error)
	LearningHistoriesList(ctx context.Context) ([]*data.LearningHistory, error)
	CourseAdd(ctx context.Context, delegateId string, course data.Course) (*data.Acknowledgement, error)
	CourseUpdate(ctx context.Context, delegateId, courseCode string, course data.Course) (*data.Acknowledgement, error)
	CourseDelete(ctx context.Context, delegateId, courseCode string) (*data.Acknowledgement, error)
	CourseCodesList(ctx context.Context) ([]string, error)
}

// StatusError is returned when the remote store answers with a non-success
// status code
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
	Message    string
}

func (s *StatusError) Error() string {
	if s.Message != "" {
		return fmt.Sprintf("status code: %d; %s", s.StatusCode, s.Message)
	}
	if len(s.Body) > 0 {
		return fmt.Sprintf("status code: %d; %s", s.StatusCode, string(s.Body))
	}
	return fmt.Sprintf("status code: %d", s.StatusCode)
}

type client struct {
	sync.RWMutex
	config struct {
		protocol   string
		address    string
		port       string
		basePath   string
		timeout    int64
		sslCaFile  string
		sslCrtFile string
		sslKeyFile string
		coursePath string
	}
	address string
	timers  utilities.Timers
	utilities.Logger
	*http.Client
}

func NewClient(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Client
} {
	c := &client{
		Client: &http.Client{},
		Logger: utilities.NewNullLogger(),
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Timers:
			c.timers = p
		case utilities.Logger:
			c.Logger = p
		case *http.Client:
			c.Client = p
		}
	}
	return c
}

func (c *client) doRequest(ctx context.Context, operation, uri, method string, item any) ([]byte, error) {
	var body io.Reader

	if c.timers != nil {
		index := c.timers.Start(operation)
		defer c.timers.Stop(operation, index)
	}
	tStart := time.Now()
	defer func() {
		utilities.RemoteRequestDuration.WithLabelValues(operation).
			Observe(time.Since(tStart).Seconds())
	}()
	if item != nil {
		byts, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(byts)
	}
	request, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		request.Header.Add("Content-Type", "application/json")
	}
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		request.Header.Add("Correlation-Id", correlationId)
	}
	c.Trace(ctx, "client: %s %s", method, uri)
	response, err := c.Do(request)
	if err != nil {
		utilities.RemoteRequestsTotal.WithLabelValues(operation, "transport_error").Inc()
		return nil, errors.Wrapf(err, "error while executing %s", operation)
	}
	byts, err := io.ReadAll(response.Body)
	defer response.Body.Close()
	if err != nil {
		utilities.RemoteRequestsTotal.WithLabelValues(operation, "transport_error").Inc()
		return nil, err
	}
	switch {
	default:
		var e data.Error

		utilities.RemoteRequestsTotal.WithLabelValues(operation,
			"status_"+strconv.Itoa(response.StatusCode)).Inc()
		statusError := &StatusError{
			StatusCode: response.StatusCode,
			Status:     response.Status,
			Body:       byts,
		}
		if err := json.Unmarshal(byts, &e); err == nil {
			statusError.Message = e.Error
		}
		return nil, statusError
	case response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices:
		utilities.RemoteRequestsTotal.WithLabelValues(operation, "ok").Inc()
		return byts, nil
	}
}

func (c *client) Configure(envs map[string]string) error {
	c.Lock()
	defer c.Unlock()

	c.config.protocol, c.config.address, c.config.port = "http", "localhost", "5000"
	c.config.basePath = data.RouteApi
	c.config.coursePath = coursePathReversed
	if address, ok := envs["CLIENT_ADDRESS"]; ok {
		c.config.address = address
	}
	if port, ok := envs["CLIENT_PORT"]; ok {
		c.config.port = port
	}
	if protocol, ok := envs["CLIENT_PROTOCOL"]; ok {
		c.config.protocol = protocol
	}
	if basePath, ok := envs["CLIENT_BASE_PATH"]; ok {
		c.config.basePath = strings.TrimSuffix(basePath, "/")
	}
	if timeout, ok := envs["CLIENT_TIMEOUT"]; ok && timeout != "" {
		i, err := strconv.ParseInt(timeout, 10, 64)
		if err != nil {
			return errors.Wrap(err, "CLIENT_TIMEOUT")
		}
		c.config.timeout = i
	}
	if sslCaFile, ok := envs["SSL_CA_FILE"]; ok {
		c.config.sslCaFile = sslCaFile
	}
	if sslKeyFile, ok := envs["SSL_KEY_FILE"]; ok {
		c.config.sslKeyFile = sslKeyFile
	}
	if sslCrtFile, ok := envs["SSL_CRT_FILE"]; ok {
		c.config.sslCrtFile = sslCrtFile
	}
	if coursePath, ok := envs["CLIENT_COURSE_DELETE_PATH"]; ok {
		switch coursePath = strings.ToLower(coursePath); coursePath {
		default:
			return errors.Errorf("unsupported course delete path: %s", coursePath)
		case coursePathReversed, coursePathStandard:
			c.config.coursePath = coursePath
		}
	}
	return nil
}

func (c *client) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	switch c.config.protocol {
	default:
		return errors.Errorf("unsupported protocol: %s", c.config.protocol)
	case "http", "https":
		c.address = fmt.Sprintf("%s://%s%s", c.config.protocol,
			net.JoinHostPort(c.config.address, c.config.port), c.config.basePath)
	}
	c.Client.Timeout = time.Duration(c.config.timeout) * time.Second
	transport, err := getTransport(c.config.sslCaFile, c.config.sslCrtFile,
		c.config.sslKeyFile)
	if err != nil {
		return err
	}
	if transport != nil {
		c.Client.Transport = transport
	}
	c.Debug(ctx, "client: remote store at %s", c.address)
	return nil
}

func (c *client) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.Client.CloseIdleConnections()
	return nil
}

func (c *client) uri(route string) string {
	c.RLock()
	defer c.RUnlock()

	return c.address + route
}

func (c *client) acknowledge(ctx context.Context, operation, uri, method string, item any) (*data.Acknowledgement, error) {
	byts, err := c.doRequest(ctx, operation, uri, method, item)
	if err != nil {
		return nil, err
	}
	return data.NewAcknowledgement(byts), nil
}

func (c *client) EmployeesList(ctx context.Context) ([]*data.Employee, error) {
	var employees []*data.Employee

	byts, err := c.doRequest(ctx, OperationEmployeesList,
		c.uri(data.RouteEmployees), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(byts, &employees); err != nil {
		return nil, errors.Wrap(err, "error while decoding employees")
	}
	return data.Employees(employees).Copy(), nil
}

func (c *client) EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Acknowledgement, error) {
	return c.acknowledge(ctx, OperationEmployeeCreate,
		c.uri(data.RouteEmployeesAdd), http.MethodPost, &employee)
}

func (c *client) EmployeeUpdate(ctx context.Context, delegateId string, employeePartial data.EmployeeNamePartial) (*data.Acknowledgement, error) {
	return c.acknowledge(ctx, OperationEmployeeUpdate,
		c.uri(data.RouteEmployeesDelegateIdf(delegateId)), http.MethodPut, &employeePartial)
}

func (c *client) EmployeeDelete(ctx context.Context, delegateId string) (*data.Acknowledgement, error) {
	return c.acknowledge(ctx, OperationEmployeeDelete,
		c.uri(data.RouteEmployeesDelegateIdf(delegateId)), http.MethodDelete, nil)
}

func (c *client) LearningHistoriesList(ctx context.Context) ([]*data.LearningHistory, error) {
	var learningHistories []*data.LearningHistory

	byts, err := c.doRequest(ctx, OperationLearningHistoriesList,
		c.uri(data.RouteLearningHistories), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(byts, &learningHistories); err != nil {
		return nil, errors.Wrap(err, "error while decoding learning histories")
	}
	filtered := learningHistories[:0]
	for _, learningHistory := range learningHistories {
		if learningHistory != nil {
			filtered = append(filtered, learningHistory)
		}
	}
	return filtered, nil
}

func (c *client) CourseAdd(ctx context.Context, delegateId string, course data.Course) (*data.Acknowledgement, error) {
	return c.acknowledge(ctx, OperationCourseAdd,
		c.uri(data.RouteLearningHistoryDelegateIdf(delegateId)), http.MethodPost, &course)
}

func (c *client) CourseUpdate(ctx context.Context, delegateId, courseCode string, course data.Course) (*data.Acknowledgement, error) {
	return c.acknowledge(ctx, OperationCourseUpdate,
		c.uri(data.RouteLearningHistoryCoursef(delegateId, courseCode)), http.MethodPut, &course)
}

func (c *client) CourseDelete(ctx context.Context, delegateId, courseCode string) (*data.Acknowledgement, error) {
	c.RLock()
	standard := c.config.coursePath == coursePathStandard
	c.RUnlock()

	route := data.RouteLearningHistoryCourseDeletef(delegateId, courseCode, standard)
	return c.acknowledge(ctx, OperationCourseDelete, c.uri(route), http.MethodDelete, nil)
}

// CourseCodesList accepts either a list of strings or a list of objects
// with a course_code field; duplicates and empty codes are dropped while
// the order is kept
func (c *client) CourseCodesList(ctx context.Context) ([]string, error) {
	var items []json.RawMessage

	byts, err := c.doRequest(ctx, OperationCourseCodesList,
		c.uri(data.RouteLearningHistoryCourseCodes), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(byts, &items); err != nil {
		return nil, errors.Wrap(err, "error while decoding course codes")
	}
	courseCodes := make([]string, 0, len(items))
	unique := make(map[string]struct{}, len(items))
	for _, item := range items {
		var courseCode string
		var course struct {
			CourseCode string `json:"course_code"`
		}

		switch {
		case json.Unmarshal(item, &courseCode) == nil:
		case json.Unmarshal(item, &course) == nil:
			courseCode = course.CourseCode
		default:
			c.Debug(ctx, "skipping course code: %s", string(bytes.TrimSpace(item)))
			continue
		}
		if _, ok := unique[courseCode]; ok || courseCode == "" {
			continue
		}
		unique[courseCode] = struct{}{}
		courseCodes = append(courseCodes, courseCode)
	}
	return courseCodes, nil
}
