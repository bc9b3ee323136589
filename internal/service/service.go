package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/logic"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

const (
	defaultAddress         string        = ""
	defaultPort            string        = "8080"
	defaultShutdownTimeout time.Duration = 10 * time.Second
)

type service struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		address          string
		port             string
		shutdownTimeout  time.Duration
		allowedOrigins   []string
		allowedMethods   []string
		allowedHeaders   []string
		allowCredentials bool
		corsDisabled     bool
		corsDebug        bool
		timersEnabled    bool
	}
	ctx      context.Context
	cancel   context.CancelFunc
	listener net.Listener
	*mux.Router
	*http.Server
	cache   internal.Clearer
	counter utilities.Counter
	timers  utilities.Timers
	logic   *logic.Logic
	utilities.Logger
	session sync.Mutex //held across every multi-step use of the session's controllers
}

// NewService creates the console service, the logic is required while the
// cache clearer, counter and timers only enable their diagnostic routes
func NewService(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Address() string
} {
	router := mux.NewRouter()
	s := &service{
		Router: router,
		Server: &http.Server{
			Handler: router,
		},
		Logger: utilities.NewNullLogger(),
	}
	s.config.address, s.config.port = defaultAddress, defaultPort
	s.config.shutdownTimeout = defaultShutdownTimeout
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case *logic.Logic:
			s.logic = p
		case internal.Clearer:
			s.cache = p
		case utilities.Counter:
			s.counter = p
		case utilities.Timers:
			s.timers = p
		case utilities.Logger:
			s.Logger = p
		}
	}
	return s
}

func (s *service) launchServer() {
	if !s.config.corsDisabled {
		s.Server.Handler = cors.New(cors.Options{
			AllowedOrigins:   s.config.allowedOrigins,
			AllowCredentials: s.config.allowCredentials,
			AllowedMethods:   s.config.allowedMethods,
			AllowedHeaders:   s.config.allowedHeaders,
			Debug:            s.config.corsDebug,
		}).Handler(s.Router)
	}
	listener := s.listener
	s.Add(1)
	go func() {
		defer s.WaitGroup.Done()

		if err := s.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Error(s.ctx, "server stopped unexpectedly: %s", err)
		}
	}()
	s.Info(s.ctx, "started server: %s", listener.Addr())
}

// time starts a timer for group and returns the function that stops it
func (s *service) time(ctx context.Context, group string) func() {
	if !s.config.timersEnabled || s.timers == nil {
		return func() {}
	}
	index := s.timers.Start(group)
	return func() {
		s.Trace(ctx, "%s took %v", group, s.timers.Stop(group, index))
	}
}

func (s *service) context(request *http.Request) context.Context {
	return internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
}

// middleware counts every console request by route template, method and
// status code
func (s *service) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		route := request.URL.Path
		if current := mux.CurrentRoute(request); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		recorder := &statusRecorder{ResponseWriter: writer, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, request)
		utilities.ConsoleRequestsTotal.WithLabelValues(route, request.Method,
			strconv.Itoa(recorder.statusCode)).Inc()
	})
}

func (s *service) endpointDefault() func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprintf(writer,
			"go-learning-history\n"+
				"Version: \"%s\"\n"+
				"Git Commit: \"%s\"\n"+
				"Git Branch: \"%s\"\n",
			Version, GitCommit, GitBranch)
	}
}

func (s *service) endpointEmployeesView(writer http.ResponseWriter, request *http.Request) {
	var query data.EmployeeQuery

	ctx := s.context(request)
	defer s.time(ctx, "employees_view")()
	s.session.Lock()
	defer s.session.Unlock()
	query.FromParams(request.URL.Query())
	if err := s.logic.Employees().SetQuery(query); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	page, err := s.logic.Employees().View(ctx)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, page)
	s.Trace(ctx, "executed employees_view: %d of %d", len(page.Employees), page.Total)
}

func (s *service) endpointEmployeesRefresh(writer http.ResponseWriter, request *http.Request) {
	ctx := s.context(request)
	defer s.time(ctx, "employees_refresh")()
	if err := s.logic.Employees().Refresh(ctx); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	page, err := s.logic.Employees().View(ctx)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, page)
	s.Trace(ctx, "executed employees_refresh")
}

func (s *service) endpointEmployeeCreate(writer http.ResponseWriter, request *http.Request) {
	var employeeRequest data.EmployeeCreateRequest

	ctx := s.context(request)
	defer s.time(ctx, "employee_create")()
	s.session.Lock()
	defer s.session.Unlock()
	if err := readJson(request, &employeeRequest); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	form := s.logic.EmployeeForm()
	changes := [][2]string{
		{data.FieldFirstName, employeeRequest.FirstName},
		{data.FieldLastName, employeeRequest.LastName},
	}
	if employeeRequest.Active != nil {
		changes = append(changes, [2]string{data.FieldActive,
			strconv.FormatBool(*employeeRequest.Active)})
	}
	for _, change := range changes {
		if err := form.Change(change[0], change[1]); err != nil {
			handleResponse(writer, err, nil)
			return
		}
	}
	employee, acknowledgement, err := form.Submit(ctx)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.EmployeeResponse{
		Employee:        employee,
		Acknowledgement: acknowledgement,
	})
	s.Trace(ctx, "executed employee_create: %s", employee.DelegateId)
}

func (s *service) endpointEmployeeRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.context(request)
	defer s.time(ctx, "employee_read")()
	employee, err := s.logic.Employees().Employee(ctx, mux.Vars(request)[data.PathDelegateId])
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.EmployeeResponse{Employee: employee})
	s.Trace(ctx, "executed employee_read: %s", employee.DelegateId)
}

// endpointEmployeeDelete opens the delete confirmation, confirm=true
// deletes the employee whose confirmation is open and confirm=false
// cancels it
func (s *service) endpointEmployeeDelete(writer http.ResponseWriter, request *http.Request) {
	ctx := s.context(request)
	defer s.time(ctx, "employee_delete")()
	s.session.Lock()
	defer s.session.Unlock()
	list, delegateId := s.logic.Employees(), mux.Vars(request)[data.PathDelegateId]
	confirm, err := confirmFromParams(request)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	if confirm == nil {
		if err := list.DeleteRequest(ctx, delegateId); err != nil {
			handleResponse(writer, err, nil)
			return
		}
		employee, err := list.Employee(ctx, delegateId)
		if err != nil {
			handleResponse(writer, err, nil)
			return
		}
		handleResponse(writer, nil, &data.EmployeeResponse{
			Employee:      employee,
			PendingDelete: true,
		})
		return
	}
	if pending, ok := list.PendingDelete(); !ok || pending != delegateId {
		handleResponse(writer, errors.Wrapf(logic.ErrNoDeletePending, "delegate id: %s", delegateId), nil)
		return
	}
	if !*confirm {
		list.DeleteCancel()
		handleResponse(writer, nil, nil)
		return
	}
	acknowledgement, err := list.DeleteConfirm(ctx)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.EmployeeResponse{Acknowledgement: acknowledgement})
	s.Trace(ctx, "executed employee_delete: %s", delegateId)
}

func (s *service) endpointEmployeeName(writer http.ResponseWriter, request *http.Request) {
	var nameRequest data.EmployeeNameRequest

	ctx := s.context(request)
	defer s.time(ctx, "employee_name")()
	s.session.Lock()
	defer s.session.Unlock()
	delegateId := mux.Vars(request)[data.PathDelegateId]
	if err := readJson(request, &nameRequest); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	employee, err := s.logic.Employees().Employee(ctx, delegateId)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	nameEditor := s.logic.NameEditor()
	if err := nameEditor.Start(employee); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	for field, value := range map[string]string{
		data.FieldFirstName: nameRequest.FirstName,
		data.FieldLastName:  nameRequest.LastName,
	} {
		if err := nameEditor.Change(field, value); err != nil {
			handleResponse(writer, err, nil)
			return
		}
	}
	acknowledgement, err := nameEditor.Commit(ctx)
	if err != nil {
		nameEditor.Cancel()
		handleResponse(writer, err, nil)
		return
	}
	if employee, err = s.logic.Employees().Employee(ctx, delegateId); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.EmployeeResponse{
		Employee:        employee,
		Acknowledgement: acknowledgement,
	})
	s.Trace(ctx, "executed employee_name: %s", delegateId)
}

func (s *service) endpointCoursesRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.context(request)
	defer s.time(ctx, "courses_read")()
	s.session.Lock()
	defer s.session.Unlock()
	delegateId := mux.Vars(request)[data.PathDelegateId]
	courseEditor, err := s.logic.OpenCourseEditor(ctx, delegateId)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	records, err := courseEditor.Records(ctx)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.CoursesResponse{
		DelegateId: delegateId,
		Courses:    records,
	})
	s.Trace(ctx, "executed courses_read: %s", delegateId)
}

func (s *service) endpointCourseAdd(writer http.ResponseWriter, request *http.Request) {
	var course data.Course

	ctx := s.context(request)
	defer s.time(ctx, "course_add")()
	s.session.Lock()
	defer s.session.Unlock()
	delegateId := mux.Vars(request)[data.PathDelegateId]
	if err := readJson(request, &course); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	courseEditor, err := s.logic.OpenCourseEditor(ctx, delegateId)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	if err := courseEditor.AddStart(ctx); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	for _, field := range data.CourseFields {
		if err := courseEditor.AddChange(field, course.Field(field)); err != nil {
			handleResponse(writer, err, nil)
			return
		}
	}
	if _, err := courseEditor.AddSubmit(ctx); err != nil {
		courseEditor.AddCancel()
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.CourseResponse{Course: &course})
	s.Trace(ctx, "executed course_add: %s/%s", delegateId, course.CourseCode)
}

func (s *service) endpointCourseUpdate(writer http.ResponseWriter, request *http.Request) {
	var course data.Course

	ctx := s.context(request)
	defer s.time(ctx, "course_update")()
	s.session.Lock()
	defer s.session.Unlock()
	vars := mux.Vars(request)
	delegateId, courseCode := vars[data.PathDelegateId], vars[data.PathCourseCode]
	if err := readJson(request, &course); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	courseEditor, err := s.logic.OpenCourseEditor(ctx, delegateId)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	if err := courseEditor.EditStart(ctx, courseCode); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	if course.CourseCode == "" {
		course.CourseCode = courseCode
	}
	for _, field := range data.CourseFields {
		if err := courseEditor.EditChange(field, course.Field(field)); err != nil {
			courseEditor.EditCancel()
			handleResponse(writer, err, nil)
			return
		}
	}
	if _, err := courseEditor.EditSubmit(ctx); err != nil {
		courseEditor.EditCancel()
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.CourseResponse{Course: &course})
	s.Trace(ctx, "executed course_update: %s/%s", delegateId, courseCode)
}

// endpointCourseDelete follows the same confirmation flow as
// endpointEmployeeDelete
func (s *service) endpointCourseDelete(writer http.ResponseWriter, request *http.Request) {
	ctx := s.context(request)
	defer s.time(ctx, "course_delete")()
	s.session.Lock()
	defer s.session.Unlock()
	vars := mux.Vars(request)
	delegateId, courseCode := vars[data.PathDelegateId], vars[data.PathCourseCode]
	confirm, err := confirmFromParams(request)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	courseEditor, err := s.logic.OpenCourseEditor(ctx, delegateId)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	if confirm == nil {
		if err := courseEditor.DeleteRequest(ctx, courseCode); err != nil {
			handleResponse(writer, err, nil)
			return
		}
		employee, err := courseEditor.Employee(ctx)
		if err != nil {
			handleResponse(writer, err, nil)
			return
		}
		course, _ := employee.Record(courseCode)
		handleResponse(writer, nil, &data.CourseResponse{
			Course:        &course,
			PendingDelete: true,
		})
		return
	}
	if pending, ok := courseEditor.PendingDelete(); !ok || pending != courseCode {
		handleResponse(writer, errors.Wrapf(logic.ErrNoDeletePending, "course code: %s", courseCode), nil)
		return
	}
	if !*confirm {
		courseEditor.DeleteCancel()
		handleResponse(writer, nil, nil)
		return
	}
	if _, err := courseEditor.DeleteConfirm(ctx); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, nil)
	s.Trace(ctx, "executed course_delete: %s/%s", delegateId, courseCode)
}

func (s *service) endpointCourseCodes(writer http.ResponseWriter, request *http.Request) {
	ctx := s.context(request)
	defer s.time(ctx, "course_codes")()
	courseCodes, err := s.logic.CourseCodes(ctx, request.URL.Query().Get(data.ParameterQuery))
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.CourseCodesResponse{CourseCodes: courseCodes})
	s.Trace(ctx, "executed course_codes")
}

func (s *service) endpointDashboard(writer http.ResponseWriter, request *http.Request) {
	var filter data.DashboardFilter

	ctx := s.context(request)
	defer s.time(ctx, "dashboard")()
	s.session.Lock()
	defer s.session.Unlock()
	filter.FromParams(request.URL.Query())
	if err := s.logic.Dashboard().SetFilter(filter); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	summary, err := s.logic.Dashboard().Summary(ctx)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, summary)
	s.Trace(ctx, "executed dashboard")
}

func (s *service) endpointCacheClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.context(request)
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			handleResponse(writer, err, nil)
			return
		}
		s.Trace(ctx, "executed cache_clear")
	}
	handleResponse(writer, nil, nil)
}

func (s *service) endpointCacheCountersRead(writer http.ResponseWriter, _ *http.Request) {
	if s.counter == nil {
		handleResponse(writer, nil, &data.CacheCounters{})
		return
	}
	handleResponse(writer, nil, s.counter.ReadAll())
}

func (s *service) endpointCacheCountersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.context(request)
	if s.counter != nil {
		s.counter.Reset()
	}
	handleResponse(writer, nil, nil)
	s.Trace(ctx, "executed cache_counters_clear")
}

func (s *service) endpointTimersRead(writer http.ResponseWriter, _ *http.Request) {
	if s.timers == nil {
		handleResponse(writer, nil, &data.Timers{})
		return
	}
	handleResponse(writer, nil, s.timers.ReadAll())
}

func (s *service) endpointTimersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.context(request)
	if s.timers != nil {
		s.timers.Clear()
	}
	handleResponse(writer, nil, nil)
	s.Trace(ctx, "executed timers_clear")
}

func methodNotAllowed(w http.ResponseWriter) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func (s *service) buildRoutes() {
	s.Router.Use(s.middleware)
	s.Router.HandleFunc("/", s.endpointDefault())
	s.Router.Handle(data.RouteMetrics, promhttp.Handler())
	//KIM: refresh must be registered before the delegate id route or mux
	// would match "refresh" as a delegate id
	s.Router.HandleFunc(data.RouteConsoleEmployeesRefresh, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodPost:
			s.endpointEmployeesRefresh(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteConsoleEmployees, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodGet:
			s.endpointEmployeesView(w, r)
		case http.MethodPost:
			s.endpointEmployeeCreate(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteConsoleEmployee, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodGet:
			s.endpointEmployeeRead(w, r)
		case http.MethodDelete:
			s.endpointEmployeeDelete(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteConsoleEmployeeName, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodPut:
			s.endpointEmployeeName(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteConsoleCourses, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodGet:
			s.endpointCoursesRead(w, r)
		case http.MethodPost:
			s.endpointCourseAdd(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteConsoleCourse, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodPut:
			s.endpointCourseUpdate(w, r)
		case http.MethodDelete:
			s.endpointCourseDelete(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteConsoleCourseCodes, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodGet:
			s.endpointCourseCodes(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteConsoleDashboard, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodGet:
			s.endpointDashboard(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteCacheCounters, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodGet:
			s.endpointCacheCountersRead(w, r)
		case http.MethodDelete:
			s.endpointCacheCountersClear(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteCache, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodDelete:
			s.endpointCacheClear(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteTimers, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			methodNotAllowed(w)
		case http.MethodGet:
			s.endpointTimersRead(w, r)
		case http.MethodDelete:
			s.endpointTimersClear(w, r)
		}
	})
}

// Address returns the address the service is listening on, it's empty
// until the service is opened
func (s *service) Address() string {
	s.RLock()
	defer s.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *service) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if address, ok := envs["SERVICE_ADDRESS"]; ok {
		s.config.address = address
	}
	if port, ok := envs["SERVICE_PORT"]; ok {
		s.config.port = port
	}
	if shutdownTimeoutString, ok := envs["SERVICE_SHUTDOWN_TIMEOUT"]; ok {
		if shutdownTimeoutInt, err := strconv.Atoi(shutdownTimeoutString); err == nil {
			if timeout := time.Duration(shutdownTimeoutInt) * time.Second; timeout > 0 {
				s.config.shutdownTimeout = timeout
			}
		}
	}
	if allowCredentialsString, ok := envs["SERVICE_CORS_ALLOW_CREDENTIALS"]; ok {
		if allowCredentials, err := strconv.ParseBool(allowCredentialsString); err == nil {
			s.config.allowCredentials = allowCredentials
		}
	}
	if allowedOrigins := envs["SERVICE_CORS_ALLOWED_ORIGINS"]; allowedOrigins != "" {
		s.config.allowedOrigins = strings.Split(allowedOrigins, ",")
	}
	if allowedMethods := envs["SERVICE_CORS_ALLOWED_METHODS"]; allowedMethods != "" {
		s.config.allowedMethods = strings.Split(allowedMethods, ",")
	}
	if allowedHeaders := envs["SERVICE_CORS_ALLOWED_HEADERS"]; allowedHeaders != "" {
		s.config.allowedHeaders = strings.Split(allowedHeaders, ",")
	}
	if corsDisabledString, ok := envs["SERVICE_CORS_DISABLED"]; ok {
		if corsDisabled, err := strconv.ParseBool(corsDisabledString); err == nil {
			s.config.corsDisabled = corsDisabled
		}
	}
	if corsDebug, ok := envs["SERVICE_CORS_DEBUG"]; ok {
		if corsDebug, err := strconv.ParseBool(corsDebug); err == nil {
			s.config.corsDebug = corsDebug
		}
	}
	if timersEnabled := envs["SERVICE_TIMERS_ENABLED"]; timersEnabled != "" {
		s.config.timersEnabled, _ = strconv.ParseBool(timersEnabled)
	}
	return nil
}

func (s *service) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.logic == nil {
		return errors.New("logic not provided")
	}
	address := net.JoinHostPort(s.config.address, s.config.port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "error while listening on %s", address)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.listener = listener
	s.Server.Addr = listener.Addr().String()
	s.buildRoutes()
	s.launchServer()
	return nil
}

func (s *service) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.listener == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.shutdownTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		s.Error(ctx, "error while shutting down the server: %s", err)
	}
	s.cancel()
	s.Wait()
	s.listener = nil
	return nil
}
