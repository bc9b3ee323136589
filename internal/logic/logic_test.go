package logic_test

import (
	"context"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/cache"
	"github.com/antonio-alexander/go-learning-history/internal/client"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/logic"
	"github.com/antonio-alexander/go-learning-history/internal/storetest"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var envs = map[string]string{
	//client
	"CLIENT_TIMEOUT": "10",
	//logic
	"LOGIC_PAGE_SIZE":       "2",
	"LOGIC_REFRESH_ON_OPEN": "true",
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
				FirstName: "Grace",
				LastName:  "Hopper",
				Found:     boolPtr(true),
				Records: []data.Course{
					{
						CourseTitle:      "Safety",
						CourseCode:       "C-001",
						Country:          "Denmark",
						TrainingProvider: "Maersk Training A/S",
						CompletedOn:      "2024-01-31",
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

type logicTest struct {
	server *storetest.Server
	client interface {
		internal.Configurer
		internal.Opener
		client.Client
	}
	counter utilities.Counter
	*logic.Logic
}

func newLogicTest(t *testing.T, employees ...*data.Employee) *logicTest {
	ctx := context.TODO()
	server := storetest.NewServer(employees...)
	l := &logicTest{
		server:  server,
		client:  client.NewClient(),
		counter: utilities.NewCounter(),
	}
	l.Logic = logic.NewLogic(l.client, cache.NewMemory(), l.counter,
		rand.New(rand.NewPCG(1, 2)))
	configuration := make(map[string]string)
	for key, value := range envs {
		configuration[key] = value
	}
	for key, value := range server.Envs() {
		configuration[key] = value
	}
	if err := l.client.Configure(configuration); !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure client")
	}
	if err := l.client.Open(ctx); !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open client")
	}
	if err := l.Configure(configuration); !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure logic")
	}
	if err := l.Open(ctx); !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open logic")
	}
	server.ResetRequests()
	t.Cleanup(func() {
		_ = l.Close(ctx)
		_ = l.client.Close(ctx)
		server.Close()
	})
	return l
}

func (l *logicTest) delegateIds(t *testing.T, employees []*data.Employee) []string {
	delegateIds := make([]string, 0, len(employees))
	for _, employee := range employees {
		delegateIds = append(delegateIds, employee.DelegateId)
	}
	return delegateIds
}

func TestOpen(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()

	//open loaded the snapshot and the configured page size
	page, err := l.Employees().View(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, []string{"AK3Z0B7Q2", "AB1C2D3E4"}, l.delegateIds(t, page.Employees))

	//the form checked its ids against the empty cache before the first load
	hits, misses := l.counter.Read("employees")
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	//nothing was sent to the remote store to read the view
	assert.Len(t, l.server.Requests(), 0)
}

func TestOpenRemoteFailure(t *testing.T) {
	server := storetest.NewServer(newEmployees()...)
	defer server.Close()
	server.Fail(http.MethodGet, data.RouteEmployees, http.StatusBadGateway)
	c := client.NewClient()
	assert.Nil(t, c.Configure(server.Envs()))
	assert.Nil(t, c.Open(context.TODO()))
	l := logic.NewLogic(c)

	//a failed first load isn't fatal, the list is just empty
	err := l.Open(context.TODO())
	assert.Nil(t, err)
	page, err := l.Employees().View(context.TODO())
	assert.Nil(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Len(t, page.Employees, 0)
}

func TestConfigure(t *testing.T) {
	l := logic.NewLogic()

	err := l.Configure(map[string]string{"LOGIC_PAGE_SIZE": "0"})
	assert.ErrorIs(t, err, logic.ErrInvalidPageSize)
	err = l.Configure(map[string]string{"LOGIC_ID_SEED": "seed"})
	assert.NotNil(t, err)
	err = l.Open(context.TODO())
	assert.NotNil(t, err)
}

func TestRefresh(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()
	list := l.Employees()

	//a refresh replaces the snapshot wholesale
	l.server.SetEmployees(newEmployees()[2:]...)
	err := list.Refresh(ctx)
	assert.Nil(t, err)
	employees, err := list.Employees(ctx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"AC2D3E4F5", "AD3E4F5G6"}, l.delegateIds(t, employees))

	//a failed refresh keeps the prior snapshot
	l.server.Fail(http.MethodGet, data.RouteEmployees, http.StatusInternalServerError)
	l.server.SetEmployees()
	err = list.Refresh(ctx)
	var statusError *client.StatusError
	assert.True(t, errors.As(err, &statusError))
	employees, err = list.Employees(ctx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"AC2D3E4F5", "AD3E4F5G6"}, l.delegateIds(t, employees))
}

func TestRefreshSuperseded(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()
	list := l.Employees()

	//the first refresh gets the full list but is held
	arrived, release := l.server.Hold(http.MethodGet, data.RouteEmployees)
	defer release()
	errs := make(chan error, 1)
	go func() {
		errs <- list.Refresh(ctx)
	}()
	<-arrived

	//a second refresh starts later, gets a single employee and completes
	l.server.SetEmployees(newEmployees()[:1]...)
	err := list.Refresh(ctx)
	assert.Nil(t, err)

	//the first refresh completes last and is discarded
	release()
	err = <-errs
	assert.Nil(t, err)
	employees, err := list.Employees(ctx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"AK3Z0B7Q2"}, l.delegateIds(t, employees))
}

func TestSearchResetsPage(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()
	list := l.Employees()

	err := list.SetPage(1)
	assert.Nil(t, err)
	page, err := list.View(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, []string{"AC2D3E4F5", "AD3E4F5G6"}, l.delegateIds(t, page.Employees))

	//changing the search resets the page
	list.SetSearch("a")
	page, err = list.View(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 0, page.Page)

	//setting the same search resets it too
	err = list.SetPage(1)
	assert.Nil(t, err)
	list.SetSearch("a")
	assert.Equal(t, 0, *list.Query().Page)

	//a changed search in a query wins over its page
	search, pageIndex := "o", 1
	err = list.SetQuery(data.EmployeeQuery{Search: &search, Page: &pageIndex})
	assert.Nil(t, err)
	assert.Equal(t, 0, *list.Query().Page)
	err = list.SetQuery(data.EmployeeQuery{Search: &search, Page: &pageIndex})
	assert.Nil(t, err)
	assert.Equal(t, 1, *list.Query().Page)

	//changing the page size resets the page
	err = list.SetPageSize(3)
	assert.Nil(t, err)
	assert.Equal(t, 0, *list.Query().Page)

	//invalid values are rejected
	assert.ErrorIs(t, list.SetPage(-1), logic.ErrInvalidPage)
	assert.ErrorIs(t, list.SetPageSize(0), logic.ErrInvalidPageSize)
}

func TestSearch(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()
	list := l.Employees()

	for search, expected := range map[string][]string{
		"":          {"AK3Z0B7Q2", "AB1C2D3E4", "AC2D3E4F5", "AD3E4F5G6"},
		"lov":       {"AK3Z0B7Q2"},
		"ab1":       {"AB1C2D3E4"},
		"ACE HOP":   {"AB1C2D3E4"},
		"n t":       {"AC2D3E4F5"},
		"e4":        {"AB1C2D3E4", "AC2D3E4F5", "AD3E4F5G6"},
		"nobody":    {},
		"  ":        {},
		"katherine": {"AD3E4F5G6"},
	} {
		list.SetSearch(search)
		err := list.SetPageSize(10)
		assert.Nil(t, err)
		page, err := list.View(ctx)
		assert.Nil(t, err)
		assert.Equal(t, expected, l.delegateIds(t, page.Employees), "search: %q", search)
		assert.Equal(t, len(expected), page.Total, "search: %q", search)
	}
}

func TestNameEdit(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()
	list, nameEditor := l.Employees(), l.NameEditor()

	employee, err := list.Employee(ctx, "AB1C2D3E4")
	assert.Nil(t, err)
	err = nameEditor.Start(employee)
	assert.Nil(t, err)
	err = nameEditor.Change(data.FieldFirstName, "Amazing")
	assert.Nil(t, err)
	err = nameEditor.Change(data.FieldLastName, "Grace")
	assert.Nil(t, err)
	err = nameEditor.Change(data.FieldDelegateId, "A0")
	assert.ErrorIs(t, err, data.ErrUnknownField)

	//the snapshot doesn't change until the edit is committed
	employee, err = list.Employee(ctx, "AB1C2D3E4")
	assert.Nil(t, err)
	assert.Equal(t, "Grace Hopper", employee.FullName())
	assert.Len(t, l.server.Requests(), 0)

	//commit updates then refreshes
	_, err = nameEditor.Commit(ctx)
	assert.Nil(t, err)
	_, editing := nameEditor.Editing()
	assert.False(t, editing)
	employee, err = list.Employee(ctx, "AB1C2D3E4")
	assert.Nil(t, err)
	assert.Equal(t, "Amazing", employee.FirstName)
	assert.Equal(t, "Grace", employee.LastName)
	requests := l.server.Requests()
	if assert.Len(t, requests, 2) {
		assert.Equal(t, http.MethodPut, requests[0].Method)
		assert.Equal(t, "/api/employees/AB1C2D3E4", requests[0].Path)
		assert.JSONEq(t, `{"first_name":"Amazing","last_name":"Grace"}`, string(requests[0].Body))
		assert.Equal(t, http.MethodGet, requests[1].Method)
	}
}

func TestNameEditCancel(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()
	list, nameEditor := l.Employees(), l.NameEditor()

	employee, err := list.Employee(ctx, "AK3Z0B7Q2")
	assert.Nil(t, err)
	err = nameEditor.Start(employee)
	assert.Nil(t, err)
	err = nameEditor.Change(data.FieldFirstName, "Augusta")
	assert.Nil(t, err)
	nameEditor.Cancel()

	_, editing := nameEditor.Editing()
	assert.False(t, editing)
	employee, err = list.Employee(ctx, "AK3Z0B7Q2")
	assert.Nil(t, err)
	assert.Equal(t, "Ada", employee.FirstName)
	assert.Len(t, l.server.Requests(), 0)
	_, err = nameEditor.Commit(ctx)
	assert.ErrorIs(t, err, logic.ErrNoEdit)
}

func TestNameEditFailure(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()
	list, nameEditor := l.Employees(), l.NameEditor()
	l.server.Fail(http.MethodPut, data.RouteEmployeesDelegateId, http.StatusInternalServerError)

	employee, err := list.Employee(ctx, "AK3Z0B7Q2")
	assert.Nil(t, err)
	err = nameEditor.Start(employee)
	assert.Nil(t, err)
	err = nameEditor.Change(data.FieldFirstName, "Augusta")
	assert.Nil(t, err)

	//the working copy is kept so the commit can be retried
	_, err = nameEditor.Commit(ctx)
	assert.NotNil(t, err)
	edit, editing := nameEditor.Editing()
	assert.True(t, editing)
	assert.Equal(t, "Augusta", edit.FirstName)
	l.server.Fail(http.MethodPut, data.RouteEmployeesDelegateId, 0)
	_, err = nameEditor.Commit(ctx)
	assert.Nil(t, err)
	employee, err = list.Employee(ctx, "AK3Z0B7Q2")
	assert.Nil(t, err)
	assert.Equal(t, "Augusta", employee.FirstName)
}

func TestNameEditNoEmployee(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)

	err := l.NameEditor().Start(nil)
	assert.ErrorIs(t, err, logic.ErrEmployeeNotFound)
	_, editing := l.NameEditor().Editing()
	assert.False(t, editing)
	assert.Len(t, l.server.Requests(), 0)
}

func TestNameEditReplaced(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()
	list, nameEditor := l.Employees(), l.NameEditor()

	first, err := list.Employee(ctx, "AK3Z0B7Q2")
	assert.Nil(t, err)
	second, err := list.Employee(ctx, "AB1C2D3E4")
	assert.Nil(t, err)

	//starting a new edit silently discards the prior one
	err = nameEditor.Start(first)
	assert.Nil(t, err)
	err = nameEditor.Change(data.FieldFirstName, "Augusta")
	assert.Nil(t, err)
	err = nameEditor.Start(second)
	assert.Nil(t, err)
	edit, editing := nameEditor.Editing()
	assert.True(t, editing)
	assert.Equal(t, data.EmployeeEdit{
		EmployeeId: "10002",
		DelegateId: "AB1C2D3E4",
		FirstName:  "Grace",
		LastName:   "Hopper",
	}, edit)
}

func TestNameEditFallback(t *testing.T) {
	l := newLogicTest(t, &data.Employee{
		EmployeeId: "10005",
		DelegateId: "AE4F5G6H7",
		LearningHistory: &data.LearningHistory{
			FirstName: "Dorothy",
			LastName:  "Vaughan",
		},
	})
	ctx := context.TODO()

	employee, err := l.Employees().Employee(ctx, "AE4F5G6H7")
	assert.Nil(t, err)
	err = l.NameEditor().Start(employee)
	assert.Nil(t, err)
	edit, _ := l.NameEditor().Editing()
	assert.Equal(t, "Dorothy", edit.FirstName)
	assert.Equal(t, "Vaughan", edit.LastName)

	//the name recorded on the learning history can be searched too
	l.Employees().SetSearch("dorothy v")
	page, err := l.Employees().View(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestEmployeeForm(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()
	form := l.EmployeeForm()

	employee := form.Form()
	assert.True(t, data.ValidDelegateId(employee.DelegateId))
	assert.Len(t, employee.EmployeeId, 5)
	assert.True(t, employee.Active)
	err := form.Change(data.FieldDelegateId, "AK3Z0B7Q2")
	assert.ErrorIs(t, err, logic.ErrFieldReadOnly)
	err = form.Change(data.FieldActive, "maybe")
	assert.NotNil(t, err)

	//names are required
	_, _, err = form.Submit(ctx)
	assert.NotNil(t, err)
	assert.Len(t, l.server.Requests(), 0)

	//submit creates, refreshes and generates new ids
	assert.Nil(t, form.Change(data.FieldFirstName, "Mary"))
	assert.Nil(t, form.Change(data.FieldLastName, "Jackson"))
	assert.Nil(t, form.Change(data.FieldActive, "false"))
	created, _, err := form.Submit(ctx)
	assert.Nil(t, err)
	assert.Equal(t, employee.DelegateId, created.DelegateId)
	assert.False(t, created.Active)
	assert.NotEqual(t, employee.DelegateId, form.Form().DelegateId)
	assert.Equal(t, "", form.Form().FirstName)
	cached, err := l.Employees().Employee(ctx, created.DelegateId)
	assert.Nil(t, err)
	assert.Equal(t, "Mary Jackson", cached.FullName())
	requests := l.server.Requests()
	if assert.Len(t, requests, 2) {
		assert.Equal(t, "/api/employees/addEmployee", requests[0].Path)
		assert.Equal(t, http.MethodGet, requests[1].Method)
	}

	//cancel resets the form and refreshes
	assert.Nil(t, form.Change(data.FieldFirstName, "Mary"))
	err = form.Cancel(ctx)
	assert.Nil(t, err)
	assert.Equal(t, "", form.Form().FirstName)
	assert.Len(t, l.server.Requests(), 3)
}

func TestEmployeeDelete(t *testing.T) {
	l := newLogicTest(t, newEmployees()...)
	ctx := context.TODO()
	list := l.Employees()

	//confirming without a request sends nothing
	_, err := list.DeleteConfirm(ctx)
	assert.ErrorIs(t, err, logic.ErrNoDeletePending)

	//cancelling sends nothing
	err = list.DeleteRequest(ctx, "AC2D3E4F5")
	assert.Nil(t, err)
	delegateId, pending := list.PendingDelete()
	assert.True(t, pending)
	assert.Equal(t, "AC2D3E4F5", delegateId)
	list.DeleteCancel()
	_, pending = list.PendingDelete()
	assert.False(t, pending)
	assert.Len(t, l.server.Requests(), 0)

	//an employee that isn't in the snapshot can't be deleted
	err = list.DeleteRequest(ctx, "AZ9Z9Z9Z9")
	assert.ErrorIs(t, err, logic.ErrEmployeeNotFound)

	//confirming deletes then refreshes
	err = list.DeleteRequest(ctx, "AC2D3E4F5")
	assert.Nil(t, err)
	_, err = list.DeleteConfirm(ctx)
	assert.Nil(t, err)
	_, err = list.Employee(ctx, "AC2D3E4F5")
	assert.ErrorIs(t, err, logic.ErrEmployeeNotFound)
	requests := l.server.Requests()
	if assert.Len(t, requests, 2) {
		assert.Equal(t, http.MethodDelete, requests[0].Method)
		assert.Equal(t, "/api/employees/AC2D3E4F5", requests[0].Path)
	}

	//a failed delete still closes the confirmation
	l.server.Fail(http.MethodDelete, data.RouteEmployeesDelegateId, http.StatusInternalServerError)
	err = list.DeleteRequest(ctx, "AD3E4F5G6")
	assert.Nil(t, err)
	_, err = list.DeleteConfirm(ctx)
	assert.NotNil(t, err)
	_, pending = list.PendingDelete()
	assert.False(t, pending)
}

func TestMalformedLearningHistory(t *testing.T) {
	l := newLogicTest(t)
	ctx := context.TODO()
	l.server.SetEmployeesBody([]byte(`[
		{"employee_id":"10001","delegate_id":"AK3Z0B7Q2","first_name":"Ada","last_name":"Lovelace"},
		{"employee_id":"10002","delegate_id":"AB1C2D3E4","first_name":"Grace","last_name":"Hopper","learning_history":{"found":"true","records":{"course_code":"C-001"}}},
		{"employee_id":"10003","delegate_id":"AC2D3E4F5","first_name":"Alan","last_name":"Turing","learning_history":[]}
	]`))
	err := l.Employees().Refresh(ctx)
	assert.Nil(t, err)

	page, err := l.Employees().View(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 3, page.Total)
	for _, delegateId := range []string{"AK3Z0B7Q2", "AB1C2D3E4", "AC2D3E4F5"} {
		courseEditor, err := l.OpenCourseEditor(ctx, delegateId)
		assert.Nil(t, err)
		records, err := courseEditor.Records(ctx)
		assert.Nil(t, err)
		assert.Len(t, records, 0)
	}
	summary, err := l.Dashboard().Summary(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 0, summary.Records)
	assert.Len(t, summary.CourseCounts, 0)
	assert.Equal(t, 1, summary.Found)
	assert.Equal(t, 0, summary.NotFound)
}
