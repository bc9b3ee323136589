package logic

import (
	"context"
	"sort"
	"sync"

	"github.com/antonio-alexander/go-learning-history/internal/client"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"
)

// RankCourseCodes returns the course codes that fuzzy match query, closest
// match first; an empty query returns every code
func RankCourseCodes(query string, courseCodes []string) []string {
	if query == "" {
		return courseCodes
	}
	ranks := fuzzy.RankFindNormalizedFold(query, courseCodes)
	sort.Stable(ranks)
	suggestions := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		suggestions = append(suggestions, rank.Target)
	}
	return suggestions
}

type courseEdit struct {
	courseCode string //the code the course was opened with
	course     data.Course
	sequence   uint64
}

// CourseEditor adds, edits and deletes the courses of one employee; records
// are always read from the owner's latest snapshot and every mutation is
// followed by a refresh of the owner
type CourseEditor struct {
	sync.RWMutex
	client client.Client
	owner  employeeOwner
	utilities.Logger
	delegateId    string
	courseCodes   []string
	add           *data.Course
	edit          *courseEdit
	pendingDelete string
	sequence      uint64
	closed        bool
}

func NewCourseEditor(delegateId string, parameters ...any) *CourseEditor {
	c := &CourseEditor{
		Logger:      utilities.NewNullLogger(),
		delegateId:  delegateId,
		courseCodes: []string{},
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case client.Client:
			c.client = p
		case employeeOwner:
			c.owner = p
		case utilities.Logger:
			c.Logger = p
		}
	}
	return c
}

func (c *CourseEditor) refresh(ctx context.Context, format string, v ...any) {
	if err := c.owner.Refresh(ctx); err != nil {
		c.Debug(ctx, format+" but not refreshed: %s", append(v, err)...)
	}
}

func (c *CourseEditor) isClosed() error {
	if c.closed {
		return errors.Wrapf(ErrCourseEditorClosed, "delegate id: %s", c.delegateId)
	}
	return nil
}

func (c *CourseEditor) DelegateId() string {
	return c.delegateId
}

func (c *CourseEditor) Employee(ctx context.Context) (*data.Employee, error) {
	return c.owner.Employee(ctx, c.delegateId)
}

// Records returns the employee's courses from the latest snapshot, a
// missing or malformed learning history has no records
func (c *CourseEditor) Records(ctx context.Context) ([]data.Course, error) {
	employee, err := c.Employee(ctx)
	if err != nil {
		return []data.Course{}, err
	}
	return employee.Records(), nil
}

func (c *CourseEditor) record(ctx context.Context, courseCode string) (data.Course, error) {
	employee, err := c.Employee(ctx)
	if err != nil {
		return data.Course{}, err
	}
	course, found := employee.Record(courseCode)
	if !found {
		return data.Course{}, errors.Wrapf(ErrCourseNotFound, "course code: %s", courseCode)
	}
	return course, nil
}

// AddStart opens the add course form with blank fields and loads the known
// course codes; failing to load them only leaves the list empty
func (c *CourseEditor) AddStart(ctx context.Context) error {
	c.Lock()
	if err := c.isClosed(); err != nil {
		c.Unlock()
		return err
	}
	c.add = &data.Course{}
	c.Unlock()

	courseCodes, err := c.client.CourseCodesList(ctx)
	if err != nil {
		c.Error(ctx, "error while listing course codes: %s", err)
		courseCodes = []string{}
	}

	c.Lock()
	defer c.Unlock()

	c.courseCodes = courseCodes
	return nil
}

func (c *CourseEditor) AddChange(field, value string) error {
	c.Lock()
	defer c.Unlock()

	if c.add == nil {
		return ErrNoAdd
	}
	return c.add.SetField(field, value)
}

func (c *CourseEditor) Adding() (data.Course, bool) {
	c.RLock()
	defer c.RUnlock()

	if c.add == nil {
		return data.Course{}, false
	}
	return *c.add, true
}

// AddSubmit adds the course, refreshes the owner and closes the add form;
// on failure the form stays open
func (c *CourseEditor) AddSubmit(ctx context.Context) (*data.Acknowledgement, error) {
	c.RLock()
	if c.add == nil {
		c.RUnlock()
		return nil, ErrNoAdd
	}
	add := c.add
	course := *c.add
	c.RUnlock()

	if err := data.Validate(&course); err != nil {
		return nil, err
	}
	if _, err := c.record(ctx, course.CourseCode); err == nil {
		return nil, errors.Wrapf(ErrCourseCodeExists, "course code: %s", course.CourseCode)
	}
	acknowledgement, err := c.client.CourseAdd(ctx, c.delegateId, course)
	if err != nil {
		c.Error(ctx, "error while adding course (%s) to %s: %s",
			course.CourseCode, c.delegateId, err)
		return nil, err
	}
	c.refresh(ctx, "course (%s) added", course.CourseCode)

	c.Lock()
	defer c.Unlock()

	if c.add == add {
		c.add = nil
	}
	return acknowledgement, nil
}

func (c *CourseEditor) AddCancel() {
	c.Lock()
	defer c.Unlock()

	c.add = nil
}

// EditStart opens a working copy of the course identified by courseCode,
// replacing any edit in progress
func (c *CourseEditor) EditStart(ctx context.Context, courseCode string) error {
	course, err := c.record(ctx, courseCode)
	if err != nil {
		return err
	}

	c.Lock()
	defer c.Unlock()

	if err := c.isClosed(); err != nil {
		return err
	}
	c.sequence++
	c.edit = &courseEdit{
		courseCode: courseCode,
		course:     course,
		sequence:   c.sequence,
	}
	return nil
}

// EditChange changes a field of the working copy, the course code is the
// update key and can't be changed
func (c *CourseEditor) EditChange(field, value string) error {
	c.Lock()
	defer c.Unlock()

	if c.edit == nil {
		return ErrNoEdit
	}
	if field == data.FieldCourseCode {
		if value == c.edit.courseCode {
			return nil
		}
		return errors.Wrapf(ErrCourseCodeImmutable, "course code: %s", c.edit.courseCode)
	}
	if err := c.edit.course.SetField(field, value); err != nil {
		return err
	}
	c.sequence++
	c.edit.sequence = c.sequence
	return nil
}

func (c *CourseEditor) Editing() (data.Course, bool) {
	c.RLock()
	defer c.RUnlock()

	if c.edit == nil {
		return data.Course{}, false
	}
	return c.edit.course, true
}

// EditSubmit updates the course keyed by the code it was opened with, then
// refreshes the owner and clears the working copy; on failure the working
// copy is kept
func (c *CourseEditor) EditSubmit(ctx context.Context) (*data.Acknowledgement, error) {
	c.RLock()
	if c.edit == nil {
		c.RUnlock()
		return nil, ErrNoEdit
	}
	edit := *c.edit
	c.RUnlock()

	edit.course.CourseCode = edit.courseCode
	if err := data.Validate(&edit.course); err != nil {
		return nil, err
	}
	acknowledgement, err := c.client.CourseUpdate(ctx, c.delegateId,
		edit.courseCode, edit.course)
	if err != nil {
		c.Error(ctx, "error while updating course (%s) of %s: %s",
			edit.courseCode, c.delegateId, err)
		return nil, err
	}
	c.refresh(ctx, "course (%s) updated", edit.courseCode)

	c.Lock()
	defer c.Unlock()

	if c.edit != nil && c.edit.sequence == edit.sequence {
		c.edit = nil
	}
	return acknowledgement, nil
}

func (c *CourseEditor) EditCancel() {
	c.Lock()
	defer c.Unlock()

	c.edit = nil
}

// DeleteRequest opens the delete confirmation for a course, nothing is sent
// to the remote store until DeleteConfirm
func (c *CourseEditor) DeleteRequest(ctx context.Context, courseCode string) error {
	if _, err := c.record(ctx, courseCode); err != nil {
		return err
	}

	c.Lock()
	defer c.Unlock()

	if err := c.isClosed(); err != nil {
		return err
	}
	c.pendingDelete = courseCode
	return nil
}

func (c *CourseEditor) PendingDelete() (string, bool) {
	c.RLock()
	defer c.RUnlock()

	return c.pendingDelete, c.pendingDelete != ""
}

func (c *CourseEditor) DeleteCancel() {
	c.Lock()
	defer c.Unlock()

	c.pendingDelete = ""
}

// DeleteConfirm issues exactly one delete for the pending course and then
// refreshes the owner; the confirmation closes whether or not the delete
// succeeds
func (c *CourseEditor) DeleteConfirm(ctx context.Context) (*data.Acknowledgement, error) {
	c.Lock()
	courseCode := c.pendingDelete
	c.pendingDelete = ""
	c.Unlock()

	if courseCode == "" {
		return nil, ErrNoDeletePending
	}
	acknowledgement, err := c.client.CourseDelete(ctx, c.delegateId, courseCode)
	if err != nil {
		c.Error(ctx, "error while deleting course (%s) of %s: %s",
			courseCode, c.delegateId, err)
		return nil, err
	}
	c.refresh(ctx, "course (%s) deleted", courseCode)
	return acknowledgement, nil
}

// CourseCodes returns the course codes loaded by AddStart
func (c *CourseEditor) CourseCodes() []string {
	c.RLock()
	defer c.RUnlock()

	courseCodes := make([]string, len(c.courseCodes))
	copy(courseCodes, c.courseCodes)
	return courseCodes
}

// CourseCodeSuggestions ranks the loaded course codes against query
func (c *CourseEditor) CourseCodeSuggestions(query string) []string {
	return RankCourseCodes(query, c.CourseCodes())
}

// Close closes the editor and refreshes the owner, edits made here aren't
// visible in the employee list until then
func (c *CourseEditor) Close(ctx context.Context) error {
	c.Lock()
	c.closed = true
	c.add, c.edit, c.pendingDelete = nil, nil, ""
	c.Unlock()

	return c.owner.Refresh(ctx)
}
