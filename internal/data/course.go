package data

import (
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	FieldCourseTitle      string = "course_title"
	FieldCourseCode       string = "course_code"
	FieldCountry          string = "country"
	FieldTrainingProvider string = "training_provider"
	FieldCompletedOn      string = "completed_on"
	FieldValidFrom        string = "valid_from"
	FieldValidUntil       string = "valid_until"
	FieldStatus           string = "status"
)

// DateLayout is the layout of every course date
const DateLayout string = "2006-01-02"

var ErrUnknownField = errors.New("unknown field")

// CourseFields lists the editable course fields in display order
var CourseFields = []string{
	FieldCourseTitle,
	FieldCourseCode,
	FieldCountry,
	FieldTrainingProvider,
	FieldCompletedOn,
	FieldValidFrom,
	FieldValidUntil,
	FieldStatus,
}

type Course struct {
	CourseTitle      string `json:"course_title" validate:"max=200"`
	CourseCode       string `json:"course_code" validate:"required,max=50"`
	Country          string `json:"country" validate:"max=100"`
	TrainingProvider string `json:"training_provider" validate:"max=200"`
	CompletedOn      string `json:"completed_on" validate:"omitempty,datetime=2006-01-02"`
	ValidFrom        string `json:"valid_from" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil       string `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	Status           string `json:"status" validate:"max=50"`
}

// SetField sets the field with the given json name
func (c *Course) SetField(field, value string) error {
	switch field {
	default:
		return errors.Wrapf(ErrUnknownField, "course: %q", field)
	case FieldCourseTitle:
		c.CourseTitle = value
	case FieldCourseCode:
		c.CourseCode = value
	case FieldCountry:
		c.Country = value
	case FieldTrainingProvider:
		c.TrainingProvider = value
	case FieldCompletedOn:
		c.CompletedOn = value
	case FieldValidFrom:
		c.ValidFrom = value
	case FieldValidUntil:
		c.ValidUntil = value
	case FieldStatus:
		c.Status = value
	}
	return nil
}

// Field returns the value of the field with the given json name, an
// unknown field is empty
func (c *Course) Field(field string) string {
	switch field {
	default:
		return ""
	case FieldCourseTitle:
		return c.CourseTitle
	case FieldCourseCode:
		return c.CourseCode
	case FieldCountry:
		return c.Country
	case FieldTrainingProvider:
		return c.TrainingProvider
	case FieldCompletedOn:
		return c.CompletedOn
	case FieldValidFrom:
		return c.ValidFrom
	case FieldValidUntil:
		return c.ValidUntil
	case FieldStatus:
		return c.Status
	}
}

func (c *Course) MarshalBinary() ([]byte, error) {
	return json.Marshal(c)
}

func (c *Course) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, c)
}
