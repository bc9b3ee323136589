package data

import (
	"net/url"
	"strconv"
	"strings"
)

// EmployeeQuery is the transient view state of the employee list
type EmployeeQuery struct {
	Search   *string `json:"search,omitempty"`
	Page     *int    `json:"page,omitempty"`
	PageSize *int    `json:"page_size,omitempty"`
}

func (e *EmployeeQuery) ToParams() url.Values {
	params := make(url.Values)
	if e.Search != nil {
		params.Set(ParameterSearch, *e.Search)
	}
	if e.Page != nil {
		params.Set(ParameterPage, strconv.Itoa(*e.Page))
	}
	if e.PageSize != nil {
		params.Set(ParameterPageSize, strconv.Itoa(*e.PageSize))
	}
	return params
}

func (e *EmployeeQuery) FromParams(params url.Values) {
	for key, value := range params {
		if len(value) == 0 {
			continue
		}
		switch strings.ToLower(key) {
		case ParameterSearch:
			search := value[0]
			e.Search = &search
		case ParameterPage:
			if page, err := strconv.Atoi(value[0]); err == nil {
				e.Page = &page
			}
		case ParameterPageSize:
			if pageSize, err := strconv.Atoi(value[0]); err == nil {
				e.PageSize = &pageSize
			}
		}
	}
}

// EmployeePage is one page of the filtered employee list
type EmployeePage struct {
	Employees []*Employee `json:"employees"`
	Search    string      `json:"search"`
	Page      int         `json:"page"`
	PageSize  int         `json:"page_size"`
	Pages     int         `json:"pages"`
	Total     int         `json:"total"`
}

// DashboardFilter narrows the course records the dashboard aggregates, an
// empty value doesn't filter
type DashboardFilter struct {
	Country          string `json:"country,omitempty"`
	TrainingProvider string `json:"training_provider,omitempty"`
	CompletedOn      string `json:"completed_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (d *DashboardFilter) ToParams() url.Values {
	params := make(url.Values)
	if d.Country != "" {
		params.Set(ParameterCountry, d.Country)
	}
	if d.TrainingProvider != "" {
		params.Set(ParameterTrainingProvider, d.TrainingProvider)
	}
	if d.CompletedOn != "" {
		params.Set(ParameterCompletedOn, d.CompletedOn)
	}
	return params
}

func (d *DashboardFilter) FromParams(params url.Values) {
	for key, value := range params {
		if len(value) == 0 {
			continue
		}
		switch strings.ToLower(key) {
		case ParameterCountry:
			d.Country = value[0]
		case ParameterTrainingProvider:
			d.TrainingProvider = value[0]
		case ParameterCompletedOn:
			d.CompletedOn = value[0]
		}
	}
}

type CourseCount struct {
	CourseTitle string `json:"course_title"`
	Count       int    `json:"count"`
}

// ChartSeries is a chart-ready label/value series; Fractions is only set
// for pie charts and holds each value's share of the total
type ChartSeries struct {
	Labels    []string  `json:"labels"`
	Values    []int     `json:"values"`
	Fractions []float64 `json:"fractions,omitempty"`
}

type DashboardSummary struct {
	Filter            DashboardFilter `json:"filter"`
	Countries         []string        `json:"countries"`
	TrainingProviders []string        `json:"training_providers"`
	Records           int             `json:"records"`
	CourseCounts      []CourseCount   `json:"course_counts"`
	Bar               ChartSeries     `json:"bar"`
	Pie               ChartSeries     `json:"pie"`
	Found             int             `json:"found"`
	NotFound          int             `json:"not_found"`
}
