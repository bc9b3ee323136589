package logic

import (
	"context"
	"sort"
	"sync"

	"github.com/antonio-alexander/go-learning-history/internal/data"
)

type employeesSource interface {
	Employees(ctx context.Context) ([]*data.Employee, error)
}

// Summarize aggregates the course records of employees. Country, training
// provider and completion date filters only apply to course records; the
// found and not found counts cover every employee. Summarize doesn't modify
// employees and returns the same summary for the same input.
func Summarize(employees []*data.Employee, filter data.DashboardFilter) *data.DashboardSummary {
	countries := make(map[string]struct{})
	trainingProviders := make(map[string]struct{})
	counts := make(map[string]int)
	summary := &data.DashboardSummary{
		Filter:            filter,
		Countries:         []string{},
		TrainingProviders: []string{},
		CourseCounts:      []data.CourseCount{},
	}
	for _, employee := range employees {
		if employee == nil {
			continue
		}
		if employee.LearningHistory != nil && employee.LearningHistory.Found != nil {
			if *employee.LearningHistory.Found {
				summary.Found++
			} else {
				summary.NotFound++
			}
		}
		for _, record := range employee.Records() {
			if record.Country != "" {
				countries[record.Country] = struct{}{}
			}
			if record.TrainingProvider != "" {
				trainingProviders[record.TrainingProvider] = struct{}{}
			}
			if (filter.Country != "" && record.Country != filter.Country) ||
				(filter.TrainingProvider != "" && record.TrainingProvider != filter.TrainingProvider) ||
				(filter.CompletedOn != "" && record.CompletedOn != filter.CompletedOn) {
				continue
			}
			summary.Records++
			if _, ok := counts[record.CourseTitle]; !ok {
				summary.CourseCounts = append(summary.CourseCounts,
					data.CourseCount{CourseTitle: record.CourseTitle})
			}
			counts[record.CourseTitle]++
		}
	}
	for country := range countries {
		summary.Countries = append(summary.Countries, country)
	}
	sort.Strings(summary.Countries)
	for trainingProvider := range trainingProviders {
		summary.TrainingProviders = append(summary.TrainingProviders, trainingProvider)
	}
	sort.Strings(summary.TrainingProviders)
	summary.Bar = data.ChartSeries{
		Labels: make([]string, 0, len(summary.CourseCounts)),
		Values: make([]int, 0, len(summary.CourseCounts)),
	}
	for i := range summary.CourseCounts {
		summary.CourseCounts[i].Count = counts[summary.CourseCounts[i].CourseTitle]
		summary.Bar.Labels = append(summary.Bar.Labels, summary.CourseCounts[i].CourseTitle)
		summary.Bar.Values = append(summary.Bar.Values, summary.CourseCounts[i].Count)
	}
	summary.Pie = data.ChartSeries{
		Labels:    append([]string{}, summary.Bar.Labels...),
		Values:    append([]int{}, summary.Bar.Values...),
		Fractions: make([]float64, 0, len(summary.CourseCounts)),
	}
	for _, value := range summary.Pie.Values {
		summary.Pie.Fractions = append(summary.Pie.Fractions,
			float64(value)/float64(summary.Records))
	}
	return summary
}

// Dashboard keeps the dashboard filter and summarizes the latest snapshot
// on every read, it never calls the remote store
type Dashboard struct {
	sync.RWMutex
	source employeesSource
	filter data.DashboardFilter
}

func NewDashboard(parameters ...any) *Dashboard {
	d := &Dashboard{}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case employeesSource:
			d.source = p
		}
	}
	return d
}

func (d *Dashboard) Filter() data.DashboardFilter {
	d.RLock()
	defer d.RUnlock()

	return d.filter
}

func (d *Dashboard) SetFilter(filter data.DashboardFilter) error {
	if err := data.Validate(&filter); err != nil {
		return err
	}

	d.Lock()
	defer d.Unlock()

	d.filter = filter
	return nil
}

func (d *Dashboard) Summary(ctx context.Context) (*data.DashboardSummary, error) {
	employees, err := d.source.Employees(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(employees, d.Filter()), nil
}
