package utilities

import (
	"sync"
	"time"

	"github.com/antonio-alexander/go-learning-history/internal/data"
)

type Timers interface {
	Start(group string) int
	Stop(group string, index int) time.Duration
	ReadAll() *data.Timers
	Clear()
}

type timer struct {
	start time.Time
	stop  time.Time
}

type timers struct {
	sync.Mutex
	groups map[string][]*timer
}

func NewTimers() Timers {
	return &timers{groups: make(map[string][]*timer)}
}

func (t *timers) Clear() {
	t.Lock()
	defer t.Unlock()

	t.groups = make(map[string][]*timer)
}

// Start begins a timer within group and returns its index
func (t *timers) Start(group string) int {
	t.Lock()
	defer t.Unlock()

	t.groups[group] = append(t.groups[group], &timer{start: time.Now()})
	return len(t.groups[group]) - 1
}

// Stop ends the timer at index and returns its duration, or -1 if no
// such timer was started
func (t *timers) Stop(group string, index int) time.Duration {
	t.Lock()
	defer t.Unlock()

	timers := t.groups[group]
	if index < 0 || index >= len(timers) {
		return -1
	}
	timers[index].stop = time.Now()
	return timers[index].stop.Sub(timers[index].start)
}

// ReadAll only accounts for stopped timers
func (t *timers) ReadAll() *data.Timers {
	t.Lock()
	defer t.Unlock()

	result := &data.Timers{
		Totals:   make(map[string]int64),
		Averages: make(map[string]int64),
		Counts:   make(map[string]int),
	}
	for group, timers := range t.groups {
		var total time.Duration
		var count int

		for _, timer := range timers {
			if timer.stop.IsZero() {
				continue
			}
			total += timer.stop.Sub(timer.start)
			count++
		}
		result.Totals[group] = total.Nanoseconds()
		result.Counts[group] = count
		if count > 0 {
			result.Averages[group] = total.Nanoseconds() / int64(count)
		}
	}
	return result
}
