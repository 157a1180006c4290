// Package dashboard builds the three role dashboards out of resource
// controllers. Each dashboard is a small tab state machine: selecting a
// tab unmounts the previous tab's controllers and mounts fresh ones, so
// every tab starts from an empty state and fetches on first display.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownTab is returned by Select for a tab the dashboard lacks.
	ErrUnknownTab = errors.New("dashboard: unknown tab")

	// ErrTabInactive is returned by a tab action while another tab is shown.
	ErrTabInactive = errors.New("dashboard: tab not active")
)

// Tab names one dashboard tab.
type Tab string

const (
	TabClasses  Tab = "classes"
	TabAdmins   Tab = "admins"
	TabSubjects Tab = "subjects"

	TabStudents   Tab = "students"
	TabAttendance Tab = "attendance"
	TabMarks      Tab = "marks"

	TabPerformance Tab = "performance"
)

// mountable is anything a tab mounts on display.
type mountable interface {
	Mount(ctx context.Context) error
	Refresh(ctx context.Context) error
	Unmount()
}

// tabs tracks the active tab and the controllers mounted for it.
type tabs struct {
	order   []Tab
	active  Tab
	mounted []mountable
}

func (t *tabs) has(tab Tab) bool {
	return slices.Contains(t.order, tab)
}

// Tabs lists the dashboard's tabs in display order.
func (t *tabs) Tabs() []Tab {
	return slices.Clone(t.order)
}

// Active returns the selected tab.
func (t *tabs) Active() Tab {
	return t.active
}

func (t *tabs) check(tab Tab) error {
	if !t.has(tab) {
		return fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}
	return nil
}

// swap unmounts the current controllers and mounts ms. Mount errors are
// already reflected in each controller's error slot; the first one is
// returned for logging.
func (t *tabs) swap(ctx context.Context, tab Tab, ms ...mountable) error {
	t.unmountAll()
	t.active = tab
	t.mounted = ms

	var first error
	for _, m := range ms {
		if err := m.Mount(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Reload re-fetches the active tab's controllers in place. Tab state
// such as the attendance date is kept.
func (t *tabs) Reload(ctx context.Context) error {
	var first error
	for _, m := range t.mounted {
		if err := m.Refresh(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t *tabs) unmountAll() {
	for _, m := range t.mounted {
		m.Unmount()
	}
	t.mounted = nil
}
