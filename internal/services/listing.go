package services

import (
	"sort"
	"strings"
	"time"

	"github.com/arvin-shafiei/rental-app-sub001/internal/models"
)

const (
	StatusTabUpcoming = "upcoming"
	StatusTabPast     = "past"

	FilterAll = "all"

	DefaultPageSize = 12
)

type EventListFilter struct {
	StatusTab   string
	EventType   string
	PropertyID  string
	SearchQuery string
}

// EventListEntry carries the denormalized property name the search predicate
// matches against.
type EventListEntry struct {
	models.TimelineEvent
	PropertyName string `json:"property_name"`
}

// FilterEvents applies the status, type, property and search predicates
// conjunctively, then sorts: ascending by date on the upcoming tab,
// descending on the past tab.
func FilterEvents(entries []EventListEntry, filter EventListFilter, today time.Time) []EventListEntry {
	var filtered []EventListEntry
	for _, entry := range entries {
		if !matchesStatusTab(entry.TimelineEvent, filter.StatusTab, today) {
			continue
		}
		if filter.EventType != "" && filter.EventType != FilterAll &&
			string(entry.EventType) != filter.EventType {
			continue
		}
		if filter.PropertyID != "" && filter.PropertyID != FilterAll &&
			entry.PropertyID != filter.PropertyID {
			continue
		}
		if !matchesSearch(entry, filter.SearchQuery) {
			continue
		}
		filtered = append(filtered, entry)
	}

	descending := filter.StatusTab == StatusTabPast
	sort.SliceStable(filtered, func(i, j int) bool {
		if descending {
			return filtered[i].StartDate.After(filtered[j].StartDate)
		}
		return filtered[i].StartDate.Before(filtered[j].StartDate)
	})
	return filtered
}

func matchesStatusTab(event models.TimelineEvent, statusTab string, today time.Time) bool {
	days := DaysUntil(event.StartDate, today)
	switch statusTab {
	case StatusTabPast:
		return event.IsCompleted || days < 0
	default: // upcoming
		return !event.IsCompleted && days >= 0
	}
}

func matchesSearch(entry EventListEntry, query string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	return strings.Contains(strings.ToLower(entry.Title), needle) ||
		strings.Contains(strings.ToLower(entry.Description), needle) ||
		strings.Contains(strings.ToLower(entry.PropertyName), needle)
}

// EventListView pairs filter criteria with visible-count pagination. Changing
// any criterion resets the visible count to one page.
type EventListView struct {
	filter       EventListFilter
	pageSize     int
	visibleCount int
}

func NewEventListView(pageSize int) *EventListView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &EventListView{
		filter:       EventListFilter{StatusTab: StatusTabUpcoming, EventType: FilterAll, PropertyID: FilterAll},
		pageSize:     pageSize,
		visibleCount: pageSize,
	}
}

func (view *EventListView) Filter() EventListFilter { return view.filter }
func (view *EventListView) VisibleCount() int       { return view.visibleCount }

func (view *EventListView) SetFilter(filter EventListFilter) {
	if filter == view.filter {
		return
	}
	view.filter = filter
	view.visibleCount = view.pageSize
}

// LoadMore grows the visible window by one page.
func (view *EventListView) LoadMore() {
	view.visibleCount += view.pageSize
}

// Page applies the filter and truncates to the visible window.
func (view *EventListView) Page(entries []EventListEntry, today time.Time) []EventListEntry {
	filtered := FilterEvents(entries, view.filter, today)
	if len(filtered) > view.visibleCount {
		filtered = filtered[:view.visibleCount]
	}
	return filtered
}
