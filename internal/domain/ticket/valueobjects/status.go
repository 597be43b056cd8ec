package valueobjects

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	StatusNew        TicketStatus = "NEW"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusResolved   TicketStatus = "RESOLVED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []TicketStatus{StatusNew, StatusInProgress, StatusResolved}

// ActiveStatuses are the statuses a customer still waits on.
var ActiveStatuses = []TicketStatus{StatusNew, StatusInProgress}

var statusRank = map[TicketStatus]int{
	StatusNew:        0,
	StatusInProgress: 1,
	StatusResolved:   2,
}

var titleCaser = cases.Title(language.English)

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	_, ok := statusRank[ts]
	return ok
}

func (ts TicketStatus) IsActive() bool {
	return ts == StatusNew || ts == StatusInProgress
}

func (ts TicketStatus) IsResolved() bool {
	return ts == StatusResolved
}

// Rank is the position of the status in the NEW -> IN_PROGRESS -> RESOLVED order, or -1.
func (ts TicketStatus) Rank() int {
	r, ok := statusRank[ts]
	if !ok {
		return -1
	}
	return r
}

// DisplayName renders the status for people, e.g. "In Progress".
func (ts TicketStatus) DisplayName() string {
	if !ts.IsValid() {
		return "Unknown"
	}
	return titleCaser.String(strings.ReplaceAll(string(ts), "_", " "))
}

// NewTicketStatus parses a status, accepting any letter case.
func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}

// ParseStatusFilter turns an optional query value into a filter. Empty means no filter.
func ParseStatusFilter(s string) (*TicketStatus, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	ts, err := NewTicketStatus(s)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
