// Package task defines the structured task record produced by extraction and
// the fixed set of kanban routing categories.
package task

import "time"

// Zone is the fixed business time zone (MSK, UTC+3). All reference dates,
// creation timestamps and file names use this offset so relative date
// expressions resolve the same way regardless of server locale.
var Zone = time.FixedZone("MSK", 3*60*60)

// Now returns the current time in the business time zone.
func Now() time.Time {
	return time.Now().In(Zone)
}

// DateLayout is the ISO calendar date format used for due dates.
const DateLayout = "2006-01-02"

// Record is the persisted representation of an accepted task. The JSON field
// names match the on-disk format of the tasks/ directory, so files written by
// this bot are interchangeable with previously saved ones.
type Record struct {
	Content         string    `json:"content"`
	DueDate         *string   `json:"due_date"`
	Category        Category  `json:"kanban_column"`
	OriginalMessage string    `json:"original_message"`
	CreatedAt       time.Time `json:"created_at"`
}

// DueDateTime parses the due date, if any, in the business time zone.
func (r *Record) DueDateTime() (time.Time, bool) {
	if r.DueDate == nil || *r.DueDate == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, *r.DueDate, Zone)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
