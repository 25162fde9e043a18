package internal

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Priority indicates how important a Task is, lower values are more urgent.
type Priority int8

const (
	// PriorityUrgent indicates the task must be done right away.
	PriorityUrgent Priority = iota

	// PriorityHigh indicates the task should be done soon.
	PriorityHigh

	// PriorityMedium ...
	PriorityMedium

	// PriorityLow ...
	PriorityLow

	// PriorityNone indicates the task was not prioritized, it is the default.
	PriorityNone
)

var priorityLabels = [...]string{
	PriorityUrgent: "Urgent",
	PriorityHigh:   "High",
	PriorityMedium: "Medium",
	PriorityLow:    "Low",
	PriorityNone:   "None",
}

// Priorities lists every supported value from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone}
}

// Validate ...
func (p Priority) Validate() error {
	if p < PriorityUrgent || p > PriorityNone {
		return NewErrorf(ErrorCodeInvalidArgument, "unknown priority value %d", p)
	}

	return nil
}

// String returns the label of the priority.
func (p Priority) String() string {
	if p.Validate() != nil {
		return "Priority(" + strconv.Itoa(int(p)) + ")"
	}

	return priorityLabels[p]
}

// UnmarshalJSON only accepts the integers 0 to 4, null is rejected.
func (p *Priority) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		return NewErrorf(ErrorCodeInvalidArgument, "priority is required")
	}

	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "json.Unmarshal")
	}

	res := Priority(v)
	if int(res) != v {
		return NewErrorf(ErrorCodeInvalidArgument, "unknown priority value %d", v)
	}

	if err := res.Validate(); err != nil {
		return err
	}

	*p = res

	return nil
}

// ParsePriority converts either a label, like "urgent", or its number, like "0", into a Priority.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		p := Priority(n)
		if int(p) != n {
			return PriorityNone, NewErrorf(ErrorCodeInvalidArgument, "unknown priority %q", s)
		}

		if err := p.Validate(); err != nil {
			return PriorityNone, err
		}

		return p, nil
	}

	for _, p := range Priorities() {
		if strings.EqualFold(p.String(), s) {
			return p, nil
		}
	}

	return PriorityNone, NewErrorf(ErrorCodeInvalidArgument, "unknown priority %q", s)
}

// Task is a single to-do item owned by the current session.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Completed   bool
	CreatedAt   time.Time
}

// Validate ...
func (t Task) Validate() error {
	if err := validation.ValidateStruct(&t,
		validation.Field(&t.ID, validation.Required),
		validation.Field(&t.Title, validation.By(notBlank)),
		validation.Field(&t.Priority),
		validation.Field(&t.CreatedAt, validation.Required),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

// CreateParams defines the arguments used for creating Task records, a nil Priority means
// PriorityNone.
type CreateParams struct {
	Title       string
	Description string
	Priority    *Priority
}

// PriorityOrDefault returns Priority or PriorityNone when it was not specified.
func (c CreateParams) PriorityOrDefault() Priority {
	if c.Priority == nil {
		return PriorityNone
	}

	return *c.Priority
}

// Validate ...
func (c CreateParams) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.By(notBlank)),
		validation.Field(&c.Priority),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

// UpdateParams defines the values replacing an existing Task, ID and CreatedAt are never changed.
type UpdateParams struct {
	Title       string
	Description string
	Priority    Priority
	Completed   bool
}

// Validate ...
func (u UpdateParams) Validate() error {
	if err := validation.ValidateStruct(&u,
		validation.Field(&u.Title, validation.By(notBlank)),
		validation.Field(&u.Priority),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	return validation.Validate(strings.TrimSpace(s), validation.Required)
}
