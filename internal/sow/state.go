package sow

import (
	"fmt"
	"strings"
)

// --- Review workflow ---
//
//	draft ──submit──▶ review ──approve──▶ approved
//	  ▲                 │
//	  └─────reopen──────┘
//
// archive is allowed from every state except archived.

// Action is a named workflow step.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReopen  Action = "reopen"
	ActionArchive Action = "archive"
)

// transitions maps each action to the states it may start from and the
// state it ends in.
var transitions = map[Action]struct {
	from []Status
	to   Status
}{
	ActionSubmit:  {from: []Status{StatusDraft}, to: StatusReview},
	ActionApprove: {from: []Status{StatusReview}, to: StatusApproved},
	ActionReopen:  {from: []Status{StatusReview}, to: StatusDraft},
	ActionArchive: {from: []Status{StatusDraft, StatusReview, StatusApproved}, to: StatusArchived},
}

// ParseAction normalizes case and whitespace.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[a]; !ok {
		return a, fmt.Errorf("invalid action %q: must be one of: submit, approve, reopen, archive", s)
	}
	return a, nil
}

// CanTransition checks whether action may be applied to the record.
func CanTransition(r *Record, action Action) error {
	t, ok := transitions[action]
	if !ok {
		return fmt.Errorf("invalid action %q", action)
	}
	for _, from := range t.from {
		if r.Status == from {
			return nil
		}
	}
	return fmt.Errorf("cannot %s SOW %q while it is %s", action, r.ID, r.Status)
}

// Apply moves the record to the state action leads to.
func Apply(r *Record, action Action) error {
	if err := CanTransition(r, action); err != nil {
		return err
	}
	r.Status = transitions[action].to
	r.UpdatedAt = timeNow().UTC().Format(timeLayout)
	return nil
}

// CanEdit reports whether sections may still be changed. Only drafts are
// editable; a SOW under review has to be reopened first.
func CanEdit(r *Record) error {
	if r.Status != StatusDraft {
		return fmt.Errorf("SOW %q is %s: only drafts can be edited", r.ID, r.Status)
	}
	return nil
}
