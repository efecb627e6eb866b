package domain

import (
	"fmt"
	"strings"
)

// SurveyStatus is the closed lifecycle state of a survey.
type SurveyStatus string

const (
	StatusDraft   SurveyStatus = "DRAFT"
	StatusActive  SurveyStatus = "ACTIVE"
	StatusClosed  SurveyStatus = "CLOSED"
	StatusDeleted SurveyStatus = "DELETED"
)

// ParseSurveyStatus validates a raw status string.
func ParseSurveyStatus(value string) (SurveyStatus, error) {
	switch SurveyStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusActive:
		return StatusActive, nil
	case StatusClosed:
		return StatusClosed, nil
	case StatusDeleted:
		return StatusDeleted, nil
	default:
		return "", fmt.Errorf("%w: unknown survey status %q", ErrInvalidArgument, value)
	}
}

func (s SurveyStatus) String() string {
	return string(s)
}

// StatusAction is the closed set of admin status transitions. Raw action
// strings are parsed and rejected before any query or mutation runs.
type StatusAction string

const (
	ActionActivate StatusAction = "activate"
	ActionClose    StatusAction = "close"
	ActionDelete   StatusAction = "delete"
	ActionRestore  StatusAction = "restore"
)

// ParseStatusAction validates a raw action string against the closed set.
func ParseStatusAction(value string) (StatusAction, error) {
	switch StatusAction(strings.ToLower(strings.TrimSpace(value))) {
	case ActionActivate:
		return ActionActivate, nil
	case ActionClose:
		return ActionClose, nil
	case ActionDelete:
		return ActionDelete, nil
	case ActionRestore:
		return ActionRestore, nil
	default:
		return "", fmt.Errorf("%w: unknown status action %q", ErrInvalidArgument, value)
	}
}

// Apply returns the status and activity flag the survey transitions to.
func (a StatusAction) Apply() (SurveyStatus, bool, error) {
	switch a {
	case ActionActivate:
		return StatusActive, true, nil
	case ActionClose:
		return StatusClosed, false, nil
	case ActionDelete:
		return StatusDeleted, false, nil
	case ActionRestore:
		return StatusDraft, true, nil
	default:
		return "", false, fmt.Errorf("%w: unknown status action %q", ErrInvalidArgument, string(a))
	}
}
