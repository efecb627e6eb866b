package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSurveyStatus(t *testing.T) {
	status, err := ParseSurveyStatus(" active ")
	require.NoError(t, err)
	require.Equal(t, StatusActive, status)

	_, err = ParseSurveyStatus("archived")
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestParseStatusAction_ClosedSet(t *testing.T) {
	for raw, want := range map[string]StatusAction{
		"activate": ActionActivate,
		"close":    ActionClose,
		"delete":   ActionDelete,
		"Restore ": ActionRestore,
	} {
		action, err := ParseStatusAction(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, action)
	}

	for _, raw := range []string{"", "purge", "deactivate", "DELETE ALL"} {
		_, err := ParseStatusAction(raw)
		require.True(t, errors.Is(err, ErrInvalidArgument), raw)
	}
}

func TestStatusAction_Apply(t *testing.T) {
	cases := []struct {
		action     StatusAction
		wantStatus SurveyStatus
		wantActive bool
	}{
		{ActionActivate, StatusActive, true},
		{ActionClose, StatusClosed, false},
		{ActionDelete, StatusDeleted, false},
		{ActionRestore, StatusDraft, true},
	}
	for _, tc := range cases {
		status, active, err := tc.action.Apply()
		require.NoError(t, err)
		require.Equal(t, tc.wantStatus, status)
		require.Equal(t, tc.wantActive, active)
	}

	_, _, err := StatusAction("purge").Apply()
	require.True(t, errors.Is(err, ErrInvalidArgument))
}
