package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriorityRank(t *testing.T) {
	require.Equal(t, 1, PriorityEmergency.Rank())
	require.Equal(t, 2, PriorityUrgent.Rank())
	require.Equal(t, 3, PriorityNormal.Rank())
	require.Equal(t, 4, PriorityLow.Rank())

	// 未知优先级排在所有已知优先级之后
	unknown := RequestPriority("whatever")
	require.Greater(t, unknown.Rank(), PriorityLow.Rank())
	require.False(t, unknown.Valid())
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{StatusPending, StatusAssigned, true},
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusAssigned, StatusInProgress, true},
		{StatusAssigned, StatusCompleted, true},
		{StatusAssigned, StatusCancelled, true},
		{StatusAssigned, StatusPending, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusAssigned, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	require.True(t, StatusCompleted.IsTerminal())
	require.True(t, StatusCancelled.IsTerminal())
	require.False(t, StatusPending.IsTerminal())
	require.False(t, StatusAssigned.IsTerminal())
	require.False(t, StatusInProgress.IsTerminal())
}

func TestStatusValid(t *testing.T) {
	for _, status := range []RequestStatus{StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled} {
		require.True(t, status.Valid())
	}
	require.False(t, RequestStatus("archived").Valid())
}

func TestForTenantViewStripsInternalNotes(t *testing.T) {
	notes := "内部采购备注"
	req := MaintenanceRequest{
		Title:         "水管漏水",
		InternalNotes: &notes,
	}

	view := req.ForTenantView()
	require.Nil(t, view.InternalNotes)
	require.Equal(t, "水管漏水", view.Title)
	// 原对象不受影响
	require.NotNil(t, req.InternalNotes)
}
