package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wechselplan/models"
)

func TestRotateLeft(t *testing.T) {
	teachers := []uint{1, 2, 3, 4}

	require.Equal(t, []uint{2, 3, 4, 1}, RotateLeft(teachers, 1))
	require.Equal(t, []uint{3, 4, 1, 2}, RotateLeft(teachers, 2))
	require.Equal(t, teachers, RotateLeft(teachers, 0))

	// Rotation is cyclic with period len(s).
	require.Equal(t, teachers, RotateLeft(teachers, len(teachers)))
	require.Equal(t, RotateLeft(teachers, 1), RotateLeft(teachers, 5))
	require.Len(t, RotateLeft(teachers, 3), len(teachers))

	require.Empty(t, RotateLeft([]uint{}, 3))
}

func TestBuildRotationModuloProperty(t *testing.T) {
	groups := []int{1, 2, 3}
	turnIDs := []uint{10, 20, 30, 40}
	teachers := []uint{100, 200, 300}

	cells := BuildRotation(groups, turnIDs, teachers)
	require.Len(t, cells, len(groups)*len(turnIDs))

	for turnIdx := range turnIDs {
		for groupIdx := range groups {
			cell := cells[turnIdx*len(groups)+groupIdx]
			require.NotNil(t, cell.TeacherID)
			require.Equal(t, teachers[(groupIdx+turnIdx)%len(teachers)], *cell.TeacherID)
		}
	}
}

func TestBuildRotationTwoGroupsThreeTeachers(t *testing.T) {
	cells := BuildRotation([]int{1, 2}, []uint{10, 20, 30}, []uint{1, 2, 3})

	expect := []struct {
		turnID  uint
		groupID int
		teacher uint
	}{
		{10, 1, 1}, {10, 2, 2},
		{20, 1, 2}, {20, 2, 3},
		{30, 1, 3}, {30, 2, 1},
	}
	require.Len(t, cells, len(expect))
	for i, e := range expect {
		require.Equal(t, e.turnID, cells[i].TurnID)
		require.Equal(t, e.groupID, cells[i].GroupID)
		require.NotNil(t, cells[i].TeacherID)
		require.Equal(t, e.teacher, *cells[i].TeacherID)
	}
}

func TestBuildRotationMoreGroupsThanTeachers(t *testing.T) {
	cells := BuildRotation([]int{1, 2, 3}, []uint{10, 20}, []uint{1, 2})

	// Turn 10: g1→T1, g2→T2, g3 unassigned. Turn 20: g1→T2, g2→T1, g3 unassigned.
	require.Equal(t, uint(1), *cells[0].TeacherID)
	require.Equal(t, uint(2), *cells[1].TeacherID)
	require.Nil(t, cells[2].TeacherID)
	require.Equal(t, uint(2), *cells[3].TeacherID)
	require.Equal(t, uint(1), *cells[4].TeacherID)
	require.Nil(t, cells[5].TeacherID)

	// The third group never wraps around to a teacher in any turn.
	for _, cell := range cells {
		if cell.GroupID == 3 {
			require.Nil(t, cell.TeacherID)
		}
	}
}

func TestBuildRotationEmptyInputs(t *testing.T) {
	cells := BuildRotation([]int{1, 2}, []uint{10, 20}, nil)
	require.Len(t, cells, 4)
	for _, cell := range cells {
		require.Nil(t, cell.TeacherID)
	}

	require.Empty(t, BuildRotation([]int{1, 2}, nil, []uint{1}))
	require.Empty(t, BuildRotation(nil, []uint{10}, []uint{1}))
}

func TestDistinctTeacherIDs(t *testing.T) {
	assignments := []models.TeacherAssignment{
		{TeacherID: 7}, {TeacherID: 3}, {TeacherID: 7}, {TeacherID: 5}, {TeacherID: 3},
	}
	require.Equal(t, []uint{7, 3, 5}, DistinctTeacherIDs(assignments))
	require.Empty(t, DistinctTeacherIDs(nil))
}

func TestRotationRecords(t *testing.T) {
	teacher := uint(9)
	cells := []RotationCell{
		{GroupID: 1, TurnID: 10, TeacherID: &teacher},
		{GroupID: 2, TurnID: 10},
	}

	rows := RotationRecords(4, models.PeriodPM, cells)
	require.Len(t, rows, 2)
	require.Equal(t, uint(4), rows[0].ClassID)
	require.Equal(t, models.PeriodPM, rows[0].Period)
	require.Equal(t, &teacher, rows[0].TeacherID)
	require.Nil(t, rows[1].TeacherID)
}
