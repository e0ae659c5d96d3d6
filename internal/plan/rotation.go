package plan

import "wechselplan/models"

// RotationCell is one computed matrix entry: in turn TurnID, the group is
// taught by TeacherID (nil when no teacher is left over for the group).
type RotationCell struct {
	GroupID   int
	TurnID    uint
	TeacherID *uint
}

// RotateLeft returns a copy of s rotated left by n positions. Rotating by
// len(s) yields the original order.
func RotateLeft[T any](s []T, n int) []T {
	out := make([]T, len(s))
	if len(s) == 0 {
		return out
	}
	n = ((n % len(s)) + len(s)) % len(s)
	copy(out, s[n:])
	copy(out[len(s)-n:], s[:n])
	return out
}

// BuildRotation computes the round-robin rotation matrix for one period.
// Groups must be ordered by ascending group id, turns by schedule order and
// teachers by first appearance in the assignment list. For turn t the teacher
// list is rotated left by t, then group g takes position g of the rotated
// list. A group index beyond the teacher count stays unassigned, it does NOT
// wrap around to the front of the list. Excess groups getting no teacher is
// long-standing observable behavior that the admin UI relies on.
//
// An empty teacher list leaves every group unassigned; an empty turn list
// yields an empty matrix. Neither is an error.
func BuildRotation(groupIDs []int, turnIDs []uint, teacherIDs []uint) []RotationCell {
	cells := make([]RotationCell, 0, len(groupIDs)*len(turnIDs))
	for t, turnID := range turnIDs {
		for g, groupID := range groupIDs {
			cell := RotationCell{GroupID: groupID, TurnID: turnID}
			if g < len(teacherIDs) {
				id := teacherIDs[(g+t)%len(teacherIDs)]
				cell.TeacherID = &id
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// DistinctTeacherIDs extracts the rotation's teacher order from the raw
// assignment list: duplicates removed, first appearance wins.
func DistinctTeacherIDs(assignments []models.TeacherAssignment) []uint {
	seen := make(map[uint]bool, len(assignments))
	ids := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		if seen[a.TeacherID] {
			continue
		}
		seen[a.TeacherID] = true
		ids = append(ids, a.TeacherID)
	}
	return ids
}

// RotationRecords maps matrix cells to persistable rows for one class/period.
func RotationRecords(classID uint, period string, cells []RotationCell) []models.TeacherRotation {
	rows := make([]models.TeacherRotation, 0, len(cells))
	for _, cell := range cells {
		rows = append(rows, models.TeacherRotation{
			ClassID:   classID,
			GroupID:   cell.GroupID,
			TeacherID: cell.TeacherID,
			TurnID:    cell.TurnID,
			Period:    period,
		})
	}
	return rows
}
