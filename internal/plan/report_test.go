package plan

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wechselplan/models"
)

func gormModel(id uint) gorm.Model { return gorm.Model{ID: id} }

func TestGroupColorCycles(t *testing.T) {
	require.Equal(t, GroupColor(1), GroupColor(5))
	require.Equal(t, GroupColor(2), GroupColor(6))
	require.NotEqual(t, GroupColor(1), GroupColor(2))
	require.NotEqual(t, GroupColor(2), GroupColor(3))
	require.NotEqual(t, GroupColor(3), GroupColor(4))
}

func TestParsePlanDate(t *testing.T) {
	d, ok := ParsePlanDate("05.03.24")
	require.True(t, ok)
	require.Equal(t, 2024, d.Year())
	require.Equal(t, 3, int(d.Month()))
	require.Equal(t, 5, d.Day())

	// Two-digit years always land in this century.
	d, ok = ParsePlanDate("01.01.99")
	require.True(t, ok)
	require.Equal(t, 2099, d.Year())

	for _, bad := range []string{"", "05.03.2024", "31.13.24", "abc", "1.2", "x.y.z"} {
		_, ok := ParsePlanDate(bad)
		require.False(t, ok, "%q should not parse", bad)
	}
}

func TestDisplayDate(t *testing.T) {
	require.Equal(t, "05.03.2024", DisplayDate("05.03.24"))
	require.Equal(t, "garbage", DisplayDate("garbage"))
}

func intPtr(v int) *int { return &v }

func TestBuildReportRosterSorting(t *testing.T) {
	students := []models.Student{
		{FirstName: "Max", LastName: "Zauner", GroupID: intPtr(1)},
		{FirstName: "Anna", LastName: "Auer", GroupID: intPtr(1)},
		{FirstName: "Bert", LastName: "Auer", GroupID: intPtr(1)},
		{FirstName: "Eva", LastName: "Moser", GroupID: intPtr(2)},
		{FirstName: "Noah", LastName: "Ohne"}, // no group, not printed
	}

	report := BuildReport(models.Class{Name: "2AHITS"}, students, nil, nil, nil, 2, "")
	require.Len(t, report.Groups, 2)
	require.Equal(t, 1, report.Groups[0].ID)
	require.Equal(t, GroupColor(1), report.Groups[0].Color)

	roster := report.Groups[0].Students
	require.Equal(t, []string{"Anna", "Bert", "Max"}, []string{roster[0].FirstName, roster[1].FirstName, roster[2].FirstName})
}

func TestBuildReportTurnColumns(t *testing.T) {
	turns := []models.ScheduleTurn{
		{Name: "Turnus 2", Order: 1, Weeks: []models.ScheduleWeek{
			{Date: "12.02.24", IsHoliday: true},
			{Date: "19.02.24"},
		}},
		{Name: "Turnus 1", Order: 0, Weeks: []models.ScheduleWeek{
			{Date: "15.01.24"},
			{Date: "08.01.24"},
			{Date: "22.01.24", IsHoliday: true},
		}},
		{Name: "Leer", Order: 2, Weeks: []models.ScheduleWeek{{Date: "01.03.24", IsHoliday: true}}},
	}

	report := BuildReport(models.Class{Name: "2AHITS"}, nil, nil, nil, turns, 2, "")
	require.Len(t, report.Turns, 3)

	// Ordered by turn order, holiday weeks removed, dates chronological.
	require.Equal(t, "Turnus 1", report.Turns[0].Name)
	require.Equal(t, []string{"08.01.2024", "15.01.2024"}, report.Turns[0].Dates)
	require.Equal(t, []string{"19.02.2024"}, report.Turns[1].Dates)

	// A turn whose weeks are all holidays keeps an empty column.
	require.Equal(t, "Leer", report.Turns[2].Name)
	require.Empty(t, report.Turns[2].Dates)
}

func TestBuildReportTeacherRows(t *testing.T) {
	students := []models.Student{
		{FirstName: "Anna", LastName: "Auer", GroupID: intPtr(1)},
		{FirstName: "Eva", LastName: "Moser", GroupID: intPtr(2)},
	}
	assignments := []models.TeacherAssignment{
		{
			GroupID: 2, Period: models.PeriodAM,
			Teacher: models.Teacher{FirstName: "Karl", LastName: "Huber"},
			Subject: &models.Subject{Name: "Elektrotechnik"},
		},
		{
			GroupID: 1, Period: models.PeriodAM,
			Teacher: models.Teacher{FirstName: "Rita", LastName: "Berger"},
			Room:    &models.Room{Name: "W12"},
		},
		{
			GroupID: 1, Period: models.PeriodPM,
			Teacher: models.Teacher{FirstName: "Jan", LastName: "Leitner"},
		},
	}

	report := BuildReport(models.Class{Name: "2AHITS"}, students, assignments, nil, nil, 2, "")
	require.Len(t, report.TeacherRows, 3)

	// AM rows come first, ordered by group.
	require.Equal(t, "Berger Rita", report.TeacherRows[0].TeacherName)
	require.Equal(t, "W12", report.TeacherRows[0].Room)
	require.Equal(t, "", report.TeacherRows[0].Subject)
	require.Equal(t, "Huber Karl", report.TeacherRows[1].TeacherName)
	require.Equal(t, "Elektrotechnik", report.TeacherRows[1].Subject)
	require.Equal(t, models.PeriodPM, report.TeacherRows[2].Period)
	require.Equal(t, "", report.TeacherRows[2].LearningContent)
}

func TestBuildReportRotationRows(t *testing.T) {
	students := []models.Student{
		{FirstName: "Anna", LastName: "Auer", GroupID: intPtr(1)},
		{FirstName: "Eva", LastName: "Moser", GroupID: intPtr(2)},
	}
	turns := []models.ScheduleTurn{
		{Model: gormModel(10), Name: "Turnus 1", Order: 0},
		{Model: gormModel(20), Name: "Turnus 2", Order: 1},
	}
	teacherID := uint(1)
	rotations := []models.TeacherRotation{
		{GroupID: 1, TurnID: 10, Period: models.PeriodAM, TeacherID: &teacherID,
			Teacher: &models.Teacher{FirstName: "Rita", LastName: "Berger"}},
		{GroupID: 2, TurnID: 10, Period: models.PeriodAM},
	}

	report := BuildReport(models.Class{Name: "2AHITS"}, students, nil, rotations, turns, 2, "")
	am := report.Rotation[models.PeriodAM]
	require.Len(t, am, 2)
	require.Equal(t, "Turnus 1", am[0].TurnName)
	require.Equal(t, []string{"Berger Rita", ""}, am[0].Teachers)
	require.Equal(t, []string{"", ""}, am[1].Teachers)
}
