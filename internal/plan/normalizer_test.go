package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wechselplan/models"
)

func TestParseScheduleJSONNonObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"turnus"`, `42`, `null`, `not json at all`} {
		turns := ParseScheduleJSON([]byte(raw))
		require.Empty(t, turns, "input %q should normalize to nothing", raw)
	}
}

func TestParseScheduleJSONPreservesKeyOrder(t *testing.T) {
	raw := []byte(`{
		"Turnus 3": {"weeks": [{"date": "15.01.24", "week": "KW 3", "isHoliday": false}]},
		"Turnus 1": {"weeks": [{"date": "01.01.24", "week": "KW 1", "isHoliday": false}]},
		"Turnus 2": {"weeks": [{"date": "08.01.24", "week": "KW 2", "isHoliday": true}]}
	}`)

	turns := ParseScheduleJSON(raw)
	require.Len(t, turns, 3)
	require.Equal(t, "Turnus 3", turns[0].Name)
	require.Equal(t, "Turnus 1", turns[1].Name)
	require.Equal(t, "Turnus 2", turns[2].Name)
	require.True(t, turns[2].Weeks[0].IsHoliday)
}

func TestParseScheduleJSONSkipsMalformedEntries(t *testing.T) {
	raw := []byte(`{
		"good": {"weeks": [{"date": "01.01.24", "week": "1", "isHoliday": false}]},
		"noWeeks": {"holidays": [{"id": 1}]},
		"wrongShape": "just a string",
		"alsoGood": {"weeks": []}
	}`)

	turns, skipped := parseScheduleJSON(raw)
	require.Len(t, turns, 2)
	require.Equal(t, "good", turns[0].Name)
	require.Equal(t, "alsoGood", turns[1].Name)

	require.Len(t, skipped, 2)
	require.Equal(t, SkippedTurn{Name: "noWeeks", Reason: SkipNoWeeks}, skipped[0])
	require.Equal(t, SkippedTurn{Name: "wrongShape", Reason: SkipBadShape}, skipped[1])
}

func TestParseScheduleJSONWeekDefaults(t *testing.T) {
	raw := []byte(`{"t": {"weeks": [{}]}}`)

	turns := ParseScheduleJSON(raw)
	require.Len(t, turns, 1)
	require.Len(t, turns[0].Weeks, 1)
	require.Equal(t, NormalizedWeek{Date: "", Week: "", IsHoliday: false}, turns[0].Weeks[0])
}

func TestParseScheduleJSONFiltersHolidayIDs(t *testing.T) {
	raw := []byte(`{"t": {
		"weeks": [{"date": "01.01.24", "week": "1"}],
		"holidays": [{"id": 3}, {"id": 0}, {"id": -2}, {"id": 1.5}, {"id": 7}]
	}}`)

	turns := ParseScheduleJSON(raw)
	require.Len(t, turns, 1)
	require.Equal(t, []uint{3, 7}, turns[0].HolidayIDs)
}

func TestTurnRecord(t *testing.T) {
	length := 4
	turn := NormalizedTurn{
		Name:         "Turnus 1",
		CustomLength: &length,
		Weeks:        []NormalizedWeek{{Date: "01.01.24", Week: "KW 1", IsHoliday: false}},
		HolidayIDs:   []uint{5},
	}

	record := TurnRecord(turn, 2)
	require.Equal(t, "Turnus 1", record.Name)
	require.Equal(t, 2, record.Order)
	require.Equal(t, &length, record.CustomLength)
	require.Len(t, record.Weeks, 1)
	require.Equal(t, "KW 1", record.Weeks[0].Week)
	require.Len(t, record.HolidayLinks, 1)
	require.Equal(t, uint(5), record.HolidayLinks[0].HolidayID)
}

func TestLegacyScheduleJSONRoundTrip(t *testing.T) {
	raw := []byte(`{
		"Turnus 1": {"weeks": [{"date": "01.01.24", "week": "1", "isHoliday": false}]},
		"broken": 17,
		"Turnus 2": {"weeks": [{"date": "08.01.24", "week": "2", "isHoliday": true}]}
	}`)

	parsed := ParseScheduleJSON(raw)
	records := make([]models.ScheduleTurn, 0, len(parsed))
	for i, turn := range parsed {
		records = append(records, TurnRecord(turn, i))
	}

	legacy := LegacyScheduleJSON(records)
	require.Len(t, legacy, 2)
	require.NotContains(t, legacy, "broken")
	require.Equal(t, "01.01.24", legacy["Turnus 1"].Weeks[0].Date)
	require.False(t, legacy["Turnus 1"].Weeks[0].IsHoliday)
	require.True(t, legacy["Turnus 2"].Weeks[0].IsHoliday)
}

func TestLegacyScheduleJSONHolidayDates(t *testing.T) {
	start := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)
	turns := []models.ScheduleTurn{{
		Name: "Turnus 1",
		HolidayLinks: []models.ScheduleTurnHoliday{{
			HolidayID: 3,
			Holiday:   models.SchoolHoliday{Name: "Semesterferien", StartDate: start, EndDate: end},
		}},
	}}

	legacy := LegacyScheduleJSON(turns)
	holidays := legacy["Turnus 1"].Holidays
	require.Len(t, holidays, 1)
	require.Equal(t, "2024-02-05T00:00:00Z", holidays[0].StartDate)
	require.Equal(t, "2024-02-09T00:00:00Z", holidays[0].EndDate)
}

func TestISODateHandlesBothForms(t *testing.T) {
	ts := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "2024-07-01T00:00:00Z", ISODate(ts))
	require.Equal(t, "2024-07-01T00:00:00Z", ISODate(&ts))
	require.Equal(t, "2024-07-01T00:00:00Z", ISODate("2024-07-01"))
	require.Equal(t, "2024-07-01T00:00:00Z", ISODate("2024-07-01T00:00:00Z"))
	require.Equal(t, "", ISODate(nil))
	require.Equal(t, "", ISODate((*time.Time)(nil)))
}
