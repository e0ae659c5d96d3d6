package plan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"wechselplan/models"
)

// groupPalette are the display colors printed behind group headers. The
// palette repeats every four groups.
var groupPalette = [4]string{"#FFD966", "#9FC5E8", "#B6D7A8", "#EA9999"}

// GroupColor returns the display color for a group id.
func GroupColor(groupID int) string {
	idx := (groupID - 1) % len(groupPalette)
	if idx < 0 {
		idx += len(groupPalette)
	}
	return groupPalette[idx]
}

// ReportStudent is one roster line.
type ReportStudent struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ReportGroup is one roster column: a group with its color and its students
// sorted by last name, then first name.
type ReportGroup struct {
	ID       int             `json:"id"`
	Color    string          `json:"color"`
	Students []ReportStudent `json:"students"`
}

// TeacherRow is one assignment line under a group, per period. Missing
// subject, room or learning content render as empty strings.
type TeacherRow struct {
	GroupID         int    `json:"groupId"`
	Period          string `json:"period"`
	TeacherName     string `json:"teacherName"`
	Subject         string `json:"subject"`
	Room            string `json:"room"`
	LearningContent string `json:"learningContent"`
}

// TurnColumn is one printed turn: its name and the schedule dates, holiday
// weeks removed and the rest in chronological order.
type TurnColumn struct {
	Name  string   `json:"name"`
	Dates []string `json:"dates"`
}

// RotationRow names the teacher of each group for one turn of one period.
type RotationRow struct {
	TurnName string   `json:"turnName"`
	Teachers []string `json:"teachers"`
}

// ReportData is the denormalized grid handed to the PDF and XLSX writers.
type ReportData struct {
	ClassName      string                   `json:"className"`
	Weekday        int                      `json:"weekday"`
	AdditionalInfo string                   `json:"additionalInfo"`
	Groups         []ReportGroup            `json:"groups"`
	TeacherRows    []TeacherRow             `json:"teacherRows"`
	Turns          []TurnColumn             `json:"turns"`
	Rotation       map[string][]RotationRow `json:"rotation"`
}

// ParsePlanDate parses a DD.MM.YY schedule date. Two-digit years are always
// expanded to 20YY; the blob never carried anything outside this century.
func ParsePlanDate(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 0 || year > 99 {
		return time.Time{}, false
	}
	return time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// DisplayDate renders a DD.MM.YY date as DD.MM.20YY. Strings that do not
// parse are passed through unchanged.
func DisplayDate(s string) string {
	d, ok := ParsePlanDate(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("%02d.%02d.%d", d.Day(), int(d.Month()), d.Year())
}

// BuildReport assembles the export grid from the persisted class data. It
// never fails: missing names come out empty and a turn without printable
// weeks keeps an empty date column.
func BuildReport(class models.Class, students []models.Student, assignments []models.TeacherAssignment, rotations []models.TeacherRotation, turns []models.ScheduleTurn, weekday int, additionalInfo string) ReportData {
	report := ReportData{
		ClassName:      class.Name,
		Weekday:        weekday,
		AdditionalInfo: additionalInfo,
		Groups:         buildGroups(students),
		Turns:          buildTurnColumns(turns),
	}
	report.TeacherRows = buildTeacherRows(report.Groups, assignments)
	report.Rotation = buildRotationRows(report.Groups, turns, rotations)
	return report
}

func buildGroups(students []models.Student) []ReportGroup {
	byGroup := make(map[int][]ReportStudent)
	for _, s := range students {
		if s.GroupID == nil {
			continue
		}
		byGroup[*s.GroupID] = append(byGroup[*s.GroupID], ReportStudent{
			ID:        s.ID,
			FirstName: s.FirstName,
			LastName:  s.LastName,
		})
	}

	ids := make([]int, 0, len(byGroup))
	for id := range byGroup {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	groups := make([]ReportGroup, 0, len(ids))
	for _, id := range ids {
		roster := byGroup[id]
		sort.Slice(roster, func(i, j int) bool {
			if roster[i].LastName != roster[j].LastName {
				return roster[i].LastName < roster[j].LastName
			}
			return roster[i].FirstName < roster[j].FirstName
		})
		groups = append(groups, ReportGroup{ID: id, Color: GroupColor(id), Students: roster})
	}
	return groups
}

func buildTeacherRows(groups []ReportGroup, assignments []models.TeacherAssignment) []TeacherRow {
	rows := make([]TeacherRow, 0, len(assignments))
	for _, period := range []string{models.PeriodAM, models.PeriodPM} {
		for _, group := range groups {
			for _, a := range assignments {
				if a.Period != period || a.GroupID != group.ID {
					continue
				}
				row := TeacherRow{
					GroupID:     a.GroupID,
					Period:      a.Period,
					TeacherName: a.Teacher.FullName(),
				}
				if a.Subject != nil {
					row.Subject = a.Subject.Name
				}
				if a.Room != nil {
					row.Room = a.Room.Name
				}
				if a.LearningContent != nil {
					row.LearningContent = a.LearningContent.Name
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func buildTurnColumns(turns []models.ScheduleTurn) []TurnColumn {
	ordered := make([]models.ScheduleTurn, len(turns))
	copy(ordered, turns)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	columns := make([]TurnColumn, 0, len(ordered))
	for _, turn := range ordered {
		column := TurnColumn{Name: turn.Name, Dates: []string{}}

		// Holiday weeks stay part of the turn but are not printed.
		printable := make([]models.ScheduleWeek, 0, len(turn.Weeks))
		for _, week := range turn.Weeks {
			if !week.IsHoliday {
				printable = append(printable, week)
			}
		}
		sort.SliceStable(printable, func(i, j int) bool {
			di, oki := ParsePlanDate(printable[i].Date)
			dj, okj := ParsePlanDate(printable[j].Date)
			if oki && okj {
				return di.Before(dj)
			}
			// Unparseable dates sink to the end in their original order.
			return oki && !okj
		})
		for _, week := range printable {
			column.Dates = append(column.Dates, DisplayDate(week.Date))
		}
		columns = append(columns, column)
	}
	return columns
}

func buildRotationRows(groups []ReportGroup, turns []models.ScheduleTurn, rotations []models.TeacherRotation) map[string][]RotationRow {
	ordered := make([]models.ScheduleTurn, len(turns))
	copy(ordered, turns)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	out := make(map[string][]RotationRow, 2)
	for _, period := range []string{models.PeriodAM, models.PeriodPM} {
		rows := make([]RotationRow, 0, len(ordered))
		for _, turn := range ordered {
			row := RotationRow{TurnName: turn.Name, Teachers: make([]string, len(groups))}
			for i, group := range groups {
				for _, r := range rotations {
					if r.Period != period || r.TurnID != turn.ID || r.GroupID != group.ID {
						continue
					}
					if r.Teacher != nil {
						row.Teachers[i] = r.Teacher.FullName()
					}
				}
			}
			rows = append(rows, row)
		}
		out[period] = rows
	}
	return out
}
