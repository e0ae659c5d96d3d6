// Package plan holds the rotation-schedule core: conversion between the
// legacy JSON schedule blob and its relational form, the round-robin teacher
// rotation, and the assembly of the printable Wechselplan grid. Everything in
// this package is pure; persistence stays in the handlers.
package plan

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"wechselplan/models"
)

// NormalizedWeek is one dated schedule row inside a turn.
type NormalizedWeek struct {
	Date      string `json:"date"`
	Week      string `json:"week"`
	IsHoliday bool   `json:"isHoliday"`
}

// NormalizedTurn is the relational form of one legacy turn entry.
type NormalizedTurn struct {
	Name         string
	CustomLength *int
	Weeks        []NormalizedWeek
	HolidayIDs   []uint
}

// SkipReason explains why a legacy entry was dropped during normalization.
type SkipReason string

const (
	SkipNotObject SkipReason = "schedule data is not a JSON object"
	SkipBadShape  SkipReason = "turn value does not match the expected shape"
	SkipNoWeeks   SkipReason = "turn has no weeks field"
)

// SkippedTurn records a dropped entry together with its reason.
type SkippedTurn struct {
	Name   string
	Reason SkipReason
}

// legacyTurn mirrors the hand-edited blob loosely. Weeks is a pointer so a
// missing field can be told apart from an empty list.
type legacyTurn struct {
	Weeks        *[]NormalizedWeek `json:"weeks"`
	CustomLength *int              `json:"customLength"`
	Holidays     []struct {
		ID float64 `json:"id"`
	} `json:"holidays"`
}

// ParseScheduleJSON converts the legacy schedule blob into normalized turns,
// preserving the object's key order. Malformed input never produces an error:
// a non-object blob yields an empty list, and entries without a usable weeks
// array are dropped. The historical blob was hand-edited, so bad entries are
// expected and must not block the rest.
func ParseScheduleJSON(raw []byte) []NormalizedTurn {
	turns, _ := parseScheduleJSON(raw)
	return turns
}

// parseScheduleJSON additionally reports which entries were dropped and why.
func parseScheduleJSON(raw []byte) ([]NormalizedTurn, []SkippedTurn) {
	entries, ok := objectEntries(raw)
	if !ok {
		return nil, []SkippedTurn{{Reason: SkipNotObject}}
	}

	turns := make([]NormalizedTurn, 0, len(entries))
	var skipped []SkippedTurn
	for _, entry := range entries {
		turn, reason := parseTurn(entry.name, entry.value)
		if reason != "" {
			skipped = append(skipped, SkippedTurn{Name: entry.name, Reason: reason})
			continue
		}
		turns = append(turns, turn)
	}
	return turns, skipped
}

func parseTurn(name string, value json.RawMessage) (NormalizedTurn, SkipReason) {
	var legacy legacyTurn
	if err := json.Unmarshal(value, &legacy); err != nil {
		return NormalizedTurn{}, SkipBadShape
	}
	if legacy.Weeks == nil {
		return NormalizedTurn{}, SkipNoWeeks
	}

	turn := NormalizedTurn{
		Name:         name,
		CustomLength: legacy.CustomLength,
		Weeks:        *legacy.Weeks,
	}
	for _, h := range legacy.Holidays {
		// Only positive integer ids can reference a holiday row.
		if h.ID > 0 && h.ID == math.Trunc(h.ID) {
			turn.HolidayIDs = append(turn.HolidayIDs, uint(h.ID))
		}
	}
	return turn, ""
}

type objectEntry struct {
	name  string
	value json.RawMessage
}

// objectEntries walks the blob token by token so the original key order
// survives (a map would shuffle it, and the key order is what defines the
// turn sequence).
func objectEntries(raw []byte) ([]objectEntry, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	var entries []objectEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return entries, true
		}
		key, ok := keyTok.(string)
		if !ok {
			return entries, true
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return entries, true
		}
		entries = append(entries, objectEntry{name: key, value: value})
	}
	return entries, true
}

// TurnRecord maps a normalized turn to its nested create payload. Holiday ids
// are taken at face value; an id without a matching holiday row fails at the
// database with a constraint violation.
func TurnRecord(turn NormalizedTurn, order int) models.ScheduleTurn {
	record := models.ScheduleTurn{
		Name:         turn.Name,
		Order:        order,
		CustomLength: turn.CustomLength,
	}
	for _, week := range turn.Weeks {
		record.Weeks = append(record.Weeks, models.ScheduleWeek{
			Date:      week.Date,
			Week:      week.Week,
			IsHoliday: week.IsHoliday,
		})
	}
	for _, id := range turn.HolidayIDs {
		record.HolidayLinks = append(record.HolidayLinks, models.ScheduleTurnHoliday{HolidayID: id})
	}
	return record
}

// LegacyHoliday is the holiday shape inside the legacy blob.
type LegacyHoliday struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// LegacyTurn is the per-turn shape of the legacy blob.
type LegacyTurn struct {
	Weeks        []NormalizedWeek `json:"weeks"`
	CustomLength *int             `json:"customLength,omitempty"`
	Holidays     []LegacyHoliday  `json:"holidays,omitempty"`
}

// LegacyScheduleJSON rebuilds the legacy blob shape from relational turn rows
// so old clients keep working. Holiday dates come out as ISO-8601 strings no
// matter how the storage layer delivered them.
func LegacyScheduleJSON(turns []models.ScheduleTurn) map[string]LegacyTurn {
	out := make(map[string]LegacyTurn, len(turns))
	for _, turn := range turns {
		legacy := LegacyTurn{
			Weeks:        make([]NormalizedWeek, 0, len(turn.Weeks)),
			CustomLength: turn.CustomLength,
		}
		for _, week := range turn.Weeks {
			legacy.Weeks = append(legacy.Weeks, NormalizedWeek{
				Date:      week.Date,
				Week:      week.Week,
				IsHoliday: week.IsHoliday,
			})
		}
		for _, link := range turn.HolidayLinks {
			legacy.Holidays = append(legacy.Holidays, LegacyHoliday{
				ID:        link.HolidayID,
				Name:      link.Holiday.Name,
				StartDate: ISODate(link.Holiday.StartDate),
				EndDate:   ISODate(link.Holiday.EndDate),
			})
		}
		out[turn.Name] = legacy
	}
	return out
}

// ISODate renders a holiday boundary as an ISO-8601 string. The legacy blob
// sometimes carries these as plain strings while the database returns
// time.Time, so both are accepted.
func ISODate(v any) string {
	switch d := v.(type) {
	case time.Time:
		return d.UTC().Format(time.RFC3339)
	case *time.Time:
		if d == nil {
			return ""
		}
		return d.UTC().Format(time.RFC3339)
	case string:
		if parsed, err := time.Parse(time.RFC3339, d); err == nil {
			return parsed.UTC().Format(time.RFC3339)
		}
		if parsed, err := time.Parse("2006-01-02", d); err == nil {
			return parsed.UTC().Format(time.RFC3339)
		}
		return d
	default:
		return ""
	}
}
