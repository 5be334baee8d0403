package pipeline

import (
	"fmt"
	"sort"

	"github.com/studiopulse/pulse/internal/dates"
	"github.com/studiopulse/pulse/internal/match"
	"github.com/studiopulse/pulse/internal/model"
)

// cohortKey identifies one (teacher, location, period) cell.
type cohortKey struct {
	Teacher  string
	Location string
	Period   string
}

// screenExclusions partitions clients into those eligible for cohorts and
// the friends/family/staff set. Exclusions are computed exactly once, before
// cohort iteration, so each excluded record gets a single audit entry.
func screenExclusions(clients []model.ClientRecord) ([]model.ClientRecord, []model.AuditEntry) {
	qualified := make([]model.ClientRecord, 0, len(clients))
	var excluded []model.AuditEntry

	for _, client := range clients {
		field, isExcluded := match.Excluded(client.MembershipUsed, client.FirstVisit)
		if !isExcluded {
			qualified = append(qualified, client)
			continue
		}

		label := client.MembershipUsed
		if field == "first visit" {
			label = client.FirstVisit
		}
		excluded = append(excluded, model.AuditEntry{
			Client: client,
			Reason: fmt.Sprintf("%s label %q matches friends/family/staff", field, label),
		})
	}
	return qualified, excluded
}

// buildCohorts groups qualified clients by their cohort key in a single
// pass. Clients attributed to UnknownTeacher never join a cohort: the
// teacher dimension only enumerates real teachers.
func buildCohorts(clients []model.ClientRecord) map[cohortKey][]model.ClientRecord {
	cohorts := make(map[cohortKey][]model.ClientRecord)
	for _, client := range clients {
		if client.Teacher == model.UnknownTeacher || client.Teacher == "" {
			continue
		}
		key := cohortKey{
			Teacher:  client.Teacher,
			Location: client.Location,
			Period:   dates.MonthYear(client.FirstVisitDate),
		}
		cohorts[key] = append(cohorts[key], client)
	}
	return cohorts
}

// distinctTeachers lists teacher names present in bookings, alphabetically,
// excluding the unknown placeholder.
func distinctTeachers(bookings []model.BookingRecord) []string {
	names := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if b.Teacher == "" || b.Teacher == model.UnknownTeacher {
			continue
		}
		names = append(names, b.Teacher)
	}
	names = DedupeBy(names, func(s string) string { return s })
	sort.Strings(names)
	return names
}

// distinctLocations lists client first-visit locations in first-seen order.
func distinctLocations(clients []model.ClientRecord) []string {
	locations := make([]string, 0, len(clients))
	for _, c := range clients {
		if c.Location != "" {
			locations = append(locations, c.Location)
		}
	}
	return DedupeBy(locations, func(s string) string { return s })
}

// distinctPeriods lists the month-year buckets of client first visits,
// reverse-chronologically.
func distinctPeriods(clients []model.ClientRecord) []string {
	periods := make([]string, 0, len(clients))
	for _, c := range clients {
		if p := dates.MonthYear(c.FirstVisitDate); p != "Unknown" {
			periods = append(periods, p)
		}
	}
	periods = DedupeBy(periods, func(s string) string { return s })
	dates.SortPeriodsDesc(periods)
	return periods
}
