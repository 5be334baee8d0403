package pipeline

import (
	"github.com/studiopulse/pulse/internal/dates"
	"github.com/studiopulse/pulse/internal/match"
	"github.com/studiopulse/pulse/internal/model"
)

// returnVisits counts a client's qualifying return visits and returns the
// date of the earliest one. A qualifying return visit is a booking with the
// client's email, a class date strictly after their first visit, attended in
// full (not cancelled, late-cancelled, or a no-show).
func returnVisits(client model.ClientRecord, bookings []model.BookingRecord) (int, string) {
	if client.Email == "" {
		return 0, ""
	}

	count := 0
	first := ""
	for _, b := range bookings {
		if b.Email != client.Email || !b.Attended() {
			continue
		}
		if !dates.IsAfter(b.ClassDate, client.FirstVisitDate) {
			continue
		}
		count++
		if first == "" || dates.IsAfter(first, b.ClassDate) {
			first = b.ClassDate
		}
	}
	return count, first
}

// retentionThreshold is the number of return visits a client needs to count
// as retained. "2 for 1" first visits bring a companion, so a single return
// is not evidence the client themselves came back.
func retentionThreshold(client model.ClientRecord) int {
	if match.IsTwoForOne(client.FirstVisit) {
		return 2
	}
	return 1
}
