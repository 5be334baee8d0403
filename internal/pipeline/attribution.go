package pipeline

import (
	"github.com/studiopulse/pulse/internal/model"
)

// attributeTeachers enriches each client with the teacher of their first
// visit: the first booking in source order whose customer email, class name,
// class date and location all equal the client's first-visit fields. Clients
// with no matching booking are attributed to UnknownTeacher.
//
// Bookings are indexed by email; per-email source order is preserved so the
// index does not change the first-match tie-break.
func attributeTeachers(clients []model.ClientRecord, bookings []model.BookingRecord) []model.ClientRecord {
	byEmail := make(map[string][]int, len(bookings))
	for i, b := range bookings {
		if b.Email == "" {
			continue
		}
		byEmail[b.Email] = append(byEmail[b.Email], i)
	}

	out := make([]model.ClientRecord, len(clients))
	for i, client := range clients {
		out[i] = client
		out[i].Teacher = model.UnknownTeacher

		if client.Email == "" {
			continue
		}
		for _, idx := range byEmail[client.Email] {
			b := bookings[idx]
			if b.ClassName == client.FirstVisit &&
				b.ClassDate == client.FirstVisitDate &&
				b.Location == client.Location {
				if b.Teacher != "" {
					out[i].Teacher = b.Teacher
				}
				break
			}
		}
	}
	return out
}
