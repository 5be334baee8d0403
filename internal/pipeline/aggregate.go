package pipeline

import (
	"github.com/studiopulse/pulse/internal/dates"
	"github.com/studiopulse/pulse/internal/match"
	"github.com/studiopulse/pulse/internal/model"
)

// bookingTally holds booking-derived counts for one cohort cell, computed
// over the system-wide booking set filtered to (teacher, location, period).
type bookingTally struct {
	bookings          int
	visits            int
	cancellations     int
	lateCancellations int
	noShows           int
	classes           int
	uniqueClients     int
}

// tallyBookings filters bookings to a cohort cell and counts visits,
// cancellations and distinct classes/attendees. The three flags are
// independent, so a booking can contribute to more than one count.
func tallyBookings(bookings []model.BookingRecord, key cohortKey) bookingTally {
	var t bookingTally
	classNames := make(map[string]struct{})
	attendees := make(map[string]struct{})

	for _, b := range bookings {
		if b.Teacher != key.Teacher || b.Location != key.Location {
			continue
		}
		if dates.MonthYear(b.ClassDate) != key.Period {
			continue
		}

		t.bookings++
		if b.Attended() {
			t.visits++
		}
		if b.Cancelled {
			t.cancellations++
		}
		if b.LateCancelled {
			t.lateCancellations++
		}
		if b.NoShow {
			t.noShows++
		}
		if b.ClassName != "" {
			classNames[b.ClassName] = struct{}{}
		}
		if b.Email != "" {
			attendees[b.Email] = struct{}{}
		}
	}

	t.classes = len(classNames)
	t.uniqueClients = len(attendees)
	return t
}

// rate returns num/denom as a percentage, or 0 when the denominator is zero.
// Every rate in the output goes through here so empty cohorts produce 0
// rather than NaN or Inf.
func rate(num, denom int) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom) * 100
}

// average returns total/n, or 0 when n is zero.
func average(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// finalizeRates recomputes every derived rate on a metrics record from its
// counts. Used both for fresh cohort records and for location rollups, whose
// rates must come from the summed counts rather than averaged percentages.
func finalizeRates(m *model.TeacherMetrics) {
	m.RetentionRate = rate(m.RetainedClients, m.NewClients)
	m.ConversionRate = rate(m.ConvertedClients, m.NewClients)
	m.AverageRevenuePerClient = average(m.TotalRevenue, m.ConvertedClients)
	m.NoShowRate = rate(m.NoShows, m.TotalBookings)
	m.LateCancellationRate = rate(m.LateCancellations, m.TotalBookings)

	converted := make(map[string]int)
	for _, d := range m.ConvertedClientDetails {
		converted[d.Channel]++
	}
	m.FirstTimeBuyerRate = rate(m.ConvertedClients, m.NewClients)
	m.InfluencerConversionRate = rate(converted[string(match.ChannelInfluencer)], m.InfluencerSignups)
	m.ReferralConversionRate = rate(converted[string(match.ChannelReferral)], m.Referrals)
	m.TrialToMembershipRate = rate(converted[string(match.ChannelTrial)], m.Trials)
}

// rollupLocation folds a location's cohort records into one synthetic
// "All Teachers" record: counts, revenue and source counts summed, detail
// lists concatenated, weekly revenue merged key-wise, and every rate
// recomputed from the summed counts.
func rollupLocation(location string, cohorts []model.TeacherMetrics) model.TeacherMetrics {
	r := model.TeacherMetrics{
		Teacher:         model.RollupTeacher,
		Location:        location,
		Period:          model.RollupPeriod,
		RevenueByWeek:   make(map[string]float64),
		ClientsBySource: make(map[string]int),
	}

	for _, m := range cohorts {
		r.NewClients += m.NewClients
		r.Trials += m.Trials
		r.Referrals += m.Referrals
		r.Hosted += m.Hosted
		r.InfluencerSignups += m.InfluencerSignups
		r.Others += m.Others

		r.RetainedClients += m.RetainedClients
		r.ConvertedClients += m.ConvertedClients
		r.TotalRevenue += m.TotalRevenue

		r.TotalBookings += m.TotalBookings
		r.TotalVisits += m.TotalVisits
		r.Cancellations += m.Cancellations
		r.LateCancellations += m.LateCancellations
		r.NoShows += m.NoShows
		r.TotalClasses += m.TotalClasses
		r.UniqueClients += m.UniqueClients

		r.NewClientDetails = append(r.NewClientDetails, m.NewClientDetails...)
		r.RetainedClientDetails = append(r.RetainedClientDetails, m.RetainedClientDetails...)
		r.ConvertedClientDetails = append(r.ConvertedClientDetails, m.ConvertedClientDetails...)

		for week, revenue := range m.RevenueByWeek {
			r.RevenueByWeek[week] += revenue
		}
		for source, count := range m.ClientsBySource {
			r.ClientsBySource[source] += count
		}
	}

	finalizeRates(&r)
	return r
}
