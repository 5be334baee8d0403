package pipeline

import (
	"testing"

	"github.com/studiopulse/pulse/internal/match"
	"github.com/studiopulse/pulse/internal/model"
)

func TestRate(t *testing.T) {
	tests := []struct {
		name  string
		num   int
		denom int
		want  float64
	}{
		{"half", 1, 2, 50},
		{"full", 3, 3, 100},
		{"zero numerator", 0, 5, 0},
		{"zero denominator", 7, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rate(tt.num, tt.denom); got != tt.want {
				t.Errorf("rate(%d, %d) = %v, want %v", tt.num, tt.denom, got, tt.want)
			}
		})
	}
}

func TestAverage(t *testing.T) {
	if got := average(150, 3); got != 50 {
		t.Errorf("average(150, 3) = %v, want 50", got)
	}
	if got := average(150, 0); got != 0 {
		t.Errorf("average(150, 0) = %v, want 0", got)
	}
}

func TestTallyBookings(t *testing.T) {
	key := cohortKey{Teacher: "Jane", Location: "Downtown", Period: "Jan 24"}
	bookings := []model.BookingRecord{
		{Teacher: "Jane", Location: "Downtown", ClassDate: "2024-01-05", ClassName: "Mat Class", Email: "a@x.com"},
		{Teacher: "Jane", Location: "Downtown", ClassDate: "2024-01-12", ClassName: "Mat Class", Email: "a@x.com", NoShow: true},
		{Teacher: "Jane", Location: "Downtown", ClassDate: "2024-01-19", ClassName: "Barre", Email: "b@x.com", Cancelled: true, LateCancelled: true},
		// Filtered out: wrong teacher, location, or month.
		{Teacher: "Maya", Location: "Downtown", ClassDate: "2024-01-05", ClassName: "Mat Class", Email: "c@x.com"},
		{Teacher: "Jane", Location: "Uptown", ClassDate: "2024-01-05", ClassName: "Mat Class", Email: "d@x.com"},
		{Teacher: "Jane", Location: "Downtown", ClassDate: "2024-02-05", ClassName: "Mat Class", Email: "e@x.com"},
	}

	tally := tallyBookings(bookings, key)

	if tally.bookings != 3 {
		t.Errorf("bookings = %d, want 3", tally.bookings)
	}
	if tally.visits != 1 {
		t.Errorf("visits = %d, want 1", tally.visits)
	}
	if tally.cancellations != 1 || tally.lateCancellations != 1 || tally.noShows != 1 {
		t.Errorf("flag counts = (%d, %d, %d), want (1, 1, 1); flags are independent",
			tally.cancellations, tally.lateCancellations, tally.noShows)
	}
	if tally.classes != 2 {
		t.Errorf("classes = %d, want 2 distinct class names", tally.classes)
	}
	if tally.uniqueClients != 2 {
		t.Errorf("uniqueClients = %d, want 2 distinct emails", tally.uniqueClients)
	}
}

func TestFinalizeRates(t *testing.T) {
	m := model.TeacherMetrics{
		NewClients:        4,
		Trials:            2,
		Referrals:         1,
		InfluencerSignups: 1,
		RetainedClients:   2,
		ConvertedClients:  2,
		TotalRevenue:      300,
		TotalBookings:     10,
		NoShows:           1,
		LateCancellations: 2,
		ConvertedClientDetails: []model.ClientDetail{
			{Channel: string(match.ChannelTrial)},
			{Channel: string(match.ChannelReferral)},
		},
	}

	finalizeRates(&m)

	if m.RetentionRate != 50 {
		t.Errorf("RetentionRate = %v, want 50", m.RetentionRate)
	}
	if m.ConversionRate != 50 {
		t.Errorf("ConversionRate = %v, want 50", m.ConversionRate)
	}
	if m.AverageRevenuePerClient != 150 {
		t.Errorf("AverageRevenuePerClient = %v, want 150", m.AverageRevenuePerClient)
	}
	if m.NoShowRate != 10 {
		t.Errorf("NoShowRate = %v, want 10", m.NoShowRate)
	}
	if m.LateCancellationRate != 20 {
		t.Errorf("LateCancellationRate = %v, want 20", m.LateCancellationRate)
	}
	if m.FirstTimeBuyerRate != 50 {
		t.Errorf("FirstTimeBuyerRate = %v, want 50", m.FirstTimeBuyerRate)
	}
	if m.TrialToMembershipRate != 50 {
		t.Errorf("TrialToMembershipRate = %v, want 50 (1 of 2 trials converted)", m.TrialToMembershipRate)
	}
	if m.ReferralConversionRate != 100 {
		t.Errorf("ReferralConversionRate = %v, want 100 (1 of 1 referrals converted)", m.ReferralConversionRate)
	}
	if m.InfluencerConversionRate != 0 {
		t.Errorf("InfluencerConversionRate = %v, want 0", m.InfluencerConversionRate)
	}
}

func TestFinalizeRatesEmptyCohort(t *testing.T) {
	var m model.TeacherMetrics
	finalizeRates(&m)

	rates := map[string]float64{
		"RetentionRate":        m.RetentionRate,
		"ConversionRate":       m.ConversionRate,
		"AverageRevenue":       m.AverageRevenuePerClient,
		"NoShowRate":           m.NoShowRate,
		"LateCancellationRate": m.LateCancellationRate,
		"FirstTimeBuyerRate":   m.FirstTimeBuyerRate,
	}
	for name, value := range rates {
		if value != 0 {
			t.Errorf("%s = %v, want 0 on zero denominators", name, value)
		}
	}
}

func TestRollupLocation(t *testing.T) {
	cohorts := []model.TeacherMetrics{
		{
			Teacher: "Jane", Location: "Downtown", Period: "Jan 24",
			NewClients: 1, Trials: 1,
			RetainedClients: 1, ConvertedClients: 1,
			TotalRevenue:  100,
			TotalBookings: 4, NoShows: 1,
			RevenueByWeek:   map[string]float64{"2024-01-14": 100},
			ClientsBySource: map[string]int{"Trial": 1},
			ConvertedClientDetails: []model.ClientDetail{
				{Email: "a@x.com", Channel: "Trial"},
			},
		},
		{
			Teacher: "Maya", Location: "Downtown", Period: "Jan 24",
			NewClients: 3, Others: 3,
			TotalBookings: 6, NoShows: 2,
			RevenueByWeek:   map[string]float64{"2024-01-14": 50},
			ClientsBySource: map[string]int{"Other": 3},
		},
	}

	r := rollupLocation("Downtown", cohorts)

	if r.Teacher != model.RollupTeacher || r.Period != model.RollupPeriod || r.Location != "Downtown" {
		t.Errorf("rollup identity = (%q, %q, %q)", r.Teacher, r.Location, r.Period)
	}
	if r.NewClients != 4 || r.RetainedClients != 1 || r.ConvertedClients != 1 {
		t.Errorf("summed counts = (%d, %d, %d), want (4, 1, 1)", r.NewClients, r.RetainedClients, r.ConvertedClients)
	}
	if r.TotalRevenue != 100 {
		t.Errorf("TotalRevenue = %v, want 100", r.TotalRevenue)
	}

	// Rates must be recomputed from the summed counts, not averaged: Jane
	// alone converts at 100%, Maya at 0%, the rollup at 1 of 4.
	if r.ConversionRate != 25 {
		t.Errorf("ConversionRate = %v, want 25", r.ConversionRate)
	}
	if r.NoShowRate != 30 {
		t.Errorf("NoShowRate = %v, want 30 (3 of 10 bookings)", r.NoShowRate)
	}

	if r.RevenueByWeek["2024-01-14"] != 150 {
		t.Errorf("RevenueByWeek merge = %v, want 150", r.RevenueByWeek["2024-01-14"])
	}
	if r.ClientsBySource["Trial"] != 1 || r.ClientsBySource["Other"] != 3 {
		t.Errorf("ClientsBySource merge = %v", r.ClientsBySource)
	}
	if len(r.ConvertedClientDetails) != 1 {
		t.Errorf("ConvertedClientDetails = %d entries, want 1", len(r.ConvertedClientDetails))
	}
}
