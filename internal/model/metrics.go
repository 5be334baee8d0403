package model

// RollupTeacher names the synthetic per-location record aggregating all of
// that location's cohorts.
const RollupTeacher = "All Teachers"

// RollupPeriod is the period label carried by per-location rollup records.
const RollupPeriod = "All"

// ClientDetail captures one client's contribution to a metrics record.
// NewClientDetails populate the identity and channel fields;
// RetainedClientDetails add return-visit fields; ConvertedClientDetails add
// purchase fields.
type ClientDetail struct {
	Email             string
	Name              string
	Channel           string
	FirstVisit        string
	FirstVisitDate    string
	ReturnVisits      int
	FirstReturnDate   string
	DaysToReturn      int
	TotalSpend        float64
	FirstPurchaseDate string
	FirstPurchaseItem string
}

// TeacherMetrics is one derived performance record for a
// (teacher, location, period) cohort, or the per-location rollup.
type TeacherMetrics struct {
	Teacher  string
	Location string
	Period   string // "Mon YY" label, or RollupPeriod for rollups

	// Acquisition. The five channel buckets are mutually exclusive and sum
	// to NewClients.
	NewClients        int
	Trials            int
	Referrals         int
	Hosted            int
	InfluencerSignups int
	Others            int

	// Retention.
	RetainedClients int
	RetentionRate   float64

	// Conversion.
	ConvertedClients        int
	ConversionRate          float64
	TotalRevenue            float64
	AverageRevenuePerClient float64

	// Booking-derived tallies over bookings filtered to this cohort's
	// teacher, location and period. TotalBookings is the denominator of the
	// no-show and late-cancellation rates.
	TotalBookings        int
	TotalVisits          int
	Cancellations        int
	LateCancellations    int
	NoShows              int
	TotalClasses         int
	UniqueClients        int
	NoShowRate           float64
	LateCancellationRate float64

	// Channel conversion rates.
	FirstTimeBuyerRate       float64
	InfluencerConversionRate float64
	ReferralConversionRate   float64
	TrialToMembershipRate    float64

	NewClientDetails       []ClientDetail
	RetainedClientDetails  []ClientDetail
	ConvertedClientDetails []ClientDetail

	// Chart-ready aggregates: qualifying sale revenue keyed by Sunday
	// week-start date, and new-client counts keyed by channel.
	RevenueByWeek   map[string]float64
	ClientsBySource map[string]int
}

// AuditEntry records why a client row was classified into one of the
// side-channel audit lists.
type AuditEntry struct {
	Client ClientRecord
	Reason string
}

// Result is the complete output bundle of one pipeline run.
type Result struct {
	Metrics []TeacherMetrics

	// Deduplicated dimension values: Locations in first-seen order,
	// Teachers alphabetical, Periods reverse-chronological.
	Locations []string
	Teachers  []string
	Periods   []string

	// Audit lists for drill-down and debugging.
	Included   []AuditEntry
	Excluded   []AuditEntry
	NewClients []AuditEntry
	Converted  []AuditEntry
	Retained   []AuditEntry
}
