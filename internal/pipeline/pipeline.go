// Package pipeline implements the record-matching and metrics-derivation
// core: it links new-client rows to bookings and sales, applies the
// inclusion/exclusion policy, evaluates retention and conversion per cohort,
// and aggregates per-teacher and per-location performance records.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studiopulse/pulse/internal/dates"
	"github.com/studiopulse/pulse/internal/match"
	"github.com/studiopulse/pulse/internal/model"
)

// Inputs are the three normalized record sets a run operates on. The
// pipeline treats them as immutable snapshots; empty slices are valid and
// produce an empty result.
type Inputs struct {
	Clients  []model.ClientRecord
	Bookings []model.BookingRecord
	Sales    []model.SaleRecord
}

// Pipeline derives studio performance metrics from raw record sets.
type Pipeline struct {
	logger   *slog.Logger
	progress ProgressFunc
}

// New creates a pipeline. Both arguments may be nil.
func New(logger *slog.Logger, progress ProgressFunc) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger, progress: progress}
}

// Process runs the full derivation: normalize-time work has already
// happened in ingest, so the phases here are teacher attribution, exclusion
// screening, cohort grouping, per-cohort evaluation, and per-location
// rollups. Malformed data never fails a run; the only error paths are
// context cancellation, checked between cohorts.
func (p *Pipeline) Process(ctx context.Context, in Inputs) (*model.Result, error) {
	p.logger.Info("Starting pipeline",
		"clients", len(in.Clients),
		"bookings", len(in.Bookings),
		"sales", len(in.Sales))

	p.report(0, "Attributing teachers")
	clients := attributeTeachers(in.Clients, in.Bookings)

	p.report(5, "Screening exclusions")
	qualified, excluded := screenExclusions(clients)

	result := &model.Result{
		Excluded:  excluded,
		Locations: distinctLocations(clients),
		Teachers:  distinctTeachers(in.Bookings),
		Periods:   distinctPeriods(clients),
	}

	p.report(10, "Building cohorts")
	cohorts := buildCohorts(qualified)

	cells := len(result.Locations) * len(result.Teachers) * len(result.Periods)
	done := 0

	for _, location := range result.Locations {
		locationStart := len(result.Metrics)

		for _, teacher := range result.Teachers {
			for _, period := range result.Periods {
				done++
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				key := cohortKey{Teacher: teacher, Location: location, Period: period}
				cohort := cohorts[key]
				if len(cohort) == 0 {
					continue
				}

				metrics := p.evaluateCohort(cohort, key, in, result)
				result.Metrics = append(result.Metrics, metrics)

				if cells > 0 {
					p.report(10+done*80/cells, fmt.Sprintf("Evaluating %s at %s (%s)", teacher, location, period))
				}
			}
		}

		if len(result.Metrics) > locationStart {
			result.Metrics = append(result.Metrics,
				rollupLocation(location, result.Metrics[locationStart:]))
		}
	}

	p.report(95, "Finalizing")

	p.logger.Info("Pipeline complete",
		"cohorts", len(result.Metrics),
		"excluded", len(result.Excluded),
		"converted", len(result.Converted),
		"retained", len(result.Retained))

	p.report(100, "Complete")
	return result, nil
}

// evaluateCohort derives one metrics record for a non-empty cohort and
// appends the per-client audit entries.
func (p *Pipeline) evaluateCohort(cohort []model.ClientRecord, key cohortKey, in Inputs, result *model.Result) model.TeacherMetrics {
	m := model.TeacherMetrics{
		Teacher:         key.Teacher,
		Location:        key.Location,
		Period:          key.Period,
		RevenueByWeek:   make(map[string]float64),
		ClientsBySource: make(map[string]int),
	}

	for _, channel := range match.Channels {
		m.ClientsBySource[string(channel)] = 0
	}

	for _, client := range cohort {
		channel := match.Classify(client.MembershipUsed, client.FirstVisit)
		m.NewClients++
		m.ClientsBySource[string(channel)]++

		detail := model.ClientDetail{
			Email:          client.Email,
			Name:           client.Name(),
			Channel:        string(channel),
			FirstVisit:     client.FirstVisit,
			FirstVisitDate: client.FirstVisitDate,
		}
		m.NewClientDetails = append(m.NewClientDetails, detail)

		result.Included = append(result.Included, model.AuditEntry{
			Client: client,
			Reason: fmt.Sprintf("assigned to cohort %s / %s / %s", key.Teacher, key.Location, key.Period),
		})
		result.NewClients = append(result.NewClients, model.AuditEntry{
			Client: client,
			Reason: fmt.Sprintf("new client acquired via %s channel", channel),
		})

		visits, firstReturn := returnVisits(client, in.Bookings)
		if visits >= retentionThreshold(client) {
			m.RetainedClients++

			retained := detail
			retained.ReturnVisits = visits
			retained.FirstReturnDate = firstReturn
			retained.DaysToReturn = dates.DaysBetween(client.FirstVisitDate, firstReturn)
			m.RetainedClientDetails = append(m.RetainedClientDetails, retained)

			result.Retained = append(result.Retained, model.AuditEntry{
				Client: client,
				Reason: fmt.Sprintf("%d qualifying return visits, first on %s", visits, firstReturn),
			})
		}

		bought := clientPurchases(client, in.Sales)
		if len(bought.sales) > 0 {
			m.ConvertedClients++
			m.TotalRevenue += bought.total

			converted := detail
			converted.TotalSpend = bought.total
			converted.FirstPurchaseDate = bought.firstDate
			converted.FirstPurchaseItem = bought.firstItem
			m.ConvertedClientDetails = append(m.ConvertedClientDetails, converted)

			result.Converted = append(result.Converted, model.AuditEntry{
				Client: client,
				Reason: fmt.Sprintf("first purchase %q on %s, total spend %.2f", bought.firstItem, bought.firstDate, bought.total),
			})

			for _, sale := range bought.sales {
				if week, ok := dates.WeekStart(sale.Date); ok {
					m.RevenueByWeek[week] += sale.SaleValue
				}
			}
		}
	}

	m.Trials = m.ClientsBySource[string(match.ChannelTrial)]
	m.Referrals = m.ClientsBySource[string(match.ChannelReferral)]
	m.Hosted = m.ClientsBySource[string(match.ChannelHosted)]
	m.InfluencerSignups = m.ClientsBySource[string(match.ChannelInfluencer)]
	m.Others = m.ClientsBySource[string(match.ChannelOther)]

	tally := tallyBookings(in.Bookings, key)
	m.TotalBookings = tally.bookings
	m.TotalVisits = tally.visits
	m.Cancellations = tally.cancellations
	m.LateCancellations = tally.lateCancellations
	m.NoShows = tally.noShows
	m.TotalClasses = tally.classes
	m.UniqueClients = tally.uniqueClients

	finalizeRates(&m)
	return m
}
