package pipeline

import (
	"strings"

	"github.com/studiopulse/pulse/internal/dates"
	"github.com/studiopulse/pulse/internal/model"
)

// qualifyingSale applies the five-predicate purchase rule: the sale belongs
// to the client (as customer or paying customer), happened strictly after
// their first visit, is not retail product or money credits, is not a
// "2 for 1" item, has a positive value, and was not refunded.
func qualifyingSale(client model.ClientRecord, sale model.SaleRecord) bool {
	if client.Email == "" {
		return false
	}
	if sale.Email != client.Email && sale.PayingEmail != client.Email {
		return false
	}
	if !dates.IsAfter(sale.Date, client.FirstVisitDate) {
		return false
	}

	category := strings.ToLower(sale.Category)
	if strings.Contains(category, "product") || strings.Contains(category, "money credits") {
		return false
	}
	if strings.Contains(strings.ToLower(sale.Item), "2 for 1") {
		return false
	}

	return sale.SaleValue > 0 && !sale.Refunded
}

// purchases aggregates a client's qualifying sales.
type purchases struct {
	firstDate string
	firstItem string
	sales     []model.SaleRecord
	total     float64
}

// clientPurchases scans all sales for a client's qualifying purchases,
// summing their values and tracking the earliest one. Ties on the earliest
// date keep the first sale in source order.
func clientPurchases(client model.ClientRecord, sales []model.SaleRecord) purchases {
	var p purchases
	for _, sale := range sales {
		if !qualifyingSale(client, sale) {
			continue
		}
		p.sales = append(p.sales, sale)
		p.total += sale.SaleValue
		if p.firstDate == "" || dates.IsAfter(p.firstDate, sale.Date) {
			p.firstDate = sale.Date
			p.firstItem = sale.Item
		}
	}
	return p
}
