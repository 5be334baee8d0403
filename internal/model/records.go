// Package model defines the core domain records used throughout the application.
package model

// UnknownTeacher is attached to a client whose first visit matches no booking.
const UnknownTeacher = "Unknown"

// ClientRecord represents one first-time visitor row from a new-client export.
// Dates are canonical "YYYY-MM-DD" strings after normalization; unparseable
// source values pass through unchanged.
type ClientRecord struct {
	Email          string
	FirstName      string
	LastName       string
	Phone          string
	PaymentMethod  string
	MembershipUsed string // free-text membership label, drives channel classification
	FirstVisit     string // first-visit class label
	FirstVisitDate string
	Location       string // first-visit location
	HomeLocation   string
	Teacher        string // attached during attribution; UnknownTeacher when no booking matches
}

// Name returns the client's display name.
func (c ClientRecord) Name() string {
	switch {
	case c.FirstName == "" && c.LastName == "":
		return c.Email
	case c.LastName == "":
		return c.FirstName
	case c.FirstName == "":
		return c.LastName
	}
	return c.FirstName + " " + c.LastName
}

// BookingRecord represents one scheduled class attendance, including
// cancellations and no-shows.
type BookingRecord struct {
	SaleDate       string
	ClassName      string
	ClassDate      string
	Location       string
	Teacher        string
	Email          string // customer email, the join key to clients and sales
	PaymentMethod  string
	MembershipUsed string
	SaleValue      float64
	Tax            float64
	Cancelled      bool
	LateCancelled  bool
	NoShow         bool
	SoldBy         string
	Refunded       bool
	HomeLocation   string
}

// Attended reports whether the booking was an actual attended visit:
// not cancelled, not late-cancelled, and not a no-show.
func (b BookingRecord) Attended() bool {
	return !b.Cancelled && !b.LateCancelled && !b.NoShow
}

// SaleRecord represents one purchase or payment transaction.
type SaleRecord struct {
	Category      string // free text, used for exclusion
	Item          string // free text, used for "2 for 1" exclusion
	Date          string
	SaleValue     float64
	Tax           float64
	Refunded      bool
	PaymentMethod string
	PaymentStatus string
	SoldBy        string
	PayingEmail   string // paying customer, may differ from the attendee
	PayingName    string
	Email         string
	CustomerName  string
	Location      string
	Note          string
}
