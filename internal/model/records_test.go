package model

import "testing"

func TestClientName(t *testing.T) {
	tests := []struct {
		name   string
		client ClientRecord
		want   string
	}{
		{"both names", ClientRecord{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"first only", ClientRecord{FirstName: "Ada"}, "Ada"},
		{"last only", ClientRecord{LastName: "Lovelace"}, "Lovelace"},
		{"falls back to email", ClientRecord{Email: "a@x.com"}, "a@x.com"},
		{"fully empty", ClientRecord{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.client.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBookingAttended(t *testing.T) {
	tests := []struct {
		name    string
		booking BookingRecord
		want    bool
	}{
		{"clean booking", BookingRecord{}, true},
		{"cancelled", BookingRecord{Cancelled: true}, false},
		{"late cancelled", BookingRecord{LateCancelled: true}, false},
		{"no show", BookingRecord{NoShow: true}, false},
		{"refunded still attended", BookingRecord{Refunded: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.booking.Attended(); got != tt.want {
				t.Errorf("Attended() = %v, want %v", got, tt.want)
			}
		})
	}
}
