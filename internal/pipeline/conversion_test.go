package pipeline

import (
	"testing"

	"github.com/studiopulse/pulse/internal/model"
)

func TestQualifyingSale(t *testing.T) {
	client := model.ClientRecord{
		Email:          "a@x.com",
		FirstVisitDate: "2024-01-05",
	}
	goodSale := model.SaleRecord{
		Category:  "Memberships",
		Item:      "Monthly Unlimited",
		Date:      "2024-01-20",
		SaleValue: 100,
		Email:     "a@x.com",
	}

	tests := []struct {
		name   string
		mutate func(*model.SaleRecord)
		want   bool
	}{
		{
			name:   "qualifying membership sale",
			mutate: func(*model.SaleRecord) {},
			want:   true,
		},
		{
			name: "paying customer email also links",
			mutate: func(s *model.SaleRecord) {
				s.Email = "partner@x.com"
				s.PayingEmail = "a@x.com"
			},
			want: true,
		},
		{
			name:   "unrelated email",
			mutate: func(s *model.SaleRecord) { s.Email = "b@x.com" },
			want:   false,
		},
		{
			name:   "sale on first visit date is not after it",
			mutate: func(s *model.SaleRecord) { s.Date = "2024-01-05" },
			want:   false,
		},
		{
			name:   "sale before first visit",
			mutate: func(s *model.SaleRecord) { s.Date = "2024-01-01" },
			want:   false,
		},
		{
			name:   "retail product never counts",
			mutate: func(s *model.SaleRecord) { s.Category = "Retail Product" },
			want:   false,
		},
		{
			name:   "money credits never count",
			mutate: func(s *model.SaleRecord) { s.Category = "Money Credits" },
			want:   false,
		},
		{
			name:   "2 for 1 item never counts",
			mutate: func(s *model.SaleRecord) { s.Item = "Newcomers 2 For 1" },
			want:   false,
		},
		{
			name:   "zero value",
			mutate: func(s *model.SaleRecord) { s.SaleValue = 0 },
			want:   false,
		},
		{
			name:   "negative value",
			mutate: func(s *model.SaleRecord) { s.SaleValue = -50 },
			want:   false,
		},
		{
			name:   "refunded",
			mutate: func(s *model.SaleRecord) { s.Refunded = true },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := goodSale
			tt.mutate(&sale)
			if got := qualifyingSale(client, sale); got != tt.want {
				t.Errorf("qualifyingSale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQualifyingSaleEmptyClientEmail(t *testing.T) {
	client := model.ClientRecord{FirstVisitDate: "2024-01-05"}
	sale := model.SaleRecord{
		Category:  "Memberships",
		Date:      "2024-01-20",
		SaleValue: 100,
	}
	if qualifyingSale(client, sale) {
		t.Error("a client without an email can never have a qualifying sale")
	}
}

func TestClientPurchases(t *testing.T) {
	client := model.ClientRecord{
		Email:          "a@x.com",
		FirstVisitDate: "2024-01-05",
	}
	sales := []model.SaleRecord{
		{Category: "Memberships", Item: "Class Pack", Date: "2024-02-01", SaleValue: 60, Email: "a@x.com"},
		{Category: "Memberships", Item: "Monthly Unlimited", Date: "2024-01-20", SaleValue: 100, Email: "a@x.com"},
		{Category: "Retail Product", Item: "Grip Socks", Date: "2024-01-21", SaleValue: 15, Email: "a@x.com"},
		{Category: "Memberships", Item: "Other Client", Date: "2024-01-10", SaleValue: 40, Email: "b@x.com"},
	}

	p := clientPurchases(client, sales)

	if len(p.sales) != 2 {
		t.Fatalf("qualifying sales = %d, want 2", len(p.sales))
	}
	if p.total != 160 {
		t.Errorf("total = %v, want 160", p.total)
	}
	if p.firstDate != "2024-01-20" || p.firstItem != "Monthly Unlimited" {
		t.Errorf("first purchase = (%q, %q), want (2024-01-20, Monthly Unlimited)", p.firstDate, p.firstItem)
	}
}

func TestClientPurchasesTieKeepsSourceOrder(t *testing.T) {
	client := model.ClientRecord{Email: "a@x.com", FirstVisitDate: "2024-01-05"}
	sales := []model.SaleRecord{
		{Category: "Memberships", Item: "First In File", Date: "2024-01-20", SaleValue: 50, Email: "a@x.com"},
		{Category: "Memberships", Item: "Second In File", Date: "2024-01-20", SaleValue: 50, Email: "a@x.com"},
	}

	p := clientPurchases(client, sales)
	if p.firstItem != "First In File" {
		t.Errorf("firstItem = %q, want the first sale in source order", p.firstItem)
	}
}

func TestClientPurchasesNone(t *testing.T) {
	client := model.ClientRecord{Email: "a@x.com", FirstVisitDate: "2024-01-05"}
	p := clientPurchases(client, nil)
	if len(p.sales) != 0 || p.total != 0 || p.firstDate != "" {
		t.Errorf("expected empty purchases, got %+v", p)
	}
}
