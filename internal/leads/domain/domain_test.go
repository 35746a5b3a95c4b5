package domain

import "testing"

func TestIsFullyConfirmed(t *testing.T) {
	cases := []struct {
		name    string
		status  Status
		payment PaymentStatus
		want    bool
	}{
		{"confirmed and paid", StatusConfirmado, PaymentCompleto, true},
		{"confirmed with deposit only", StatusConfirmado, PaymentSena, false},
		{"confirmed unpaid", StatusConfirmado, PaymentPendiente, false},
		{"paid but not confirmed", StatusInteresado, PaymentCompleto, false},
		{"new lead", StatusNuevo, PaymentPendiente, false},
		{"discarded but paid", StatusDescartado, PaymentCompleto, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsFullyConfirmed(tc.status, tc.payment)
			if got != tc.want {
				t.Fatalf("IsFullyConfirmed(%q, %q) = %v, want %v", tc.status, tc.payment, got, tc.want)
			}
		})
	}
}
