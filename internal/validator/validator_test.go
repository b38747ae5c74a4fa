package validator

import "testing"

func TestValidateTenantID(t *testing.T) {
	for _, ok := range []string{"acme", "acme-corp", "a1", "tenant-42"} {
		if err := ValidateTenantID(ok); err != nil {
			t.Fatalf("%q: unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "A", "-acme", "Acme Corp", "a"} {
		if err := ValidateTenantID(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestValidateQuestCode(t *testing.T) {
	for _, ok := range []string{"DAILY_LOGIN", "WEEKLY_5_WINS", "X2"} {
		if err := ValidateQuestCode(ok); err != nil {
			t.Fatalf("%q: unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "daily_login", "DAILY LOGIN", "A"} {
		if err := ValidateQuestCode(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestValidateQuestPeriod(t *testing.T) {
	for _, ok := range []string{"daily", "weekly", "oneoff"} {
		if err := ValidateQuestPeriod(ok); err != nil {
			t.Fatalf("%q: unexpected error: %v", ok, err)
		}
	}
	if err := ValidateQuestPeriod("monthly"); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}
