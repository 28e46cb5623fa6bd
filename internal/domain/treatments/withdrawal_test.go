package treatments_test

import (
	"testing"
	"time"

	"herd-treatment-log/internal/domain/treatments"
)

func caseWithEntry(e treatments.Entry) treatments.Case {
	return treatments.Case{
		ID:         1,
		UnitNumber: "A12",
		Status:     treatments.StatusInTreatment,
		Entries:    []treatments.Entry{e},
	}
}

func TestWithdrawalFor_ActiveWithFullDaysRemaining(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := caseWithEntry(treatments.Entry{Date: now, WaitingPeriodDays: 3})

	w := treatments.WithdrawalFor(c, now)
	if !w.Active {
		t.Fatal("expected withdrawal active")
	}
	if w.RemainingDays != 3 {
		t.Fatalf("expected 3 remaining days, got %d", w.RemainingDays)
	}
	if want := now.AddDate(0, 0, 3); !w.EndDate.Equal(want) {
		t.Fatalf("expected end date %v, got %v", want, w.EndDate)
	}
}

func TestWithdrawalFor_PartialDaysRoundUp(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := caseWithEntry(treatments.Entry{Date: start, WaitingPeriodDays: 3})

	// a mitad del último día sigue contando como un día entero
	now := start.AddDate(0, 0, 2).Add(12 * time.Hour)
	w := treatments.WithdrawalFor(c, now)
	if !w.Active {
		t.Fatal("expected withdrawal still active")
	}
	if w.RemainingDays != 1 {
		t.Fatalf("expected 1 remaining day, got %d", w.RemainingDays)
	}
}

func TestWithdrawalFor_ExpiredExactlyAtEnd(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := caseWithEntry(treatments.Entry{Date: start, WaitingPeriodDays: 3})

	now := start.AddDate(0, 0, 3)
	w := treatments.WithdrawalFor(c, now)
	if w.Active {
		t.Fatal("withdrawal must end exactly at the boundary")
	}
	if w.RemainingDays != 0 {
		t.Fatalf("expected 0 remaining days, got %d", w.RemainingDays)
	}
}

func TestWithdrawalFor_ZeroPeriodNeverActive(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := caseWithEntry(treatments.Entry{Date: now, WaitingPeriodDays: 0})

	if w := treatments.WithdrawalFor(c, now); w.Active {
		t.Fatal("zero waiting period must not produce an active withdrawal")
	}
}

func TestWithdrawalFor_UsesLatestEntryOnly(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	c := treatments.Case{
		ID:         1,
		UnitNumber: "A12",
		Entries: []treatments.Entry{
			{Date: now.AddDate(0, 0, -30), WaitingPeriodDays: 28}, // ya vencido
			{Date: now, WaitingPeriodDays: 5},
		},
	}

	w := treatments.WithdrawalFor(c, now)
	if !w.Active || w.RemainingDays != 5 {
		t.Fatalf("expected active withdrawal of 5 days from latest entry, got %+v", w)
	}
}

func TestWithdrawalFor_LegacyShape(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	legacy := treatments.Entry{Date: now, WaitingPeriodDays: 2}
	c := treatments.Case{ID: 1, UnitNumber: "B7", LegacyEntry: &legacy}

	w := treatments.WithdrawalFor(c, now)
	if !w.Active || w.RemainingDays != 2 {
		t.Fatalf("legacy single-entry case must still compute withdrawal, got %+v", w)
	}
}
