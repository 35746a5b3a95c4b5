package domain

import (
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Retiro de Yoga", "retiro-de-yoga"},
		{"  Luna Llena  ", "luna-llena"},
		{"Otoño & Meditación!", "otono-meditacion"},
		{"---ya---con---guiones---", "ya-con-guiones"},
		{"UPPER case 2026", "upper-case-2026"},
	}

	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestDurationDays(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC)

	r := Retreat{StartDate: start, EndDate: end}
	if got := r.DurationDays(); got != 4 {
		t.Fatalf("DurationDays = %d, want 4", got)
	}

	single := Retreat{StartDate: start, EndDate: start}
	if got := single.DurationDays(); got != 1 {
		t.Fatalf("single-day DurationDays = %d, want 1", got)
	}

	inverted := Retreat{StartDate: end, EndDate: start}
	if got := inverted.DurationDays(); got != 0 {
		t.Fatalf("inverted DurationDays = %d, want 0", got)
	}
}
