package service

import (
	"testing"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

func entrada(id string, date time.Time, amount float64) domain.CashTransaction {
	return domain.CashTransaction{ID: id, Date: date, Type: domain.TypeEntrada, Amount: amount}
}

func saida(id string, date time.Time, amount float64) domain.CashTransaction {
	return domain.CashTransaction{ID: id, Date: date, Type: domain.TypeSaida, Amount: amount}
}

func TestParseGranularity(t *testing.T) {
	for _, valid := range []string{"daily", "weekly", "monthly", "annual", "shift"} {
		if _, err := ParseGranularity(valid); err != nil {
			t.Errorf("ParseGranularity(%q) returned error: %v", valid, err)
		}
	}
	if _, err := ParseGranularity("hourly"); err == nil {
		t.Error("ParseGranularity(\"hourly\") should fail")
	}
	if _, err := ParseGranularity(""); err == nil {
		t.Error("ParseGranularity(\"\") should fail")
	}
}

func TestBuildPeriodSeries_DailyLabelsAndSums(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC)

	buckets := buildPeriodSeries([]domain.CashTransaction{
		entrada("t1", day1, 100),
		saida("t2", day1, 40),
		entrada("t3", day2, 25),
	}, GranularityDaily)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "10/03/2025" {
		t.Errorf("first bucket label = %q, want 10/03/2025", buckets[0].Label)
	}
	if buckets[0].Inflow != 100 || buckets[0].Outflow != 40 || buckets[0].Net != 60 {
		t.Errorf("first bucket = %+v, want inflow 100 outflow 40 net 60", buckets[0])
	}
	if buckets[1].Label != "11/03/2025" || buckets[1].Net != 25 {
		t.Errorf("second bucket = %+v", buckets[1])
	}
}

func TestBuildPeriodSeries_ChronologicalNotLexicographic(t *testing.T) {
	// 02/01/2025 collates before 10/12/2024 lexicographically; the series
	// must still come back in calendar order.
	older := time.Date(2024, 12, 10, 12, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	buckets := buildPeriodSeries([]domain.CashTransaction{
		entrada("t1", newer, 10),
		entrada("t2", older, 20),
	}, GranularityDaily)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "10/12/2024" || buckets[1].Label != "02/01/2025" {
		t.Errorf("buckets out of calendar order: %q, %q", buckets[0].Label, buckets[1].Label)
	}
}

func TestBuildPeriodSeries_WeeklyBucketsBySunday(t *testing.T) {
	// 2025-03-12 is a Wednesday; its week starts Sunday 2025-03-09.
	wednesday := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2025, 3, 17, 10, 0, 0, 0, time.UTC)

	buckets := buildPeriodSeries([]domain.CashTransaction{
		entrada("t1", wednesday, 10),
		entrada("t2", nextMonday, 20),
	}, GranularityWeekly)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 weekly buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "Sem 09/03/2025" {
		t.Errorf("first weekly label = %q, want Sem 09/03/2025", buckets[0].Label)
	}
	if buckets[1].Label != "Sem 16/03/2025" {
		t.Errorf("second weekly label = %q, want Sem 16/03/2025", buckets[1].Label)
	}
}

func TestBuildPeriodSeries_MonthlyAndAnnualLabels(t *testing.T) {
	march := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	monthly := buildPeriodSeries([]domain.CashTransaction{entrada("t1", march, 10)}, GranularityMonthly)
	if len(monthly) != 1 || monthly[0].Label != "3/2025" {
		t.Errorf("monthly label = %+v, want 3/2025", monthly)
	}

	annual := buildPeriodSeries([]domain.CashTransaction{entrada("t1", march, 10)}, GranularityAnnual)
	if len(annual) != 1 || annual[0].Label != "2025" {
		t.Errorf("annual label = %+v, want 2025", annual)
	}
}

func TestBuildPeriodSeries_ShiftBoundaries(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		hour int
		want string
	}{
		{5, "10/03/2025 - Noite"},
		{6, "10/03/2025 - Manhã"},
		{13, "10/03/2025 - Manhã"},
		{14, "10/03/2025 - Tarde"},
		{21, "10/03/2025 - Tarde"},
		{22, "10/03/2025 - Noite"},
		{0, "10/03/2025 - Noite"},
	}
	for _, tc := range cases {
		buckets := buildPeriodSeries([]domain.CashTransaction{
			entrada("t", day.Add(time.Duration(tc.hour)*time.Hour), 10),
		}, GranularityShift)
		if len(buckets) != 1 || buckets[0].Label != tc.want {
			t.Errorf("hour %d: got %+v, want label %q", tc.hour, buckets, tc.want)
		}
	}
}

func TestBuildPeriodSeries_ShiftsOrderWithinDay(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	buckets := buildPeriodSeries([]domain.CashTransaction{
		entrada("night", day.Add(23*time.Hour), 1),
		entrada("afternoon", day.Add(15*time.Hour), 2),
		entrada("morning", day.Add(8*time.Hour), 3),
	}, GranularityShift)

	if len(buckets) != 3 {
		t.Fatalf("expected 3 shift buckets, got %d", len(buckets))
	}
	wantOrder := []string{"10/03/2025 - Manhã", "10/03/2025 - Tarde", "10/03/2025 - Noite"}
	for i, want := range wantOrder {
		if buckets[i].Label != want {
			t.Errorf("bucket[%d] = %q, want %q", i, buckets[i].Label, want)
		}
	}
}

func TestBuildPeriodSeries_EmptyInput(t *testing.T) {
	buckets := buildPeriodSeries(nil, GranularityDaily)
	if buckets == nil {
		t.Fatal("empty input should yield an empty slice, not nil")
	}
	if len(buckets) != 0 {
		t.Errorf("expected 0 buckets, got %d", len(buckets))
	}
}

func TestResolveWindow_Defaults(t *testing.T) {
	now := time.Date(2025, 3, 15, 11, 30, 0, 0, time.UTC)

	from, to := resolveWindow(domain.ReportFilter{}, now)

	wantTo := time.Date(2025, 3, 15, 23, 59, 59, 999_000_000, time.UTC)
	if !to.Equal(wantTo) {
		t.Errorf("default end = %v, want %v", to, wantTo)
	}
	wantFrom := time.Date(2025, 2, 13, 0, 0, 0, 0, time.UTC)
	if !from.Equal(wantFrom) {
		t.Errorf("default start = %v, want %v", from, wantFrom)
	}
}

func TestResolveWindow_ExplicitBoundsExpandToFullDays(t *testing.T) {
	now := time.Date(2025, 3, 15, 11, 30, 0, 0, time.UTC)
	start := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	from, to := resolveWindow(domain.ReportFilter{StartDate: &start, EndDate: &end}, now)

	if !from.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start not snapped to start of day: %v", from)
	}
	if !to.Equal(time.Date(2025, 3, 10, 23, 59, 59, 999_000_000, time.UTC)) {
		t.Errorf("end not snapped to end of day: %v", to)
	}
}
