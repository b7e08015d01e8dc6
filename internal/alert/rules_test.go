package alert

import (
	"testing"
	"time"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
)

func numeric(field string, value float64, at time.Time) domain.Reading {
	return domain.Reading{
		Field:        field,
		Kind:         domain.KindNumeric,
		NumericValue: value,
		Timestamp:    at,
	}
}

func findKind(findings []domain.Finding, kind domain.AlertKind) (domain.Finding, bool) {
	for _, fd := range findings {
		if fd.Kind == kind {
			return fd, true
		}
	}
	return domain.Finding{}, false
}

func TestEvaluateChillerOverTemperature(t *testing.T) {
	rules := DefaultRules()
	now := time.Now()
	readings := []domain.Reading{
		numeric("temp", 200, now),
		numeric("temp", 210, now.Add(time.Minute)),
	}

	findings := rules.Evaluate(domain.TypeChiller, readings)
	fd, ok := findKind(findings, domain.KindOverTemperature)
	if !ok {
		t.Fatalf("expected over_temperature finding, got %+v", findings)
	}
	if fd.Severity != domain.SeverityCritical {
		t.Errorf("severity = %s, want critical", fd.Severity)
	}
	if fd.Value != 210 {
		t.Errorf("value = %.0f, want the latest violation 210", fd.Value)
	}

	// one finding per kind even with two violating readings
	count := 0
	for _, f := range findings {
		if f.Kind == domain.KindOverTemperature {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one over_temperature finding, got %d", count)
	}
}

func TestEvaluateWithinRangeYieldsNothing(t *testing.T) {
	rules := DefaultRules()
	now := time.Now()
	readings := []domain.Reading{
		numeric("temp", 120, now),
		numeric("supply_temp", 44, now),
		numeric("condenser_pressure", 110, now),
	}
	if findings := rules.Evaluate(domain.TypeChiller, readings); len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}

func TestEvaluateMinBound(t *testing.T) {
	rules := DefaultRules()
	readings := []domain.Reading{numeric("refrigerant_level", 10, time.Now())}
	findings := rules.Evaluate(domain.TypeChiller, readings)
	if _, ok := findKind(findings, domain.KindLowRefrigerant); !ok {
		t.Fatalf("expected low_refrigerant finding, got %+v", findings)
	}
}

func TestEvaluateIgnoresNonNumeric(t *testing.T) {
	rules := DefaultRules()
	readings := []domain.Reading{
		{Field: "temp", Kind: domain.KindText, TextValue: "very hot"},
	}
	if findings := rules.Evaluate(domain.TypeChiller, readings); len(findings) != 0 {
		t.Fatalf("text readings must not trigger thresholds, got %+v", findings)
	}
}

func TestEvaluateDegradingTrend(t *testing.T) {
	rules := DefaultRules()
	now := time.Now()
	readings := []domain.Reading{
		numeric("supply_temp", 40, now),
		numeric("supply_temp", 43, now.Add(time.Minute)),
		numeric("supply_temp", 46, now.Add(2*time.Minute)),
	}
	findings := rules.Evaluate(domain.TypeChiller, readings)
	if _, ok := findKind(findings, domain.KindDegradingTrend); !ok {
		t.Fatalf("expected degrading_trend finding for a 15%% monotonic rise, got %+v", findings)
	}

	// a dip breaks monotonicity
	readings[1].NumericValue = 39
	findings = rules.Evaluate(domain.TypeChiller, readings)
	if _, ok := findKind(findings, domain.KindDegradingTrend); ok {
		t.Fatal("non-monotonic series must not trigger the trend rule")
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	rules := DefaultRules()
	now := time.Unix(1756400000, 0)
	readings := []domain.Reading{
		numeric("temp", 200, now),
		numeric("condenser_pressure", 150, now),
		numeric("refrigerant_level", 10, now),
	}
	a := rules.Evaluate(domain.TypeChiller, readings)
	b := rules.Evaluate(domain.TypeChiller, readings)
	if len(a) != len(b) {
		t.Fatalf("evaluation not deterministic: %d vs %d findings", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("finding %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
