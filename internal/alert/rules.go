// Package alert evaluates readings against type-specific health rules and
// maintains the active predictive-alert set per equipment asset.
package alert

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
)

// ThresholdRule flags a numeric field outside [Min, Max]. Nil bounds are open.
type ThresholdRule struct {
	Field    string           `mapstructure:"field"`
	Min      *float64         `mapstructure:"min"`
	Max      *float64         `mapstructure:"max"`
	Kind     domain.AlertKind `mapstructure:"kind"`
	Severity domain.Severity  `mapstructure:"severity"`
}

// TrendRule flags a field whose values rise monotonically across a session by
// more than MaxRisePct percent over at least MinSamples readings.
type TrendRule struct {
	MinSamples int     `mapstructure:"min_samples"`
	MaxRisePct float64 `mapstructure:"max_rise_pct"`
}

// RuleSet is the full threshold configuration, keyed by equipment type.
type RuleSet struct {
	Thresholds map[domain.TypeTag][]ThresholdRule `mapstructure:"thresholds"`
	Trend      TrendRule                          `mapstructure:"trend"`
}

func f(v float64) *float64 { return &v }

// DefaultRules is the stock rule pack. Deployments override it from YAML via
// LoadRules; thresholds are domain configuration, not code.
func DefaultRules() RuleSet {
	return RuleSet{
		Trend: TrendRule{MinSamples: 3, MaxRisePct: 10},
		Thresholds: map[domain.TypeTag][]ThresholdRule{
			domain.TypeChiller: {
				{Field: "temp", Max: f(180), Kind: domain.KindOverTemperature, Severity: domain.SeverityCritical},
				{Field: "supply_temp", Max: f(50), Kind: domain.KindOverTemperature, Severity: domain.SeverityWarning},
				{Field: "condenser_pressure", Max: f(135), Kind: domain.KindOverPressure, Severity: domain.SeverityCritical},
				{Field: "refrigerant_level", Min: f(25), Kind: domain.KindLowRefrigerant, Severity: domain.SeverityWarning},
			},
			domain.TypeAHU: {
				{Field: "supply_air_temp", Max: f(65), Kind: domain.KindOverTemperature, Severity: domain.SeverityWarning},
				{Field: "filter_dp", Max: f(1.5), Kind: domain.KindCloggedFilter, Severity: domain.SeverityWarning},
				{Field: "fan_vibration", Max: f(0.5), Kind: domain.KindVibrationHigh, Severity: domain.SeverityCritical},
				{Field: "bearing_temp", Max: f(180), Kind: domain.KindOverTemperature, Severity: domain.SeverityCritical},
			},
			domain.TypeRTU: {
				{Field: "discharge_temp", Max: f(140), Kind: domain.KindOverTemperature, Severity: domain.SeverityWarning},
				{Field: "compressor_amps", Max: f(40), Kind: domain.KindOverCurrent, Severity: domain.SeverityCritical},
				{Field: "head_pressure", Max: f(400), Kind: domain.KindOverPressure, Severity: domain.SeverityWarning},
			},
			domain.TypeCoolingTower: {
				{Field: "basin_temp", Max: f(90), Kind: domain.KindOverTemperature, Severity: domain.SeverityWarning},
				{Field: "fan_vibration", Max: f(0.6), Kind: domain.KindVibrationHigh, Severity: domain.SeverityWarning},
			},
			domain.TypeElevator: {
				{Field: "motor_temp", Max: f(185), Kind: domain.KindOverTemperature, Severity: domain.SeverityCritical},
				{Field: "door_cycle_ms", Max: f(6000), Kind: domain.KindSlowDoor, Severity: domain.SeverityWarning},
			},
			domain.TypeRestroom: {
				{Field: "water_temp", Max: f(130), Kind: domain.KindOverTemperature, Severity: domain.SeverityWarning},
			},
			domain.TypeGeneral: {
				{Field: "temp", Max: f(180), Kind: domain.KindOverTemperature, Severity: domain.SeverityWarning},
				{Field: "vibration", Max: f(0.6), Kind: domain.KindVibrationHigh, Severity: domain.SeverityWarning},
			},
		},
	}
}

// LoadRules reads a YAML rule pack, replacing the defaults wholesale when the
// file defines thresholds and keeping them otherwise.
func LoadRules(path string) (RuleSet, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return RuleSet{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	var loaded RuleSet
	if err := v.Unmarshal(&loaded); err != nil {
		return RuleSet{}, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if len(loaded.Thresholds) > 0 {
		rules.Thresholds = loaded.Thresholds
	}
	if loaded.Trend.MinSamples > 0 {
		rules.Trend = loaded.Trend
	}
	return rules, nil
}

// Evaluate runs the type's threshold rules and the trend rule over an ordered
// reading sequence. Pure and deterministic: same inputs, same findings. Only
// numeric readings participate; at most one finding is produced per kind,
// keeping the most severe (then latest) violation.
func (r RuleSet) Evaluate(tag domain.TypeTag, readings []domain.Reading) []domain.Finding {
	byField := map[string][]domain.Reading{}
	var fieldOrder []string
	for _, rd := range readings {
		if rd.Kind != domain.KindNumeric {
			continue
		}
		if _, seen := byField[rd.Field]; !seen {
			fieldOrder = append(fieldOrder, rd.Field)
		}
		byField[rd.Field] = append(byField[rd.Field], rd)
	}

	acc := newFindingAccumulator()

	for _, rule := range r.Thresholds[tag] {
		for _, rd := range byField[rule.Field] {
			v := rd.NumericValue
			switch {
			case rule.Max != nil && v > *rule.Max:
				acc.add(domain.Finding{
					Kind:     rule.Kind,
					Severity: rule.Severity,
					Field:    rule.Field,
					Value:    v,
					Message:  fmt.Sprintf("%s reading %.2f exceeds limit %.2f", rule.Field, v, *rule.Max),
				})
			case rule.Min != nil && v < *rule.Min:
				acc.add(domain.Finding{
					Kind:     rule.Kind,
					Severity: rule.Severity,
					Field:    rule.Field,
					Value:    v,
					Message:  fmt.Sprintf("%s reading %.2f below limit %.2f", rule.Field, v, *rule.Min),
				})
			}
		}
	}

	if r.Trend.MinSamples > 1 {
		sort.Strings(fieldOrder)
		for _, field := range fieldOrder {
			series := byField[field]
			if fd, ok := r.detectTrend(field, series); ok {
				acc.add(fd)
			}
		}
	}

	return acc.findings()
}

// detectTrend checks one field's session series for monotonic degradation.
func (r RuleSet) detectTrend(field string, series []domain.Reading) (domain.Finding, bool) {
	if len(series) < r.Trend.MinSamples {
		return domain.Finding{}, false
	}
	first := series[0].NumericValue
	last := series[len(series)-1].NumericValue
	if first <= 0 {
		return domain.Finding{}, false
	}
	for i := 1; i < len(series); i++ {
		if series[i].NumericValue < series[i-1].NumericValue {
			return domain.Finding{}, false
		}
	}
	risePct := (last - first) / first * 100
	if risePct <= r.Trend.MaxRisePct {
		return domain.Finding{}, false
	}
	return domain.Finding{
		Kind:     domain.KindDegradingTrend,
		Severity: domain.SeverityWarning,
		Field:    field,
		Value:    last,
		Message:  fmt.Sprintf("%s rose %.1f%% across the session (%.2f to %.2f)", field, risePct, first, last),
	}, true
}

// findingAccumulator dedupes findings by kind, keeping the most severe and,
// on ties, the latest.
type findingAccumulator struct {
	byKind map[domain.AlertKind]domain.Finding
	order  []domain.AlertKind
}

func newFindingAccumulator() *findingAccumulator {
	return &findingAccumulator{byKind: map[domain.AlertKind]domain.Finding{}}
}

func (a *findingAccumulator) add(fd domain.Finding) {
	existing, ok := a.byKind[fd.Kind]
	if !ok {
		a.byKind[fd.Kind] = fd
		a.order = append(a.order, fd.Kind)
		return
	}
	if fd.Severity.Rank() >= existing.Severity.Rank() {
		a.byKind[fd.Kind] = fd
	}
}

func (a *findingAccumulator) findings() []domain.Finding {
	if len(a.order) == 0 {
		return nil
	}
	out := make([]domain.Finding, 0, len(a.order))
	for _, kind := range a.order {
		out = append(out, a.byKind[kind])
	}
	return out
}
