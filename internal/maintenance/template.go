// Package maintenance resolves the reading template required for a given
// equipment type and maintenance cadence.
package maintenance

import (
	"fmt"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
)

// Tier is a maintenance cadence. Daily, weekly and monthly templates are
// mandatory for every equipment type; quarterly and annual are optional.
type Tier string

const (
	TierDaily     Tier = "daily"
	TierWeekly    Tier = "weekly"
	TierMonthly   Tier = "monthly"
	TierQuarterly Tier = "quarterly"
	TierAnnual    Tier = "annual"
)

// MandatoryTiers must carry a template for every equipment type.
var MandatoryTiers = []Tier{TierDaily, TierWeekly, TierMonthly}

// Tiers lists every cadence in ascending interval order.
var Tiers = []Tier{TierDaily, TierWeekly, TierMonthly, TierQuarterly, TierAnnual}

// Template declares the readings a diagnostic session at a given (type, tier)
// must and may collect. Required field order is fixed by configuration.
type Template struct {
	Tier             Tier                        `mapstructure:"tier" json:"tier"`
	Type             domain.TypeTag              `mapstructure:"type" json:"type"`
	RequiredFields   []string                    `mapstructure:"required_fields" json:"required_fields"`
	OptionalFields   []string                    `mapstructure:"optional_fields" json:"optional_fields"`
	FieldKinds       map[string]domain.ValueKind `mapstructure:"field_kinds" json:"field_kinds,omitempty"`
	EstimatedMinutes int                         `mapstructure:"estimated_minutes" json:"estimated_minutes"`
	Description      string                      `mapstructure:"description" json:"description"`
}

// AllowsField reports whether a field name belongs to the template.
func (t Template) AllowsField(field string) bool {
	for _, f := range t.RequiredFields {
		if f == field {
			return true
		}
	}
	for _, f := range t.OptionalFields {
		if f == field {
			return true
		}
	}
	return false
}

// KindOf returns the declared value kind for a field, defaulting to numeric.
func (t Template) KindOf(field string) domain.ValueKind {
	if k, ok := t.FieldKinds[field]; ok {
		return k
	}
	return domain.KindNumeric
}

// TieredConfig maps each tier to at most one template per equipment type. It
// is injected as an immutable value; the resolver never mutates it.
type TieredConfig map[Tier]map[domain.TypeTag]Template

// Validate checks the mandatory-tier and non-empty-required invariants.
func (c TieredConfig) Validate() error {
	for _, tier := range MandatoryTiers {
		byType, ok := c[tier]
		if !ok {
			return fmt.Errorf("tier %q has no templates configured", tier)
		}
		for tag, tmpl := range byType {
			if len(tmpl.RequiredFields) == 0 {
				return fmt.Errorf("tier %q type %q has an empty required-field set", tier, tag)
			}
		}
	}
	return nil
}

// Resolver answers template lookups against a fixed TieredConfig.
type Resolver struct {
	cfg TieredConfig
}

// NewResolver wraps an immutable configuration.
func NewResolver(cfg TieredConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve returns the template for (tag, tier). An unconfigured combination
// yields ErrTemplateNotFound; for optional tiers that is the expected way of
// saying "no additional readings required this tier".
func (r *Resolver) Resolve(tag domain.TypeTag, tier Tier) (Template, error) {
	byType, ok := r.cfg[tier]
	if !ok {
		return Template{}, fmt.Errorf("%w: tier %q", domain.ErrTemplateNotFound, tier)
	}
	tmpl, ok := byType[tag]
	if !ok {
		return Template{}, fmt.Errorf("%w: type %q tier %q", domain.ErrTemplateNotFound, tag, tier)
	}
	return tmpl, nil
}
