package maintenance

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
)

var allTypes = []domain.TypeTag{
	domain.TypeAHU, domain.TypeChiller, domain.TypeRTU, domain.TypeCoolingTower,
	domain.TypeElevator, domain.TypeRestroom, domain.TypeGeneral,
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestMandatoryTiersCoverEveryType(t *testing.T) {
	r := NewResolver(DefaultConfig())
	for _, tier := range MandatoryTiers {
		for _, tag := range allTypes {
			tmpl, err := r.Resolve(tag, tier)
			if err != nil {
				t.Errorf("Resolve(%s, %s): %v", tag, tier, err)
				continue
			}
			if len(tmpl.RequiredFields) == 0 {
				t.Errorf("Resolve(%s, %s): empty required-field set", tag, tier)
			}
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver(DefaultConfig())
	for _, tier := range Tiers {
		for _, tag := range allTypes {
			a, errA := r.Resolve(tag, tier)
			b, errB := r.Resolve(tag, tier)
			if (errA == nil) != (errB == nil) || !reflect.DeepEqual(a, b) {
				t.Errorf("Resolve(%s, %s) not deterministic", tag, tier)
			}
		}
	}
}

func TestResolveOptionalTierNotFound(t *testing.T) {
	r := NewResolver(DefaultConfig())
	_, err := r.Resolve(domain.TypeRestroom, TierAnnual)
	if !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound for restroom/annual, got %v", err)
	}
}

func TestValidateRejectsEmptyRequired(t *testing.T) {
	cfg := DefaultConfig()
	tmpl := cfg[TierDaily][domain.TypeGeneral]
	tmpl.RequiredFields = nil
	cfg[TierDaily][domain.TypeGeneral] = tmpl
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for empty required set on a mandatory tier")
	}
}

func TestTemplateAllowsFieldAndKind(t *testing.T) {
	r := NewResolver(DefaultConfig())
	tmpl, err := r.Resolve(domain.TypeChiller, TierDaily)
	if err != nil {
		t.Fatal(err)
	}
	if !tmpl.AllowsField("supply_temp") || !tmpl.AllowsField("temp") {
		t.Error("chiller daily template should allow supply_temp and temp")
	}
	if tmpl.AllowsField("door_cycle_ms") {
		t.Error("chiller daily template should not allow elevator fields")
	}
	if tmpl.KindOf("supply_temp") != domain.KindNumeric {
		t.Error("undeclared fields default to numeric")
	}

	q, err := r.Resolve(domain.TypeChiller, TierQuarterly)
	if err != nil {
		t.Fatal(err)
	}
	if q.KindOf("water_treatment_ok") != domain.KindBoolean {
		t.Error("water_treatment_ok declared boolean")
	}
	if q.KindOf("last_eddy_current_test") != domain.KindDate {
		t.Error("last_eddy_current_test declared date")
	}
}
