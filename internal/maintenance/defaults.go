package maintenance

import "github.com/Shogund21/assetguardian-dev-sub003/internal/domain"

// DefaultConfig is the stock tiered maintenance configuration. Deployments
// override it from YAML (see Load); field thresholds live separately in the
// alert rule set.
func DefaultConfig() TieredConfig {
	cfg := TieredConfig{
		TierDaily:     {},
		TierWeekly:    {},
		TierMonthly:   {},
		TierQuarterly: {},
		TierAnnual:    {},
	}

	add := func(tier Tier, tag domain.TypeTag, minutes int, desc string, required, optional []string, kinds map[string]domain.ValueKind) {
		cfg[tier][tag] = Template{
			Tier:             tier,
			Type:             tag,
			RequiredFields:   required,
			OptionalFields:   optional,
			FieldKinds:       kinds,
			EstimatedMinutes: minutes,
			Description:      desc,
		}
	}

	// Chiller
	add(TierDaily, domain.TypeChiller, 15, "Daily chiller rounds: loop temperatures and condenser pressure.",
		[]string{"supply_temp", "return_temp"},
		[]string{"temp", "condenser_pressure", "refrigerant_level"}, nil)
	add(TierWeekly, domain.TypeChiller, 30, "Weekly chiller check: refrigerant charge and compressor condition.",
		[]string{"refrigerant_level", "compressor_amps"},
		[]string{"oil_pressure", "vibration"}, nil)
	add(TierMonthly, domain.TypeChiller, 60, "Monthly chiller inspection with tube condition notes.",
		[]string{"condenser_pressure", "approach_temp"},
		[]string{"tube_condition_notes"},
		map[string]domain.ValueKind{"tube_condition_notes": domain.KindText})
	add(TierQuarterly, domain.TypeChiller, 120, "Quarterly chiller eddy-current and water treatment review.",
		[]string{"water_treatment_ok", "last_eddy_current_test"},
		nil,
		map[string]domain.ValueKind{
			"water_treatment_ok":     domain.KindBoolean,
			"last_eddy_current_test": domain.KindDate,
		})
	add(TierAnnual, domain.TypeChiller, 480, "Annual chiller teardown inspection.",
		[]string{"overhaul_complete"},
		[]string{"overhaul_notes"},
		map[string]domain.ValueKind{
			"overhaul_complete": domain.KindBoolean,
			"overhaul_notes":    domain.KindText,
		})

	// Air handling unit
	add(TierDaily, domain.TypeAHU, 10, "Daily AHU walkthrough: supply air temperature and filter pressure drop.",
		[]string{"supply_air_temp", "filter_dp"},
		[]string{"fan_vibration", "belt_ok"},
		map[string]domain.ValueKind{"belt_ok": domain.KindBoolean})
	add(TierWeekly, domain.TypeAHU, 20, "Weekly AHU check: coil and damper condition.",
		[]string{"coil_delta_t", "fan_vibration"},
		[]string{"damper_position"}, nil)
	add(TierMonthly, domain.TypeAHU, 45, "Monthly AHU filter change and bearing lubrication.",
		[]string{"filter_dp", "bearing_temp"},
		[]string{"filter_changed"},
		map[string]domain.ValueKind{"filter_changed": domain.KindBoolean})

	// Rooftop unit
	add(TierDaily, domain.TypeRTU, 10, "Daily RTU rounds: discharge temperature and compressor draw.",
		[]string{"discharge_temp", "compressor_amps"},
		[]string{"suction_pressure"}, nil)
	add(TierWeekly, domain.TypeRTU, 25, "Weekly RTU check: refrigerant circuit and condensate drain.",
		[]string{"suction_pressure", "head_pressure"},
		[]string{"drain_clear"},
		map[string]domain.ValueKind{"drain_clear": domain.KindBoolean})
	add(TierMonthly, domain.TypeRTU, 40, "Monthly RTU coil cleaning and electrical check.",
		[]string{"compressor_amps", "coil_delta_t"},
		[]string{"contactor_notes"},
		map[string]domain.ValueKind{"contactor_notes": domain.KindText})

	// Cooling tower
	add(TierDaily, domain.TypeCoolingTower, 10, "Daily tower rounds: basin temperature and fan condition.",
		[]string{"basin_temp", "fan_vibration"},
		[]string{"makeup_water_gpm"}, nil)
	add(TierWeekly, domain.TypeCoolingTower, 30, "Weekly tower water chemistry.",
		[]string{"conductivity", "ph"},
		[]string{"biocide_dosed"},
		map[string]domain.ValueKind{"biocide_dosed": domain.KindBoolean})
	add(TierMonthly, domain.TypeCoolingTower, 60, "Monthly tower fill and drift eliminator inspection.",
		[]string{"fan_vibration", "gearbox_oil_level"},
		[]string{"fill_condition_notes"},
		map[string]domain.ValueKind{"fill_condition_notes": domain.KindText})
	add(TierQuarterly, domain.TypeCoolingTower, 120, "Quarterly tower legionella sampling.",
		[]string{"legionella_sample_taken", "sample_date"},
		nil,
		map[string]domain.ValueKind{
			"legionella_sample_taken": domain.KindBoolean,
			"sample_date":             domain.KindDate,
		})

	// Elevator
	add(TierDaily, domain.TypeElevator, 10, "Daily elevator ride check: door timing and motor temperature.",
		[]string{"door_cycle_ms", "motor_temp"},
		[]string{"ride_quality_notes"},
		map[string]domain.ValueKind{"ride_quality_notes": domain.KindText})
	add(TierWeekly, domain.TypeElevator, 20, "Weekly elevator machine room check.",
		[]string{"motor_temp", "brake_ok"},
		[]string{"oil_level"},
		map[string]domain.ValueKind{"brake_ok": domain.KindBoolean})
	add(TierMonthly, domain.TypeElevator, 60, "Monthly elevator safety circuit test.",
		[]string{"safety_circuit_ok", "door_cycle_ms"},
		nil,
		map[string]domain.ValueKind{"safety_circuit_ok": domain.KindBoolean})
	add(TierAnnual, domain.TypeElevator, 240, "Annual elevator load test.",
		[]string{"load_test_passed", "load_test_date"},
		nil,
		map[string]domain.ValueKind{
			"load_test_passed": domain.KindBoolean,
			"load_test_date":   domain.KindDate,
		})

	// Restroom
	add(TierDaily, domain.TypeRestroom, 5, "Daily restroom rounds: fixtures and exhaust.",
		[]string{"fixtures_ok", "water_temp"},
		[]string{"exhaust_ok"},
		map[string]domain.ValueKind{
			"fixtures_ok": domain.KindBoolean,
			"exhaust_ok":  domain.KindBoolean,
		})
	add(TierWeekly, domain.TypeRestroom, 15, "Weekly restroom deep check: traps and supply stops.",
		[]string{"water_temp", "drains_clear"},
		nil,
		map[string]domain.ValueKind{"drains_clear": domain.KindBoolean})
	add(TierMonthly, domain.TypeRestroom, 30, "Monthly restroom valve exercise.",
		[]string{"valves_exercised"},
		[]string{"notes"},
		map[string]domain.ValueKind{
			"valves_exercised": domain.KindBoolean,
			"notes":            domain.KindText,
		})

	// General equipment without a dedicated checklist
	add(TierDaily, domain.TypeGeneral, 10, "Daily general equipment rounds.",
		[]string{"temp"},
		[]string{"vibration", "condition_notes"},
		map[string]domain.ValueKind{"condition_notes": domain.KindText})
	add(TierWeekly, domain.TypeGeneral, 15, "Weekly general equipment check.",
		[]string{"temp", "vibration"},
		[]string{"condition_notes"},
		map[string]domain.ValueKind{"condition_notes": domain.KindText})
	add(TierMonthly, domain.TypeGeneral, 30, "Monthly general equipment inspection.",
		[]string{"temp", "operational"},
		[]string{"condition_notes"},
		map[string]domain.ValueKind{
			"operational":     domain.KindBoolean,
			"condition_notes": domain.KindText,
		})

	return cfg
}
