// Package classify maps free-text equipment names to the closed type taxonomy.
package classify

import (
	"strings"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
)

// rule pairs the substrings that select a tag. Rules are evaluated in order
// and the first match wins: several substrings can co-occur in one name
// ("Rooftop Chiller" must resolve to chiller, not rtu), so the order below is
// part of the contract.
type rule struct {
	substrings []string
	tag        domain.TypeTag
}

var rules = []rule{
	{[]string{"chiller"}, domain.TypeChiller},
	{[]string{"ahu", "air handler"}, domain.TypeAHU},
	{[]string{"rtu", "rooftop"}, domain.TypeRTU},
	{[]string{"cooling tower"}, domain.TypeCoolingTower},
	{[]string{"elevator"}, domain.TypeElevator},
	{[]string{"restroom"}, domain.TypeRestroom},
}

// Classify returns the canonical type tag for an equipment name. It is total:
// any name that matches no rule classifies to general.
func Classify(name string) domain.TypeTag {
	folded := strings.ToLower(name)
	for _, r := range rules {
		for _, s := range r.substrings {
			if strings.Contains(folded, s) {
				return r.tag
			}
		}
	}
	return domain.TypeGeneral
}

// IsValidType reports whether tag belongs to the closed taxonomy. Externally
// supplied or stored tags are guarded with this before being trusted.
func IsValidType(tag domain.TypeTag) bool {
	switch tag {
	case domain.TypeAHU, domain.TypeChiller, domain.TypeRTU,
		domain.TypeCoolingTower, domain.TypeElevator, domain.TypeRestroom,
		domain.TypeGeneral:
		return true
	}
	return false
}
