// Package alert turns tracked detections into debounced security alerts.
//
// Each frame is classified into a Kind, scored from presence, count and
// person/object interaction, corroborated against recent history, and
// then passed through a cooldown and a stability debounce before it is
// surfaced with ShouldTrigger.
package alert

// Kind is a security alert category
type Kind string

// Alert kinds, lowest to highest severity
const (
	KindNone                 Kind = "NONE"
	KindHighConfidencePerson Kind = "HIGH_CONFIDENCE_PERSON"
	KindSuspiciousItems      Kind = "SUSPICIOUS_ITEMS"
	KindVehicleWithPerson    Kind = "VEHICLE_WITH_PERSON"
	KindMultipleIntruders    Kind = "MULTIPLE_INTRUDERS"
	KindWeaponDetected       Kind = "WEAPON_DETECTED"
)

// severity is explicit so reordering the constants cannot change ranking
var severity = map[Kind]int{
	KindNone:                 0,
	KindHighConfidencePerson: 1,
	KindSuspiciousItems:      2,
	KindVehicleWithPerson:    3,
	KindMultipleIntruders:    4,
	KindWeaponDetected:       5,
}

// Kinds lists every alert kind in ascending severity
var Kinds = []Kind{
	KindNone,
	KindHighConfidencePerson,
	KindSuspiciousItems,
	KindVehicleWithPerson,
	KindMultipleIntruders,
	KindWeaponDetected,
}

// Severity returns the rank of k; unknown kinds rank as NONE.
func (k Kind) Severity() int {
	return severity[k]
}

// IsNone reports whether k carries no alert
func (k Kind) IsNone() bool {
	return k == KindNone || k == ""
}

// Description returns a short human-readable summary
func (k Kind) Description() string {
	switch k {
	case KindHighConfidencePerson:
		return "Person detected with high confidence"
	case KindSuspiciousItems:
		return "Person carrying multiple bags"
	case KindVehicleWithPerson:
		return "Person next to a vehicle"
	case KindMultipleIntruders:
		return "Multiple people detected"
	case KindWeaponDetected:
		return "Weapon detected"
	default:
		return "No alert"
	}
}
