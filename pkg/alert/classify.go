package alert

import "github.com/teslashibe/go-sentinel/pkg/detection"

// StableDetections returns the detections whose track has been seen for at
// least two frames, or all detections when none are stable yet.
func StableDetections(dets []detection.TrackedDetection) []detection.TrackedDetection {
	stable := make([]detection.TrackedDetection, 0, len(dets))
	for _, d := range dets {
		if d.FrameCount >= 2 {
			stable = append(stable, d)
		}
	}
	if len(stable) == 0 {
		return dets
	}
	return stable
}

// Classify returns the first matching alert kind, in descending severity.
func Classify(dets []detection.TrackedDetection, th Thresholds) Kind {
	var (
		weapon           bool
		vehicle          bool
		vehiclePerson    bool
		suspiciousPerson bool
		highPerson       bool
		intruders        int
		bags             int
	)

	for _, d := range dets {
		switch {
		case detection.IsWeapon(d.Label):
			if d.Confidence > th.Weapon {
				weapon = true
			}
		case detection.IsPerson(d.Label):
			if d.Confidence > th.Intruder {
				intruders++
			}
			if d.Confidence > th.VehiclePerson {
				vehiclePerson = true
			}
			if d.Confidence > th.SuspiciousPerson {
				suspiciousPerson = true
			}
			if d.Confidence > th.HighPerson {
				highPerson = true
			}
		case detection.IsVehicle(d.Label):
			if d.Confidence > th.VehiclePerson {
				vehicle = true
			}
		case detection.IsSuspiciousItem(d.Label):
			bags++
		}
	}

	switch {
	case weapon:
		return KindWeaponDetected
	case intruders >= th.MinIntruders:
		return KindMultipleIntruders
	case vehiclePerson && vehicle:
		return KindVehicleWithPerson
	case bags >= th.MinSuspiciousItems && suspiciousPerson:
		return KindSuspiciousItems
	case highPerson:
		return KindHighConfidencePerson
	default:
		return KindNone
	}
}
