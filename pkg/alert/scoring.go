package alert

import (
	"math"

	"github.com/teslashibe/go-sentinel/pkg/detection"
	"github.com/teslashibe/go-sentinel/pkg/geometry"
	"gonum.org/v1/gonum/floats"
)

// Score is the composite risk score with its factors
type Score struct {
	Presence    float64 `json:"presence"`    // Smoothed confidence
	Count       float64 `json:"count"`       // min(detections/CountSaturation, 1)
	Interaction float64 `json:"interaction"` // min(pairs/InteractionSaturation, 1)
	Total       float64 `json:"total"`
}

// InteractingPairs counts (person, non-person) pairs whose boxes are
// nearby under ratio
func InteractingPairs(dets []detection.TrackedDetection, ratio float64) int {
	pairs := 0
	for i := range dets {
		if !detection.IsPerson(dets[i].Label) {
			continue
		}
		for j := range dets {
			if detection.IsPerson(dets[j].Label) {
				continue
			}
			if geometry.AreNearby(dets[i].Box, dets[j].Box, ratio) {
				pairs++
			}
		}
	}
	return pairs
}

// ComputeScore combines presence, count and interaction into one score.
// cfg.Weights must sum to 1.0 (checked by Config.Validate).
func ComputeScore(dets []detection.TrackedDetection, smoothed float64, cfg Config) Score {
	s := Score{
		Presence:    smoothed,
		Count:       saturate(float64(len(dets)), cfg.CountSaturation),
		Interaction: saturate(float64(InteractingPairs(dets, cfg.InteractionRatio)), cfg.InteractionSaturation),
	}

	weights := []float64{cfg.Weights.Presence, cfg.Weights.Count, cfg.Weights.Interaction}
	s.Total = floats.Dot(weights, []float64{s.Presence, s.Count, s.Interaction})
	return s
}

// Corroborated reports whether a preliminary alert is actionable: the
// score clears MinScore and either the kind is severe enough to bypass
// history or enough recent frames already carried an alert.
func Corroborated(score float64, kind Kind, h *History, cfg Config) bool {
	if score < cfg.MinScore {
		return false
	}
	if kind.Severity() >= cfg.BypassSeverity {
		return true
	}
	return h.CountAlerts(cfg.CorroborateOf) >= cfg.CorroborateCount
}

func saturate(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Min(v/limit, 1)
}
