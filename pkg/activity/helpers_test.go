package activity

import (
	"math"
	"time"

	"github.com/teslashibe/go-sentinel/pkg/pose"
)

var t0 = time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)

func ms(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Millisecond)
}

// standingPose is an upright figure around x=320 shifted by dx, dy.
func standingPose(dx, dy float64) *pose.Pose {
	p := &pose.Pose{Landmarks: make([]pose.Landmark, pose.NumLandmarks)}
	for i := range p.Landmarks {
		p.Landmarks[i] = pose.Landmark{X: 320 + dx, Y: 95 + dy, Visibility: 0.9}
	}
	set := func(i int, x, y float64) {
		p.Landmarks[i] = pose.Landmark{X: x + dx, Y: y + dy, Visibility: 0.9}
	}
	set(pose.Nose, 320, 100)
	set(pose.LeftShoulder, 300, 150)
	set(pose.RightShoulder, 340, 150)
	set(pose.LeftWrist, 285, 250)
	set(pose.RightWrist, 355, 250)
	set(pose.LeftHip, 305, 260)
	set(pose.RightHip, 335, 260)
	set(pose.LeftKnee, 305, 350)
	set(pose.RightKnee, 335, 350)
	set(pose.LeftAnkle, 305, 440)
	set(pose.RightAnkle, 335, 440)
	return p
}

func move(p *pose.Pose, i int, x, y float64) {
	p.Landmarks[i].X = x
	p.Landmarks[i].Y = y
}

// jitterHistory fills h with n samples circling (cx, cy) at radius r.
func jitterHistory(h *pose.History, n int, every time.Duration, r float64) {
	for i := 0; i < n; i++ {
		a := float64(i) * 0.5
		h.AddPosition(pose.PositionSample{
			X:         320 + r*math.Cos(a),
			Y:         240 + r*math.Sin(a),
			Timestamp: t0.Add(time.Duration(i) * every),
		})
	}
}

func findingFor(r Result, t Type) (Finding, bool) {
	for _, f := range r.Findings {
		if f.Type == t {
			return f, true
		}
	}
	return Finding{}, false
}
