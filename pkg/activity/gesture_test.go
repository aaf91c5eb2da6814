package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teslashibe/go-sentinel/pkg/pose"
)

func TestAggressiveGesture(t *testing.T) {
	d := NewAggressiveGestureDetector(0.5)

	h := pose.NewHistory(pose.DefaultCapacity)
	for i := 0; i < 12; i++ {
		p := standingPose(0, 0)
		if i%2 == 1 {
			move(p, pose.LeftWrist, 285+30, 250)
			move(p, pose.RightWrist, 355+30, 250)
		}
		h.Add(p, ms(i*33))
	}

	a := d.Analyze(nil, h)
	assert.True(t, a.Detected)
	assert.InDelta(t, 0.6, a.Confidence, 1e-9)
}

func TestAggressiveGestureCalm(t *testing.T) {
	d := NewAggressiveGestureDetector(0.5)

	h := pose.NewHistory(pose.DefaultCapacity)
	for i := 0; i < 12; i++ {
		h.Add(standingPose(0, 0), ms(i*33))
	}
	assert.False(t, d.Analyze(nil, h).Detected)

	few := pose.NewHistory(pose.DefaultCapacity)
	for i := 0; i < 9; i++ {
		few.Add(standingPose(float64(i)*100, 0), ms(i*33))
	}
	assert.False(t, d.Analyze(nil, few).Detected, "needs ten samples")
}

func TestVandalism(t *testing.T) {
	d := NewVandalismDetector(0.5)

	h := pose.NewHistory(pose.DefaultCapacity)
	for i := 0; i < 22; i++ {
		p := standingPose(0, 0)
		if i%4 == 0 {
			move(p, pose.LeftWrist, 285, 100)
			move(p, pose.RightWrist, 355, 100)
		}
		h.Add(p, ms(i*33))
	}

	a := d.Analyze(nil, h)
	assert.True(t, a.Detected)
	assert.Equal(t, 1.0, a.Confidence)
	assert.Contains(t, a.Details, "6 striking")
}

func TestVandalismSingleStrike(t *testing.T) {
	d := NewVandalismDetector(0.5)

	h := pose.NewHistory(pose.DefaultCapacity)
	for i := 0; i < 22; i++ {
		p := standingPose(0, 0)
		if i == 0 {
			move(p, pose.LeftWrist, 285, 100)
			move(p, pose.RightWrist, 355, 100)
		}
		h.Add(p, ms(i*33))
	}
	assert.False(t, d.Analyze(nil, h).Detected)
}
