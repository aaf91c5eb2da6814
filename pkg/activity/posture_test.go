package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teslashibe/go-sentinel/pkg/pose"
)

func crouchedPose() *pose.Pose {
	p := standingPose(0, 0)
	move(p, pose.LeftKnee, 395, 260)
	move(p, pose.RightKnee, 425, 260)
	move(p, pose.LeftAnkle, 395, 350)
	move(p, pose.RightAnkle, 425, 350)
	return p
}

func TestCrouching(t *testing.T) {
	d := NewCrouchingDetector(0.6)

	a := d.Analyze(crouchedPose(), nil)
	assert.True(t, a.Detected)
	assert.InDelta(t, 1.0, a.Confidence, 1e-9)

	assert.False(t, d.Analyze(standingPose(0, 0), nil).Detected)

	// Folded torso with straight legs is a bow, not a crouch.
	bow := crouchedPose()
	move(bow, pose.LeftAnkle, 485, 260)
	move(bow, pose.RightAnkle, 515, 260)
	assert.False(t, d.Analyze(bow, nil).Detected)
}

func TestCrouchingMissingLandmarks(t *testing.T) {
	d := NewCrouchingDetector(0.6)

	p := crouchedPose()
	p.Landmarks[pose.LeftHip].Visibility = 0
	a := d.Analyze(p, nil)
	assert.False(t, a.Detected)
	assert.Zero(t, a.Confidence)

	assert.False(t, d.Analyze(nil, nil).Detected)
}

func TestHiding(t *testing.T) {
	d := NewHidingDetector(0.7)

	occluded := standingPose(0, 0)
	for i := 5; i < pose.NumLandmarks; i++ {
		occluded.Landmarks[i].Visibility = 0.1
	}
	a := d.Analyze(occluded, nil)
	assert.True(t, a.Detected)
	assert.Equal(t, 0.8, a.Confidence)

	covering := standingPose(0, 0)
	move(covering, pose.LeftWrist, 300, 110)
	move(covering, pose.RightWrist, 340, 110)
	a = d.Analyze(covering, nil)
	assert.True(t, a.Detected)
	assert.Equal(t, 0.75, a.Confidence)

	oneHand := standingPose(0, 0)
	move(oneHand, pose.LeftWrist, 300, 110)
	assert.False(t, d.Analyze(oneHand, nil).Detected)

	assert.False(t, d.Analyze(standingPose(0, 0), nil).Detected)
	assert.False(t, d.Analyze(crouchedPose(), nil).Detected, "90 degrees is not below the hiding angle")
}
