// Package pose holds body landmarks and the rolling pose history shared by
// the activity detectors.
package pose

// BlazePose landmark indices
const (
	Nose = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex

	NumLandmarks
)

// MinVisibility is the visibility at which a landmark counts as present
const MinVisibility = 0.5

// Landmark is one body keypoint in image pixel space
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Visible reports whether the landmark is confidently present
func (l Landmark) Visible() bool {
	return l.Visibility >= MinVisibility
}
