package detection

import "testing"

func TestMaxConfidence(t *testing.T) {
	tests := []struct {
		name   string
		dets   []TrackedDetection
		expect float64
	}{
		{
			name:   "empty list",
			dets:   nil,
			expect: 0,
		},
		{
			name: "single detection",
			dets: []TrackedDetection{
				{Detection: Detection{Label: "person", Confidence: 0.6}},
			},
			expect: 0.6,
		},
		{
			name: "picks highest",
			dets: []TrackedDetection{
				{Detection: Detection{Label: "person", Confidence: 0.6}},
				{Detection: Detection{Label: "car", Confidence: 0.92}},
				{Detection: Detection{Label: "person", Confidence: 0.7}},
			},
			expect: 0.92,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MaxConfidence(tc.dets); got != tc.expect {
				t.Errorf("MaxConfidence() = %v, want %v", got, tc.expect)
			}
		})
	}
}

func TestClassName(t *testing.T) {
	tests := []struct {
		id     int
		expect string
	}{
		{0, "person"},
		{2, "car"},
		{43, "knife"},
		{-1, ""},
		{80, ""},
	}
	for _, tc := range tests {
		if got := ClassName(tc.id); got != tc.expect {
			t.Errorf("ClassName(%d) = %q, want %q", tc.id, got, tc.expect)
		}
	}
}

func TestClassCategories(t *testing.T) {
	if !IsPerson("person") || IsPerson("car") {
		t.Error("IsPerson misclassifies")
	}
	if !IsWeapon("knife") || IsWeapon("fork") {
		t.Error("IsWeapon misclassifies")
	}
	if !IsVehicle("truck") || IsVehicle("person") {
		t.Error("IsVehicle misclassifies")
	}
	if !IsSuspiciousItem("backpack") || !IsSuspiciousItem("handbag") || IsSuspiciousItem("suitcase") {
		t.Error("IsSuspiciousItem misclassifies")
	}
	if !IsAnimal("dog") || IsAnimal("person") {
		t.Error("IsAnimal misclassifies")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ModelPath == "" {
		t.Error("ModelPath should not be empty")
	}
	if cfg.ConfidenceThresh <= 0 || cfg.ConfidenceThresh > 1 {
		t.Errorf("ConfidenceThresh should be 0-1, got %f", cfg.ConfidenceThresh)
	}
	if cfg.NMSThresh <= 0 || cfg.NMSThresh > 1 {
		t.Errorf("NMSThresh should be 0-1, got %f", cfg.NMSThresh)
	}
	if cfg.InputWidth <= 0 || cfg.InputHeight <= 0 {
		t.Errorf("input size should be positive, got %dx%d", cfg.InputWidth, cfg.InputHeight)
	}
}
