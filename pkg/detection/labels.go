package detection

// COCOClasses contains the 80 COCO class names
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator",
	"book", "clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}

// ClassName returns the COCO label for a class id, or "" when out of range.
func ClassName(classID int) string {
	if classID < 0 || classID >= len(COCOClasses) {
		return ""
	}
	return COCOClasses[classID]
}

// LabelPerson is the label the scorer treats as a human.
const LabelPerson = "person"

var weapons = map[string]bool{
	"knife": true, "gun": true, "pistol": true, "rifle": true,
}

var vehicles = map[string]bool{
	"car": true, "truck": true, "bus": true, "motorcycle": true, "bicycle": true,
}

var suspiciousItems = map[string]bool{
	"backpack": true, "handbag": true,
}

var animals = map[string]bool{
	"bird": true, "cat": true, "dog": true, "horse": true, "sheep": true,
	"cow": true, "elephant": true, "bear": true, "zebra": true, "giraffe": true,
}

// IsPerson returns true if the class is a person
func IsPerson(label string) bool {
	return label == LabelPerson
}

// IsWeapon returns true for weapon classes
func IsWeapon(label string) bool {
	return weapons[label]
}

// IsVehicle returns true for road vehicles
func IsVehicle(label string) bool {
	return vehicles[label]
}

// IsSuspiciousItem returns true for carried items worth flagging
// when they appear alongside a person (bags)
func IsSuspiciousItem(label string) bool {
	return suspiciousItems[label]
}

// IsAnimal returns true if the class is an animal
func IsAnimal(label string) bool {
	return animals[label]
}
