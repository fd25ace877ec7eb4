package models

import "time"

// COCO class ids produced by the external detection model. Only the four
// vehicle classes are counted.
const (
	ClassCar        = 2
	ClassMotorcycle = 3
	ClassBus        = 5
	ClassTruck      = 7
)

var vehicleClassNames = map[int]string{
	ClassCar:        "car",
	ClassMotorcycle: "motorcycle",
	ClassBus:        "bus",
	ClassTruck:      "truck",
}

// IsVehicleClass reports whether the class id belongs to the counted set.
func IsVehicleClass(classID int) bool {
	_, ok := vehicleClassNames[classID]
	return ok
}

// VehicleClassName returns the label for a vehicle class id, or "unknown".
func VehicleClassName(classID int) string {
	if name, ok := vehicleClassNames[classID]; ok {
		return name
	}
	return "unknown"
}

// Detection is one tracked object reported by the external model for the
// current frame. TrackID is stable across consecutive frames for the same
// physical object.
type Detection struct {
	TrackID   int       `json:"track_id"`
	ClassID   int       `json:"class_id"`
	Score     float32   `json:"score"`
	X1        int       `json:"x1"`
	Y1        int       `json:"y1"`
	X2        int       `json:"x2"`
	Y2        int       `json:"y2"`
	Timestamp time.Time `json:"timestamp"`
}

// Centroid returns the geometric center of the bounding box, the point
// used for crossing detection.
func (d Detection) Centroid() (int, int) {
	return (d.X1 + d.X2) / 2, (d.Y1 + d.Y2) / 2
}
