package headpose

// Position is the 3D reference point reported for the head, in the upstream
// detector's normalized coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Normalized holds the head rotation as normalized angles: each raw Euler
// angle wrapped into (-pi, pi] and divided by pi, so every component lies in
// [-1, 1].
type Normalized struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Degrees holds the head rotation in degrees, component-wise equal to the
// normalized angles times 180.
type Degrees struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Head describes the rotation, position, and extent of a detected head. The
// top-level X/Y/Z are the rotation in radians (normalized angles times pi);
// Width is the distance between the temple landmarks and Height the distance
// from their midpoint to the chin midpoint.
type Head struct {
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Z          float64     `json:"z"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Position   *Position   `json:"position"`
	Normalized *Normalized `json:"normalized"`
	Degrees    *Degrees    `json:"degrees"`
}

// KalidokitData is the record handed to downstream consumers for each frame.
// Only the head part is produced; the envelope leaves room for future parts.
type KalidokitData struct {
	Head *Head `json:"head"`
}
