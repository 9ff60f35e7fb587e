package gamepad

// AxisMapping defines how a raw axis index maps to a gamepad field.
type AxisMapping struct {
	Index     int32
	Target    string // "left_x", "left_y", "right_x", "right_y", "lt", "rt"
	IsTrigger bool
	// Invert flips the axis for display only; the classifier always sees
	// the host convention where negative is up/left.
	Invert bool
	// For triggers: raw range. Some devices use -32768..32767, others 0..32767.
	RawMin int16
	RawMax int16
}

// ButtonMapping defines how a raw button index maps to a gamepad button.
type ButtonMapping struct {
	Index  int32
	Target string // "a", "b", "x", "y", "lb", "rb", "select", "start", "home", "l3", "r3"
}

// DeviceMapping holds the complete mapping for a specific device type.
type DeviceMapping struct {
	Name    string
	Axes    []AxisMapping
	Buttons []ButtonMapping
	HasHat  bool
}

// NormalizeTrigger converts a raw trigger value to 0.0..1.0.
func NormalizeTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := (float64(raw) - float64(rawMin)) / (float64(rawMax) - float64(rawMin))
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// ApplyDeadzone returns 0 if the value is within the deadzone threshold.
func ApplyDeadzone(v float64, threshold float64) float64 {
	if v > -threshold && v < threshold {
		return 0
	}
	return v
}

func sticks(triggers bool) []AxisMapping {
	axes := []AxisMapping{
		{Index: 0, Target: "left_x"},
		{Index: 1, Target: "left_y", Invert: true},
		{Index: 2, Target: "right_x"},
		{Index: 3, Target: "right_y", Invert: true},
	}
	if triggers {
		axes = append(axes,
			AxisMapping{Index: 4, Target: "lt", IsTrigger: true, RawMin: -32768, RawMax: 32767},
			AxisMapping{Index: 5, Target: "rt", IsTrigger: true, RawMin: -32768, RawMax: 32767},
		)
	}
	return axes
}

func buttons(targets ...string) []ButtonMapping {
	m := make([]ButtonMapping, len(targets))
	for i, t := range targets {
		m[i] = ButtonMapping{Index: int32(i), Target: t}
	}
	return m
}

var xboxButtons = buttons("a", "b", "x", "y", "lb", "rb", "select", "start", "l3", "r3", "home")

var xboxMapping = &DeviceMapping{
	Name:    "xbox",
	Axes:    sticks(true),
	Buttons: xboxButtons,
	HasHat:  true,
}

// Cross, Circle, Square, Triangle, Share, PS, Options, L3, R3, L1, R1.
var playstationMapping = &DeviceMapping{
	Name:    "playstation",
	Axes:    sticks(true),
	Buttons: buttons("a", "b", "x", "y", "select", "home", "start", "l3", "r3", "lb", "rb"),
	HasHat:  true,
}

var switchProMapping = &DeviceMapping{
	Name:    "switch_pro",
	Axes:    sticks(false),
	Buttons: xboxButtons,
	HasHat:  true,
}

var genericMapping = &DeviceMapping{
	Name:    "generic",
	Axes:    sticks(true),
	Buttons: xboxButtons,
	HasHat:  true,
}

// Known vendor/product IDs.
type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxMapping, // Xbox 360
	{0x045E, 0x02FF}: xboxMapping, // Xbox One
	{0x045E, 0x0B12}: xboxMapping, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxMapping, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationMapping, // DualSense
	{0x054C, 0x09CC}: playstationMapping, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationMapping, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProMapping,
}

// GetMapping returns the appropriate mapping for a device identified by vendor/product ID.
// Falls back to generic mapping if no specific mapping is found.
func GetMapping(vendorID, productID uint16) *DeviceMapping {
	key := deviceKey{VendorID: vendorID, ProductID: productID}
	if m, ok := knownDevices[key]; ok {
		return m
	}
	return genericMapping
}
