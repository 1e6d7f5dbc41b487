package weather

// PrecipPolicy adjusts the precipitation fields of a parsed row. The provider
// reports all precipitation as liquid millimetres and never fills snowfall.
type PrecipPolicy func(r *Row)

// ColdSwapPolicy reclassifies sub-zero precipitation as snow: below 0°C the
// reported rainfall is moved to the snowfall column at a tenth of its value
// (mm of rain to cm of snow). This is an approximation for a provider that
// lacks precipitation-type data, not a meteorological rule; replace it via
// the client's Policy field if better data is available.
func ColdSwapPolicy(r *Row) {
	if r.Temperature < 0 {
		r.Rainfall, r.Snowfall = r.Snowfall, r.Rainfall/10
	}
}

// KeepPolicy leaves the parsed precipitation untouched.
func KeepPolicy(r *Row) {}
