package calc

// ZoneRate returns the household billing multiplier for the given number
// of time-of-day meter zones ("1", "2" or "3") and reference-local hour.
// Boundaries are half-open on the low end: hour 23 is night, hour 7 is not.
// Anything but "1" or "3" is treated as a two-zone meter.
func ZoneRate(meterZones string, hour int) float64 {
	switch meterZones {
	case "1":
		return 1.0
	case "3":
		// 23:00-07:00 night, 08:00-12:00 and 20:00-23:00 peak
		if hour >= 23 || hour < 7 {
			return 0.4
		}
		if (hour >= 8 && hour < 12) || (hour >= 20 && hour < 23) {
			return 1.5
		}
		return 1.0
	default:
		// 23:00-07:00 night
		if hour >= 23 || hour < 7 {
			return 0.5
		}
		return 1.0
	}
}
