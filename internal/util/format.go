package util

import (
	"math"
	"strconv"
)

// byteUnits are the display units for FormatBytes, base 1024.
var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes formats a byte count using base-1024 units with at most two
// decimal places and no trailing zeros: 0 -> "0 Bytes", 1536 -> "1.5 KB".
// Values past the TB range stay in TB. Negative and NaN inputs format as
// "0 Bytes", as do infinities.
func FormatBytes(bytes float64) string {
	if bytes <= 0 || math.IsNaN(bytes) || math.IsInf(bytes, 0) {
		return "0 Bytes"
	}

	i := 0
	if bytes >= 1 {
		i = int(math.Floor(math.Log(bytes) / math.Log(1024)))
	}
	if i < 0 {
		i = 0
	}
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}

	value := math.Round(bytes/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + byteUnits[i]
}

// FormatRate formats a bytes-per-second value, e.g. "1.5 KB/s".
func FormatRate(bytesPerSecond float64) string {
	return FormatBytes(bytesPerSecond) + "/s"
}

// FormatPercent formats a percentage with one decimal place and no sign.
func FormatPercent(percent float64) string {
	return strconv.FormatFloat(percent, 'f', 1, 64)
}
