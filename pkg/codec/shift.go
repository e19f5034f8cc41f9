package codec

import (
	"encoding/binary"
	"math"
)

// Shift is one grid node of a sub-grid. Shifts are in degrees; accuracies
// are kept in the unit the file stores them in.
type Shift struct {
	LatShift    float64
	LonShift    float64
	LatAccuracy float64
	LonAccuracy float64
}

// DecodeShift reads four little-endian float32 values from a shift record
func DecodeShift(raw Record) Shift {
	dlat := math.Float32frombits(binary.LittleEndian.Uint32(raw[0:4]))
	dlon := math.Float32frombits(binary.LittleEndian.Uint32(raw[4:8]))
	accLat := math.Float32frombits(binary.LittleEndian.Uint32(raw[8:12]))
	accLon := math.Float32frombits(binary.LittleEndian.Uint32(raw[12:16]))

	return Shift{
		LatShift:    float64(dlat) / ArcSecondsPerDegree,
		LonShift:    float64(dlon) / ArcSecondsPerDegree,
		LatAccuracy: float64(accLat),
		LonAccuracy: float64(accLon),
	}
}

// Array returns the shift as [lat, lon, latAccuracy, lonAccuracy]
func (s Shift) Array() [4]float64 {
	return [4]float64{s.LatShift, s.LonShift, s.LatAccuracy, s.LonAccuracy}
}
