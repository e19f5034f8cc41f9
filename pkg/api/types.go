package api

import "math"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	Source string // Path of the served grid file, reported by /health
}

// HealthResponse is returned by /health
type HealthResponse struct {
	Status   string `json:"status"`
	Source   string `json:"source,omitempty"`
	SubGrids int    `json:"sub_grids"`
	Shifts   int    `json:"shifts"`
}

// SubGridInfo is one row of the sub-grid listing
type SubGridInfo struct {
	Name    string `json:"name"`
	Parent  string `json:"parent"`
	Count   int64  `json:"count"`
	Decoded int    `json:"decoded"`
}

// ShiftResponse is a single shift record of a sub-grid. NaN and ±Inf are
// sent as null.
type ShiftResponse struct {
	SubGrid     string   `json:"sub_grid"`
	Index       int      `json:"index"`
	LatShift    *float64 `json:"lat_shift"`
	LonShift    *float64 `json:"lon_shift"`
	LatAccuracy *float64 `json:"lat_accuracy"`
	LonAccuracy *float64 `json:"lon_accuracy"`
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
