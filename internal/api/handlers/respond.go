package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// round2 rounds to two decimals for response payloads. Stored scores
// keep full precision; rounding happens only at this boundary.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// queryInt reads an integer query parameter with bounds and a default
func queryInt(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return def
	}
	return v
}

// queryFloat reads a float query parameter with bounds and a default
func queryFloat(r *http.Request, name string, def, min, max float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < min || v > max {
		return def
	}
	return v
}
