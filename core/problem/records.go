package problem

import (
	"fmt"
	"sort"
	"strconv"
)

// OrderFields is the exact field set every order record must carry.
var OrderFields = []string{
	"customerCode",
	"customerName",
	"latitude",
	"longitude",
	"deliveryTimeStart",
	"deliveryTimeEnd",
	"orderWeight",
	"requestId",
}

// VehicleFields is the exact field set every vehicle record must carry.
var VehicleFields = []string{
	"registrationId",
	"model",
	"capacity",
	"fixedCost",
	"ratePerKm",
	"freeDistance",
}

// Request is the solve input as delivered by the ingestion collaborator.
// Orders and vehicles stay as raw records until validation so that rejected
// ones can be echoed back unchanged.
type Request struct {
	Orders        []map[string]any `json:"orders"`
	Vehicles      []map[string]any `json:"vehicles"`
	DCStart       string           `json:"dcstart"`
	Dock          int              `json:"dock"`
	LoadingTime   int              `json:"loadingTime"`
	UnloadingTime int              `json:"unloadingTime"`
}

// RejectedOrder is an order that failed a validation rule. The record is
// opaque to routing and forwarded to the output layer as-is.
type RejectedOrder struct {
	Record map[string]any `json:"record"`
	Reason string         `json:"reason"`
}

// RejectedVehicle is a vehicle that failed a validation rule.
type RejectedVehicle struct {
	Record map[string]any `json:"record"`
	Reason string         `json:"reason"`
}

// SchemaMismatchError reports that a record's field set does not match the
// expected schema. The solve never starts; the expected field names are
// returned to the caller to correct the input.
type SchemaMismatchError struct {
	Section  string
	Expected []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s schema mismatch, expected fields %v", e.Section, e.Expected)
}

// matchesSchema compares a record's key set against the expected field list.
// Order does not matter, extra or missing fields do.
func matchesSchema(rec map[string]any, fields []string) bool {
	if len(rec) != len(fields) {
		return false
	}
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	want := append([]string(nil), fields...)
	sort.Strings(want)
	for i, f := range want {
		if keys[i] != f {
			return false
		}
	}
	return true
}

// asFloat coerces a decoded JSON value to float64.
func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// asInt coerces a decoded JSON value to int, truncating fractions.
func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	return int(f), ok
}

// asString renders a decoded JSON value as a string.
func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case nil:
		return "", false
	default:
		return fmt.Sprint(x), true
	}
}
