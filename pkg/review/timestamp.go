// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package review

import (
	"encoding/json"
	"math"
	"time"
)

// Timestamp is an optional instant. The zero value is unset; the Unix epoch is
// a valid, set timestamp.
type Timestamp struct {
	t     time.Time
	valid bool
}

// NoTimestamp is the unset timestamp.
var NoTimestamp = Timestamp{}

// At returns a set timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{t: t, valid: true}
}

// IsSet reports whether the timestamp holds a value.
func (ts Timestamp) IsSet() bool {
	return ts.valid
}

// Time returns the instant and whether it is set.
func (ts Timestamp) Time() (time.Time, bool) {
	return ts.t, ts.valid
}

// Equal reports whether both timestamps are unset or hold the same instant.
func (ts Timestamp) Equal(other Timestamp) bool {
	if ts.valid != other.valid {
		return false
	}
	return !ts.valid || ts.t.Equal(other.t)
}

func (ts Timestamp) String() string {
	if !ts.valid {
		return "<unset>"
	}
	return ts.t.Format(time.RFC3339Nano)
}

// MarshalJSON encodes an unset timestamp as null.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.valid {
		return []byte("null"), nil
	}
	return json.Marshal(ts.t)
}

// UnmarshalJSON accepts null or an RFC 3339 string.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = NoTimestamp
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	*ts = At(t)
	return nil
}

// seconds encodes the instant as float seconds since the Unix epoch, the
// representation kept in storage.
func (ts Timestamp) seconds() float64 {
	return float64(ts.t.Unix()) + float64(ts.t.Nanosecond())/1e9
}

func timestampFromSeconds(v float64) Timestamp {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoTimestamp
	}
	sec, frac := math.Modf(v)
	return At(time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC())
}

// wholeDaysBetween truncates toward zero.
func wholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
