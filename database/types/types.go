// Copyright 2025 The releasetrack authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimestamp is returned when a timestamp cannot be normalized to UTC
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// timeLayout is the canonical textual encoding for timestamps in sqlite,
// which has no native timezone support. All stored values are UTC.
const timeLayout = time.RFC3339Nano

// UTCTime is a custom column type that stores timestamps in sqlite as UTC.
// On write any offset is converted to UTC; on read the stored value is
// tagged as UTC-aware before being returned.
//
//nolint:recvcheck
type UTCTime struct {
	time.Time
}

// NewUTCTime normalizes t to UTC. A zero time is rejected, since a zero
// value almost always means the caller forgot to set the field.
func NewUTCTime(t time.Time) (UTCTime, error) {
	if t.IsZero() {
		return UTCTime{}, fmt.Errorf("%w: zero time", ErrInvalidTimestamp)
	}
	return UTCTime{Time: t.UTC()}, nil
}

// Now returns the current instant as a UTCTime
func Now() UTCTime {
	return UTCTime{Time: time.Now().UTC()}
}

func (t UTCTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, fmt.Errorf("%w: zero time", ErrInvalidTimestamp)
	}
	return t.UTC().Format(timeLayout), nil
}

func (t *UTCTime) Scan(val any) error {
	switch v := val.(type) {
	case string:
		parsed, err := time.Parse(timeLayout, v)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTimestamp, v)
		}
		t.Time = parsed.UTC()
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case nil:
		return fmt.Errorf("%w: NULL in non-nullable column", ErrInvalidTimestamp)
	default:
		return fmt.Errorf(
			"value was not expected type, wanted string, got %T",
			val,
		)
	}
}

func (UTCTime) GormDataType() string {
	return "text"
}

// Equal compares instants, ignoring location
func (t UTCTime) Equal(other UTCTime) bool {
	return t.Time.Equal(other.Time)
}

// StringList is a JSON-encoded list of strings stored in a text column.
// Order is preserved on round-trip but carries no meaning.
//
//nolint:recvcheck
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(val any) error {
	var data []byte
	switch v := val.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case nil:
		*l = StringList{}
		return nil
	default:
		return fmt.Errorf(
			"value was not expected type, wanted string, got %T",
			val,
		)
	}
	var tmpList []string
	if err := json.Unmarshal(data, &tmpList); err != nil {
		return fmt.Errorf("decode string list: %w", err)
	}
	*l = StringList(tmpList)
	return nil
}

func (StringList) GormDataType() string {
	return "text"
}

// Contains reports whether the list has the given entry
func (l StringList) Contains(entry string) bool {
	for _, item := range l {
		if item == entry {
			return true
		}
	}
	return false
}
