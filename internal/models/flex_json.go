package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// playRecordFieldMap caches JSON tag -> struct field index mappings
var (
	playRecordFieldMap     map[string]int
	playRecordFieldMapOnce sync.Once
)

func getPlayRecordFieldMap() map[string]int {
	playRecordFieldMapOnce.Do(func() {
		t := reflect.TypeOf(PlayRecord{})
		playRecordFieldMap = make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			if tag == "" || tag == "-" {
				continue
			}
			name := strings.Split(tag, ",")[0]
			playRecordFieldMap[name] = i
		}
	})
	return playRecordFieldMap
}

// UnmarshalJSON accepts both native JSON types and the string-encoded values
// found in nflverse exports ("NA", "12.0", "1"). Values that can't be coerced
// are left at their zero value, so a bad yardage cell reads as absent.
func (p *PlayRecord) UnmarshalJSON(data []byte) error {
	// Alias prevents infinite recursion
	type Alias PlayRecord
	a := (*Alias)(p)

	// Fast path: every value already has its native type
	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	// Reset anything the failed fast path may have written
	*p = PlayRecord{}

	fieldMap := getPlayRecordFieldMap()
	v := reflect.ValueOf(a).Elem()

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		if len(rawVal) > 1 && rawVal[0] == '"' {
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" || s == MissingMarker {
				continue
			}
			coerceStringToField(fv, s)
			continue
		}

		var n float64
		if err := json.Unmarshal(rawVal, &n); err != nil {
			continue
		}
		switch fv.Kind() {
		case reflect.Bool:
			// 0/1 flags encoded as numbers
			fv.SetBool(n != 0)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			// float columns such as "week": 3.0
			fv.SetInt(int64(n))
		}
	}

	return nil
}

// coerceStringToField converts a string value to the field's native type.
func coerceStringToField(fv reflect.Value, s string) {
	switch fv.Kind() {
	case reflect.Ptr:
		if fv.Type().Elem().Kind() == reflect.Float64 {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				fv.Set(reflect.ValueOf(&n))
			}
		}
	case reflect.Float32, reflect.Float64:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetFloat(n)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// ParseFloat handles "3.0" -> 3
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetInt(int64(n))
		}
	case reflect.Bool:
		fv.SetBool(ParseFlag(s))
	case reflect.String:
		fv.SetString(s)
	}
}

// ParseFlag reads a boolean-ish source value: "1", "1.0", "true", "yes".
func ParseFlag(s string) bool {
	s = strings.TrimSpace(s)
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n != 0
	}
	return strings.EqualFold(s, "yes")
}

// ParseYards reads an optional yardage value. Missing and non-numeric values
// yield nil.
func ParseYards(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == MissingMarker {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}
