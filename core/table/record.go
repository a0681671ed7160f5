package table

import (
	"fmt"
	"strconv"
	"time"
)

// Record is one row's underlying data. Its shape is owned by the page that declares the columns.
type Record map[string]interface{}

// Get returns the raw value stored under key. Missing keys and nil records report ok == false.
func (r Record) Get(key string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	return v, ok
}

// String returns the plain text form of the value stored under key, or "" when it is missing.
func (r Record) String(key string) string {
	v, _ := r.Get(key)
	return ValueString(v)
}

func (r Record) ID() string {
	return r.String("id")
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// ValueString renders a raw field value as plain text. nil renders as "".
func ValueString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
