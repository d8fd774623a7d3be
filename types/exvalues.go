package types

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ExValues is an ordered container for HTTP request parameters.
//
// Design notes:
//
//   - order keeps the first-seen order of keys.
//   - Set infers the string form of common value types.
//   - EncodeQuery preserves key insertion order, which matters when the
//     encoded body is fed into a request signature.
type ExValues struct {
	order  []string
	values map[string]string
}

// NewExValues creates a new ExValues instance.
func NewExValues() *ExValues {
	return &ExValues{
		order:  make([]string, 0),
		values: make(map[string]string),
	}
}

// Set sets the value for the given key, replacing any previous value.
// If the key appears for the first time, its position is recorded in order.
func (v *ExValues) Set(key string, value interface{}) {
	if _, exists := v.values[key]; !exists {
		v.order = append(v.order, key)
	}
	v.values[key] = formatValue(value)
}

// SetAll copies every entry of params into the container.
// Map iteration order is not stable, so keys are inserted sorted
// to keep the encoded form deterministic.
func (v *ExValues) SetAll(params map[string]interface{}) {
	if len(params) == 0 {
		return
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set(k, params[k])
	}
}

// Merge appends every entry of other, preserving other's key order.
// Existing keys are overwritten but keep their original position.
func (v *ExValues) Merge(other *ExValues) {
	if other == nil {
		return
	}
	for _, key := range other.order {
		v.Set(key, other.values[key])
	}
}

// EncodeQuery encodes parameters as a URL query string.
// The output preserves the original insertion order of keys.
func (v *ExValues) EncodeQuery() string {
	if len(v.order) == 0 {
		return ""
	}

	var buf strings.Builder
	for _, key := range v.order {
		value, ok := v.values[key]
		if !ok {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(key))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(value))
	}
	return buf.String()
}

// JoinPath joins the encoded query string to the given path.
func (v *ExValues) JoinPath(path string) string {
	query := v.EncodeQuery()
	if query == "" {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + query
	}
	return path + "?" + query
}

// Has reports whether the given key exists.
func (v *ExValues) Has(key string) bool {
	_, ok := v.values[key]
	return ok
}

// Get returns the value associated with the given key.
func (v *ExValues) Get(key string) string {
	return v.values[key]
}

// Len returns the number of stored keys.
func (v *ExValues) Len() int {
	return len(v.order)
}

func formatValue(value interface{}) string {
	switch val := value.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case decimal.Decimal:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
