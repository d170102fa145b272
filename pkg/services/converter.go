package services

import (
	"strings"
	"sync"
	"time"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/spf13/cast"
)

// Built-in conversion lookup keys.
const (
	LookupString          = "String"
	LookupInteger         = "Integer"
	LookupNumber          = "Number"
	LookupBoolean         = "Boolean"
	LookupDate            = "Date"
	LookupCaseInsensitive = "CaseInsensitive"
)

// ConvertFunc converts a value; ok=false means the value cannot be converted.
type ConvertFunc func(value any) (result any, ok bool)

// Converter implements ports.Converter with a registry of lookup keys.
// Safe for concurrent use.
type Converter struct {
	mu    sync.RWMutex
	funcs map[string]ConvertFunc
}

// NewConverter creates a converter with the built-in lookup keys registered.
func NewConverter() *Converter {
	c := &Converter{funcs: make(map[string]ConvertFunc)}
	c.Register(LookupString, func(v any) (any, bool) {
		s, err := cast.ToStringE(v)
		return s, err == nil
	})
	c.Register(LookupInteger, func(v any) (any, bool) {
		n, err := cast.ToInt64E(v)
		return n, err == nil
	})
	c.Register(LookupNumber, func(v any) (any, bool) {
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	})
	c.Register(LookupBoolean, func(v any) (any, bool) {
		b, err := cast.ToBoolE(v)
		return b, err == nil
	})
	c.Register(LookupDate, func(v any) (any, bool) {
		t, err := cast.ToTimeE(v)
		if err != nil {
			return nil, false
		}
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	})
	c.Register(LookupCaseInsensitive, func(v any) (any, bool) {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		return strings.ToLower(s), true
	})
	return c
}

// Register adds or replaces the conversion for a lookup key.
func (c *Converter) Register(lookupKey string, fn ConvertFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs[lookupKey] = fn
}

// ConvertToPrimitive converts value toward lookupKey.
// Undefined, nil and unknown lookup keys convert to domain.Undefined.
func (c *Converter) ConvertToPrimitive(value any, lookupKey string) any {
	if lookupKey == "" {
		return value
	}
	if value == nil || domain.IsUndefined(value) {
		return domain.Undefined
	}

	c.mu.RLock()
	fn, ok := c.funcs[lookupKey]
	c.mu.RUnlock()
	if !ok {
		return domain.Undefined
	}

	result, ok := fn(value)
	if !ok {
		return domain.Undefined
	}
	return result
}
