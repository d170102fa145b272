package services

import (
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/spf13/cast"
)

// Comparer implements ports.Comparer for strings, numbers, booleans and times.
// Values of different kinds are not coerced: comparing "5" with 5 is undetermined
// unless a lookup key converts one side first.
type Comparer struct {
	converter ports.Converter
}

// NewComparer creates a comparer that applies lookup keys through converter.
func NewComparer(converter ports.Converter) *Comparer {
	return &Comparer{converter: converter}
}

// Compare implements ports.Comparer.
func (c *Comparer) Compare(a, b any, lookupKeyA, lookupKeyB string) domain.ComparisonResult {
	if c.converter != nil {
		a = c.converter.ConvertToPrimitive(a, lookupKeyA)
		b = c.converter.ConvertToPrimitive(b, lookupKeyB)
	}

	if domain.IsUndefined(a) || domain.IsUndefined(b) {
		return domain.ComparisonUndefined
	}
	if a == nil || b == nil {
		if a == nil && b == nil {
			return domain.Equals
		}
		return domain.NotEquals
	}

	if isNumber(a) && isNumber(b) {
		x, errA := cast.ToFloat64E(a)
		y, errB := cast.ToFloat64E(b)
		if errA != nil || errB != nil {
			return domain.ComparisonUndefined
		}
		return order(x < y, x > y)
	}

	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return domain.ComparisonUndefined
		}
		cmp := strings.Compare(x, y)
		return order(cmp < 0, cmp > 0)
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return domain.ComparisonUndefined
		}
		return order(x.Before(y), x.After(y))
	case bool:
		y, ok := b.(bool)
		if !ok {
			return domain.ComparisonUndefined
		}
		if x == y {
			return domain.Equals
		}
		return domain.NotEquals
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return domain.ComparisonUndefined
	}
	if reflect.DeepEqual(a, b) {
		return domain.Equals
	}
	return domain.NotEquals
}

func order(less, greater bool) domain.ComparisonResult {
	switch {
	case less:
		return domain.LessThan
	case greater:
		return domain.GreaterThan
	}
	return domain.Equals
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
