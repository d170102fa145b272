package services

import (
	"testing"
	"time"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestComparer_Compare(t *testing.T) {
	c := NewComparer(NewConverter())

	tests := []struct {
		name   string
		a, b   any
		ka, kb string
		want   domain.ComparisonResult
	}{
		{"equal strings", "C", "C", "", "", domain.Equals},
		{"case sensitive", "c", "G", "", "", domain.GreaterThan},
		{"string less", "B", "C", "", "", domain.LessThan},
		{"mixed numbers", 3, 2.5, "", "", domain.GreaterThan},
		{"string vs number", "5", 5, "", "", domain.ComparisonUndefined},
		{"converted string vs number", "5", 5, LookupInteger, "", domain.Equals},
		{"case insensitive", "ABC", "abc", LookupCaseInsensitive, LookupCaseInsensitive, domain.Equals},
		{"booleans differ", true, false, "", "", domain.NotEquals},
		{"undefined", domain.Undefined, 1, "", "", domain.ComparisonUndefined},
		{"nil vs value", nil, 1, "", "", domain.NotEquals},
		{"nil vs nil", nil, nil, "", "", domain.Equals},
		{"dates", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "", "", domain.LessThan},
		{"failed conversion", "abc", 1, LookupInteger, "", domain.ComparisonUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Compare(tt.a, tt.b, tt.ka, tt.kb))
		})
	}
}

func TestConverter_ConvertToPrimitive(t *testing.T) {
	c := NewConverter()

	assert.Equal(t, "x", c.ConvertToPrimitive("x", ""))
	assert.Equal(t, int64(42), c.ConvertToPrimitive("42", LookupInteger))
	assert.Equal(t, 1.5, c.ConvertToPrimitive("1.5", LookupNumber))
	assert.Equal(t, true, c.ConvertToPrimitive("true", LookupBoolean))
	assert.True(t, domain.IsUndefined(c.ConvertToPrimitive("nope", LookupInteger)))
	assert.True(t, domain.IsUndefined(c.ConvertToPrimitive("x", "Unknown")))
	assert.True(t, domain.IsUndefined(c.ConvertToPrimitive(nil, LookupString)))

	c.Register("Reverse", func(v any) (any, bool) {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		r := []rune(s)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return string(r), true
	})
	assert.Equal(t, "cba", c.ConvertToPrimitive("abc", "Reverse"))

	date := c.ConvertToPrimitive("2024-03-05T15:04:05Z", LookupDate)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), date)
}
