package config

import (
	"testing"

	"github.com/amirphl/Susanoo/utils"
	"github.com/stretchr/testify/assert"
)

func TestResolveCommissionPercent(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		expected int
	}{
		{name: "Empty", value: "", expected: utils.DefaultCommissionPercent},
		{name: "Whitespace", value: "   ", expected: utils.DefaultCommissionPercent},
		{name: "NonNumeric", value: "ten", expected: utils.DefaultCommissionPercent},
		{name: "Negative", value: "-5", expected: utils.DefaultCommissionPercent},
		{name: "Above100", value: "101", expected: utils.DefaultCommissionPercent},
		{name: "Float", value: "12.5", expected: utils.DefaultCommissionPercent},
		{name: "Zero", value: "0", expected: 0},
		{name: "Hundred", value: "100", expected: 100},
		{name: "Typical", value: "15", expected: 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PLATFORM_COMMISSION_PERCENT", tc.value)
			assert.Equal(t, tc.expected, resolveCommissionPercent())
		})
	}
}
