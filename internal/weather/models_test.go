package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCondition(t *testing.T) {
	tests := []struct {
		in   string
		want Condition
	}{
		{"Clear", ConditionClear},
		{"clear sky", ConditionClear},
		{"Clouds", ConditionCloudy},
		{"OVERCAST CLOUDS", ConditionCloudy},
		{"Rain", ConditionRain},
		{"Drizzle", ConditionRain},
		{"Snow", ConditionSnow},
		{"Thunderstorm", ConditionStorm},
		{"Mist", ConditionMist},
		{"Fog", ConditionMist},
		{"Haze", ConditionUnknown},
		{"", ConditionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCondition(tt.in))
		})
	}
}

func TestParseUnits(t *testing.T) {
	u, err := ParseUnits(" Imperial ")
	require.NoError(t, err)
	assert.Equal(t, Imperial, u)

	u, err = ParseUnits("metric")
	require.NoError(t, err)
	assert.Equal(t, Metric, u)

	_, err = ParseUnits("kelvin")
	assert.ErrorIs(t, err, ErrInvalidUnits)

	assert.Equal(t, Imperial, Metric.Toggle())
	assert.Equal(t, Metric, Imperial.Toggle())
}
