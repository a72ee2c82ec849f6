package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"full", "00:32:15", 32.25},
		{"hours", "01:02:30", 62.5},
		{"minutes only", "25:00", 25},
		{"thirds round to two decimals", "00:10:20", 10.33},
		{"zero", "00:00:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseDuration_Malformed(t *testing.T) {
	for _, input := range []string{"", "12", "aa:bb:cc", "1:2:3:4", "00:-1:00"} {
		_, err := ParseDuration(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:32:15", FormatDuration(32*time.Minute+15*time.Second))
	assert.Equal(t, "01:00:01", FormatDuration(time.Hour+time.Second))
	assert.Equal(t, "00:00:00", FormatDuration(-time.Second))
}

func TestParticipantHelpers(t *testing.T) {
	p := Participant{
		Name:   "Faker#KR1",
		Spells: [2]int{4, 12},
		Items:  [ItemSlots]int{3157, 0, 0, 0, 0, 0, 3364},
	}

	assert.Equal(t, "Faker", p.GameName())
	assert.True(t, p.HasSpell(12))
	assert.False(t, p.HasSpell(11))
	assert.True(t, p.HasItem(map[int]bool{3157: true}))
	assert.False(t, p.HasItem(map[int]bool{0: true}))
}
