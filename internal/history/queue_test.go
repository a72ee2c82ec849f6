package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"RANKED_SOLO_5x5", "Ranked Solo/Duo"},
		{"RANKED_FLEX_SR", "Ranked Flex"},
		{"CLASH", "Clash"},
		{"NORMAL_BLIND", "Normal Blind"},
		{"NORMAL_DRAFT", "Normal Draft"},
		{"ARAM", "ARAM"},
		{"CHERRY", "Arena"},
		{"ULTBOOK", "Ultbook"},
		{"DOOMBOTS_TEEMO", "Doombots Teemo"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := QueueLabel(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueueLabel_Unreadable(t *testing.T) {
	_, err := QueueLabel("  ")
	assert.ErrorIs(t, err, ErrUnreadableQueue)
}
