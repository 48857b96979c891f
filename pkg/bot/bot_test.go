package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/pkg/pipeline"
)

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		data   string
		action pipeline.Action
		id     string
		ok     bool
	}{
		{"confirm_123:456", pipeline.ActionConfirm, "123:456", true},
		{"cancel_123:456", pipeline.ActionCancel, "123:456", true},
		{"confirm_with_underscores_inside", pipeline.ActionConfirm, "with_underscores_inside", true},
		{"confirm_", "", "", false},
		{"confirm", "", "", false},
		{"unknown_123", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		action, id, ok := parseCallbackData(tt.data)
		assert.Equal(t, tt.ok, ok, "data %q", tt.data)
		assert.Equal(t, tt.action, action, "data %q", tt.data)
		assert.Equal(t, tt.id, id, "data %q", tt.data)
	}
}

func TestMessageKeyRoundTripsThroughCallbackData(t *testing.T) {
	key := messageKey(-100123456789, 42)
	assert.Equal(t, "-100123456789:42", key)

	action, id, ok := parseCallbackData("confirm_" + key)
	require.True(t, ok)
	assert.Equal(t, pipeline.ActionConfirm, action)
	assert.Equal(t, key, id)
}

func TestConfirmKeyboardLayout(t *testing.T) {
	kb := confirmKeyboard("1:2")

	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 2)
	require.NotNil(t, kb.InlineKeyboard[0][0].CallbackData)
	require.NotNil(t, kb.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "confirm_1:2", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "cancel_1:2", *kb.InlineKeyboard[0][1].CallbackData)
}
