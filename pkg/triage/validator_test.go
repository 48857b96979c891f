package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/pkg/llm"
)

func TestValidateShortCircuitsOnPreFilter(t *testing.T) {
	mock := llm.NewMockClient(llm.CompletionResponse{Content: `{"is_valid_task": true, "confidence": 90}`})
	v := NewValidator(mock)

	verdict, err := v.Validate(context.Background(), "лол")
	require.NoError(t, err)
	assert.False(t, verdict.Accepted)
	assert.Equal(t, 0, mock.CallCount(), "pre-filter rejection must not spend an LLM call")
}

func TestValidateAccepts(t *testing.T) {
	mock := llm.NewMockClient(llm.CompletionResponse{Content: `{"is_valid_task": true, "confidence": 85}`})
	v := NewValidator(mock)

	verdict, err := v.Validate(context.Background(), "Купить молоко завтра")
	require.NoError(t, err)
	assert.True(t, verdict.Accepted)
	assert.Equal(t, 85, verdict.Confidence)
	assert.Equal(t, 1, mock.CallCount())
}

func TestValidateRejects(t *testing.T) {
	mock := llm.NewMockClient(llm.CompletionResponse{Content: `{"is_valid_task": false, "confidence": 95}`})
	v := NewValidator(mock)

	verdict, err := v.Validate(context.Background(), "ну такое себе")
	require.NoError(t, err)
	assert.False(t, verdict.Accepted)
}

func TestValidateSurfacesTransportError(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = errors.New("503 service unavailable")
	v := NewValidator(mock)

	_, err := v.Validate(context.Background(), "Купить молоко завтра")
	assert.Error(t, err)
}

func TestValidateSurfacesParseError(t *testing.T) {
	mock := llm.NewMockClient(llm.CompletionResponse{Content: "да, это задача"})
	v := NewValidator(mock)

	_, err := v.Validate(context.Background(), "Купить молоко завтра")
	assert.Error(t, err)
}

func TestValidateHandlesFencedJSON(t *testing.T) {
	mock := llm.NewMockClient(llm.CompletionResponse{
		Content: "```json\n{\"is_valid_task\": true, \"confidence\": 70}\n```",
	})
	v := NewValidator(mock)

	verdict, err := v.Validate(context.Background(), "Купить молоко завтра")
	require.NoError(t, err)
	assert.True(t, verdict.Accepted)
}
