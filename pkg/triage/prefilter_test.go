package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObviousNonTaskShortInput(t *testing.T) {
	cases := []string{"", " ", "а", "  я  "}
	for _, text := range cases {
		assert.True(t, ObviousNonTask(text), "input %q", text)
	}
}

func TestObviousNonTaskSingleToken(t *testing.T) {
	cases := []string{"отчёт", "сделать", "report", "задача123"}
	for _, text := range cases {
		assert.True(t, ObviousNonTask(text), "input %q", text)
	}
}

func TestObviousNonTaskStopWords(t *testing.T) {
	cases := []string{"лол", "Привет", "ОКЕЙ", "  кек  ", "Hello"}
	for _, text := range cases {
		assert.True(t, ObviousNonTask(text), "input %q", text)
	}
}

func TestObviousNonTaskProfanityPrefix(t *testing.T) {
	assert.True(t, ObviousNonTask("охуеть можно"))
	assert.True(t, ObviousNonTask("Охуенно получилось"))
}

func TestNotObviousForMeaningfulText(t *testing.T) {
	cases := []string{
		"Купить молоко завтра",
		"Позвонить клиенту в 10",
		"Подготовить отчёт к пятнице",
		"Петя должен написать код",
	}
	for _, text := range cases {
		assert.False(t, ObviousNonTask(text), "input %q", text)
	}
}

func TestNotObviousIsNotAcceptance(t *testing.T) {
	// Two meaningless tokens pass the filter; the semantic check decides.
	assert.False(t, ObviousNonTask("ну такое"))
}
