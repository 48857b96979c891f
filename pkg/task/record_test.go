package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategoryClampsUnknown(t *testing.T) {
	assert.Equal(t, CategoryToday, ParseCategory("Этот день"))
	assert.Equal(t, CategoryFallback, ParseCategory("Backlog"))
	assert.Equal(t, CategoryFallback, ParseCategory(""))
}

func TestCategoriesAreValid(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 5)
	for _, c := range cats {
		assert.True(t, c.Valid(), "category %q", c)
	}
	assert.False(t, Category("что-то ещё").Valid())
}

func TestRecordRoundTrip(t *testing.T) {
	due := "2024-05-10"
	created := time.Date(2024, 5, 10, 15, 4, 5, 0, Zone)

	original := Record{
		Content:         "Позвонить клиенту",
		DueDate:         &due,
		Category:        CategoryToday,
		OriginalMessage: "срочно позвонить клиенту сегодня",
		CreatedAt:       created,
	}

	data, err := json.Marshal(&original)
	require.NoError(t, err)

	var restored Record
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original.Content, restored.Content)
	require.NotNil(t, restored.DueDate)
	assert.Equal(t, due, *restored.DueDate)
	assert.Equal(t, original.Category, restored.Category)
	assert.Equal(t, original.OriginalMessage, restored.OriginalMessage)
	assert.True(t, original.CreatedAt.Equal(restored.CreatedAt))
}

func TestRecordRoundTripNullDueDate(t *testing.T) {
	original := Record{
		Content:   "Купить молоко",
		DueDate:   nil,
		Category:  CategoryThisMonth,
		CreatedAt: Now(),
	}

	data, err := json.Marshal(&original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"due_date":null`)

	var restored Record
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Nil(t, restored.DueDate)
}

func TestDueDateTime(t *testing.T) {
	due := "2024-05-10"
	rec := Record{DueDate: &due}

	dt, ok := rec.DueDateTime()
	require.True(t, ok)
	assert.Equal(t, "10.05.2024", dt.Format("02.01.2006"))

	bad := "not-a-date"
	rec.DueDate = &bad
	_, ok = rec.DueDateTime()
	assert.False(t, ok)

	rec.DueDate = nil
	_, ok = rec.DueDateTime()
	assert.False(t, ok)
}
