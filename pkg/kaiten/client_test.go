package kaiten

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/pkg/task"
)

func testRecord(due *string) *task.Record {
	return &task.Record{
		Content:         "Купить молоко",
		DueDate:         due,
		Category:        task.CategoryThisMonth,
		OriginalMessage: "Купить молоко",
		CreatedAt:       task.Now(),
	}
}

func TestCreateCardSuccess(t *testing.T) {
	var gotPayload map[string]any
	var gotAuth, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cards", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"id": 42, "uid": "abc-123"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token")
	due := "2024-05-10"

	result := client.CreateCard(context.Background(), testRecord(&due), Target{BoardID: 1, ColumnID: 2, LaneID: 3})

	require.True(t, result.Success)
	assert.Equal(t, int64(42), result.CardID)
	assert.Equal(t, "abc-123", result.CardUID)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/json; charset=utf-8", gotContentType)
	assert.Equal(t, "Купить молоко", gotPayload["title"])
	assert.Equal(t, float64(1), gotPayload["board_id"])
	assert.Equal(t, float64(2), gotPayload["column_id"])
	assert.Equal(t, float64(3), gotPayload["lane_id"])
	assert.Equal(t, "2024-05-10", gotPayload["due_date"])
}

func TestCreateCardOmitsNullDueDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, hasDue := payload["due_date"]
		assert.False(t, hasDue, "null due date must be omitted from payload")
		_, _ = w.Write([]byte(`{"id": 1, "uid": "u"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	result := client.CreateCard(context.Background(), testRecord(nil), Target{BoardID: 1, ColumnID: 2, LaneID: 3})
	assert.True(t, result.Success)
}

func TestCreateCardNon2xxIsFailureResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "bad token"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "wrong")
	result := client.CreateCard(context.Background(), testRecord(nil), Target{BoardID: 1, ColumnID: 2, LaneID: 3})

	assert.False(t, result.Success)
	assert.Contains(t, result.Err, "401")
	assert.Contains(t, result.Err, "bad token")
}

func TestCreateCardTransportErrorIsFailureResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // immediately, so the request fails

	client := NewClient(srv.URL, "token")
	result := client.CreateCard(context.Background(), testRecord(nil), Target{BoardID: 1, ColumnID: 2, LaneID: 3})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Err)
}

func TestFilerRoutesByCategory(t *testing.T) {
	var gotBoard float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotBoard = payload["board_id"].(float64)
		_, _ = w.Write([]byte(`{"id": 7, "uid": "u7"}`))
	}))
	defer srv.Close()

	filer := NewFiler(NewClient(srv.URL, "token"), DefaultTable())

	rec := testRecord(nil)
	rec.Category = task.CategoryDelegatedToMe

	result := filer.File(context.Background(), rec)
	require.True(t, result.Success)
	assert.Equal(t, float64(300339), gotBoard)
}

func TestFilerUnknownCategoryUsesFallbackTarget(t *testing.T) {
	var gotBoard, gotColumn float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotBoard = payload["board_id"].(float64)
		gotColumn = payload["column_id"].(float64)
		_, _ = w.Write([]byte(`{"id": 8, "uid": "u8"}`))
	}))
	defer srv.Close()

	filer := NewFiler(NewClient(srv.URL, "token"), DefaultTable())

	rec := testRecord(nil)
	rec.Category = task.Category("Неизвестная колонка")

	result := filer.File(context.Background(), rec)
	require.True(t, result.Success)

	fallback := DefaultTable().Resolve(task.CategoryFallback)
	assert.Equal(t, float64(fallback.BoardID), gotBoard)
	assert.Equal(t, float64(fallback.ColumnID), gotColumn)
}
