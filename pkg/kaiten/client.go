package kaiten

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"taskdesk/pkg/logx"
	"taskdesk/pkg/task"
)

// DefaultTimeout bounds a single card-creation request.
const DefaultTimeout = 10 * time.Second

// untitledCard is used when a record somehow has no content.
const untitledCard = "Новая задача"

// Result reports the outcome of filing one card. It is never discarded:
// the pipeline surfaces it to the user and to logs in every case.
type Result struct {
	Success bool
	CardID  int64
	CardUID string
	Err     string
}

// Client submits cards to the Kaiten HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logx.Logger
}

// NewClient creates a Kaiten client for the given API base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logx.NewLogger("kaiten"),
	}
}

// cardPayload is the POST /cards request body.
type cardPayload struct {
	Title    string  `json:"title"`
	BoardID  int64   `json:"board_id"`
	ColumnID int64   `json:"column_id"`
	LaneID   int64   `json:"lane_id"`
	DueDate  *string `json:"due_date,omitempty"`
}

// cardResponse is the subset of the success response the bot cares about.
type cardResponse struct {
	ID  int64  `json:"id"`
	UID string `json:"uid"`
}

// CreateCard submits one card. Transport errors and non-2xx responses are
// captured in the result, never raised: filing is best-effort and the
// record is already durably saved by the time this runs.
func (c *Client) CreateCard(ctx context.Context, rec *task.Record, target Target) Result {
	title := rec.Content
	if title == "" {
		title = untitledCard
	}

	payload := cardPayload{
		Title:    title,
		BoardID:  target.BoardID,
		ColumnID: target.ColumnID,
		LaneID:   target.LaneID,
		DueDate:  rec.DueDate,
	}

	body, err := json.Marshal(&payload)
	if err != nil {
		return Result{Err: fmt.Sprintf("failed to marshal card payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cards", bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Sprintf("failed to build card request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("card request failed: %v", err)
		return Result{Err: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("card rejected: status=%d body=%s", resp.StatusCode, respBody)
		return Result{Err: fmt.Sprintf("kaiten returned %d: %s", resp.StatusCode, respBody)}
	}

	var card cardResponse
	if err := json.Unmarshal(respBody, &card); err != nil {
		return Result{Err: fmt.Sprintf("unparsable kaiten response: %v", err)}
	}

	c.logger.Info("card created: id=%d board=%d column=%d", card.ID, target.BoardID, target.ColumnID)
	return Result{Success: true, CardID: card.ID, CardUID: card.UID}
}

// Filer maps a record's category to its routing target and submits the card.
type Filer struct {
	client *Client
	table  *Table
}

// NewFiler creates a filer over the given client and routing table.
func NewFiler(client *Client, table *Table) *Filer {
	return &Filer{client: client, table: table}
}

// File resolves the routing target for the record and creates the card.
func (f *Filer) File(ctx context.Context, rec *task.Record) Result {
	target := f.table.Resolve(rec.Category)
	return f.client.CreateCard(ctx, rec, target)
}
