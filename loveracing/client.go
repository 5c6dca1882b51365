// Package loveracing talks to the LoveRacing calendar endpoint and turns its
// responses into meeting rows. The upstream is treated as untrusted: the
// envelope is a JSON-array-in-a-string contraption and individual events may
// be partially malformed.
package loveracing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const DefaultEndpoint = "https://loveracing.nz/ServerScript/RaceInfo.aspx/GetCalendarEvents"

// FlexString accepts either a JSON string or a bare number; the upstream is
// not consistent about which it sends for identifiers.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// CalendarEvent is one upstream calendar record. The venue can arrive under
// any of three keys depending on the event type.
type CalendarEvent struct {
	DayID          FlexString `json:"DayID"`
	RaceDate       string     `json:"RaceDate"` // "/Date(1767178800000)/"
	Racecourse     string     `json:"Racecourse"`
	TrackAppName   string     `json:"TrackAppName"`
	RacecourseName string     `json:"RacecourseName"`
	Club           string     `json:"Club"`
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is the upstream response shape: {"d": "<json array as string>"}.
type envelope struct {
	D string `json:"d"`
}

// FetchCalendarEvents requests all events in the inclusive [start, end] date
// window. The window strings are passed through in the upstream's own format.
func (c *Client) FetchCalendarEvents(ctx context.Context, start, end string) ([]CalendarEvent, error) {
	payload, err := json.Marshal(map[string]string{"start": start, "end": end})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal calendar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar endpoint returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &MalformedPayloadError{Reason: "response is not a JSON envelope", Err: err}
	}

	events := make([]CalendarEvent, 0)
	if env.D == "" {
		return events, nil
	}
	if err := json.Unmarshal([]byte(env.D), &events); err != nil {
		return nil, &MalformedPayloadError{Reason: "envelope body is not a JSON array", Err: err}
	}
	return events, nil
}

// MalformedPayloadError distinguishes a broken upstream payload from plain
// network failure; callers map the two to different error classes.
type MalformedPayloadError struct {
	Reason string
	Err    error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed calendar payload: %s: %v", e.Reason, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }
