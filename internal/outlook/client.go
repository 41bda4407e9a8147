package outlook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/nordhaul/pickup-coordinator/internal/config"
	"github.com/nordhaul/pickup-coordinator/internal/timezone"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// Event is one raw calendar entry as the sync loop sees it.
type Event struct {
	ID      string
	Subject string
	Body    string
	Start   time.Time
}

// Feed yields the calendar events inside a window. The sync usecase only
// knows this interface; tests substitute a fixed slice.
type Feed interface {
	Events(ctx context.Context, start, end time.Time) ([]Event, error)
}

// Client reads the scheduling mailbox calendar through MS Graph using the
// client-credentials flow.
type Client struct {
	http      *http.Client
	userEmail string
}

func NewClient(cfg *config.Config) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.GraphClientID,
		ClientSecret: cfg.GraphClientSecret,
		TokenURL: fmt.Sprintf(
			"https://login.microsoftonline.com/%s/oauth2/v2.0/token",
			cfg.GraphTenantID,
		),
		Scopes: []string{"https://graph.microsoft.com/.default"},
	}

	return &Client{
		http:      cc.Client(context.Background()),
		userEmail: cfg.GraphUserEmail,
	}
}

type graphEvent struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    struct {
		Content string `json:"content"`
	} `json:"body"`
	Start struct {
		DateTime string `json:"dateTime"`
		TimeZone string `json:"timeZone"`
	} `json:"start"`
}

type graphEventList struct {
	Value []graphEvent `json:"value"`
}

func (c *Client) Events(ctx context.Context, start, end time.Time) ([]Event, error) {
	filter := fmt.Sprintf(
		"start/dateTime ge '%s' and start/dateTime le '%s'",
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
	)

	endpoint := fmt.Sprintf(
		"%s/users/%s/calendar/events?$filter=%s&$select=id,subject,start,body&$top=100",
		graphBaseURL,
		url.PathEscape(c.userEmail),
		url.QueryEscape(filter),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph events: unexpected status %d", resp.StatusCode)
	}

	var list graphEventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(list.Value))
	for _, ge := range list.Value {
		events = append(events, Event{
			ID:      ge.ID,
			Subject: ge.Subject,
			Body:    ge.Body.Content,
			Start:   parseGraphTime(ge.Start.DateTime, ge.Start.TimeZone),
		})
	}
	return events, nil
}

// Graph reports "2006-01-02T15:04:05.0000000" plus a named zone.
func parseGraphTime(value, tz string) time.Time {
	loc := timezone.Location(tz)
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
		time.RFC3339,
	} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}
