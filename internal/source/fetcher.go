package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-prioritizer/internal/config"
)

// Record is one raw ticket entry as the external source shapes it.
type Record struct {
	TicketNumber string `json:"cnb_support_ticket_number"`
	Title        string `json:"cnb_support_ticket_title"`
	Content      string `json:"cnb_support_ticket_content"`
	Priority     string `json:"cnb_support_ticket_priority"`
	CreatedAt    string `json:"cnb_created_datetime"`
}

// ClientData is the parsed payload for one client: its display name plus raw
// ticket records in payload order.
type ClientData struct {
	ClientName string
	Records    []Record
}

// Fetcher retrieves raw per-client ticket data from the external source.
type Fetcher struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher constructs a fetcher for the configured source endpoint.
func NewFetcher(cfg config.SourceConfig, logger *zap.Logger, opts ...func(*Fetcher)) *Fetcher {
	f := &Fetcher{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithHTTPClient overrides the internal HTTP client.
func WithHTTPClient(hc *http.Client) func(*Fetcher) {
	return func(f *Fetcher) {
		f.httpClient = hc
	}
}

// WithURL overrides the source endpoint (useful for tests).
func WithURL(u string) func(*Fetcher) {
	return func(f *Fetcher) {
		if u != "" {
			f.url = u
		}
	}
}

// Fetch posts the client identifier to the source and returns the parsed
// payload. A transport or parse failure returns an error; the caller decides
// to skip the client.
func (f *Fetcher) Fetch(ctx context.Context, cnbID string) (*ClientData, error) {
	form := url.Values{"cnb_id": {cnbID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("source: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("source: api error %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("source: read body: %w", err)
	}

	data, err := parseClientData(unwrapBody(body))
	if err != nil {
		return nil, fmt.Errorf("source: parse payload for %s: %w", cnbID, err)
	}

	f.logger.Debug("fetched client data",
		zap.String("cnb_id", cnbID),
		zap.String("client_name", data.ClientName),
		zap.Int("records", len(data.Records)))
	return data, nil
}

// unwrapBody strips the <pre>...</pre> wrapper the source sometimes adds
// around its JSON payload.
func unwrapBody(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("<pre>")) && bytes.HasSuffix(trimmed, []byte("</pre>")) {
		trimmed = trimmed[len("<pre>") : len(trimmed)-len("</pre>")]
		trimmed = bytes.TrimSpace(trimmed)
	}
	return trimmed
}

// parseClientData walks the top-level JSON object with a token decoder so
// record order follows the payload, not Go map iteration. Scalar entries are
// client metadata; only cnb_title is consumed, everything else non-object is
// skipped.
func parseClientData(raw []byte) (*ClientData, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	data := &ClientData{ClientName: "Unknown"}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		if key == "cnb_title" {
			var name string
			if err := json.Unmarshal(value, &name); err == nil && name != "" {
				data.ClientName = name
			}
			continue
		}

		trimmed := bytes.TrimSpace(value)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var rec Record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			continue
		}
		data.Records = append(data.Records, rec)
	}

	return data, nil
}
