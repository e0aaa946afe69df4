package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Delivery is the server's answer to a report upload.
type Delivery struct {
	StatusCode int
	// Reason is the status line's reason phrase.
	Reason string
	// URL is where the report can be viewed; set on success.
	URL string
}

// OK reports whether the server accepted the report.
func (d Delivery) OK() bool {
	return d.StatusCode == http.StatusOK
}

// ReportTransport delivers an encoded report to the collection server.
type ReportTransport interface {
	Send(ctx context.Context, server string, payload []byte) (Delivery, error)
}

// HTTPReportTransport posts reports with net/http. It sets no timeout and
// never retries; ctx is the only way to abandon a hanging upload.
type HTTPReportTransport struct {
	client *http.Client
}

// NewHTTPReportTransport constructs a transport; a nil client means http.DefaultClient.
func NewHTTPReportTransport(client *http.Client) *HTTPReportTransport {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPReportTransport{client: client}
}

// ServerURL returns server with "https://" prepended when it has no scheme.
func ServerURL(server string) string {
	if u, err := url.Parse(server); err == nil && u.Scheme != "" {
		return server
	}

	return "https://" + server
}

// Send posts payload as a form to server.
func (t *HTTPReportTransport) Send(ctx context.Context, server string, payload []byte) (Delivery, error) {
	target := ServerURL(server)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return Delivery{}, fmt.Errorf("failed to create report request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/plain")

	slog.Info("sending test report", "url", target, "bytes", len(payload))

	resp, err := t.client.Do(req)
	if err != nil {
		return Delivery{}, fmt.Errorf("failed to send report to %s: %w", target, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	delivery := Delivery{
		StatusCode: resp.StatusCode,
		Reason:     strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
	}

	if !delivery.OK() {
		slog.Warn("report rejected", "status", resp.Status)
		return delivery, nil
	}

	delivery.URL = server

	var body struct {
		URL string `json:"url"`
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return delivery, fmt.Errorf("failed to read report response: %w", err)
	}

	if err := json.Unmarshal(data, &body); err != nil {
		return delivery, fmt.Errorf("failed to decode report response: %w", err)
	}

	if body.URL != "" {
		delivery.URL = body.URL
	}

	return delivery, nil
}
