package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ytcast/internal/models"
)

// DefaultNotifyTimeout bounds a video server notification.
const DefaultNotifyTimeout = 2 * time.Second

// Notifier tells a video server which videos a feed currently lists.
type Notifier interface {
	Notify(ctx context.Context, server string, videoIDs []string) error
}

// HTTPNotifier POSTs the video IDs as a JSON array to https://{server}.
//
// A notification is a single attempt bounded by the timeout. It is never
// retried, and a response arriving after the timeout is discarded. Errors are
// returned as *models.NotificationError for the caller to log.
type HTTPNotifier struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPNotifier creates an HTTPNotifier. A nil client means http.DefaultClient;
// a non-positive timeout means DefaultNotifyTimeout.
func NewHTTPNotifier(client *http.Client, timeout time.Duration) *HTTPNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &HTTPNotifier{client: client, timeout: timeout}
}

// Notify sends videoIDs to server.
func (n *HTTPNotifier) Notify(ctx context.Context, server string, videoIDs []string) error {
	if videoIDs == nil {
		videoIDs = []string{}
	}
	body, err := json.Marshal(videoIDs)
	if err != nil {
		return &models.NotificationError{Server: server, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+server, bytes.NewReader(body))
	if err != nil {
		return &models.NotificationError{Server: server, Err: err}
	}
	req.Header.Set("Content-type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return &models.NotificationError{Server: server, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &models.NotificationError{Server: server, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}
