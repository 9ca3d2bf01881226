// Package httpremote implements remotes.Remote over HTTP, grounded on the
// teacher's registry/proxy package (a store whose Get/Put methods reach a
// remote over HTTP) but using hashicorp/go-retryablehttp in place of a bare
// http.Client, since the teacher's own proxy layer has no built-in retry
// and the rest of the example pack reaches for retryablehttp for exactly
// this kind of best-effort network call.
package httpremote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

// Remote fetches and pushes component bundles against one named HTTP
// endpoint.
type Remote struct {
	name    string
	baseURL string
	client  *retryablehttp.Client
}

// New constructs a Remote named name, reachable at baseURL (no trailing
// slash). logger, if non-nil, receives retry diagnostics.
func New(name, baseURL string, logger *logrus.Entry) *Remote {
	client := retryablehttp.NewClient()
	client.Logger = leveledLogger{logger}
	return &Remote{name: name, baseURL: baseURL, client: client}
}

func (r *Remote) Name() string { return r.name }

type fetchRequest struct {
	Ids      []string `json:"ids"`
	OnlyHead bool     `json:"onlyHead"`
}

// Fetch implements remotes.Remote.
func (r *Remote) Fetch(ctx context.Context, ids []scope.BitId, onlyHead bool) ([]sourcesrepo.ComponentObjects, error) {
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	body, err := json.Marshal(fetchRequest{Ids: idStrings, OnlyHead: onlyHead})
	if err != nil {
		return nil, fmt.Errorf("httpremote: encode fetch request: %w", err)
	}

	var wire []wireBundle
	if err := r.do(ctx, http.MethodPost, "/fetch", body, &wire); err != nil {
		return nil, err
	}

	bundles := make([]sourcesrepo.ComponentObjects, len(wire))
	for i, w := range wire {
		bundles[i], err = w.toComponentObjects()
		if err != nil {
			return nil, err
		}
	}
	return bundles, nil
}

// PushMany implements remotes.Remote.
func (r *Remote) PushMany(ctx context.Context, bundles []sourcesrepo.ComponentObjects) ([]string, error) {
	wire := make([]wireBundle, len(bundles))
	for i, b := range bundles {
		wire[i] = toWireBundle(b)
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("httpremote: encode push request: %w", err)
	}

	var accepted []string
	if err := r.do(ctx, http.MethodPost, "/push", body, &accepted); err != nil {
		return nil, err
	}
	return accepted, nil
}

func (r *Remote) do(ctx context.Context, method, path string, body []byte, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("httpremote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("httpremote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return scope.ErrRemoteScopeNotFound(r.name)
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("httpremote: %s %s: unexpected status %d: %s", method, path, resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("httpremote: decode response: %w", err)
	}
	return nil
}

// leveledLogger adapts *logrus.Entry to retryablehttp.LeveledLogger.
type leveledLogger struct {
	entry *logrus.Entry
}

func (l leveledLogger) fields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	if l.entry == nil {
		return
	}
	l.entry.WithFields(l.fields(keysAndValues)).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	if l.entry == nil {
		return
	}
	l.entry.WithFields(l.fields(keysAndValues)).Info(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	if l.entry == nil {
		return
	}
	l.entry.WithFields(l.fields(keysAndValues)).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	if l.entry == nil {
		return
	}
	l.entry.WithFields(l.fields(keysAndValues)).Warn(msg)
}
