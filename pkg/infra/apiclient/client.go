// Package apiclient talks to a running devscan server over its JSON API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/controller/server"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/repository"
	"github.com/devstudio-sec/devscan/pkg/utils/safe"
)

const maxResponseSize = 16 << 20

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL    *url.URL
	httpClient HTTPClient
}

type Option func(*Client)

func WithHTTPClient(client HTTPClient) Option {
	return func(x *Client) {
		x.httpClient = client
	}
}

func New(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "invalid server URL", goerr.V("url", baseURL))
	}

	client := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// Scan asks the server to scan repoURL. Both successful and failed scans are
// returned as an envelope; err is set only when no envelope was received.
func (x *Client) Scan(ctx context.Context, repoURL string, token types.Credential) (*model.ResultEnvelope, error) {
	var env model.ResultEnvelope
	req := &server.ScanRequest{RepoURL: repoURL, AccessToken: string(token)}
	if err := x.post(ctx, "/api/send_query", req, &env, http.StatusOK, http.StatusUnprocessableEntity); err != nil {
		return nil, err
	}
	return &env, nil
}

func (x *Client) PushNotification(ctx context.Context, repoURL string, token types.Credential, text string) (*model.Notification, error) {
	var resp server.StatusResponse
	req := &server.PushNotificationRequest{RepoURL: repoURL, AccessToken: string(token), Notification: text}
	if err := x.post(ctx, "/api/push_notif", req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Notification, nil
}

func (x *Client) GetNotifications(ctx context.Context, token types.Credential) ([]*model.Notification, error) {
	var resp server.NotificationsResponse
	req := &server.GetNotificationsRequest{AccessToken: string(token)}
	if err := x.post(ctx, "/api/get_notif", req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// DeleteNotification returns repository.ErrNotFound if the server does not know id.
func (x *Client) DeleteNotification(ctx context.Context, id types.NotificationID) error {
	var resp server.StatusResponse
	return x.post(ctx, "/api/del_notif", &server.DeleteNotificationRequest{ID: id}, &resp, http.StatusOK)
}

func (x *Client) post(ctx context.Context, path string, reqBody, respBody any, accepted ...int) error {
	raw, err := json.Marshal(reqBody)
	if err != nil {
		return goerr.Wrap(err, "failed to encode request", goerr.V("path", path))
	}

	endpoint := x.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V("url", endpoint.String()))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request", goerr.V("url", endpoint.String()))
	}
	defer safe.Close(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return goerr.Wrap(err, "failed to read response", goerr.V("url", endpoint.String()))
	}

	for _, code := range accepted {
		if resp.StatusCode == code {
			if err := json.Unmarshal(body, respBody); err != nil {
				return goerr.Wrap(err, "failed to decode response",
					goerr.V("url", endpoint.String()),
					goerr.V("status", resp.StatusCode),
				)
			}
			return nil
		}
	}

	var status server.StatusResponse
	_ = json.Unmarshal(body, &status)

	base := types.ErrRemoteAPI
	if resp.StatusCode == http.StatusNotFound {
		base = repository.ErrNotFound
	}
	return goerr.Wrap(base, "server returned an error",
		goerr.V("url", endpoint.String()),
		goerr.V("status", resp.StatusCode),
		goerr.V("message", status.Message),
	)
}
