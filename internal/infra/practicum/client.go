// internal/infra/practicum/client.go
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// DefaultEndpoint is the Practicum homework statuses endpoint.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const maxBodySize = 1 << 20

// Client implements homework.API over HTTP. It never retries; the poll loop does.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     *logrus.Logger
}

func NewClient(httpClient *http.Client, endpoint, token string, logger *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		token:      token,
		logger:     logger,
	}
}

// HomeworkStatuses requests statuses of homeworks updated since fromDate.
func (c *Client) HomeworkStatuses(ctx context.Context, fromDate int64) (homework.Payload, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid practicum endpoint %q: %w", c.endpoint, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build practicum request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("from_date", fromDate).Debug("Requesting homework statuses")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if code, denied := denialCode(body); denied {
		return nil, &ServiceDenialError{Code: code}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &BadStatusError{StatusCode: resp.StatusCode}
	}
	if !json.Valid(body) {
		return nil, ErrMalformedBody
	}
	c.logger.WithFields(logrus.Fields{
		"from_date": fromDate,
		"bytes":     len(body),
	}).Debug("Homework statuses received")
	return homework.Payload(body), nil
}

// denialCode detects the API's error object: a JSON object with an "error"
// or "message" key. The code is taken from the "code" key.
func denialCode(body []byte) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", false
	}
	_, hasError := obj["error"]
	_, hasMessage := obj["message"]
	if !hasError && !hasMessage {
		return "", false
	}
	var code string
	if raw, ok := obj["code"]; ok {
		if err := json.Unmarshal(raw, &code); err != nil {
			code = string(raw)
		}
	}
	if code == "" {
		code = "UnknownError"
	}
	return code, true
}
