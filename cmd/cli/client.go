package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// request calls the server and decodes a JSON response into out when out is non-nil.
// Non-2xx responses are returned as errors carrying the server's detail message.
func request(method, endpoint string, query url.Values, body, out any) error {
	if query == nil {
		query = url.Values{}
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	target := host + endpoint
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Detail != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, errBody.Detail)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		fmt.Println(string(raw))
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func performGetRequest(endpoint string) error {
	return request(http.MethodGet, endpoint, nil, nil, nil)
}
