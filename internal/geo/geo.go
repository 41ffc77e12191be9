// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package geo resolves request IPs to a coarse human-readable location for
// proposal view records. Lookups are strictly best-effort: any failure, from
// network errors to unparseable bodies, degrades to the "unknown" location
// and never surfaces an error to the caller.
package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Unknown is recorded when the lookup cannot produce a location.
const Unknown = "unknown"

// Client queries an ip-api.com compatible JSON endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a lookup client for the given base URL
// (e.g., "http://ip-api.com/json"). The short timeout keeps a slow
// geolocation service from delaying proposal rendering.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 3 * time.Second},
	}
}

type lookupResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// Lookup resolves ip to "City, Country". Private addresses, failures, and
// empty answers all return Unknown.
func (c *Client) Lookup(ctx context.Context, ip string) string {
	if ip == "" {
		return Unknown
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+ip, nil)
	if err != nil {
		return Unknown
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Unknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unknown
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Unknown
	}
	if result.Status != "success" {
		return Unknown
	}

	switch {
	case result.City != "" && result.Country != "":
		return result.City + ", " + result.Country
	case result.Country != "":
		return result.Country
	default:
		return Unknown
	}
}
