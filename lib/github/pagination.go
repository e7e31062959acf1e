// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// PageIterator lazily fetches pages of results from a paginated GitHub
// API endpoint, following RFC 5988 Link headers. Not safe for
// concurrent use.
type PageIterator[T any] struct {
	client  *Client
	nextURL string
	done    bool
}

// Next fetches the next page of results. Returns nil, nil when no more
// pages are available.
func (iterator *PageIterator[T]) Next(ctx context.Context) ([]T, error) {
	if iterator.done || iterator.nextURL == "" {
		return nil, nil
	}

	body, header, err := iterator.client.doWithRetry(ctx, http.MethodGet, iterator.nextURL, nil, true)
	if err != nil {
		return nil, err
	}

	items := []T{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}

	iterator.nextURL = parseLinkNext(header.Get("Link"))
	if iterator.nextURL == "" {
		iterator.done = true
	}

	return items, nil
}

// Collect fetches all remaining pages and returns the concatenated
// items.
func (iterator *PageIterator[T]) Collect(ctx context.Context) ([]T, error) {
	var all []T
	for {
		items, err := iterator.Next(ctx)
		if err != nil {
			return all, err
		}
		if items == nil {
			return all, nil
		}
		all = append(all, items...)
	}
}

// parseLinkNext extracts the URL with rel="next" from a Link header.
// Returns empty string if no next link is present.
//
// Format: <https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func parseLinkNext(header string) string {
	for _, part := range strings.Split(header, ",") {
		urlPart, relPart, found := strings.Cut(strings.TrimSpace(part), ";")
		if !found || !strings.Contains(relPart, `rel="next"`) {
			continue
		}
		urlPart = strings.TrimSpace(urlPart)
		if strings.HasPrefix(urlPart, "<") && strings.HasSuffix(urlPart, ">") {
			return urlPart[1 : len(urlPart)-1]
		}
	}
	return ""
}
