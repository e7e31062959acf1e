// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import "testing"

func TestParseLinkNext(t *testing.T) {
	const base = "https://api.github.com/repos/acme/access/issues/7/comments"

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{
			name:     "empty header",
			header:   "",
			expected: "",
		},
		{
			name:     "next and last",
			header:   `<` + base + `?page=2>; rel="next", <` + base + `?page=5>; rel="last"`,
			expected: base + "?page=2",
		},
		{
			name:     "only last",
			header:   `<` + base + `?page=1>; rel="last"`,
			expected: "",
		},
		{
			name:     "prev before next",
			header:   `<` + base + `?page=1>; rel="prev", <` + base + `?page=3>; rel="next", <` + base + `?page=5>; rel="last"`,
			expected: base + "?page=3",
		},
		{
			name:     "url with query parameters",
			header:   `<` + base + `?per_page=100&page=2>; rel="next"`,
			expected: base + "?per_page=100&page=2",
		},
		{
			name:     "malformed part without rel",
			header:   `<` + base + `?page=2>`,
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := parseLinkNext(test.header); got != test.expected {
				t.Errorf("got %q, want %q", got, test.expected)
			}
		})
	}
}
