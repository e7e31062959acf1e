// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/url"
)

// GetUser retrieves a user account by login.
func (client *Client) GetUser(ctx context.Context, username string) (*User, error) {
	var user User
	path := "/users/" + url.PathEscape(username)
	if err := client.get(ctx, path, &user); err != nil {
		return nil, fmt.Errorf("getting user %s: %w", username, err)
	}
	return &user, nil
}
