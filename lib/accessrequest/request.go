// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package accessrequest

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// AccessRequest is the structured content of one access-request issue.
// It is constructed once by Extract and read-only thereafter.
type AccessRequest struct {
	// Name is the requester's display name.
	Name string

	// Email is the requester's contact email. Its domain decides
	// whether the request is approved without an approver.
	Email string

	// Username is the requester's GitHub login, without a leading "@".
	Username string

	// ApproverEmail is the PM/COR contact email.
	ApproverEmail string

	// ApproverUsername is the PM/COR GitHub login without a leading
	// "@", or "" when the form does not ask for it.
	ApproverUsername string

	// Contract is the free-text contract reference, or "" when the
	// form does not ask for it.
	Contract string
}

// fingerprintDomainKey separates request fingerprints from any other
// BLAKE3 keyed hash. Changing it changes every fingerprint, which
// breaks duplicate detection against comments already posted.
var fingerprintDomainKey = [32]byte{
	'w', 'a', 'r', 'd', 'e', 'n', '.', 'a', 'c', 'c', 'e', 's', 's', 'r', 'e', 'q',
	'u', 'e', 's', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// fingerprintSize is the number of digest bytes kept in a fingerprint.
const fingerprintSize = 16

// Fingerprint returns a stable hex digest of the request. Emails and
// usernames are compared case-insensitively by GitHub and SMTP, so
// they are lowercased before hashing; the name and contract are
// hashed as written. Fields are NUL-separated so adjacent values
// cannot run together.
func (request AccessRequest) Fingerprint() string {
	hasher, err := blake3.NewKeyed(fingerprintDomainKey[:])
	if err != nil {
		panic("accessrequest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	for _, value := range []string{
		request.Name,
		strings.ToLower(request.Email),
		strings.ToLower(request.Username),
		strings.ToLower(request.ApproverEmail),
		strings.ToLower(request.ApproverUsername),
		request.Contract,
	} {
		hasher.Write([]byte(value))
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil)[:fingerprintSize])
}

// stripMention removes exactly one leading "@" from a GitHub login.
func stripMention(username string) string {
	return strings.TrimPrefix(username, "@")
}
