// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Fatal reports err on stderr and exits with its exit code.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err, os.Getenv("GITHUB_ACTIONS") == "true"))
}

// Report writes err to w and returns the exit status the process
// should use. A nil error reports nothing and returns 0. With
// annotate set, an ::error:: workflow command is written as well.
func Report(w io.Writer, err error, annotate bool) int {
	if err == nil {
		return 0
	}

	fmt.Fprintf(w, "error: %v\n", err)
	if annotate {
		fmt.Fprintf(w, "::error::%s\n", escapeWorkflowData(err.Error()))
	}

	return ExitCode(err)
}

// ExitCode returns the status for err: the value of the first
// ExitCode() int in its chain, or 1.
func ExitCode(err error) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code != 0 {
			return code
		}
	}
	return 1
}

// escapeWorkflowData encodes the characters that terminate or corrupt
// a workflow command message.
func escapeWorkflowData(message string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(message)
}
