// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package apiserver

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// entityTag is a strong ETag for body: the quoted hex of the first 16
// bytes of its BLAKE3 digest.
func entityTag(body []byte) string {
	digest := blake3.Sum256(body)
	return `"` + hex.EncodeToString(digest[:16]) + `"`
}

// etagMatches reports whether an If-None-Match header names tag. Weak
// validators compare equal to their strong form, as RFC 9110 requires
// for If-None-Match.
func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == tag {
			return true
		}
	}
	return false
}
