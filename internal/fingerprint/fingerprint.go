// Package fingerprint computes content fingerprints used for deduplication.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"docrag/internal/document"
)

// Length is the number of hex characters kept from the digest.
const Length = 16

// Compute returns the fingerprint of canonical text for the given document type.
//
// Text-like content is trimmed, lower-cased and whitespace-collapsed before
// hashing, so trivial formatting differences map to the same fingerprint.
// PDF content is only trimmed.
func Compute(content string, docType document.DocType) string {
	sum := sha256.Sum256([]byte(Prepare(content, docType)))
	return hex.EncodeToString(sum[:])[:Length]
}

// Prepare returns the exact string that Compute hashes.
func Prepare(content string, docType document.DocType) string {
	if docType.IsTextLike() {
		return strings.Join(strings.Fields(strings.ToLower(content)), " ")
	}
	return strings.TrimSpace(content)
}
