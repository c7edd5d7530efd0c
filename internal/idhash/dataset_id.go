package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"rfa-explorer/internal/domain"
)

// ComputeDatasetID computes a deterministic fingerprint of an allocation set
// using SHA256 over its rows in the given order.
// Formula: SHA256(project_name|bera_amount\n ...)
// Returns hex-encoded hash (64 characters).
func ComputeDatasetID(projects []domain.Project) string {
	h := sha256.New()
	for _, p := range projects {
		fmt.Fprintf(h, "%s|%s\n", p.ProjectName, strconv.FormatFloat(p.BeraAmount, 'g', -1, 64))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortID returns the first 12 characters of an ID for display.
func ShortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
