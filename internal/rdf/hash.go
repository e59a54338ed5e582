package rdf

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainGraph = "qbcube/graph/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes an order-independent digest of a statement set.
//
// Each statement is rendered as an NFC-normalized N-Triples line; the lines
// are sorted bytewise, deduplicated and hashed. Two graphs with the same
// statement set (including blank node labels) share a fingerprint no matter
// the insertion order.
func Fingerprint(stmts []Statement) string {
	lines := make([]string, 0, len(stmts))
	for _, st := range stmts {
		lines = append(lines, norm.NFC.String(st.String()))
	}
	slices.Sort(lines)
	lines = slices.Compact(lines)

	var buf []byte
	for _, line := range lines {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return hashWithDomain(DomainGraph, buf)
}
