package cache

import (
	"encoding/hex"
	"strconv"

	"github.com/go-crypt/x/blake2b"

	"github.com/poiesic/strategit/core"
)

const keyHashSize = 16 // 128-bit keys

// hashKey collapses the given parts into a fixed-width hex key.
func hashKey(parts ...string) string {
	h, _ := blake2b.New(keyHashSize, nil)
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0}) // separator so part boundaries matter
	}
	return hex.EncodeToString(h.Sum(nil))
}

// QueryKey derives the cache key for a full pipeline result: the query
// text plus the canonical form of the weights that produced it.
func QueryKey(query string, weights core.WeightVector) string {
	return hashKey(query, weights.CanonicalString())
}

// BackendKey derives the cache key for one backend's raw results.
func BackendKey(query string, backend core.Backend, topK int) string {
	return hashKey(query, string(backend), strconv.Itoa(topK))
}

// PassagesSize estimates the accounted byte size of a result list. The
// per-passage constant covers struct overhead and metadata.
func PassagesSize(passages []core.RetrievedPassage) int64 {
	var size int64
	for _, p := range passages {
		size += int64(len(p.Content) + len(p.Title) + 128)
	}
	return size
}
