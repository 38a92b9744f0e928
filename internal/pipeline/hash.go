package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/finguard-ai/finguard/internal/common"
)

// ActionHash returns the SHA-256 of the canonical JSON encoding of v
// (object keys sorted), used for audit-log identification of a processed
// invoice.
func ActionHash(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", common.NewAppError("HASH_ENCODE", "marshal for hashing",
			common.WrapError(common.ErrInternal, err.Error()))
	}
	// Round-trip through a generic value: encoding/json writes map keys in
	// sorted order, which gives us the canonical form.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", common.NewAppError("HASH_DECODE", "canonicalize for hashing",
			common.WrapError(common.ErrInternal, err.Error()))
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", common.NewAppError("HASH_ENCODE", "marshal canonical form",
			common.WrapError(common.ErrInternal, err.Error()))
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
