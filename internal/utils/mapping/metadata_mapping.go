package mapping

import (
	"encoding/json"

	"github.com/fairlance/treasury_backend/internal/core/domain"
)

// ToModelMetadata serializes opaque metadata for a jsonb column. Nil maps
// serialize to nil (stored as NULL).
func ToModelMetadata(d domain.Metadata) []byte {
	if len(d) == 0 {
		return nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		// Metadata is opaque payload; an unserializable value degrades to NULL.
		return nil
	}
	return raw
}

// ToDomainMetadata deserializes a jsonb column into opaque metadata.
func ToDomainMetadata(raw []byte) domain.Metadata {
	if len(raw) == 0 {
		return nil
	}
	var m domain.Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
