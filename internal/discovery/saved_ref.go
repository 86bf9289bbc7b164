package discovery

import (
	"fmt"

	"github.com/google/uuid"

	"itinera/pkg/utils"
)

type savedRefKind uint8

const (
	savedRefNone savedRefKind = iota
	savedRefInternal
	savedRefExternal
)

// SavedRef is what a wishlist entry points at: either a first-party catalog
// place (Internal) or a place from any other provider (External, keyed by its
// composite id). Exactly one side is ever set.
type SavedRef struct {
	kind       savedRefKind
	internalID uuid.UUID
	externalID string
}

func InternalRef(id uuid.UUID) SavedRef {
	return SavedRef{kind: savedRefInternal, internalID: id}
}

func ExternalRef(ref PlaceRef) SavedRef {
	return SavedRef{kind: savedRefExternal, externalID: ref.String()}
}

// SavedRefFor resolves the reference a place is saved under. Catalog native
// ids must be UUIDs.
func SavedRefFor(ref PlaceRef) (SavedRef, error) {
	if ref.Provider != ProviderCatalog {
		if !ref.Provider.Valid() || ref.NativeID == "" {
			return SavedRef{}, fmt.Errorf("%w: %q", utils.ErrInvalidPlaceID, ref.String())
		}
		return ExternalRef(ref), nil
	}
	id, err := uuid.Parse(ref.NativeID)
	if err != nil {
		return SavedRef{}, fmt.Errorf("%w: catalog id %q is not a uuid", utils.ErrInvalidPlaceID, ref.NativeID)
	}
	return InternalRef(id), nil
}

func (s SavedRef) Internal() (uuid.UUID, bool) {
	return s.internalID, s.kind == savedRefInternal
}

func (s SavedRef) External() (string, bool) {
	return s.externalID, s.kind == savedRefExternal
}

func (s SavedRef) IsZero() bool { return s.kind == savedRefNone }

// PlaceID renders the composite id the reference was created from.
func (s SavedRef) PlaceID() string {
	switch s.kind {
	case savedRefInternal:
		return FormatPlaceID(ProviderCatalog, s.internalID.String())
	case savedRefExternal:
		return s.externalID
	}
	return ""
}

func (s SavedRef) Equal(o SavedRef) bool {
	return s.kind == o.kind && s.internalID == o.internalID && s.externalID == o.externalID
}
