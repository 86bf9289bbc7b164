package discovery

import (
	"fmt"
	"strings"

	"itinera/pkg/utils"
)

// ProviderTag names one of the three place catalogs.
type ProviderTag string

const (
	ProviderPartner  ProviderTag = "partner"
	ProviderCatalog  ProviderTag = "catalog"
	ProviderExternal ProviderTag = "external"
)

func (t ProviderTag) Valid() bool {
	switch t {
	case ProviderPartner, ProviderCatalog, ProviderExternal:
		return true
	}
	return false
}

// PlaceRef is a parsed composite place id. Build it with NewPlaceRef or
// ParsePlaceID so the tag is always one of the known providers.
type PlaceRef struct {
	Provider ProviderTag
	NativeID string
}

func NewPlaceRef(provider ProviderTag, nativeID string) (PlaceRef, error) {
	if !provider.Valid() {
		return PlaceRef{}, fmt.Errorf("%w: unknown provider %q", utils.ErrInvalidPlaceID, provider)
	}
	if nativeID == "" {
		return PlaceRef{}, fmt.Errorf("%w: empty native id", utils.ErrInvalidPlaceID)
	}
	return PlaceRef{Provider: provider, NativeID: nativeID}, nil
}

// FormatPlaceID renders "<tag>-<nativeID>".
func FormatPlaceID(provider ProviderTag, nativeID string) string {
	return string(provider) + "-" + nativeID
}

// ParsePlaceID splits on the first hyphen only; native ids (UUIDs, Google
// place ids) may contain more hyphens.
func ParsePlaceID(s string) (PlaceRef, error) {
	tag, native, ok := strings.Cut(s, "-")
	if !ok {
		return PlaceRef{}, fmt.Errorf("%w: %q has no provider prefix", utils.ErrInvalidPlaceID, s)
	}
	return NewPlaceRef(ProviderTag(tag), native)
}

func (r PlaceRef) String() string {
	return FormatPlaceID(r.Provider, r.NativeID)
}

func (r PlaceRef) IsZero() bool {
	return r.Provider == "" && r.NativeID == ""
}

func (r PlaceRef) MarshalText() ([]byte, error) {
	if r.IsZero() {
		return []byte{}, nil
	}
	return []byte(r.String()), nil
}

func (r *PlaceRef) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = PlaceRef{}
		return nil
	}
	parsed, err := ParsePlaceID(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
