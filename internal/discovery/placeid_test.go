package discovery

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinera/pkg/utils"
)

func TestParsePlaceID_RoundTrip(t *testing.T) {
	native := uuid.New().String()
	cases := []struct {
		provider ProviderTag
		nativeID string
	}{
		{ProviderPartner, native},
		{ProviderCatalog, native},
		{ProviderExternal, "ChIJN1t_tDeuEmsRUsoyG83frY4"},
		{ProviderExternal, "abc-def-ghi"},
		{ProviderPartner, "42"},
	}
	for _, tc := range cases {
		ref, err := ParsePlaceID(FormatPlaceID(tc.provider, tc.nativeID))
		require.NoError(t, err)
		assert.Equal(t, tc.provider, ref.Provider)
		assert.Equal(t, tc.nativeID, ref.NativeID)
	}
}

func TestParsePlaceID_SplitsOnFirstHyphenOnly(t *testing.T) {
	ref, err := ParsePlaceID("catalog-123e4567-e89b-12d3-a456-426614174000")
	require.NoError(t, err)
	assert.Equal(t, ProviderCatalog, ref.Provider)
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", ref.NativeID)
}

func TestParsePlaceID_RejectsUnknownOrMissingTag(t *testing.T) {
	for _, in := range []string{"", "nohyphen", "google-abc", "-abc", "partner-"} {
		_, err := ParsePlaceID(in)
		assert.ErrorIs(t, err, utils.ErrInvalidPlaceID, in)
	}
}

func TestPlaceRef_TextRoundTrip(t *testing.T) {
	ref := PlaceRef{Provider: ProviderPartner, NativeID: "a-b"}
	b, err := ref.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "partner-a-b", string(b))

	var back PlaceRef
	require.NoError(t, back.UnmarshalText(b))
	assert.Equal(t, ref, back)

	assert.Error(t, back.UnmarshalText([]byte("bogus-1")))
}
