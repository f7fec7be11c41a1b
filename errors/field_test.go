package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	var (
		emptyAssetErr   = Field("Asset", ErrEmpty, "required")
		zeroShareErr    = Field("ShareSize", ErrConfiguration, "must be positive")
		secondAssetErr  = Field("Asset", ErrAsset, "unknown ticker")
		receiverMultErr = Field("Receivers", Append(
			Field("0", ErrAddressDerivation, ""),
			Field("4", ErrEmpty, ""),
		), "")
	)

	cases := map[string]struct {
		Err   error
		Field string
		Want  []error
	}{
		"a single error found by the name": {
			Err:   emptyAssetErr,
			Field: "Asset",
			Want:  []error{emptyAssetErr},
		},
		"two errors found by the name": {
			Err:   Append(emptyAssetErr, zeroShareErr, secondAssetErr),
			Field: "Asset",
			Want:  []error{emptyAssetErr, secondAssetErr},
		},
		"field can contain a multi error": {
			Err:   receiverMultErr,
			Field: "Receivers",
			Want:  []error{receiverMultErr},
		},
		"nested field found through the tree": {
			Err:   Wrap(receiverMultErr, "validate"),
			Field: "4",
			Want:  []error{Field("4", ErrEmpty, "")},
		},
		"nil error returns nothing": {
			Err:   nil,
			Field: "Asset",
			Want:  nil,
		},
		"error without a field": {
			Err:   ErrThreshold,
			Field: "Asset",
			Want:  nil,
		},
		"wrapped field error": {
			Err:   Wrap(Wrap(zeroShareErr, "inner"), "outer"),
			Field: "ShareSize",
			Want:  []error{zeroShareErr},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.Err, tc.Field)
			if len(got) != len(tc.Want) {
				t.Fatalf("want %d errors, got %d: %v", len(tc.Want), len(got), got)
			}
			for i := range got {
				// Stack traces make errors incomparable, compare messages only.
				if !reflect.DeepEqual(got[i].Error(), tc.Want[i].Error()) {
					t.Errorf("%d: want %q, got %q", i, tc.Want[i], got[i])
				}
			}
		})
	}
}
