package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestBech32EncodeDecode(t *testing.T) {
	cases := map[string]struct {
		enc     string
		hrp     string
		payload string
	}{
		"address": {
			enc:     "share1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc522a6cr",
			hrp:     "share",
			payload: "0102030405060708090a0b0c0d0e0f1011121314",
		},
		"text payload": {
			// bech32 -e -h tiov 746573742d7061796c6f6164
			enc:     "tiov1w3jhxapdwpshjmr0v9jqymqq4y",
			hrp:     "tiov",
			payload: "746573742d7061796c6f6164",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			want, err := hex.DecodeString(tc.payload)
			if err != nil {
				t.Fatal(err)
			}

			hrp, payload, err := Decode(tc.enc)
			if err != nil {
				t.Fatal(err)
			}
			if hrp != tc.hrp {
				t.Fatalf("want %q prefix, got %q", tc.hrp, hrp)
			}
			if !bytes.Equal(want, payload) {
				t.Logf("want %d", want)
				t.Logf("got  %d", payload)
				t.Fatal("invalid decode")
			}

			raw, err := Encode(hrp, payload)
			if err != nil {
				t.Fatalf("cannot encode: %s", err)
			}
			if string(raw) != tc.enc {
				t.Fatalf("invalid encoding: %q", raw)
			}
		})
	}
}

func TestBech32DecodeBroken(t *testing.T) {
	// Last character of the checksum changed.
	if _, _, err := Decode("share1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc522a6cq"); err == nil {
		t.Fatal("broken checksum accepted")
	}
}
