package sigs

import (
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/crypto"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/weavetest/assert"
)

func TestUserDataValidate(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	cases := map[string]struct {
		user    *UserData
		wantErr *errors.Error
	}{
		"valid": {
			user: &UserData{Metadata: &sharepool.Metadata{Schema: 1}, Pubkey: pub, Sequence: 5},
		},
		"fresh user without key": {
			user: &UserData{Metadata: &sharepool.Metadata{Schema: 1}},
		},
		"sequence without key": {
			user:    &UserData{Metadata: &sharepool.Metadata{Schema: 1}, Sequence: 1},
			wantErr: ErrInvalidSequence,
		},
		"negative sequence": {
			user:    &UserData{Metadata: &sharepool.Metadata{Schema: 1}, Pubkey: pub, Sequence: -1},
			wantErr: ErrInvalidSequence,
		},
		"missing metadata": {
			user:    &UserData{Pubkey: pub},
			wantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestUserDataPersistence(t *testing.T) {
	u := &UserData{
		Metadata: &sharepool.Metadata{Schema: 1},
		Pubkey:   crypto.GenPrivKeyEd25519().PublicKey(),
		Sequence: 42,
	}
	raw, err := u.Marshal()
	assert.Nil(t, err)

	var got UserData
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, u, &got)
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := &UserData{Sequence: 3}
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(2))
	assert.Nil(t, u.CheckAndIncrementSequence(3))
	assert.Equal(t, int64(4), u.Sequence)

	u.Sequence = maxSequenceValue
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence(maxSequenceValue))
}
