package app_test

import (
	"testing"

	"github.com/iov-one/sharepool"
	sharepoold "github.com/iov-one/sharepool/cmd/sharepoold/app"
	"github.com/iov-one/sharepool/crypto"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
	"github.com/iov-one/sharepool/x/distributor"
	"github.com/iov-one/sharepool/x/sigs"
	"github.com/iov-one/sharepool/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	chainID   = "test-chain-sharepool"
	shareSize = 331000000000
	shares    = 10
)

// signer keeps track of the sequence of a single key.
type signer struct {
	key *crypto.PrivateKey
	seq int64
}

func newSigner() *signer {
	return &signer{key: crypto.GenPrivKeyEd25519()}
}

func (s *signer) Address() sharepool.Address {
	return s.key.PublicKey().Address()
}

// sign signs the transaction with all signers. Sequences are incremented
// only if the transaction is accepted, see commit.
func sign(t testing.TB, tx *sharepoold.Tx, signers ...*signer) *sharepoold.Tx {
	t.Helper()
	tx.Signatures = nil
	for _, s := range signers {
		sig, err := sigs.SignTx(s.key, tx, chainID, s.seq)
		assert.Nil(t, err)
		tx.Signatures = append(tx.Signatures, sig)
	}
	return tx
}

func commit(signers ...*signer) {
	for _, s := range signers {
		s.seq++
	}
}

type fixture struct {
	runner    *weavetest.AppRunner
	authority *signer
	payer     *signer
	depositor *signer
	pool      sharepool.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		authority: newSigner(),
		payer:     newSigner(),
		depositor: newSigner(),
	}
	f.pool = sharepool.PoolAddress("IOV", "ETH", shareSize, shares)

	application, err := sharepoold.GenerateApp("", log.NewNopLogger(), true)
	assert.Nil(t, err)
	f.runner = weavetest.NewAppRunner(t, application, chainID)
	f.runner.InitChain(map[string]interface{}{
		"currency": []interface{}{
			map[string]interface{}{"ticker": "IOV", "name": "primary"},
			map[string]interface{}{"ticker": "ETH", "name": "secondary"},
		},
		"token": []interface{}{
			map[string]interface{}{"owner": f.depositor.Address(), "asset": "IOV", "amount": 100 * shareSize},
		},
		"distributor": []interface{}{
			map[string]interface{}{
				"asset":            "IOV",
				"secondary_asset":  "ETH",
				"share_size":       shareSize,
				"number_of_shares": shares,
				"authority":        f.authority.Address(),
			},
		},
		"conf": map[string]interface{}{
			"gas": map[string]interface{}{
				"metadata":      map[string]interface{}{"schema": 1},
				"owner":         f.authority.Address(),
				"default_limit": sharepoold.DefaultGasLimit,
				"tx_cost":       sharepoold.TxCost,
			},
		},
	})
	return f
}

func (f *fixture) deposit(t *testing.T, amount uint64) {
	t.Helper()
	tx := sign(t, sharepoold.NewTx(&distributor.DepositMsg{
		Metadata:  &sharepool.Metadata{Schema: 1},
		Pool:      f.pool,
		Asset:     "IOV",
		Depositor: f.depositor.Address(),
		Source:    sharepool.AccountAddress(f.depositor.Address(), "IOV"),
		Amount:    amount,
	}), f.depositor)
	f.runner.InBlock(func() error {
		_, err := f.runner.DeliverTx(tx)
		return err
	})
	commit(f.depositor)
}

func (f *fixture) distributeTx(receivers []sharepool.Address) *sharepoold.Tx {
	msg := &distributor.DistributeMsg{
		Metadata:  &sharepool.Metadata{Schema: 1},
		Pool:      f.pool,
		Payer:     f.payer.Address(),
		Authority: f.authority.Address(),
		Asset:     "IOV",
	}
	for _, r := range receivers {
		msg.Receivers = append(msg.Receivers, distributor.NewReceiver(r, "IOV"))
	}
	return sharepoold.NewTx(msg)
}

func (f *fixture) vault(t *testing.T) distributor.VaultInfo {
	t.Helper()
	var info distributor.VaultInfo
	assert.Nil(t, f.runner.QueryOne("/vaults", f.pool, &info))
	return info
}

func (f *fixture) balance(t *testing.T, owner sharepool.Address) uint64 {
	t.Helper()
	var acc token.Account
	err := f.runner.QueryOne("/accounts", sharepool.AccountAddress(owner, "IOV"), &acc)
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	assert.Nil(t, err)
	return acc.Amount
}

func TestDistributionScenario(t *testing.T) {
	f := newFixture(t)

	var receivers []sharepool.Address
	for i := 0; i < shares-1; i++ {
		receivers = append(receivers, weavetest.NewCondition().Address())
	}

	f.deposit(t, (shares-1)*shareSize)
	assert.Equal(t, uint64((shares-1)*shareSize), f.vault(t).Balance)

	signers := []*signer{f.payer, f.authority}

	// One share short of the threshold.
	f.runner.InBlock(func() error {
		_, err := f.runner.DeliverTx(sign(t, f.distributeTx(receivers), signers...))
		assert.IsErr(t, errors.ErrThreshold, err)
		return nil
	})
	// A failed message still consumes the signature sequence.
	commit(signers...)
	assert.Equal(t, uint64((shares-1)*shareSize), f.vault(t).Balance)
	for _, r := range receivers {
		assert.Equal(t, uint64(0), f.balance(t, r))
	}

	f.deposit(t, shareSize)

	// The receiver count must match the pool configuration exactly.
	for _, rs := range [][]sharepool.Address{receivers[:shares-2], append(receivers, weavetest.NewCondition().Address())} {
		f.runner.InBlock(func() error {
			_, err := f.runner.DeliverTx(sign(t, f.distributeTx(rs), signers...))
			assert.IsErr(t, errors.ErrArgumentCount, err)
			return nil
		})
		commit(signers...)
	}

	f.runner.InBlock(func() error {
		res, err := f.runner.DeliverTx(sign(t, f.distributeTx(receivers), signers...))
		assert.Nil(t, err)
		assert.Equal(t, true, res.GasUsed >= distributor.DistributionGas(shares-1))
		return nil
	})
	commit(signers...)

	for _, r := range receivers {
		assert.Equal(t, uint64(shareSize), f.balance(t, r))
	}
	assert.Equal(t, uint64(shareSize), f.vault(t).Balance)
	assert.Equal(t, uint64(100*shareSize-shares*shareSize), f.balance(t, f.depositor.Address()))
}

func TestDistributionRequiresAuthority(t *testing.T) {
	f := newFixture(t)
	f.deposit(t, shares*shareSize)

	var receivers []sharepool.Address
	for i := 0; i < shares-1; i++ {
		receivers = append(receivers, weavetest.NewCondition().Address())
	}

	f.runner.InBlock(func() error {
		_, err := f.runner.DeliverTx(sign(t, f.distributeTx(receivers), f.payer))
		assert.IsErr(t, errors.ErrUnauthorized, err)
		return nil
	})
	assert.Equal(t, uint64(shares*shareSize), f.vault(t).Balance)
}

func TestCheckTxRejectsBadSequence(t *testing.T) {
	f := newFixture(t)

	tx := sign(t, sharepoold.NewTx(&distributor.DepositMsg{
		Metadata:  &sharepool.Metadata{Schema: 1},
		Pool:      f.pool,
		Asset:     "IOV",
		Depositor: f.depositor.Address(),
		Source:    sharepool.AccountAddress(f.depositor.Address(), "IOV"),
		Amount:    shareSize,
	}), f.depositor)
	_, err := f.runner.CheckTx(tx)
	assert.Nil(t, err)

	f.depositor.seq = 5
	tx = sign(t, tx, f.depositor)
	_, err = f.runner.CheckTx(tx)
	assert.IsErr(t, sigs.ErrInvalidSequence, err)
}

func TestGenesisQueries(t *testing.T) {
	f := newFixture(t)

	var state distributor.DistributorState
	assert.Nil(t, f.runner.QueryOne("/pools", f.pool, &state))
	assert.Equal(t, uint64(shareSize), state.ShareSize)
	assert.Equal(t, uint64(shares), state.NumberOfShares)
	assert.Equal(t, f.authority.Address(), state.Authority)

	assert.Equal(t, uint64(0), f.vault(t).Balance)
	assert.Equal(t, uint64(100*shareSize), f.balance(t, f.depositor.Address()))

	models, err := f.runner.Query("/pools?prefix", nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
}

func TestSignaturesAreCharged(t *testing.T) {
	f := newFixture(t)

	depositTx := func(limit int64) *sharepoold.Tx {
		tx := sharepoold.NewTx(&distributor.DepositMsg{
			Metadata:  &sharepool.Metadata{Schema: 1},
			Pool:      f.pool,
			Asset:     "IOV",
			Depositor: f.depositor.Address(),
			Source:    sharepool.AccountAddress(f.depositor.Address(), "IOV"),
			Amount:    shareSize,
		})
		tx.GasLimit = limit
		return sign(t, tx, f.depositor)
	}
	const cost = sharepoold.TxCost + sigs.SignatureVerifyCost + distributor.DepositCost

	// The limit covers the message but not the signature.
	_, err := f.runner.CheckTx(depositTx(sharepoold.TxCost + distributor.DepositCost))
	assert.IsErr(t, errors.ErrOutOfGas, err)

	res, err := f.runner.CheckTx(depositTx(cost))
	assert.Nil(t, err)
	assert.Equal(t, int64(cost), res.GasWanted)

	f.runner.InBlock(func() error {
		_, err := f.runner.DeliverTx(depositTx(cost - 1))
		assert.IsErr(t, errors.ErrOutOfGas, err)
		return nil
	})
	// The signature sequence is consumed, the deposit is not.
	commit(f.depositor)
	assert.Equal(t, uint64(0), f.vault(t).Balance)

	f.runner.InBlock(func() error {
		res, err := f.runner.DeliverTx(depositTx(cost))
		assert.Nil(t, err)
		assert.Equal(t, int64(cost), res.GasUsed)
		return nil
	})
	commit(f.depositor)
	assert.Equal(t, uint64(shareSize), f.vault(t).Balance)
}
