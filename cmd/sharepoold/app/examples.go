package app

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/commands"
	"github.com/iov-one/sharepool/crypto"
	"github.com/iov-one/sharepool/x/currency"
	"github.com/iov-one/sharepool/x/distributor"
	"github.com/iov-one/sharepool/x/sigs"
	"github.com/iov-one/sharepool/x/token"
)

// Examples generates some example structs to dump out with testgen. Keys
// are created fresh on every call.
func Examples() []commands.Example {
	key := crypto.GenPrivKeyEd25519()
	owner := key.PublicKey().Address()
	authority := crypto.GenPrivKeyEd25519().PublicKey().Address()
	meta := &sharepool.Metadata{Schema: 1}

	const (
		asset     = "IOV"
		secondary = "ETH"
		shareSize = 331000000000
		shares    = 10
	)
	pool := sharepool.PoolAddress(asset, secondary, shareSize, shares)

	initMsg := &distributor.InitializeMsg{
		Metadata:       meta,
		ShareSize:      shareSize,
		NumberOfShares: shares,
		Payer:          owner,
		Asset:          asset,
		SecondaryAsset: secondary,
		Authority:      authority,
	}
	depositMsg := &distributor.DepositMsg{
		Metadata:  meta,
		Pool:      pool,
		Asset:     asset,
		Depositor: owner,
		Source:    sharepool.AccountAddress(owner, asset),
		Amount:    shares * shareSize,
	}
	distributeMsg := &distributor.DistributeMsg{
		Metadata:  meta,
		Pool:      pool,
		Payer:     owner,
		Authority: authority,
		Asset:     asset,
	}
	for i := 0; i < shares-1; i++ {
		receiver := crypto.GenPrivKeyEd25519().PublicKey().Address()
		distributeMsg.Receivers = append(distributeMsg.Receivers, distributor.NewReceiver(receiver, asset))
	}

	tx := NewTx(depositMsg)
	tx.Memo = "example deposit"
	sig, err := sigs.SignTx(key, tx, "example-chain", 0)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "priv_key", Obj: key},
		{Filename: "pub_key", Obj: key.PublicKey()},
		{Filename: "asset", Obj: &currency.CreateMsg{Metadata: meta, Ticker: asset, Name: "primary", Decimals: 9}},
		{Filename: "account", Obj: &token.Account{Metadata: meta, Owner: owner, Asset: asset, Amount: 100 * shareSize}},
		{Filename: "pool", Obj: &distributor.DistributorState{
			Metadata:       meta,
			Asset:          asset,
			SecondaryAsset: secondary,
			Authority:      authority,
			ShareSize:      shareSize,
			NumberOfShares: shares,
		}},
		{Filename: "initialize_msg", Obj: initMsg},
		{Filename: "deposit_msg", Obj: depositMsg},
		{Filename: "distribute_msg", Obj: distributeMsg},
		{Filename: "deposit_tx", Obj: tx},
	}
}
