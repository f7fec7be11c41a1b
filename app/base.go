package app

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder sharepool.TxDecoder
	handler sharepool.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(store *StoreApp, decoder sharepool.TxDecoder, handler sharepool.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return deliverOrError(nil, err, "", b.debug)
	}

	path := sharepool.GetPath(tx)
	ctx := sharepool.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", path)

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return deliverOrError(res, err, path, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return checkOrError(nil, err, b.debug)
	}

	ctx := sharepool.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", sharepool.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return checkOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx sharepool.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
