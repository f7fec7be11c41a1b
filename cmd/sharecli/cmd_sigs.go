package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/sharepool/client"
	"github.com/iov-one/sharepool/crypto"
	"github.com/iov-one/sharepool/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The chain ID and the signer sequence are fetched from the node unless both are
provided, which allows signing offline.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use SHARECLI_TM_ADDR environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use SHARECLI_PRIV_KEY environment variable to set it.")
		derivationFl = fl.String("path", "",
			"Optional bip44 derivation path, when the key file holds a master seed.")
		chainFl = fl.String("chain", "", "Chain ID. Fetched from the node if not provided.")
		seqFl   = fl.Int64("seq", -1, "Signer sequence. Fetched from the node if not provided.")
	)
	fl.Parse(args)

	key, err := crypto.LoadPrivateKey(*keyPathFl, *derivationFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	chainID, seq := *chainFl, *seqFl
	if chainID == "" || seq < 0 {
		c := client.NewClient(client.NewHTTPConnection(*tmAddrFl))
		if chainID == "" {
			ctx, cancel := requestContext()
			defer cancel()
			if chainID, err = c.ChainID(ctx); err != nil {
				return fmt.Errorf("cannot fetch chain ID: %s", err)
			}
		}
		if seq < 0 {
			if seq, err = client.NextNonce(c, key.PublicKey().Address()); err != nil {
				return fmt.Errorf("cannot get the next sequence number: %s", err)
			}
		}
	}

	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}

func cmdWithGas(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Modify given transaction and set the gas limit and memo. Signatures are
dropped, because they would no longer match the transaction content.
		`)
		fl.PrintDefaults()
	}
	var (
		limitFl = fl.Int64("limit", 0, "Gas limit of the transaction. Zero applies the default limit.")
		memoFl  = fl.String("memo", "", "A short note attached to the transaction.")
	)
	fl.Parse(args)

	if *limitFl < 0 {
		flagDie("gas limit must not be negative")
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}
	tx.GasLimit = *limitFl
	tx.Memo = *memoFl
	tx.Signatures = nil

	_, err = writeTx(output, tx)
	return err
}
