package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/client"
)

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Query the application state and print the result as JSON.

Use -pool to display a pool with its vault, -owner to display the balance of
an account or neither of them to list all pools.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use SHARECLI_TM_ADDR environment variable to set it.")
		poolFl  = flAddress(fl, "pool", "", "Address of the pool to display.")
		ownerFl = flAddress(fl, "owner", "", "Owner of the account to display.")
		assetFl = fl.String("asset", "IOV", "Asset of the account, used with -owner.")
	)
	fl.Parse(args)

	q := client.NewClient(client.NewHTTPConnection(*tmAddrFl))
	result, err := query(q, *poolFl, *ownerFl, *assetFl)
	if err != nil {
		return err
	}
	pretty, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}

func query(q client.Querier, pool, owner sharepool.Address, asset string) (interface{}, error) {
	switch {
	case len(pool) != 0:
		state, err := client.Pool(q, pool)
		if err != nil {
			return nil, fmt.Errorf("cannot get pool: %s", err)
		}
		vault, err := client.Vault(q, pool)
		if err != nil {
			return nil, fmt.Errorf("cannot get vault: %s", err)
		}
		return map[string]interface{}{"pool": state, "vault": vault}, nil
	case len(owner) != 0:
		balance, err := client.Balance(q, owner, asset)
		if err != nil {
			return nil, fmt.Errorf("cannot get balance: %s", err)
		}
		return map[string]interface{}{"owner": owner, "asset": asset, "balance": balance}, nil
	default:
		pools, err := client.Pools(q)
		if err != nil {
			return nil, fmt.Errorf("cannot list pools: %s", err)
		}
		return pools, nil
	}
}
