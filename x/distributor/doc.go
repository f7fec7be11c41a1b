/*
Package distributor implements share pools: escrow vaults that collect a
single asset until they hold a fixed multiple of a share size, and then
pay one share to each of a list of receivers.

A pool is identified by an address derived from its configuration
(asset, secondary asset, share size and number of shares), so the same
configuration can exist only once and anybody can recompute the pool
address from its public parameters. The funds of a pool live in a token
account at the vault address derived from the pool address. The vault is
an ordinary account: besides the deposit message, any token transfer can
credit it, so the distribution always reads the live balance.

A distribution requires the vault to hold the whole threshold (share size
times number of shares) and pays number of shares minus one receivers,
leaving one share in the vault for the next round.
*/
package distributor
