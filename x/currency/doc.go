/*
Package currency is the registry of assets known to the chain. An asset
must be registered before any account can hold it or any pool can be
configured for it. Registered assets are never updated.
*/
package currency
