/*
Package token keeps the balances of registered assets. Every balance lives
in an account that holds a single asset. The canonical account of an owner
is stored at AccountAddress(owner, asset), other addresses are used only
by extensions that derive their own (for example a distribution vault).
*/
package token
