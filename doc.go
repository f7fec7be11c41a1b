/*
Package sharepool defines all common interfaces used to weave together
the subpackages of the share pool application, as well as implementations
of some of the simpler components.

Context travels through context.Context between the app, the decorators
and the handlers. This package defines the keys used to store the block
height, the block header, the chain id, the logger and the gas meter.
Every value XYZ of type T is accessed with

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, so that lower level code
cannot overwrite what the application decided (eg. height, header).

Addresses are derived, never registered: a Condition is a formatted byte
string describing who may authorize an action and its sha256 digest is the
Address. Pools, vaults and token accounts all live at addresses computed
from their public parameters, see derive.go.
*/
package sharepool
