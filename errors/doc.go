/*
Package errors implements the coded errors used across sharepool.

Every error returned by a handler should wrap one of the root errors
declared in this package. Root errors carry an ABCI code, so the client
can tell a threshold failure from a wrong signer without parsing the log.

Declare a new root error with Register(code, description) only during
program startup. Create instances at runtime with ErrXyz.New, ErrXyz.Newf,
Wrap or Wrapf so that a stack trace is attached at the lowest frame.

Format an error with

	%s to get the message only
	%+v to get the message and the stack trace
*/
package errors
