/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Every extension owns a single configuration entity stored under its package
name. A configuration is loaded from the "conf" section of the genesis file
and can later be patched by its owner with an update message.
*/
package gconf
