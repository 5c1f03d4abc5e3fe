/*
Package vaulttest provides mocks and helpers for testing extensions.

Nothing in here is meant to be used outside of the tests.
*/
package vaulttest
