/*
Package utils contains decorators shared by all handlers: panic recovery,
logging, metrics, result tagging and savepoints that make every request
atomic.
*/
package utils
