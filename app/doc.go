/*
Package app contains the building blocks of a vault application: a
decorator chain, a message router, the committed store and the
Application itself.

The Application is the single serialization boundary of a vault. Every
request is processed while holding its lock, within a cache of the
committed state that is either written and committed as a whole or
discarded.
*/
package app
