/*
Package vault defines all common interfaces to weave together the various
subpackages of the multisig vault, as well as implementations of some of the
simpler components (when interfaces would be too much overhead).

A vault is a shared custody account that holds value and only releases it,
or dispatches an arbitrary action, once a quorum of designated owners has
approved. The authorization state machine lives in x/multisig; value
accounting lives in x/cash; app wires everything behind a single
serialization boundary.

We pass context through context.Context between app, middleware, and
handlers. Each extension may add its own keys to enrich the context with
specific data. There should exist two functions for every XYZ of type T that
we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)
*/
package vault
