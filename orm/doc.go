/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* Objects are addressed by their primary key, which may be composite.
* Easy queries for one and iteration over a key prefix.

Values are serialized with go-amino binary encoding. A model is any struct
that amino can encode and that knows how to validate and copy itself.
*/
package orm
