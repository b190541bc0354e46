// Package storage defines the persistence interfaces for processed claims
// and their binary serialization. Concrete backends live in subpackages;
// the badger subpackage provides the default embedded implementation.
//
// Claims are stored in the MUS binary format, which is compact and fast to
// decode compared to JSON. The serializers live in the core package next to
// the types they encode.
package storage
