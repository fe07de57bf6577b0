// Package cache implements the content-addressed record cache used to persist
// application state between runs. Keys are arbitrary JSON-encodable values;
// each key is hashed into a fixed-length address and stored as a single file
// named by that address under one flat storage root. Reads and writes go
// through a FileAccessor bound to exactly one path, and writes are whole-blob
// (temp file + rename), so a record is either the previous value or the new
// one. Serialization is pluggable through Codec; JSON is the default.
//
// The package carries no eviction or expiry policy. Timestamped is offered to
// callers that want to layer their own.
package cache
