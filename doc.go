// Package rediskit is a typed command layer over Redis. A command set is
// picked per value shape (string, list, set or hash) and shares one base
// contract: existence, deletion, type lookup, expiry and key validation.
//
// Components:
//   - Client: owns the connection, runs a periodic health check and hands out
//     command sets (Use, UseTag, Strings, Lists, Sets, Hashes).
//   - Select: binds a Shape to a shared redis.UniversalClient.
//   - codec.Codec: text and []byte go to the store untouched; any other Go
//     value is wrapped in a small envelope (msgpack by default, CBOR, JSON or
//     protobuf Any) and decoded on read. Malformed envelopes read back as text.
//
// Absent keys and fields are not errors. Reads return the shape's empty
// result ("", empty slice, empty map, 0) and the miss is logged at info level:
//
//	s := client.Strings()
//	_, _ = s.Set(ctx, "name", "dummy", rediskit.Seconds(120))
//	v, _ := s.Value(ctx, "name")          // "dummy"
//	n, ok, _ := s.IncrementBy(ctx, "name", 1) // 0, false: not an integer
//
// Update on list, set and hash is DEL followed by a rewrite and is not
// atomic.
package rediskit
