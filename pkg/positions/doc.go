// Package positions persists the user's layout of a project diagram.
//
// A [Record] maps node IDs to coordinates and container IDs to the compass
// side their folders sit on. It is the only durable state of a view: the
// diagram itself is rebuilt from data on every update, and the record makes
// the rebuilt diagram look the same as before.
//
// # Wire Format
//
// Every backend stores the same JSON document under [StorageKey]:
//
//	{"nodes": {"<id>": {"x": 0, "y": 0}}, "issueGroups": {"<containerId>": "north"}}
//
// A missing key loads as an empty record.
//
// # Fail Closed
//
// A record that cannot be decoded is not an error for callers: [Decode]
// returns an empty record alongside the cause, and every [Store] reports the
// cause through observability.Store().OnRecovered and a warning log, then
// carries on with the empty record.
//
// # Backends
//
//   - [MemoryStore]: in-process, for tests and one-shot CLI commands
//   - [FileStore]: one JSON file per project
//   - [RedisStore]: shared state for several server instances
//   - [MongoStore]: one document per project
//   - [BadgerStore]: embedded key-value database
//
// [Open] selects a backend from [Options].
package positions
