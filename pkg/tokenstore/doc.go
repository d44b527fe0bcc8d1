// Package tokenstore holds the single authoritative slot for the current
// bearer credential.
//
// A TokenStore fronts a durable Store backend with an in-memory cache so the
// hot path of every outbound request never touches storage. On a cache miss
// the durable value is backfilled into memory, which is what lets a session
// survive a process restart. The slot holds at most one credential; Set
// replaces it atomically and Clear is the defined way to remove it.
//
// Three backends ship with the package: MemoryStore for tests and ephemeral
// processes, FileStore for single-user desktop deployments, and RedisStore
// for shared workstations that centralize the credential slot.
//
// Only the session manager (login/logout) and the API client (detected
// authentication failure) are expected to mutate the store.
package tokenstore
