package storage

// Package storage persists the small amount of state the forwarder keeps
// between restarts:
//   - Delivery log appends (one record per forwarded message)
//   - Seen-message markers with a TTL (so redelivered messages are not
//     forwarded twice)
