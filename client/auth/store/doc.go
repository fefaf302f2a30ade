// Package store keeps the access/refresh token pair across two storage tiers.
//
// The durable tier survives process restarts (a file, optionally encrypted
// with scy); the ephemeral tier lives only as long as the process. Reads
// prefer the durable tier and fall back to the ephemeral one. Both tiers sit
// behind the Storage interface, so the tier policy can be exercised with the
// in-memory implementation.
package store
