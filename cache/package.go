/*
Package cache holds rendered chart artifacts in memory so that repeated
requests for the same chart do not pay for the renderer again.

The cache is bounded twice: by the number of items and by the total number of
payload bytes. Whenever either bound is breached the least recently used
entries are evicted until both hold again. Eviction happens inline with the
mutation that caused it; there is no background sweeper and no expiry.

Keys are fingerprints of the canonicalised request parameters, see DeriveKey.

A Cache is an explicit value. Create one with New and hand it to whatever
serves requests; nothing in this package is global.
*/
package cache
