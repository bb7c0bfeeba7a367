//go:build !production

package cache

const assertInvariants = true
