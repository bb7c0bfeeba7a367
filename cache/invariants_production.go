//go:build production

package cache

const assertInvariants = false
