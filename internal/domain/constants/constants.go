// Package constants holds provider names shared by config and infra.
package constants

// EnvLocal is the env.env of developer machines; push authentication is off there.
const EnvLocal = "local"

const (
	PubSubProviderNoop   = "noop"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
	PubSubProviderNATS   = "nats"
)

const (
	CacheProviderMemory = "memory"
	CacheProviderRedis  = "redis"
)

// CacheKeyCategoryTree is the cache key of the serialized category tree.
const CacheKeyCategoryTree = "lebay:categories:tree"
