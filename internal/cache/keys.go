package cache

import "fmt"

// Key namespaces. All Redis keys used by the application are built here
// so that namespaces cannot collide.

// HostResolveKey is the cache key for host -> tenant id resolution
func HostResolveKey(host string) string {
	return fmt.Sprintf("resolve:host:%s", host)
}

// SlugResolveKey is the cache key for slug -> tenant id resolution
func SlugResolveKey(slug string) string {
	return fmt.Sprintf("resolve:slug:%s", slug)
}

// AcmeChallengeKey is the key holding an HTTP-01 keyAuth for a token
func AcmeChallengeKey(token string) string {
	return fmt.Sprintf("acme:challenge:%s", token)
}
