// Package cachestrategy defines cache eviction strategy interfaces.
package cachestrategy

// Strategy decides which archive months stay resident.
type Strategy interface {
	Get(key string) ([]byte, bool)
	Add(key string, value []byte) bool
	Len() int
}
