package port

// KV is the persistent key-value collaborator backing the content caches
// and the chat history. Operations are single atomic point reads/writes;
// no multi-step transaction spans a request.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(bucket, key string) ([]byte, bool, error)

	// Put stores the value under the key, creating the bucket if needed.
	Put(bucket, key string, value []byte) error
}
