package feed

// Option applies a configuration option to the InMemoryFeed.
type Option func(*InMemoryFeed)

// WithBufferSize sets the per-subscriber channel buffer.
func WithBufferSize(size int) Option {
	return func(f *InMemoryFeed) {
		if size > 0 {
			f.bufferSize = size
		}
	}
}
