package queue

// Option applies a configuration option to the Stream.
type Option func(*Stream)

// WithCapacity sets the buffer size of the stream. Sizing it to the task
// count means publishers never block.
func WithCapacity(capacity int) Option {
	return func(s *Stream) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}
