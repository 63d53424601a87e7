package archive

import "io"

// countingWriter tracks how many bytes have passed through Write, letting
// the engine compute a representative's compressed size without querying
// the underlying file for its position.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
