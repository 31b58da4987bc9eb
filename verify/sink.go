package verify

import (
	"io"
	"os"
)

// SinkFunc acquires the output sink for one batch. The Runner calls
// it once per run, writes the batch's lines, and closes the result.
// Acquiring per batch lets file-backed sinks start fresh each run.
type SinkFunc func() (io.WriteCloser, error)

// FileSink returns a sink that truncates and rewrites the file at
// path on every batch, so the file always holds exactly the latest
// batch's results.
func FileSink(path string) SinkFunc {
	return func() (io.WriteCloser, error) {
		return os.Create(path)
	}
}

// WriterSink adapts a plain writer, such as a buffer or stdout, into
// a sink. Closing it is a no-op; the caller keeps ownership of w.
func WriterSink(w io.Writer) SinkFunc {
	return func() (io.WriteCloser, error) {
		return nopCloser{w}, nil
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
