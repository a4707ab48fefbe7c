package combine

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	// headerRuleWidth is the width of the '=' rule under the document header.
	headerRuleWidth = 80

	// timestampLayout is the format of the "Generated on" header line.
	timestampLayout = "2006-01-02 15:04:05"
)

// countingWriter counts every byte that reaches the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// documentWriter emits the consolidated document: one header block followed
// by a record per included file. Writes are buffered; callers must Flush
// before trusting BytesWritten.
type documentWriter struct {
	buf     *bufio.Writer
	counter *countingWriter
}

func newDocumentWriter(w io.Writer) *documentWriter {
	counter := &countingWriter{w: w}
	return &documentWriter{
		buf:     bufio.NewWriter(counter),
		counter: counter,
	}
}

// WriteHeader writes the document preamble. The total is the number of
// files selected for the document when writing begins.
func (d *documentWriter) WriteHeader(project string, total int, generated time.Time) error {
	_, err := fmt.Fprintf(d.buf, "# Codebase for: %s\n# Generated on: %s\n# Total files: %d\n%s\n\n",
		project, generated.Format(timestampLayout), total, strings.Repeat("=", headerRuleWidth))
	return err
}

// WriteRecord writes one file entry: a path banner, then the content inside
// a fenced block. The closing fence is always placed on its own line, even
// when the content already ends with a newline.
func (d *documentWriter) WriteRecord(relPath, language string, content []byte) error {
	if _, err := fmt.Fprintf(d.buf, "---\n### File: `%s`\n---\n\n```%s\n", relPath, language); err != nil {
		return err
	}
	if _, err := d.buf.Write(content); err != nil {
		return err
	}
	_, err := d.buf.WriteString("\n```\n\n")
	return err
}

// Flush drains buffered output to the underlying writer.
func (d *documentWriter) Flush() error {
	return d.buf.Flush()
}

// BytesWritten reports how many bytes have been flushed so far.
func (d *documentWriter) BytesWritten() int64 {
	return d.counter.n
}
