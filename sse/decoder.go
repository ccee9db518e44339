// Package sse decodes the agent service's event-stream wire format: a
// chunked byte stream where every meaningful line is
// "data: <json>\n". No other SSE fields (event:, id:, retry:) are
// used by the server.
package sse

import (
	"bytes"
	"context"
	"io"

	"github.com/alexschlessinger/martool/events"
	"go.uber.org/zap"
)

var dataPrefix = []byte("data: ")

const readChunkSize = 4096

// Decode reads r to completion, reassembling lines across chunk
// boundaries and emitting each parseable "data:" payload in arrival
// order. The carry buffer holds raw bytes, so multi-byte UTF-8
// sequences split across reads are preserved. A trailing "data:" line
// without a final newline is emitted before returning. Malformed JSON
// payloads are dropped silently; they must not stop later events.
func Decode(ctx context.Context, r io.Reader, emit func(*events.Event)) error {
	var buf []byte
	chunk := make([]byte, readChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			for {
				i := bytes.IndexByte(buf, '\n')
				if i < 0 {
					break
				}
				line := buf[:i]
				buf = buf[i+1:]
				if cerr := ctx.Err(); cerr != nil {
					return cerr
				}
				emitLine(line, emit)
			}
		}

		if err == io.EOF {
			// Server may close the stream without terminating the
			// final line.
			if len(buf) > 0 {
				emitLine(buf, emit)
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func emitLine(line []byte, emit func(*events.Event)) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if !bytes.HasPrefix(line, dataPrefix) {
		return
	}
	payload := line[len(dataPrefix):]
	ev, ok := events.TryParse(payload)
	if !ok {
		zap.S().Debugw("dropping malformed event line", "payload", string(payload))
		return
	}
	emit(ev)
}
