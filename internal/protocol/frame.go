package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

const (
	// ReadSize is the per-read chunk size on the socket.
	ReadSize = 1024
	// MaxResidue caps unparsed buffered bytes; beyond it the peer is either
	// broken or hostile and the connection is dropped.
	MaxResidue = 1024
	// EOT is the end-of-transmission byte some clients send on close.
	EOT = 0x04

	// IDLen is the fixed width of player ids on the wire.
	IDLen = 12
	// ServerID is the reserved dealer identity; no client may join as it.
	ServerID = "SERVER      "
)

var (
	// ErrClosed reports an orderly peer close (empty read or a lone EOT).
	ErrClosed = errors.New("protocol: connection closed by peer")
	// ErrOverflow reports an unparseable buffer past MaxResidue.
	ErrOverflow = errors.New("protocol: unparsed buffer overflow")
)

// sanitizer swaps the frame metacharacters for lookalikes so free text
// (chat, error reasons) cannot forge frames.
var sanitizer = strings.NewReplacer("|", "!", "[", "{", "]", "}")

func Sanitize(text string) string {
	return sanitizer.Replace(text)
}

// FormatID right-pads an id to the fixed wire width.
func FormatID(id string) string {
	return fmt.Sprintf("%-*s", IDLen, id)
}

// FormatCash renders a cash amount as the 10-digit zero-padded wire field.
func FormatCash(n int64) string {
	return fmt.Sprintf("%010d", n)
}

// Encode builds one outbound frame: [type|arg1|arg2|...].
func Encode(t MsgType, args ...string) []byte {
	var b bytes.Buffer
	b.WriteByte('[')
	b.WriteString(t.String())
	for _, a := range args {
		b.WriteByte('|')
		b.WriteString(a)
	}
	b.WriteByte(']')
	return b.Bytes()
}

// Reader incrementally decodes frames off arbitrary chunk boundaries: bytes
// go in via Push, complete frames come out via Next. The zero value is ready
// to use.
type Reader struct {
	buf   []byte
	queue []Frame
}

// Push appends one raw read. An empty chunk or a leading EOT means the peer
// hung up. Garbage between frames is discarded up to the next '['; a buffer
// that grows past MaxResidue without completing a frame is an overflow.
func (r *Reader) Push(chunk []byte) error {
	if len(chunk) == 0 || chunk[0] == EOT {
		return ErrClosed
	}
	r.buf = append(r.buf, stripControl(chunk)...)

	for {
		open := bytes.IndexByte(r.buf, '[')
		if open < 0 {
			r.buf = r.buf[:0]
			break
		}
		if open > 0 {
			// Garbage before the frame start.
			r.buf = r.buf[open:]
		}
		end := bytes.IndexByte(r.buf, ']')
		if end < 0 {
			break
		}
		r.queue = append(r.queue, decode(string(r.buf[1:end])))
		r.buf = r.buf[end+1:]
	}

	if len(r.buf) > MaxResidue {
		r.buf = r.buf[:0]
		return ErrOverflow
	}
	return nil
}

// Next pops the oldest complete frame, preserving per-connection FIFO order.
func (r *Reader) Next() (Frame, bool) {
	if len(r.queue) == 0 {
		return Frame{}, false
	}
	f := r.queue[0]
	r.queue = r.queue[1:]
	return f, true
}

// stripControl removes CR, LF and EOT anywhere in the chunk, so frames may
// arrive split across lines or terminated by a console client.
func stripControl(chunk []byte) []byte {
	out := make([]byte, 0, len(chunk))
	for _, b := range chunk {
		switch b {
		case '\r', '\n', EOT:
		default:
			out = append(out, b)
		}
	}
	return out
}

// decode splits the inner text of one frame into type and args.
func decode(inner string) Frame {
	parts := strings.Split(inner, "|")
	return Frame{
		Type: ParseMsgType(parts[0]),
		Raw:  inner,
		Args: parts[1:],
	}
}
