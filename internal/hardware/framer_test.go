package hardware

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipePort feeds reads from an internal buffer written to by the test and
// captures everything written to it, standing in for a real serial device.
type pipePort struct {
	r      io.Reader
	writes bytes.Buffer
}

func (p *pipePort) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipePort) Write(b []byte) (int, error) { return p.writes.Write(b) }

func newPipeFramer(t *testing.T, feed []byte) (*Framer, *pipePort) {
	t.Helper()
	pr, pw := io.Pipe()
	go func() {
		pw.Write(feed)
		<-time.After(50 * time.Millisecond)
		pw.CloseWithError(io.EOF)
	}()
	port := &pipePort{r: pr}
	return New(port, slog.Default()), port
}

func TestInitSendsQueryFrames(t *testing.T) {
	port := &pipePort{r: bytes.NewReader(nil)}
	f := New(port, slog.Default())
	require.NoError(t, f.Init())
	assert.Equal(t, []byte{0x01, 0x05}, port.writes.Bytes())
}

func TestKeyDownAndKeyUp(t *testing.T) {
	f, _ := newPipeFramer(t, []byte{0x21, 0x02, 0x04, 0x20, 0x02, 0x04})
	events := make(chan Event, 8)
	go f.Run(events)

	down := <-events
	assert.Equal(t, Event{Kind: EventKeyDown, X: 2, Y: 4}, down)

	up := <-events
	assert.Equal(t, Event{Kind: EventKeyUp, X: 2, Y: 4}, up)
}

func TestSizeReportUpdatesSharedSize(t *testing.T) {
	f, _ := newPipeFramer(t, []byte{0x03, 16, 8})
	events := make(chan Event, 1)
	go f.Run(events)

	ev := <-events
	assert.Equal(t, Event{Kind: EventSizeReport, X: 16, Y: 8}, ev)
	assert.Equal(t, Size{X: 16, Y: 8}, f.Size())
}

func TestDefaultSizeBeforeAnyReport(t *testing.T) {
	port := &pipePort{r: bytes.NewReader(nil)}
	f := New(port, slog.Default())
	assert.Equal(t, DefaultSize, f.Size())
}

func TestUnknownOpcodeIsDroppedAndResyncs(t *testing.T) {
	// 0xff is unknown and should be dropped byte-by-byte until the
	// framer resynchronizes on the following valid key-down frame.
	f, _ := newPipeFramer(t, []byte{0xff, 0xff, 0x21, 0x01, 0x01})
	events := make(chan Event, 1)
	go f.Run(events)

	ev := <-events
	assert.Equal(t, Event{Kind: EventKeyDown, X: 1, Y: 1}, ev)
}

func TestPartialFrameIsBufferedAcrossReads(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		pw.Write([]byte{0x21, 0x03})
		<-time.After(10 * time.Millisecond)
		pw.Write([]byte{0x05})
		<-time.After(10 * time.Millisecond)
		pw.CloseWithError(io.EOF)
	}()
	f := New(&pipePort{r: pr}, slog.Default())
	events := make(chan Event, 1)
	go f.Run(events)

	ev := <-events
	assert.Equal(t, Event{Kind: EventKeyDown, X: 3, Y: 5}, ev)
}
