package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, r *Reader) []Frame {
	t.Helper()
	var out []Frame
	for {
		f, ok := r.Next()
		if !ok {
			return out
		}
		out = append(out, f)
	}
}

func TestRoundTripSingleFrame(t *testing.T) {
	r := &Reader{}
	require.NoError(t, r.Push(Encode(MsgJoin, "Alice       ")))

	frames := drain(t, r)
	require.Len(t, frames, 1)
	require.Equal(t, MsgJoin, frames[0].Type)
	require.Equal(t, []string{"Alice       "}, frames[0].Args)
}

func TestRoundTripByteAtATime(t *testing.T) {
	r := &Reader{}
	wire := "[join|Bob         ][ante|0000000010][turn|hitt][exit]"
	for i := 0; i < len(wire); i++ {
		require.NoError(t, r.Push([]byte{wire[i]}))
	}

	frames := drain(t, r)
	require.Len(t, frames, 4)
	require.Equal(t, MsgJoin, frames[0].Type)
	require.Equal(t, MsgAnte, frames[1].Type)
	require.Equal(t, []string{"0000000010"}, frames[1].Args)
	require.Equal(t, MsgTurn, frames[2].Type)
	require.Equal(t, MsgExit, frames[3].Type)
	require.Empty(t, frames[3].Args)
}

func TestRoundTripManyInOneChunk(t *testing.T) {
	r := &Reader{}
	require.NoError(t, r.Push([]byte("[chat|hello][chat|world][turn|stay]")))

	frames := drain(t, r)
	require.Len(t, frames, 3)
	require.Equal(t, []string{"hello"}, frames[0].Args)
	require.Equal(t, []string{"world"}, frames[1].Args)
	require.Equal(t, MsgTurn, frames[2].Type)
}

func TestNewlinesStrippedInsideFrame(t *testing.T) {
	r := &Reader{}
	require.NoError(t, r.Push([]byte("[jo\r\nin|Carol      \n ]")))

	frames := drain(t, r)
	require.Len(t, frames, 1)
	require.Equal(t, MsgJoin, frames[0].Type)
	require.Equal(t, []string{"Carol       "}, frames[0].Args)
}

func TestGarbageBetweenFramesDiscarded(t *testing.T) {
	r := &Reader{}
	require.NoError(t, r.Push([]byte("noise[turn|hitt]more noise[turn|st")))

	frames := drain(t, r)
	require.Len(t, frames, 1)
	require.Equal(t, []string{"hitt"}, frames[0].Args)

	// The partial trailer completes on the next push.
	require.NoError(t, r.Push([]byte("ay]")))
	frames = drain(t, r)
	require.Len(t, frames, 1)
	require.Equal(t, []string{"stay"}, frames[0].Args)
}

func TestUnknownTypePreservesRaw(t *testing.T) {
	r := &Reader{}
	require.NoError(t, r.Push([]byte("[zzzz|what|ever]")))

	frames := drain(t, r)
	require.Len(t, frames, 1)
	require.Equal(t, MsgUnknown, frames[0].Type)
	require.Equal(t, "zzzz|what|ever", frames[0].Raw)
}

func TestOverflowFlagsConnection(t *testing.T) {
	r := &Reader{}
	err := r.Push([]byte("[" + strings.Repeat("x", MaxResidue+10)))
	require.ErrorIs(t, err, ErrOverflow)

	// The reader survives with a cleared buffer.
	require.NoError(t, r.Push([]byte("[exit]")))
	frames := drain(t, r)
	require.Len(t, frames, 1)
	require.Equal(t, MsgExit, frames[0].Type)
}

func TestClosedOnEmptyAndEOT(t *testing.T) {
	r := &Reader{}
	require.ErrorIs(t, r.Push(nil), ErrClosed)
	require.ErrorIs(t, r.Push([]byte{EOT}), ErrClosed)
}

func TestSanitizeCannotForgeFrames(t *testing.T) {
	hostile := "ha][errr|9|pwned][chat|x"
	safe := Sanitize(hostile)
	require.NotContains(t, safe, "[")
	require.NotContains(t, safe, "]")
	require.NotContains(t, safe, "|")

	r := &Reader{}
	require.NoError(t, r.Push(Encode(MsgChat, ServerID, safe)))
	frames := drain(t, r)
	require.Len(t, frames, 1)
	require.Equal(t, MsgChat, frames[0].Type)
	require.Len(t, frames[0].Args, 2)
}

func TestFieldFormatting(t *testing.T) {
	require.Equal(t, "Dave        ", FormatID("Dave        "))
	require.Equal(t, "0000000042", FormatCash(42))
	require.Equal(t, "0000001000", FormatCash(1000))
	require.Len(t, ServerID, IDLen)
}
