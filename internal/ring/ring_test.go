// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestWriteReadRoundTrip(t *testing.T) {
	b := New(64, 1024)
	n, dropped, err := b.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Zero(t, dropped)
	require.Equal(t, 5, b.Used())

	out := make([]byte, 5)
	got := b.Read(out)
	require.Equal(t, 5, got)
	require.Equal(t, "hello", string(out))
	require.True(t, b.Empty())
}

func TestWriteWraparound(t *testing.T) {
	b := New(64, 128)
	_, _, err := b.Write(append(make([]byte, 60), "ef"...))
	require.NoError(t, err)
	_ = b.Read(make([]byte, 60)) // head sits two bytes before the physical end

	_, _, err = b.Write([]byte("ghij"))
	require.NoError(t, err)

	out := make([]byte, b.Used())
	b.Read(out)
	require.Equal(t, "efghij", string(out))
}

func TestGrowBeyondInitialCapacity(t *testing.T) {
	b := New(8, 1024)
	payload := make([]byte, 500)
	for i := range payload {
		payload[i] = byte(i)
	}
	_, _, err := b.Write(payload)
	require.NoError(t, err)
	require.Equal(t, 500, b.Used())
	require.LessOrEqual(t, b.Used(), b.Cap())

	out := make([]byte, 500)
	b.Read(out)
	require.Equal(t, payload, out)
}

func TestWriteFailsPastMaxCapacity(t *testing.T) {
	b := New(64, 64)
	_, _, err := b.Write(make([]byte, 64))
	require.NoError(t, err)

	_, _, err = b.Write([]byte("x"))
	require.ErrorIs(t, err, ErrFull)
	require.Equal(t, 64, b.Used(), "a rejected write must not drop or partially apply")
}

func TestReadLine(t *testing.T) {
	b := New(64, 1024)
	b.Write([]byte("hi\nthere"))

	line := b.ReadLine(1024)
	require.Equal(t, "hi\n", string(line))

	require.Nil(t, b.ReadLine(1024), "no newline left: must not emit a partial line")
	require.Equal(t, "there", string(b.Bytes()))
}

func TestReadLineRespectsMax(t *testing.T) {
	b := New(64, 1024)
	b.Write([]byte("hello world\n"))
	require.Nil(t, b.ReadLine(3), "line exceeds max: caller must not receive a truncated line")
}

func TestWriteFromFDReadsThenReportsEOF(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], 0))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])
	require.NoError(t, unix.SetNonblock(fds[0], true))
	require.NoError(t, unix.SetNonblock(fds[1], true))

	_, err := unix.Write(fds[1], []byte("payload"))
	require.NoError(t, err)
	unix.Close(fds[1])

	b := New(64, 1024)
	n, err := b.WriteFromFD(fds[0], -1)
	require.NoError(t, err)
	require.Equal(t, 7, n)

	n, err = b.WriteFromFD(fds[0], -1)
	require.NoError(t, err)
	require.Zero(t, n, "closed write end must read as EOF (n=0, err=nil)")
}

func TestReadToFDWouldBlockOnFullPipe(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], 0))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])
	require.NoError(t, unix.SetNonblock(fds[1], true))

	b := New(64, 1<<20)
	big := make([]byte, 1<<20)
	_, _, err := b.Write(big)
	require.NoError(t, err)

	// Drain in a loop; a pipe's kernel buffer is far smaller than 1MiB, so at
	// least one ReadToFD call must observe EAGAIN before completing.
	sawWouldBlock := false
	for b.Used() > 0 {
		_, err := b.ReadToFD(fds[1], -1)
		if err == ErrWouldBlock {
			sawWouldBlock = true
			// Drain the reader side so the writer can make progress.
			drain := make([]byte, 65536)
			unix.Read(fds[0], drain)
			continue
		}
		require.NoError(t, err)
	}
	require.True(t, sawWouldBlock)
}
