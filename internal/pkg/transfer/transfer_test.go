package transfer_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/s887432/udp-filetransfer/internal/pkg/checksum"
	"github.com/s887432/udp-filetransfer/internal/pkg/segment"
	"github.com/s887432/udp-filetransfer/internal/pkg/segment/segmenttest"
	"github.com/s887432/udp-filetransfer/internal/pkg/session"
	"github.com/s887432/udp-filetransfer/internal/pkg/transfer"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type received struct {
	file *transfer.File
	err  error
}

type pair struct {
	sender   *segment.Link
	receiver *segment.Link
	sc, rc   *segmenttest.Conn
}

func newPair(t *testing.T, senderTimeout, receiverTimeout time.Duration) pair {
	t.Helper()
	sc, rc := segmenttest.Pipe("sender", "receiver")
	t.Cleanup(func() {
		_ = sc.Close()
		_ = rc.Close()
	})
	sender, err := segment.NewLink(sc,
		segment.WithPeer(rc.Addr()),
		segment.WithTimeout(senderTimeout),
		segment.WithMaxDatagramSize(512),
	)
	require.NoError(t, err)
	receiver, err := segment.NewLink(rc, segment.WithTimeout(receiverTimeout))
	require.NoError(t, err)
	return pair{sender: sender, receiver: receiver, sc: sc, rc: rc}
}

func receiveAsync(ctx context.Context, r segment.Receiver, cfgs ...transfer.ReceiveCfg) <-chan received {
	out := make(chan received, 1)
	go func() {
		f, err := transfer.ReceiveFile(ctx, r, cfgs...)
		out <- received{f, err}
	}()
	return out
}

func randomBytes(n int) []byte {
	buf := make([]byte, n)
	r := rand.New(rand.NewSource(int64(n)))
	_, _ = r.Read(buf)
	return buf
}

func lengths(t *testing.T, fileSize, sectionSize int) []int {
	t.Helper()
	secs, err := transfer.Sections(fileSize, sectionSize)
	require.NoError(t, err)
	out := make([]int, 0, len(secs))
	for _, s := range secs {
		out = append(out, s.Length)
	}
	return out
}

func TestSectionsExample(t *testing.T) {
	require.Equal(t, []int{1024, 1024, 1024, 1024, 904}, lengths(t, 5000, 1024))
	require.Empty(t, lengths(t, 0, 1024))
	require.Equal(t, []int{10}, lengths(t, 10, 100))
	require.Equal(t, []int{1, 1, 1}, lengths(t, 3, 1))
	require.Equal(t, []int{4, 4}, lengths(t, 8, 4))

	_, err := transfer.Sections(10, 0)
	require.ErrorIs(t, err, transfer.ErrInvalidSectionSize)
	_, err = transfer.Sections(0, 0)
	require.NoError(t, err)
}

func TestSectionsCoverFileExactly(t *testing.T) {
	for fileSize := 0; fileSize <= 300; fileSize++ {
		for sectionSize := 1; sectionSize <= 64; sectionSize++ {
			secs, err := transfer.Sections(fileSize, sectionSize)
			require.NoError(t, err)
			total := 0
			for i, s := range secs {
				require.Equal(t, i*sectionSize, s.Offset)
				require.Positive(t, s.Length)
				require.LessOrEqual(t, s.Length, sectionSize)
				total += s.Length
			}
			require.Equal(t, fileSize, total, "file %d section %d", fileSize, sectionSize)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, size := range []int{0, 1, 1000, 1024, 5000} {
		for _, section := range []int32{1, 7, 1024, 10000} {
			t.Run(fmt.Sprintf("size=%d/section=%d", size, section), func(t *testing.T) {
				p := newPair(t, time.Second, time.Second)
				ctx := context.Background()
				data := randomBytes(size)
				done := receiveAsync(ctx, p.receiver)

				require.NoError(t, transfer.SendFile(ctx, p.sender, section, data))
				require.NoError(t, session.SendCommand(ctx, p.sender, session.KeepGoing))

				res := <-done
				require.NoError(t, res.err)
				require.False(t, res.file.EndOfSession)
				require.Equal(t, int32(size), res.file.Size)
				require.Equal(t, section, res.file.SectionSize)
				require.Equal(t, data, res.file.Data)
				require.Equal(t, checksum.Sum(data), res.file.Checksum)
				require.Equal(t, session.KeepGoing, res.file.Command)
			})
		}
	}
}

func TestEmptyFileStillNegotiates(t *testing.T) {
	p := newPair(t, time.Second, time.Second)
	ctx := context.Background()
	done := receiveAsync(ctx, p.receiver)

	require.NoError(t, transfer.SendFile(ctx, p.sender, 1024, nil))
	require.NoError(t, session.SendCommand(ctx, p.sender, session.Finished))

	res := <-done
	require.NoError(t, res.err)
	require.Empty(t, res.file.Data)
	require.Equal(t, session.Finished, res.file.Command)
	// file size, section size and command; no data segment.
	require.Equal(t, 3, p.sc.Writes())
	require.Equal(t, 3, p.rc.Writes())
}

func TestEndOfSession(t *testing.T) {
	p := newPair(t, time.Second, time.Second)
	ctx := context.Background()
	done := receiveAsync(ctx, p.receiver)

	require.NoError(t, transfer.SendEndOfSession(ctx, p.sender))
	res := <-done
	require.NoError(t, res.err)
	require.True(t, res.file.EndOfSession)
	require.Equal(t, transfer.EndOfSession, res.file.Size)
	require.Equal(t, session.Finished, res.file.Command)
	require.Equal(t, 1, p.sc.Writes())
	require.Equal(t, 1, p.rc.Writes())
}

func TestWriteFailureMidSection(t *testing.T) {
	p := newPair(t, time.Second, 100*time.Millisecond)
	// Writes: file size, section size, then 512-byte datagrams of the first section.
	p.sc.OnWrite(func(n int, b []byte) ([]byte, error) {
		if n == 3 {
			return nil, errors.New("no buffer space available")
		}
		return b, nil
	})
	ctx := context.Background()
	done := receiveAsync(ctx, p.receiver)

	err := transfer.SendFile(ctx, p.sender, 1024, randomBytes(5000))
	require.ErrorIs(t, err, segment.ErrTransport)
	require.Equal(t, 4, p.sc.Writes())

	res := <-done
	require.Error(t, res.err)
	require.Nil(t, res.file)
}

func TestCorruptedDataAckFailsFile(t *testing.T) {
	p := newPair(t, time.Second, time.Second)
	// Acks: file size, section size, section 0, section 1 (corrupted).
	p.rc.OnWrite(func(n int, b []byte) ([]byte, error) {
		if n == 3 {
			return segment.EncodeInt32(0), nil
		}
		return b, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := receiveAsync(ctx, p.receiver)

	err := transfer.SendFile(ctx, p.sender, 1024, randomBytes(5000))
	require.ErrorIs(t, err, segment.ErrAckFailure)
	cancel()
	require.Error(t, (<-done).err)
}

func TestNegativeFileSizeIsDesync(t *testing.T) {
	p := newPair(t, time.Second, time.Second)
	ctx := context.Background()
	done := receiveAsync(ctx, p.receiver)

	_, err := p.sender.Send(ctx, segment.EncodeInt32(-5))
	require.NoError(t, err)
	res := <-done
	require.ErrorIs(t, res.err, transfer.ErrProtocolDesync)
}

func TestZeroSectionSizeIsDesync(t *testing.T) {
	p := newPair(t, time.Second, time.Second)
	ctx := context.Background()
	done := receiveAsync(ctx, p.receiver)

	_, err := p.sender.Send(ctx, segment.EncodeInt32(100))
	require.NoError(t, err)
	_, err = p.sender.Send(ctx, segment.EncodeInt32(0))
	require.NoError(t, err)
	res := <-done
	require.ErrorIs(t, res.err, transfer.ErrProtocolDesync)
}

func TestMaxFileSize(t *testing.T) {
	p := newPair(t, time.Second, time.Second)
	ctx := context.Background()
	done := receiveAsync(ctx, p.receiver, transfer.WithMaxFileSize(100))

	_, err := p.sender.Send(ctx, segment.EncodeInt32(101))
	require.NoError(t, err)
	res := <-done
	require.ErrorIs(t, res.err, transfer.ErrFileTooLarge)
}

func TestSendFileRejectsBadSectionSize(t *testing.T) {
	p := newPair(t, time.Second, time.Second)
	err := transfer.SendFile(context.Background(), p.sender, 0, []byte{1})
	require.ErrorIs(t, err, transfer.ErrInvalidSectionSize)
	require.Zero(t, p.sc.Writes())
}
