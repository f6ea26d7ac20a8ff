package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader feeds pre-set byte slices to ReadFrame one Read call at a
// time, so tests can control exactly how fragmented a transport's delivery
// is.
type chunkedReader struct {
	chunks [][]byte
	err    error
}

func (r *chunkedReader) Read(s *Stream) error {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return r.err
		}
		return &TimeoutError{}
	}
	chunk := r.chunks[0]
	r.chunks = r.chunks[1:]
	n := copy(s.Remaining(), chunk)
	s.Advance(n)
	if n < len(chunk) {
		r.chunks = append([][]byte{chunk[n:]}, r.chunks...)
	}
	return nil
}

func encodeFrame(payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	PutHeader(buf, Header{
		ProtoMajor: ProtocolMajor, ProtoMinor: ProtocolMinor,
		EncMajor: EncodingMajor, EncMinor: EncodingMinor,
		Type: 0, Compress: 0,
		Size: int32(HeaderSize + len(payload)),
	})
	copy(buf[HeaderSize:], payload)
	return buf
}

func TestReadFrameStreamSingleRead(t *testing.T) {
	frame := encodeFrame([]byte("hello"))
	r := &chunkedReader{chunks: [][]byte{frame}}
	s := NewStream()

	err := ReadFrame(r, s, 0, false)
	require.NoError(t, err)
	assert.Equal(t, frame, s.Bytes())
}

func TestReadFrameStreamFragmentedAcrossReads(t *testing.T) {
	frame := encodeFrame([]byte("hello world"))
	r := &chunkedReader{chunks: [][]byte{frame[:3], frame[3:HeaderSize], frame[HeaderSize:]}}
	s := NewStream()

	err := ReadFrame(r, s, 0, false)
	require.NoError(t, err)
	assert.Equal(t, frame, s.Bytes())
}

func TestReadFrameStreamHeaderNotYetComplete(t *testing.T) {
	frame := encodeFrame([]byte("hello"))
	r := &chunkedReader{chunks: [][]byte{frame[:3]}}
	s := NewStream()

	err := ReadFrame(r, s, 0, false)
	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.True(t, IsExpected(err))
}

func TestReadFrameStreamReuseAcrossFrames(t *testing.T) {
	first := encodeFrame([]byte("one"))
	second := encodeFrame([]byte("two-longer"))
	r := &chunkedReader{chunks: [][]byte{first}}
	s := NewStream()

	require.NoError(t, ReadFrame(r, s, 0, false))
	assert.Equal(t, first, s.Bytes())

	s.Reset()
	r.chunks = [][]byte{second}
	require.NoError(t, ReadFrame(r, s, 0, false))
	assert.Equal(t, second, s.Bytes())
}

func TestReadFrameStreamMemoryLimitExceeded(t *testing.T) {
	frame := encodeFrame(make([]byte, 100))
	r := &chunkedReader{chunks: [][]byte{frame}}
	s := NewStream()

	err := ReadFrame(r, s, HeaderSize+10, false)
	var memErr *MemoryLimitError
	require.ErrorAs(t, err, &memErr)
	assert.False(t, IsExpected(err))
}

func TestReadFrameStreamBadMagic(t *testing.T) {
	frame := encodeFrame([]byte("x"))
	frame[0] = 'Z'
	r := &chunkedReader{chunks: [][]byte{frame}}
	s := NewStream()

	err := ReadFrame(r, s, 0, false)
	var badMagic *BadMagicError
	require.ErrorAs(t, err, &badMagic)
}

func TestReadFrameDatagramSingleReadComplete(t *testing.T) {
	frame := encodeFrame([]byte("payload"))
	r := &chunkedReader{chunks: [][]byte{frame}}
	s := NewStream()

	err := ReadFrame(r, s, 0, true)
	require.NoError(t, err)
	assert.Equal(t, frame, s.Bytes())
}

func TestReadFrameDatagramShortReadIsTerminal(t *testing.T) {
	frame := encodeFrame([]byte("payload"))
	r := &chunkedReader{chunks: [][]byte{frame[:HeaderSize]}}
	s := NewStream()

	err := ReadFrame(r, s, 0, true)
	var limitErr *DatagramLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.True(t, IsExpected(err))
	// Crucially: only one Read call is ever issued for a datagram, even
	// though the first one came up short.
	assert.Empty(t, r.chunks)
}

func TestReadFrameDatagramReadError(t *testing.T) {
	wantErr := errors.New("boom")
	r := &chunkedReader{err: wantErr}
	s := NewStream()

	err := ReadFrame(r, s, 0, true)
	assert.ErrorIs(t, err, wantErr)
}
