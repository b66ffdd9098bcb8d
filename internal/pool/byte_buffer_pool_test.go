package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestByteBuffer_Basics(t *testing.T) {
	bb := NewByteBuffer(64)
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 64, bb.Cap())

	n, err := bb.Write([]byte("octree"))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, []byte("octree"), bb.Bytes())

	clone := bb.Clone()
	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 64, bb.Cap())
	require.Equal(t, []byte("octree"), clone)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.Write([]byte{1, 2, 3})

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, []byte{1, 2, 3}, out.Bytes())

	_, err = bb.WriteTo(failingWriter{})
	require.Error(t, err)
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("SufficientCapacity", func(t *testing.T) {
		bb := NewByteBuffer(32)
		bb.Grow(32)
		require.Equal(t, 32, bb.Cap())
	})

	t.Run("SmallBuffer", func(t *testing.T) {
		bb := NewByteBuffer(8)
		_, _ = bb.Write([]byte("abcdefgh"))
		bb.Grow(1)
		require.Equal(t, 8+StreamBufferDefaultSize, bb.Cap())
		require.Equal(t, []byte("abcdefgh"), bb.Bytes())
	})

	t.Run("LargeBuffer", func(t *testing.T) {
		size := 8 * StreamBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		require.Equal(t, size+size/4, bb.Cap())
	})

	t.Run("MoreThanDefaultGrowth", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(3 * StreamBufferDefaultSize)
		require.Equal(t, 3*StreamBufferDefaultSize, bb.Cap())
	})
}

func TestStreamBuffer_Reuse(t *testing.T) {
	bb := GetStreamBuffer()
	require.NotNil(t, bb)
	_, _ = bb.Write([]byte("leftover"))
	PutStreamBuffer(bb)

	again := GetStreamBuffer()
	require.Equal(t, 0, again.Len())
	PutStreamBuffer(again)

	PutStreamBuffer(nil)
}

func TestContainerBuffer(t *testing.T) {
	bb := GetContainerBuffer()
	require.NotNil(t, bb)
	require.GreaterOrEqual(t, bb.Cap(), 0)
	PutContainerBuffer(bb)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	t.Run("DiscardsOversized", func(t *testing.T) {
		p := NewByteBufferPool(16, 32)
		big := NewByteBuffer(64)
		p.Put(big)

		got := p.Get()
		require.NotSame(t, big, got)
		require.Equal(t, 16, got.Cap())
	})

	t.Run("ZeroMeansUnlimited", func(t *testing.T) {
		p := NewByteBufferPool(16, 0)
		bb := p.Get()
		bb.Grow(1 << 20)
		p.Put(bb)
		require.Equal(t, 0, bb.Len())
	})
}

func TestByteBufferPool_ConcurrentAccess(t *testing.T) {
	p := NewByteBufferPool(128, 1024)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				bb := p.Get()
				_, _ = bb.Write([]byte{byte(i)})
				p.Put(bb)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkPool_GetWritePut(b *testing.B) {
	data := bytes.Repeat([]byte{0xab}, 512)

	b.ReportAllocs()
	for b.Loop() {
		bb := GetStreamBuffer()
		_, _ = bb.Write(data)
		PutStreamBuffer(bb)
	}
}
