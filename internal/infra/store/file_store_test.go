package store

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jcarcaboso/gas-alerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "thresholds.json"), zap.NewNop())
}

func writeRaw(t *testing.T, s *FileStore, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))
}

func readRaw(t *testing.T, s *FileStore) string {
	t.Helper()
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	return string(data)
}

func weis(values ...string) []*big.Int {
	out := make([]*big.Int, 0, len(values))
	for _, v := range values {
		wei, ok := new(big.Int).SetString(v, 10)
		if !ok {
			panic(v)
		}
		out = append(out, wei)
	}
	return out
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := weis("100000000", "50000000000", "50000000000", "115792089237316195423570985008687907853269984665640564039457584007913129639935")

	require.NoError(t, s.Write(want))

	result := s.Read()
	require.Equal(t, ReadLoaded, result.State)
	require.NoError(t, result.Err)
	require.Len(t, result.Thresholds, len(want))
	for i := range want {
		assert.Zero(t, want[i].Cmp(result.Thresholds[i]), "index %d", i)
	}
}

func TestWriteFormat(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write(weis("100000000", "50000000000")))
	require.Equal(t, "[100000000,50000000000]", readRaw(t, s))

	require.NoError(t, s.Write(nil))
	require.Equal(t, "[]", readRaw(t, s))
}

func TestReadStates(t *testing.T) {
	cases := []struct {
		name    string
		content *string
		state   ReadState
	}{
		{name: "missing", content: nil, state: ReadMissing},
		{name: "zero bytes", content: strPtr(""), state: ReadEmpty},
		{name: "whitespace", content: strPtr(" \n"), state: ReadEmpty},
		{name: "empty array", content: strPtr("[]"), state: ReadEmpty},
		{name: "null", content: strPtr("null"), state: ReadEmpty},
		{name: "garbage", content: strPtr("{not json"), state: ReadCorrupt},
		{name: "object", content: strPtr(`{"a":1}`), state: ReadCorrupt},
		{name: "fraction", content: strPtr("[1.5]"), state: ReadCorrupt},
		{name: "negative", content: strPtr("[-1]"), state: ReadCorrupt},
		{name: "null element", content: strPtr("[1,null]"), state: ReadCorrupt},
		{name: "string element", content: strPtr(`["100"]`), state: ReadCorrupt},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t)
			if tc.content != nil {
				writeRaw(t, s, *tc.content)
			}
			result := s.Read()
			require.Equal(t, tc.state, result.State)
			require.NotNil(t, result.Thresholds)
			require.Empty(t, result.Thresholds)
			require.Equal(t, tc.state == ReadCorrupt, result.Err != nil)
		})
	}
}

func TestReadUnreadableIsEmptyAndRepeatable(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.Mkdir(s.Path(), 0o755))

	for i := 0; i < 3; i++ {
		result := s.Read()
		require.Equal(t, ReadUnreadable, result.State)
		require.Empty(t, result.Thresholds)
		require.Error(t, result.Err)
	}
}

func TestWriteFailsWhenDirectoryMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "missing", "thresholds.json"), zap.NewNop())
	require.Error(t, s.Write(weis("1")))
}

func TestAppendConvertsAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	writeRaw(t, s, "[100000000]")

	require.NoError(t, s.Append(ctx, domain.GweiToWei(50)))
	require.Equal(t, "[100000000,50000000000]", readRaw(t, s))

	require.NoError(t, s.Append(ctx, domain.GweiToWei(50)))
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "50000000000", list[2].String())
}

func TestAppendRefusesCorruptFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	writeRaw(t, s, "[1,")

	err := s.Append(ctx, big.NewInt(5))
	require.ErrorIs(t, err, domain.ErrThresholdsUnreadable)
	require.Equal(t, "[1,", readRaw(t, s))

	_, err = s.List(ctx)
	require.ErrorIs(t, err, domain.ErrThresholdsUnreadable)
}

func TestSeedWritesExactlyOneDefault(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seeded, err := s.Seed(ctx, big.NewInt(100000000))
	require.NoError(t, err)
	require.True(t, seeded)
	require.Equal(t, "[100000000]", readRaw(t, s))

	seeded, err = s.Seed(ctx, big.NewInt(7))
	require.NoError(t, err)
	require.False(t, seeded)
	require.Equal(t, "[100000000]", readRaw(t, s))
}

func TestSeedEmptyFile(t *testing.T) {
	s := newTestStore(t)
	writeRaw(t, s, "")

	seeded, err := s.Seed(context.Background(), big.NewInt(100000000))
	require.NoError(t, err)
	require.True(t, seeded)
	require.Equal(t, "[100000000]", readRaw(t, s))
}

func TestSeedCorruptFileFails(t *testing.T) {
	s := newTestStore(t)
	writeRaw(t, s, "oops")

	seeded, err := s.Seed(context.Background(), big.NewInt(100000000))
	require.ErrorIs(t, err, domain.ErrThresholdsUnreadable)
	require.False(t, seeded)
	require.Equal(t, "oops", readRaw(t, s))
}

func TestConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Seed(ctx, big.NewInt(1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n uint64) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, domain.GweiToWei(n)))
		}(uint64(i))
	}
	wg.Wait()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 21)
}

func strPtr(s string) *string { return &s }
