package loader

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivam-909/bidtree/internal/index"
	standardindex "github.com/shivam-909/bidtree/internal/index/standard"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$45.50", 45.5},
		{"45.50", 45.5},
		{" $8.75 ", 8.75},
		{"$1,200.00", 1200},
		{"$$3", 3},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in, '$')
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	got, err := ParseAmount("€12.5", '€')
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)

	for _, bad := range []string{"", "$", "N/A", "12.5$x"} {
		_, err := ParseAmount(bad, '$')
		assert.Error(t, err, bad)
	}
}

func TestLoadFile(t *testing.T) {
	ix := standardindex.New()
	l := New(nil)

	n, err := l.LoadFile(context.Background(), "testdata/bids.csv", ix)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{"97990", "98109", "98110", "98223", "98346"}, index.IDs(ix, index.InOrder))

	r, ok := ix.Search("98223")
	require.True(t, ok)
	assert.Equal(t, index.Record{ID: "98223", Title: "Table", Fund: "General Fund", Amount: 45.5}, r)

	r, ok = ix.Search("98109")
	require.True(t, ok)
	assert.Equal(t, "Chair, office", r.Title)

	r, _ = ix.Search("97990")
	assert.Equal(t, 1200.0, r.Amount)

	r, ok = ix.Search("98346")
	require.True(t, ok)
	assert.Zero(t, r.Amount, "unparseable amounts load as 0")
}

func TestLoadGzip(t *testing.T) {
	raw, err := os.ReadFile("testdata/bids.csv")
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "bids.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	ix := standardindex.New()
	n, err := New(nil).LoadFile(context.Background(), path, ix)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, ix.Len())
}

func TestOpenStdin(t *testing.T) {
	raw, err := os.ReadFile("testdata/bids.csv")
	require.NoError(t, err)

	saved := stdin
	stdin = bytes.NewReader(raw)
	defer func() { stdin = saved }()

	src, err := Open("-")
	require.NoError(t, err)
	assert.Equal(t, "ArticleTitle", src.Header()[0])

	ix := standardindex.New()
	n, err := New(nil).Load(context.Background(), src, ix)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.NoError(t, src.Close(), "closing stdin source closes nothing")

	r, ok := ix.Search("98110")
	require.True(t, ok)
	assert.Equal(t, "Filing cabinet", r.Title)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSourceHeader(t *testing.T) {
	src, err := NewSource(strings.NewReader("a,b,c\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, src.Header())

	row, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, row)
	assert.Equal(t, 2, src.Line())

	_, err = NewSource(strings.NewReader(""))
	assert.Error(t, err)
}

func TestShortRowStopsLoad(t *testing.T) {
	data := "title,id,x,y,amount,a,b,c,fund\n" +
		"Lamp,3,,,$1,,,,Trust\n" +
		"Desk,1\n" +
		"Sofa,2,,,$2,,,,Trust\n"
	src, err := NewSource(strings.NewReader(data))
	require.NoError(t, err)

	ix := standardindex.New()
	n, err := New(nil).Load(context.Background(), src, ix)
	assert.ErrorIs(t, err, ErrShortRow)
	assert.Contains(t, err.Error(), "line 3")
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"3"}, index.IDs(ix, index.InOrder))
}

func TestCustomColumns(t *testing.T) {
	src, err := NewSource(strings.NewReader("id,title,fund,amount\nb7,Boat,Trust,£30\n"))
	require.NoError(t, err)

	l := New(nil)
	l.Columns = Columns{ID: 0, Title: 1, Fund: 2, Amount: 3}
	l.Symbol = '£'

	ix := standardindex.New()
	n, err := l.Load(context.Background(), src, ix)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	r, ok := ix.Search("b7")
	require.True(t, ok)
	assert.Equal(t, index.Record{ID: "b7", Title: "Boat", Fund: "Trust", Amount: 30}, r)
}

func TestLoadCanceled(t *testing.T) {
	src, err := Open("testdata/bids.csv")
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ix := standardindex.New()
	n, err := New(nil).Load(ctx, src, ix)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
	assert.Zero(t, ix.Len())
}
