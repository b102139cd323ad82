package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseAll(p *LineParser, in []byte) (results []ParseResult) {
	for _, b := range in {
		if pr := p.Parse(b); pr.Complete {
			results = append(results, pr)
		}
	}
	return
}

func TestLineParser(t *testing.T) {
	var p LineParser
	results := parseAll(&p, []byte("3\n\n  4  \nab"))
	require.Len(t, results, 3)
	require.Equal(t, []byte("3"), results[0].Line)
	require.Empty(t, results[1].Line)
	require.Equal(t, []byte("  4  "), results[2].Line)
	require.Equal(t, 2, p.Buffered())

	results = parseAll(&p, []byte("c\n"))
	require.Len(t, results, 1)
	require.Equal(t, []byte("abc"), results[0].Line)
	require.Equal(t, 0, p.Buffered())

	parseAll(&p, []byte("partial"))
	p.Reset()
	require.Equal(t, 0, p.Buffered())
}

func TestLineParserOverflow(t *testing.T) {
	var p LineParser
	long := bytes.Repeat([]byte{'9'}, MaxLineLength+10)
	results := parseAll(&p, append(long, '\n', '1', '\n'))
	require.Len(t, results, 2)
	require.True(t, results[0].Overflow)
	require.Len(t, results[0].Line, MaxLineLength)
	require.False(t, results[1].Overflow)
	require.Equal(t, []byte("1"), results[1].Line)
}
