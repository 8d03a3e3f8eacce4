package feed

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

const sampleFeed = `H235 Sportello_dx N246 15:20:43 15:27:55
K542	Sportello_sx	N247	10:03:10	10:15:30

A356 Maniglia_fronte   G102 18:40:11 18:52:23
`

func TestParseLine(t *testing.T) {
	t.Parallel()

	fields, err := ParseLine("  H235 Sportello_dx\tN246 15:20:43 15:27:55 ")
	require.NoError(t, err)
	assert.Equal(t, record.Fields{
		ProductID: "H235",
		PieceName: "Sportello_dx",
		PieceID:   "N246",
		TimeEntry: "15:20:43",
		TimeExit:  "15:27:55",
	}, fields)

	_, err = ParseLine("H235 Sportello dx N246 15:20:43 15:27:55")
	require.ErrorIs(t, err, ErrFieldCount)

	_, err = ParseLine("H235")
	require.ErrorIs(t, err, ErrFieldCount)
}

func TestReadAll(t *testing.T) {
	t.Parallel()

	records, err := ReadAll(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "H235", records[0].ProductID())
	assert.Equal(t, int64(740), records[1].Duration())
	assert.Equal(t, "Maniglia_fronte", records[2].PieceName())
}

func TestReadAll_Empty(t *testing.T) {
	t.Parallel()

	records, err := ReadAll(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadAll_ReportsLine(t *testing.T) {
	t.Parallel()

	_, err := ReadAll(strings.NewReader(sampleFeed + "B100 Bolt B101 12:00:00 11:00:00\n"))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 5, parseErr.Line)
	require.ErrorIs(t, err, record.ErrNegativeDuration)
	assert.Contains(t, err.Error(), "line 5")
}

func TestReader_ContinuesPastBadLines(t *testing.T) {
	t.Parallel()

	src := "H235 Sportello_dx N246 15:20:43\nK542 Sportello_sx N247 10:03:10 10:15:30\nXX Bolt B101 12:00:00 13:00:00\n"

	var (
		good []string
		bad  []int
	)

	for rec, err := range NewReader(strings.NewReader(src)).All() {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			bad = append(bad, parseErr.Line)

			continue
		}

		require.NoError(t, err)
		good = append(good, rec.ProductID())
	}

	assert.Equal(t, []string{"K542"}, good)
	assert.Equal(t, []int{1, 3}, bad)
}

func TestReader_ReadEOF(t *testing.T) {
	t.Parallel()

	reader := NewReader(strings.NewReader("H235 Sportello_dx N246 15:20:43 15:27:55"))

	rec, err := reader.Read()
	require.NoError(t, err)
	assert.Equal(t, "H235", rec.ProductID())

	_, err = reader.Read()
	require.ErrorIs(t, err, io.EOF)
}

func TestWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	records, err := ReadAll(strings.NewReader(sampleFeed))
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, NewWriter(&buf).WriteAll(slices.Values(records)))
	assert.Equal(t,
		"H235 Sportello_dx N246 15:20:43 15:27:55\n"+
			"K542 Sportello_sx N247 10:03:10 10:15:30\n"+
			"A356 Maniglia_fronte G102 18:40:11 18:52:23\n",
		buf.String())
}

func TestSample(t *testing.T) {
	t.Parallel()

	records, err := Sample(MaxSample)
	require.NoError(t, err)
	require.Len(t, records, MaxSample)

	seen := map[string]bool{}
	for _, rec := range records {
		assert.False(t, seen[rec.ProductID()], rec.ProductID())
		seen[rec.ProductID()] = true
	}

	assert.Equal(t, "MZXK", records[0].ProductID())

	none, err := Sample(0)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = Sample(MaxSample + 1)
	require.ErrorIs(t, err, ErrSampleSize)

	_, err = Sample(-1)
	require.ErrorIs(t, err, ErrSampleSize)
}
