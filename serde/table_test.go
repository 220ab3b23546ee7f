package serde

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableRow struct {
	ID   int    `prtg:"objid"`
	Name string `prtg:"name"`
}

const sensorsTable = `<?xml version="1.0" encoding="UTF-8"?>
<sensors totalcount="3" listend="1">
  <prtg-version>24.1.90.1306</prtg-version>
  <item><objid>1</objid><name>a</name></item>
  <item><objid>2</objid><name>b</name></item>
  <item><objid>3</objid><name>c</name></item>
</sensors>`

func TestReadTable(t *testing.T) {
	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			items, total, err := ReadTable[tableRow](strings.NewReader(sensorsTable), s)
			require.NoError(t, err)
			assert.Equal(t, 3, total)
			assert.Equal(t, []tableRow{{1, "a"}, {2, "b"}, {3, "c"}}, items)
		})
	}
}

func TestReadTableWithoutTotal(t *testing.T) {
	items, total, err := ReadTable[tableRow](strings.NewReader(`<devices><item><objid>9</objid></item></devices>`), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []tableRow{{ID: 9}}, items)
}

func TestReadTableCountOnly(t *testing.T) {
	reader, err := NewTableReader[tableRow](strings.NewReader(`<sensors totalcount="12345"><prtg-version>24.1</prtg-version></sensors>`), nil)
	require.NoError(t, err)
	assert.Equal(t, "sensors", reader.Content())
	assert.Equal(t, 12345, reader.Total())

	_, err = reader.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "24.1", reader.Version())
}

func TestTableReaderVersionPrecedesItems(t *testing.T) {
	reader, err := NewTableReader[tableRow](strings.NewReader(sensorsTable), nil)
	require.NoError(t, err)
	assert.Empty(t, reader.Version())

	first, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "24.1.90.1306", reader.Version())
}

func TestReadTableErrorResponse(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?><prtg><version>24.1</version><error>Sorry, the selected object cannot be used here.</error></prtg>`
	_, _, err := ReadTable[tableRow](strings.NewReader(doc), nil)
	var resp *ErrorResponse
	require.ErrorAs(t, err, &resp)
	assert.Equal(t, "Sorry, the selected object cannot be used here.", resp.Message)
}

func TestReadTableConversionErrorStops(t *testing.T) {
	doc := `<sensors totalcount="2"><item><objid>x</objid></item><item><objid>2</objid></item></sensors>`
	_, _, err := ReadTable[tableRow](strings.NewReader(doc), Compiled)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadTableTruncated(t *testing.T) {
	_, _, err := ReadTable[tableRow](strings.NewReader(`<sensors totalcount="2"><item><objid>1</objid></item>`), nil)
	require.Error(t, err)
	assert.False(t, IsConversionError(err))
}

// countingReader hands out at most 16 bytes per Read.
type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p[:min(len(p), 16)])
}

func TestStreamTableIsLazy(t *testing.T) {
	var doc strings.Builder
	doc.WriteString(`<sensors totalcount="1000">`)
	for range 1000 {
		doc.WriteString(`<item><objid>1</objid><name>sensor</name></item>`)
	}
	doc.WriteString(`</sensors>`)

	r := &countingReader{r: strings.NewReader(doc.String())}
	seen := 0
	for obj, err := range StreamTable[tableRow](r, nil) {
		require.NoError(t, err)
		assert.Equal(t, 1, obj.ID)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
	assert.Less(t, r.reads*16, doc.Len()/2, "the stream should not have consumed the whole body")
}

func TestStreamTableOpenError(t *testing.T) {
	var errs []error
	for _, err := range StreamTable[tableRow](strings.NewReader(`<prtg><error>denied</error></prtg>`), nil) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	var resp *ErrorResponse
	assert.True(t, errors.As(errs[0], &resp))
}

func TestUpdateTable(t *testing.T) {
	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			targets := []*tableRow{{ID: 1, Name: "old"}, {ID: 2, Name: "old"}}
			doc := `<sensors totalcount="2"><item><name>new a</name><objid>1</objid></item><item><objid>2</objid></item></sensors>`
			n, err := UpdateTable(strings.NewReader(doc), targets, s)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			assert.Equal(t, "new a", targets[0].Name)
			assert.Equal(t, "old", targets[1].Name)
		})
	}
}

func TestUpdateTableTooManyItems(t *testing.T) {
	targets := []*tableRow{{}}
	n, err := UpdateTable(strings.NewReader(sensorsTable), targets, nil)
	assert.ErrorIs(t, err, ErrTooManyItems)
	assert.Equal(t, 1, n)
}

type statusDoc struct {
	Version string `prtg:"Version"`
	Alarms  *int   `prtg:"Alarms"`
}

func TestDecodeDocument(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?><status><Version>24.1.90.1306</Version><Alarms></Alarms></status>`
	got, err := DecodeDocument[statusDoc](strings.NewReader(doc), Compiled)
	require.NoError(t, err)
	assert.Equal(t, "24.1.90.1306", got.Version)
	assert.Nil(t, got.Alarms)
}
