package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead(t *testing.T) {
	path := writeFile(t, "name,age\nAlice,30\nBob,25\n")

	table, err := Codec{}.Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, table.Columns)
	require.Len(t, table.Records, 2)
	assert.Equal(t, Record{"name": "Alice", "age": "30"}, table.Records[0])
	assert.Equal(t, Record{"name": "Bob", "age": "25"}, table.Records[1])
	assert.True(t, table.Has("age"))
	assert.False(t, table.Has("email"))
}

func TestRoundTrip(t *testing.T) {
	columns := []string{"budget_name", "amount", "date", "description"}
	records := []Record{
		{"budget_name": "Misc", "amount": "50", "date": "2025-02-01", "description": "Gadget purchase"},
		{"budget_name": "Misc", "amount": "75.5", "date": "2025-02-02", "description": `Gift, "wrapped"`},
		{"budget_name": "Rent", "amount": "-1200", "date": "Feb 3rd", "description": "line\nbreak"},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Codec{}.Write(path, records, columns))

	got, err := Codec{}.Read(path)
	require.NoError(t, err)
	assert.Equal(t, columns, got.Columns)
	require.Len(t, got.Records, len(records))
	for i := range records {
		assert.Equal(t, records[i], got.Records[i], "record %d", i)
	}
}

func TestWrite_HeaderFollowsColumnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	records := []Record{{"b": "2", "a": "1", "ignored": "x"}, {"a": "3"}}

	require.NoError(t, Codec{}.Write(path, records, []string{"a", "b"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,\n", string(data))
}

func TestWrite_Overwrites(t *testing.T) {
	path := writeFile(t, "old,content\n1,2\n3,4\n")

	require.NoError(t, Codec{}.Write(path, nil, []string{"x"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
}

func TestWrite_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv")
	err := Codec{}.Write(path, nil, []string{"x"})
	assert.Error(t, err)
}

func TestCustomDelimiter(t *testing.T) {
	codec := Codec{Comma: ';'}
	path := filepath.Join(t.TempDir(), "semi.csv")
	records := []Record{{"name": "Food", "amount": "12,50"}}

	require.NoError(t, codec.Write(path, records, []string{"name", "amount"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "name;amount\n"))

	got, err := codec.Read(path)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "12,50", got.Records[0]["amount"])
}

func TestRead_NotFound(t *testing.T) {
	_, err := Codec{}.Read(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestRead_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"ragged row", "a,b\n1,2,3\n"},
		{"bare quote", "a,b\n1,\"2\"x\n"},
		{"duplicate column", "amount,amount\n1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)
			_, err := Codec{}.Read(path)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "want *ParseError, got %T", err)
			assert.Equal(t, path, perr.Path)
			assert.NotNil(t, perr.Unwrap())
		})
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	path := writeFile(t, "name,amount\n")

	table, err := Codec{}.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "amount"}, table.Columns)
	assert.Empty(t, table.Records)
}

func TestRead_NormalizesHeader(t *testing.T) {
	path := writeFile(t, "\ufeffname , amount\nFood,10\n")

	table, err := Codec{}.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "amount"}, table.Columns)
	assert.Equal(t, "Food", table.Records[0]["name"])
}
