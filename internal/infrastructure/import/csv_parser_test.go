package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVParser(t *testing.T) {
	t.Run("Valid UTF-8 CSV", func(t *testing.T) {
		csv := "name,age,city\nAlice,30,New York\nBob,25,Boston"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NotNil(t, parser)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		// UTF-8 BOM: 0xEF, 0xBB, 0xBF
		csv := "\xEF\xBB\xBFname,age\nAlice,30"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NotNil(t, parser)

		err = parser.ParseHeader()
		require.NoError(t, err)

		// Header should not include BOM
		headers := parser.Headers()
		assert.Equal(t, "name", headers[0])
	})

	t.Run("Empty file returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(""))

		assert.Error(t, err)
		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Invalid encoding returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("name\n\xff\xfe\xfd"))

		assert.Error(t, err)
		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("Custom delimiter", func(t *testing.T) {
		csv := "name;age;city\nAlice;30;NYC"
		parser, err := NewCSVParser(strings.NewReader(csv), WithDelimiter(';'))

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		headers := parser.Headers()
		assert.Equal(t, []string{"name", "age", "city"}, headers)
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		csv := "First Name,Last Name,Organization\nFatima,Al-Thani,Gulf Times"
		parser, _ := NewCSVParser(strings.NewReader(csv))

		err := parser.ParseHeader()

		require.NoError(t, err)
		assert.Equal(t, []string{"First Name", "Last Name", "Organization"}, parser.Headers())
	})

	t.Run("Header with spaces trimmed", func(t *testing.T) {
		csv := "  First Name  ,  Last Name  \nFatima,Al-Thani"
		parser, _ := NewCSVParser(strings.NewReader(csv))

		err := parser.ParseHeader()

		require.NoError(t, err)
		assert.Equal(t, []string{"First Name", "Last Name"}, parser.Headers())
	})

	t.Run("HasHeader check", func(t *testing.T) {
		csv := "First Name,Last Name\nFatima,Al-Thani"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		assert.True(t, parser.HasHeader("First Name"))
		assert.False(t, parser.HasHeader("Organization"))
	})
}

func TestSetColumns(t *testing.T) {
	template := []string{"First Name", "Last Name", "Organization"}

	t.Run("Rows are keyed by the template, not the header", func(t *testing.T) {
		csv := "Prenom,Nom,Societe\nFatima,Al-Thani,Gulf Times"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())
		parser.SetColumns(template)

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "Fatima", row.Get("First Name"))
		assert.Equal(t, "Al-Thani", row.Get("Last Name"))
		assert.Equal(t, "Gulf Times", row.Get("Organization"))
	})

	t.Run("Headers reflect the template after override", func(t *testing.T) {
		csv := "a,b,c\nFatima,Al-Thani,Gulf Times"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())
		parser.SetColumns(template)

		assert.Equal(t, template, parser.Headers())
		assert.True(t, parser.HasHeader("Organization"))
		assert.False(t, parser.HasHeader("a"))
	})

	t.Run("Short rows leave trailing columns empty", func(t *testing.T) {
		csv := "Prenom,Nom\nFatima,Al-Thani"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())
		parser.SetColumns(template)

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "Fatima", row.Get("First Name"))
		assert.Equal(t, "", row.Get("Organization"))
	})
}

func TestReadRow(t *testing.T) {
	t.Run("Read single row", func(t *testing.T) {
		csv := "First Name,Last Name,Organization\nFatima,Al-Thani,Gulf Times"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, err := parser.ReadRow()

		require.NoError(t, err)
		assert.Equal(t, 2, row.LineNumber)
		assert.Equal(t, "Fatima", row.Get("First Name"))
		assert.Equal(t, "Al-Thani", row.Get("Last Name"))
		assert.Equal(t, "Gulf Times", row.Get("Organization"))
	})

	t.Run("Row with missing columns", func(t *testing.T) {
		csv := "First Name,Last Name,Organization,Job Title\nFatima,Al-Thani"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, err := parser.ReadRow()

		require.NoError(t, err)
		assert.Equal(t, "Fatima", row.Get("First Name"))
		assert.Equal(t, "", row.Get("Organization"))
		assert.Equal(t, "", row.Get("Job Title"))
	})

	t.Run("IsEmpty row", func(t *testing.T) {
		csv := "First Name,Last Name\n,,\nFatima,Al-Thani"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row1, _ := parser.ReadRow()
		assert.True(t, row1.IsEmpty())

		row2, _ := parser.ReadRow()
		assert.False(t, row2.IsEmpty())
	})

	t.Run("EOF after last row", func(t *testing.T) {
		csv := "First Name,Last Name\nFatima,Al-Thani"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		_, err := parser.ReadRow()
		require.NoError(t, err)

		_, err = parser.ReadRow()
		assert.Equal(t, io.EOF, err)
	})
}

func TestReadAllRows(t *testing.T) {
	t.Run("Read all rows", func(t *testing.T) {
		csv := "First Name,Last Name\nFatima,Al-Thani\nOmar,Hassan\nLina,Khalil"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		rows, err := parser.ReadAllRows()

		require.NoError(t, err)
		assert.Len(t, rows, 3)
		assert.Equal(t, "Fatima", rows[0].Get("First Name"))
		assert.Equal(t, "Omar", rows[1].Get("First Name"))
		assert.Equal(t, "Lina", rows[2].Get("First Name"))
	})

	t.Run("Skip empty rows", func(t *testing.T) {
		csv := "First Name,Last Name\nFatima,Al-Thani\n,,\n,,\nOmar,Hassan"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		rows, err := parser.ReadAllRows()

		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("TotalRows count", func(t *testing.T) {
		csv := "First Name,Last Name\nFatima,Al-Thani\nOmar,Hassan\nLina,Khalil"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		parser.ReadAllRows()

		assert.Equal(t, 3, parser.TotalRows())
	})
}

func TestParseFromBytes(t *testing.T) {
	t.Run("Parse from byte slice", func(t *testing.T) {
		data := []byte("First Name,Last Name\nFatima,Al-Thani")
		parser, err := ParseFromBytes(data)

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, _ := parser.ReadRow()
		assert.Equal(t, "Fatima", row.Get("First Name"))
	})
}

func TestQuotedFields(t *testing.T) {
	t.Run("Fields with quotes", func(t *testing.T) {
		csv := `First Name,Organization,Job Title
Fatima,"Gulf Times","Senior Photographer"
Omar,"Events, Qatar","Rigger"
Lina,"Studio ""North""","With ""quotes"""
`
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row1, _ := parser.ReadRow()
		assert.Equal(t, "Gulf Times", row1.Get("Organization"))

		row2, _ := parser.ReadRow()
		assert.Equal(t, "Events, Qatar", row2.Get("Organization"))

		row3, _ := parser.ReadRow()
		assert.Equal(t, `Studio "North"`, row3.Get("Organization"))
		assert.Equal(t, `With "quotes"`, row3.Get("Job Title"))
	})
}

func TestMultilineFields(t *testing.T) {
	t.Run("Fields with newlines", func(t *testing.T) {
		csv := "First Name,Organization\nFatima,\"Line 1\nLine 2\""
		parser, _ := NewCSVParser(strings.NewReader(csv))
		parser.ParseHeader()

		row, _ := parser.ReadRow()
		assert.Equal(t, "Line 1\nLine 2", row.Get("Organization"))
	})
}
