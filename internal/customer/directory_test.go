package customer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

func writeDirectory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clientes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse(t *testing.T) {
	input := `# clave|nombre|descuento_%

don_pepe|Don Pepe|10
la_tiendita | La Tiendita | 15
broken line
sin_nombre||5
caro|Caro|100
negativo|Negativo|-1
texto|Texto|diez
extra|Extra|2.5|ignored
don_pepe|Don José|12
`
	customers, problems, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, customers, 3)
	assert.Equal(t, "don_pepe", customers[0].Key)
	assert.Equal(t, "Don José", customers[0].Name, "later duplicate wins")
	assert.True(t, customers[0].Discount.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, "la_tiendita", customers[1].Key)
	assert.Equal(t, "La Tiendita", customers[1].Name)
	assert.True(t, customers[1].Discount.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "extra", customers[2].Key)
	assert.True(t, customers[2].Discount.Equal(decimal.RequireFromString("2.5")))

	assert.Len(t, problems, 6)
}

func TestDirectory_Lookup(t *testing.T) {
	dir := NewDirectory(writeDirectory(t, "don_pepe|Don Pepe|10\n"), nil)

	c, found := dir.Lookup("don_pepe")
	require.True(t, found)
	assert.Equal(t, "Don Pepe", c.Name)
	assert.True(t, c.Discount.Equal(decimal.NewFromInt(10)))

	c, found = dir.Lookup("unknown_key")
	assert.False(t, found)
	assert.Equal(t, domain.UnknownCustomer("unknown_key"), c)
	assert.True(t, c.Discount.IsZero())
}

func TestDirectory_MissingFileIsEmpty(t *testing.T) {
	dir := NewDirectory(filepath.Join(t.TempDir(), "none.csv"), nil)

	all, err := dir.All()
	require.NoError(t, err)
	assert.Empty(t, all)

	c, found := dir.Lookup("don_pepe")
	assert.False(t, found)
	assert.Equal(t, "don_pepe", c.Name)
}

func TestDirectory_RereadsFile(t *testing.T) {
	path := writeDirectory(t, "don_pepe|Don Pepe|10\n")
	dir := NewDirectory(path, nil)

	_, found := dir.Lookup("nueva")
	require.False(t, found)

	require.NoError(t, os.WriteFile(path, []byte("don_pepe|Don Pepe|10\nnueva|La Nueva|5\n"), 0o644))

	c, found := dir.Lookup("nueva")
	require.True(t, found)
	assert.Equal(t, "La Nueva", c.Name)
}

func TestCollisions(t *testing.T) {
	customers := []domain.Customer{
		{Key: "pepe", Name: "Don Pepe"},
		{Key: "pepe2", Name: "DON PEPE"},
		{Key: "raro", Name: "Raro:Sub"},
		{Key: "ok", Name: "La Tiendita"},
	}

	warnings := Collisions(customers)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "pepe and pepe2")
	assert.Contains(t, warnings[1], "separator")
}

func TestEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "clientes.csv")

	require.NoError(t, EnsureFile(path))
	all, err := NewDirectory(path, nil).All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "don_pepe", all[0].Key)
	assert.Equal(t, "la_tiendita", all[1].Key)

	require.NoError(t, os.WriteFile(path, []byte("solo|Solo|0\n"), 0o644))
	require.NoError(t, EnsureFile(path), "existing file is left alone")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "solo|Solo|0\n", string(data))
}
