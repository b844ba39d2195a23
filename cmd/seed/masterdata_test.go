package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const company = "6f1c2a4e-0000-4000-8000-000000000001"

func TestParseMasterData(t *testing.T) {
	csv := `tipo,id,nombre,nit,email,permite_negativo
warehouse,6f1c2a4e-0000-4000-8000-0000000000aa,Bodega Norte,,,true
# comentario
customer,,Cliente Uno,900123456,compras@cliente.co
vendor,,Proveedor Uno,800765432,
`
	md, err := parseMasterData(strings.NewReader(csv), company)
	require.NoError(t, err)

	require.Len(t, md.Warehouses, 1)
	assert.Equal(t, "6f1c2a4e-0000-4000-8000-0000000000aa", md.Warehouses[0].ID)
	assert.True(t, md.Warehouses[0].AllowNegativeStock)
	assert.Equal(t, company, md.Warehouses[0].CompanyID)

	require.Len(t, md.Customers, 1)
	assert.NotEmpty(t, md.Customers[0].ID)
	assert.Equal(t, "compras@cliente.co", md.Customers[0].Email)

	require.Len(t, md.Vendors, 1)
	assert.Equal(t, "800765432", md.Vendors[0].TaxID)
}

func TestParseMasterData_Rejects(t *testing.T) {
	cases := map[string]string{
		"tipo desconocido": "producto,,Tornillo\n",
		"id inválido":      "customer,abc,Cliente\n",
		"sin nombre":       "vendor,,\n",
		"bool inválido":    "warehouse,,Bodega,,,quizás\n",
		"NIT con DV malo":  "vendor,,Proveedor,800197268-5\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseMasterData(strings.NewReader(in), company)
			assert.Error(t, err)
		})
	}
}

func TestParseMasterData_NITConDigito(t *testing.T) {
	md, err := parseMasterData(strings.NewReader("customer,,Cliente,800.197.268-4\n"), company)
	require.NoError(t, err)
	require.Len(t, md.Customers, 1)
	assert.Equal(t, "800.197.268-4", md.Customers[0].TaxID)
}

func TestDecodeInput_Latin1(t *testing.T) {
	// "Compañía" en ISO-8859-1
	raw := []byte("customer,,Compa\xf1\xeda\n")
	r, err := decodeInput(raw, false)
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "customer,,Compañía\n", string(out))

	md, err := parseMasterData(strings.NewReader(string(out)), company)
	require.NoError(t, err)
	assert.Equal(t, "Compañía", md.Customers[0].Name)
}

func TestDecodeInput_UTF8Untouched(t *testing.T) {
	r, err := decodeInput([]byte("vendor,,Línea Ñ\n"), false)
	require.NoError(t, err)
	out, _ := io.ReadAll(r)
	assert.Equal(t, "vendor,,Línea Ñ\n", string(out))
}
