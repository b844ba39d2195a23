package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/pkg/taxid"
)

// masterData contenido de un archivo de carga.
type masterData struct {
	Warehouses []entity.Warehouse
	Customers  []entity.Customer
	Vendors    []entity.Vendor
}

// decodeInput pasa a UTF-8 los archivos exportados en ISO-8859-1 (hojas de cálculo antiguas).
func decodeInput(raw []byte, latin1 bool) (io.Reader, error) {
	if !latin1 && utf8.Valid(raw) {
		return bytes.NewReader(raw), nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("decodificar ISO-8859-1: %w", err)
	}
	return bytes.NewReader(out), nil
}

// parseMasterData lee filas "tipo,id,nombre,nit,email,permite_negativo".
// tipo: warehouse | customer | vendor. id vacío = se genera. La primera fila puede ser encabezado.
func parseMasterData(r io.Reader, companyID string) (*masterData, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	md := &masterData{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) == 0 || strings.HasPrefix(strings.TrimSpace(rec[0]), "#") {
			continue
		}
		kind := strings.ToLower(strings.TrimSpace(rec[0]))
		if line == 1 && (kind == "tipo" || kind == "kind") {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperan al menos tipo, id y nombre", line)
		}
		id := strings.TrimSpace(rec[1])
		if id == "" {
			id = uuid.New().String()
		} else if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("línea %d: id %q no es un UUID", line, id)
		}
		name := strings.TrimSpace(rec[2])
		if name == "" {
			return nil, fmt.Errorf("línea %d: nombre vacío", line)
		}
		field := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		if kind != "warehouse" && kind != "bodega" && field(3) != "" {
			if err := taxid.Validate(field(3)); err != nil {
				return nil, fmt.Errorf("línea %d: %w", line, err)
			}
		}

		switch kind {
		case "warehouse", "bodega":
			allow := false
			if v := field(5); v != "" {
				allow, err = strconv.ParseBool(v)
				if err != nil {
					return nil, fmt.Errorf("línea %d: permite_negativo %q", line, v)
				}
			}
			md.Warehouses = append(md.Warehouses, entity.Warehouse{ID: id, CompanyID: companyID, Name: name, AllowNegativeStock: allow})
		case "customer", "cliente":
			md.Customers = append(md.Customers, entity.Customer{ID: id, CompanyID: companyID, Name: name, TaxID: field(3), Email: field(4)})
		case "vendor", "proveedor":
			md.Vendors = append(md.Vendors, entity.Vendor{ID: id, CompanyID: companyID, Name: name, TaxID: field(3), Email: field(4)})
		default:
			return nil, fmt.Errorf("línea %d: tipo desconocido %q", line, kind)
		}
	}
	return md, nil
}
