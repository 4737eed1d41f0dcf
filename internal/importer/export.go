package importer

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"stridewms/internal"
)

// ExportLocationsCSV writes locations with the fixed column order the admin
// screens expect.
func ExportLocationsCSV(locations []internal.Location, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"location_name", "warehouse_name", "type", "status"}); err != nil {
		return err
	}
	for _, l := range locations {
		if err := writer.Write([]string{l.Name, l.WarehouseName, l.Type, l.Status}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ExportRatesXLSX(rates []internal.ServiceRate, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"service_code", "service_name", "class_code", "billing_unit", "rate",
		"taxable", "assembly_required", "active", "notes",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, rate := range rates {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, rate.ServiceCode)
		set(2, rate.ServiceName)
		set(3, derefString(rate.ClassCode))
		set(4, rate.BillingUnit)
		set(5, rate.Rate)
		set(6, rate.Taxable)
		set(7, rate.AssemblyRequired)
		set(8, rate.Active)
		set(9, rate.Notes)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
