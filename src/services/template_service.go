// backend/src/services/template_service.go
package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/username/shipflow/backend/src/logger"
	"github.com/username/shipflow/backend/src/security/validation"
)

// TemplateColumns is the header row of the bulk-upload template, in file
// order. The extended-shape columns are a superset of the simple-shape ones.
var TemplateColumns = []string{
	"CustomerCode", "CustomerName", "CustomerMobile", "CustomerAddress1",
	"CustomerPincode", "OriginArea",
	"ConsigneeName", "ConsigneeMobile", "ConsigneeAddress1", "ConsigneePincode",
	"SubProductCode", "ProductCode", "ActualWeight", "DeclaredValue",
	"PieceCount", "CollectableAmount", "CreditReferenceNo", "PickupDate",
	"ItemName", "ItemValue", "Itemquantity",
}

var templateSampleRow = []string{
	"BLR01", "Acme Traders", "9900000000", "12 MG Road",
	"560001", "BLR",
	"R Kumar", "9811111111", "4 Park Street", "700016",
	"P", "D", "1.5", "500",
	"2", "0", "REF100", "2024-03-15",
	"Widgets", "500", "2",
}

type templateServiceImpl struct{}

func NewTemplateService() TemplateService {
	return &templateServiceImpl{}
}

// GenerateTemplate builds the downloadable .xlsx template: the header row
// plus one sample data row.
func (s *templateServiceImpl) GenerateTemplate() ([]byte, error) {
	workbook := excelize.NewFile()
	defer func() {
		if cerr := workbook.Close(); cerr != nil {
			logger.L.Warn("Failed to close template workbook", "error", cerr)
		}
	}()

	sheet := workbook.GetSheetName(0)

	header := make([]interface{}, len(TemplateColumns))
	for i, name := range TemplateColumns {
		header[i] = name
	}
	if err := workbook.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("error writing template header: %w", err)
	}

	sample := make([]interface{}, len(templateSampleRow))
	for i, value := range templateSampleRow {
		sample[i] = validation.SanitizeForFormulaInjection(value)
	}
	if err := workbook.SetSheetRow(sheet, "A2", &sample); err != nil {
		return nil, fmt.Errorf("error writing template sample row: %w", err)
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error serializing template workbook: %w", err)
	}
	return buf.Bytes(), nil
}
