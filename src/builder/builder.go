// backend/src/builder/builder.go
package builder

import (
	"fmt"

	"github.com/username/shipflow/backend/src/models"
)

// Fixed values for fields the bulk sources never supply. The placeholder
// strings are part of the established carrier payload and are kept verbatim.
const (
	defaultPickupTime        = "1600"
	simpleConsigneeAddr2     = "Thsi is a test consinee addr2"
	simpleConsigneeAddr3     = "Thsi is a test consinee addr3"
	simpleConsigneeAttention = "ABCD"
	simpleConsigneeEmail     = "testemail@bluedart.com"
	extendedPartyEmail       = "test@bd.com"
	extendedSender           = "BulkUpload"
	extendedAttention        = "Bulk"
	defaultCommodity         = "General Goods"
)

var defaultDimension = models.Dimension{Length: 10, Breadth: 10, Height: 10, Count: 1}

// Builder assembles canonical waybill requests from raw rows. The carrier
// account profile is injected once at construction so the per-row logic stays
// free of process-wide state.
type Builder struct {
	profile models.Profile
}

func New(profile models.Profile) *Builder {
	return &Builder{profile: profile}
}

// Build dispatches on the requested payload shape.
func (b *Builder) Build(row models.RawRow, shape models.RequestShape) (*models.WaybillRequest, error) {
	switch shape {
	case models.ShapeSimple:
		return b.BuildSimple(row)
	case models.ShapeExtended:
		return b.BuildExtended(row)
	default:
		return nil, fmt.Errorf("unknown request shape: %q", shape)
	}
}

// BuildSimple produces the simple payload: numerics pass through as strings,
// a single demo commodity, and the Profile nested inside the Request
// envelope. Validation is eager; any failure aborts the row with no partial
// request.
func (b *Builder) BuildSimple(row models.RawRow) (*models.WaybillRequest, error) {
	pickupDate, err := ToCarrierDate(row.Get("PickupDate"))
	if err != nil {
		return nil, fmt.Errorf("PickupDate: %w", err)
	}

	shipper := &models.Shipper{
		CustomerCode:     row.Get("CustomerCode"),
		CustomerName:     row.Get("CustomerName"),
		CustomerMobile:   row.Get("CustomerMobile"),
		CustomerAddress1: row.Get("CustomerAddress1"),
		CustomerPincode:  row.Get("CustomerPincode"),
		OriginArea:       row.Get("OriginArea"),
	}

	consignee := &models.Consignee{
		ConsigneeName:      row.Get("ConsigneeName"),
		ConsigneeMobile:    row.Get("ConsigneeMobile"),
		ConsigneeAddress1:  row.Get("ConsigneeAddress1"),
		ConsigneeAddress2:  simpleConsigneeAddr2,
		ConsigneeAddress3:  simpleConsigneeAddr3,
		ConsigneePincode:   row.Get("ConsigneePincode"),
		ConsigneeAttention: simpleConsigneeAttention,
		ConsigneeEmailID:   simpleConsigneeEmail,
	}

	services := &models.SimpleServices{
		SubProductCode:       row.Get("SubProductCode"),
		ProductCode:          row.Get("ProductCode"),
		ActualWeight:         row.Get("ActualWeight"),
		DeclaredValue:        row.Get("DeclaredValue"),
		PieceCount:           row.Get("PieceCount"),
		CollectableAmount:    row.Get("CollectableAmount"),
		CreditReferenceNo:    row.Get("CreditReferenceNo"),
		PickupDate:           pickupDate,
		PickupTime:           defaultPickupTime,
		ProductType:          1,
		RegisterPickup:       true,
		PDFOutputNotRequired: true,
		Commodity: []models.Commodity{{
			CommodityDetail1: "test1",
			CommodityDetail2: "test2",
			CommodityDetail3: "test3",
		}},
		Dimensions: []models.Dimension{defaultDimension},
	}

	profile := b.profile
	return &models.WaybillRequest{
		Shape:     models.ShapeSimple,
		Shipper:   shipper,
		Consignee: consignee,
		Simple:    services,
		Profile:   &profile,
	}, nil
}

// BuildExtended produces the extended payload: full field set, mandatory
// numeric columns coerced to integers, item descriptors, and the Profile as
// a sibling of the Request envelope.
func (b *Builder) BuildExtended(row models.RawRow) (*models.WaybillRequest, error) {
	pickupDate, err := ToCarrierDate(row.Get("PickupDate"))
	if err != nil {
		return nil, fmt.Errorf("PickupDate: %w", err)
	}
	declaredValue, err := ParseMandatoryInt(row.Get("DeclaredValue"), "DeclaredValue")
	if err != nil {
		return nil, err
	}
	itemCount, err := ParseMandatoryInt(row.Get("PieceCount"), "PieceCount")
	if err != nil {
		return nil, err
	}
	collectableAmount, err := ParseMandatoryInt(row.Get("CollectableAmount"), "CollectableAmount")
	if err != nil {
		return nil, err
	}
	itemValue, err := ParseMandatoryInt(row.Get("ItemValue"), "ItemValue")
	if err != nil {
		return nil, err
	}
	itemQuantity, err := ParseMandatoryInt(row.Get("Itemquantity"), "Itemquantity")
	if err != nil {
		return nil, err
	}

	shipper := &models.Shipper{
		CustomerCode:        row.Get("CustomerCode"),
		CustomerName:        row.Get("CustomerName"),
		CustomerMobile:      row.Get("CustomerMobile"),
		CustomerAddress1:    row.Get("CustomerAddress1"),
		CustomerAddress2:    ptr(""),
		CustomerAddress3:    ptr(""),
		CustomerAddressinfo: ptr(""),
		CustomerPincode:     row.Get("CustomerPincode"),
		CustomerTelephone:   ptr(""),
		CustomerEmailID:     ptr(extendedPartyEmail),
		IsToPayCustomer:     ptr(true),
		OriginArea:          row.Get("OriginArea"),
		Sender:              ptr(extendedSender),
		VendorCode:          ptr(""),
	}

	consignee := &models.Consignee{
		ConsigneeName:        row.Get("ConsigneeName"),
		ConsigneeMobile:      row.Get("ConsigneeMobile"),
		ConsigneeAddress1:    row.Get("ConsigneeAddress1"),
		ConsigneeAddress2:    "",
		ConsigneeAddress3:    "",
		ConsigneeAddressinfo: ptr(""),
		ConsigneePincode:     row.Get("ConsigneePincode"),
		ConsigneeTelephone:   ptr(""),
		ConsigneeEmailID:     extendedPartyEmail,
		ConsigneeAttention:   extendedAttention,
		AvailableDays:        ptr(""),
		AvailableTiming:      ptr(""),
	}

	commodity := row.Get("CommodityDetail1")
	if commodity == "" {
		commodity = defaultCommodity
	}

	services := &models.ExtendedServices{
		ProductCode:          row.Get("ProductCode"),
		SubProductCode:       row.Get("SubProductCode"),
		ProductType:          1,
		ActualWeight:         row.Get("ActualWeight"),
		DeclaredValue:        declaredValue,
		PieceCount:           row.Get("PieceCount"),
		ItemCount:            itemCount,
		CollectableAmount:    collectableAmount,
		CreditReferenceNo:    row.Get("CreditReferenceNo"),
		PickupDate:           pickupDate,
		PickupTime:           defaultPickupTime,
		RegisterPickup:       true,
		PDFOutputNotRequired: true,
		IsReversePickup:      true,
		Commodity:            models.Commodity{CommodityDetail1: commodity},
		Dimensions:           []models.Dimension{defaultDimension},
		ItemDetails: []models.Item{{
			ItemName:     row.Get("ItemName"),
			ItemValue:    itemValue,
			ItemQuantity: itemQuantity,
			TotalValue:   itemValue,
			InvoiceDate:  pickupDate,
		}},
	}

	profile := b.profile
	return &models.WaybillRequest{
		Shape:     models.ShapeExtended,
		Shipper:   shipper,
		Consignee: consignee,
		Extended:  services,
		Profile:   &profile,
	}, nil
}

func ptr[T any](v T) *T {
	return &v
}
