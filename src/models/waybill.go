// backend/src/models/waybill.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RawRow is the uninterpreted view of one input record: column name to raw
// string value, exactly as it came out of the tabular source.
type RawRow map[string]string

// Get resolves a column case-insensitively and returns "" when absent.
func (r RawRow) Get(column string) string {
	if v, ok := r[column]; ok {
		return v
	}
	for k, v := range r {
		if strings.EqualFold(k, column) {
			return v
		}
	}
	return ""
}

// RequestShape selects which of the two carrier payload layouts a
// WaybillRequest marshals to. The carrier accepts both; they differ in the
// envelope, the Services field set and the typing of several numeric fields,
// so the two are kept as explicit variants instead of being unified.
type RequestShape string

const (
	ShapeSimple   RequestShape = "simple"
	ShapeExtended RequestShape = "extended"
)

// Shipper is the origin party. Pointer fields only appear on the extended
// payload; the simple payload omits them entirely.
type Shipper struct {
	CustomerCode        string  `json:"CustomerCode"`
	CustomerName        string  `json:"CustomerName"`
	CustomerMobile      string  `json:"CustomerMobile"`
	CustomerAddress1    string  `json:"CustomerAddress1"`
	CustomerAddress2    *string `json:"CustomerAddress2,omitempty"`
	CustomerAddress3    *string `json:"CustomerAddress3,omitempty"`
	CustomerAddressinfo *string `json:"CustomerAddressinfo,omitempty"`
	CustomerPincode     string  `json:"CustomerPincode"`
	CustomerTelephone   *string `json:"CustomerTelephone,omitempty"`
	CustomerEmailID     *string `json:"CustomerEmailID,omitempty"`
	IsToPayCustomer     *bool   `json:"IsToPayCustomer,omitempty"`
	OriginArea          string  `json:"OriginArea"`
	Sender              *string `json:"Sender,omitempty"`
	VendorCode          *string `json:"VendorCode,omitempty"`
}

// Consignee is the destination party, mirroring Shipper.
type Consignee struct {
	ConsigneeName        string  `json:"ConsigneeName"`
	ConsigneeMobile      string  `json:"ConsigneeMobile"`
	ConsigneeAddress1    string  `json:"ConsigneeAddress1"`
	ConsigneeAddress2    string  `json:"ConsigneeAddress2"`
	ConsigneeAddress3    string  `json:"ConsigneeAddress3"`
	ConsigneeAddressinfo *string `json:"ConsigneeAddressinfo,omitempty"`
	ConsigneePincode     string  `json:"ConsigneePincode"`
	ConsigneeTelephone   *string `json:"ConsigneeTelephone,omitempty"`
	ConsigneeEmailID     string  `json:"ConsigneeEmailID"`
	ConsigneeAttention   string  `json:"ConsigneeAttention"`
	AvailableDays        *string `json:"AvailableDays,omitempty"`
	AvailableTiming      *string `json:"AvailableTiming,omitempty"`
}

// Commodity describes the shipped goods.
type Commodity struct {
	CommodityDetail1 string `json:"CommodityDetail1"`
	CommodityDetail2 string `json:"CommodityDetail2"`
	CommodityDetail3 string `json:"CommodityDetail3"`
}

// Dimension is one parcel dimension entry.
type Dimension struct {
	Length  float64 `json:"Length"`
	Breadth float64 `json:"Breadth"`
	Height  float64 `json:"Height"`
	Count   int     `json:"Count"`
}

// Item is one line item, extended payload only.
type Item struct {
	ItemName      string `json:"ItemName"`
	ItemValue     int    `json:"ItemValue"`
	ItemQuantity  int    `json:"Itemquantity"`
	TotalValue    int    `json:"TotalValue"`
	InvoiceNumber string `json:"InvoiceNumber"`
	InvoiceDate   string `json:"InvoiceDate"`
}

// Profile carries the carrier account credentials. Constant per deployment,
// injected from configuration, never derived from input rows.
type Profile struct {
	LoginID    string `json:"LoginID"`
	LicenceKey string `json:"LicenceKey"`
	APIType    string `json:"Api_type"`
}

// SimpleServices is the Services section of the simple payload. Numeric
// columns pass through as the strings they arrived as; the carrier does the
// coercion on its side for this layout.
type SimpleServices struct {
	SubProductCode       string      `json:"SubProductCode"`
	ProductCode          string      `json:"ProductCode"`
	ActualWeight         string      `json:"ActualWeight"`
	DeclaredValue        string      `json:"DeclaredValue"`
	PieceCount           string      `json:"PieceCount"`
	CollectableAmount    string      `json:"CollectableAmount"`
	CreditReferenceNo    string      `json:"CreditReferenceNo"`
	PickupDate           string      `json:"PickupDate"`
	PickupTime           string      `json:"PickupTime"`
	ProductType          int         `json:"ProductType"`
	RegisterPickup       bool        `json:"RegisterPickup"`
	PDFOutputNotRequired bool        `json:"PDFOutputNotRequired"`
	PackType             string      `json:"PackType"`
	PickupMode           string      `json:"PickupMode"`
	PayableAt            string      `json:"PayableAt"`
	ParcelShopCode       string      `json:"ParcelShopCode"`
	Commodity            []Commodity `json:"Commodity"`
	Dimensions           []Dimension `json:"Dimensions"`
}

// ExtendedServices is the Services section of the extended payload. Mandatory
// numeric columns are coerced to integers during building; a non-numeric
// value is rejected, never defaulted.
type ExtendedServices struct {
	AWBNo                      string      `json:"AWBNo"`
	ProductCode                string      `json:"ProductCode"`
	SubProductCode             string      `json:"SubProductCode"`
	ProductType                int         `json:"ProductType"`
	ActualWeight               string      `json:"ActualWeight"`
	DeclaredValue              int         `json:"DeclaredValue"`
	PieceCount                 string      `json:"PieceCount"`
	ItemCount                  int         `json:"ItemCount"`
	CollectableAmount          int         `json:"CollectableAmount"`
	CreditReferenceNo          string      `json:"CreditReferenceNo"`
	CreditReferenceNo2         string      `json:"CreditReferenceNo2"`
	CreditReferenceNo3         string      `json:"CreditReferenceNo3"`
	PickupDate                 string      `json:"PickupDate"`
	PickupTime                 string      `json:"PickupTime"`
	PickupMode                 string      `json:"PickupMode"`
	PickupType                 string      `json:"PickupType"`
	RegisterPickup             bool        `json:"RegisterPickup"`
	PDFOutputNotRequired       bool        `json:"PDFOutputNotRequired"`
	PackType                   string      `json:"PackType"`
	ParcelShopCode             string      `json:"ParcelShopCode"`
	PayableAt                  string      `json:"PayableAt"`
	IsReversePickup            bool        `json:"IsReversePickup"`
	IsPartialPickup            bool        `json:"IsPartialPickup"`
	IsForcePickup              bool        `json:"IsForcePickup"`
	IsDedicatedDeliveryNetwork bool        `json:"IsDedicatedDeliveryNetwork"`
	IsDutyTaxPaidByShipper     bool        `json:"IsDutyTaxPaidByShipper"`
	TotalCashPaytoCustomer     int         `json:"TotalCashPaytoCustomer"`
	OfficeCutoffTime           string      `json:"Officecutofftime"`
	PreferredPickupTimeSlot    string      `json:"PreferredPickupTimeSlot"`
	DeliveryTimeSlot           string      `json:"DeliveryTimeSlot"`
	ProductFeature             string      `json:"ProductFeature"`
	SpecialInstruction         string      `json:"SpecialInstruction"`
	NoOfDCGiven                int         `json:"noOfDCGiven"`
	Commodity                  Commodity   `json:"Commodity"`
	Dimensions                 []Dimension `json:"Dimensions"`
	ItemDetails                []Item      `json:"itemdtl"`
}

// WaybillRequest is the canonical shipment request ready for carrier
// submission. Exactly one of Simple/Extended is set, matching Shape.
type WaybillRequest struct {
	Shape     RequestShape      `json:"-"`
	Shipper   *Shipper          `json:"-"`
	Consignee *Consignee        `json:"-"`
	Simple    *SimpleServices   `json:"-"`
	Extended  *ExtendedServices `json:"-"`
	Profile   *Profile          `json:"-"`
}

type simpleEnvelope struct {
	Request struct {
		Shipper   *Shipper        `json:"Shipper"`
		Consignee *Consignee      `json:"Consignee"`
		Services  *SimpleServices `json:"Services"`
		Profile   *Profile        `json:"Profile"`
	} `json:"Request"`
}

type extendedEnvelope struct {
	Request struct {
		Shipper   *Shipper          `json:"Shipper"`
		Consignee *Consignee        `json:"Consignee"`
		Services  *ExtendedServices `json:"Services"`
	} `json:"Request"`
	Profile *Profile `json:"Profile"`
}

// MarshalJSON emits the shape's wire envelope. The simple layout nests the
// Profile inside the Request object; the extended layout carries it as a
// sibling of Request.
func (r *WaybillRequest) MarshalJSON() ([]byte, error) {
	switch r.Shape {
	case ShapeSimple:
		var env simpleEnvelope
		env.Request.Shipper = r.Shipper
		env.Request.Consignee = r.Consignee
		env.Request.Services = r.Simple
		env.Request.Profile = r.Profile
		return json.Marshal(env)
	case ShapeExtended:
		var env extendedEnvelope
		env.Request.Shipper = r.Shipper
		env.Request.Consignee = r.Consignee
		env.Request.Services = r.Extended
		env.Profile = r.Profile
		return json.Marshal(env)
	default:
		return nil, fmt.Errorf("cannot marshal waybill request with shape %q", r.Shape)
	}
}

// UnmarshalJSON detects the envelope layout: a top-level Profile means the
// extended shape, a Profile inside Request means the simple shape.
func (r *WaybillRequest) UnmarshalJSON(data []byte) error {
	var probe struct {
		Request struct {
			Shipper   *Shipper        `json:"Shipper"`
			Consignee *Consignee      `json:"Consignee"`
			Services  json.RawMessage `json:"Services"`
			Profile   *Profile        `json:"Profile"`
		} `json:"Request"`
		Profile *Profile `json:"Profile"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	r.Shipper = probe.Request.Shipper
	r.Consignee = probe.Request.Consignee
	if probe.Profile != nil {
		r.Shape = ShapeExtended
		r.Profile = probe.Profile
		if len(probe.Request.Services) > 0 {
			var svc ExtendedServices
			if err := json.Unmarshal(probe.Request.Services, &svc); err != nil {
				return fmt.Errorf("decoding extended services: %w", err)
			}
			r.Extended = &svc
		}
		return nil
	}
	r.Shape = ShapeSimple
	r.Profile = probe.Request.Profile
	if len(probe.Request.Services) > 0 {
		var svc SimpleServices
		if err := json.Unmarshal(probe.Request.Services, &svc); err != nil {
			return fmt.Errorf("decoding simple services: %w", err)
		}
		r.Simple = &svc
	}
	return nil
}

// CreditReferenceNo returns the credit reference of whichever services
// section is present, or "" when neither is.
func (r *WaybillRequest) CreditReferenceNo() string {
	switch {
	case r.Simple != nil:
		return r.Simple.CreditReferenceNo
	case r.Extended != nil:
		return r.Extended.CreditReferenceNo
	default:
		return ""
	}
}

// FirstItemName returns the name of the first line item, or "" when the
// services section carries no item list or an empty one.
func (r *WaybillRequest) FirstItemName() string {
	if r.Extended == nil || len(r.Extended.ItemDetails) == 0 {
		return ""
	}
	return r.Extended.ItemDetails[0].ItemName
}
