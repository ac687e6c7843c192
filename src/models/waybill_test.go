package models

import (
	"encoding/json"
	"testing"
)

func TestRawRowGet(t *testing.T) {
	row := RawRow{"CustomerName": "Acme", "PickupDate": "2024-03-15"}

	if got := row.Get("CustomerName"); got != "Acme" {
		t.Errorf("Get(CustomerName) = %q, want Acme", got)
	}
	if got := row.Get("customername"); got != "Acme" {
		t.Errorf("Get(customername) = %q, want case-insensitive match", got)
	}
	if got := row.Get("PICKUPDATE"); got != "2024-03-15" {
		t.Errorf("Get(PICKUPDATE) = %q, want 2024-03-15", got)
	}
	if got := row.Get("Missing"); got != "" {
		t.Errorf("Get(Missing) = %q, want empty", got)
	}
}

func TestWaybillRequestRoundTrip(t *testing.T) {
	profile := &Profile{LoginID: "GG940111", LicenceKey: "key", APIType: "S"}

	tests := []struct {
		name string
		req  *WaybillRequest
	}{
		{
			name: "simple",
			req: &WaybillRequest{
				Shape:     ShapeSimple,
				Shipper:   &Shipper{CustomerName: "Acme"},
				Consignee: &Consignee{ConsigneeName: "Kumar"},
				Simple: &SimpleServices{
					DeclaredValue:     "500",
					CreditReferenceNo: "REF1",
					PickupDate:        "/Date(1710441000000)/",
				},
				Profile: profile,
			},
		},
		{
			name: "extended",
			req: &WaybillRequest{
				Shape:     ShapeExtended,
				Shipper:   &Shipper{CustomerName: "Acme"},
				Consignee: &Consignee{ConsigneeName: "Kumar"},
				Extended: &ExtendedServices{
					DeclaredValue:     500,
					ItemCount:         2,
					CreditReferenceNo: "REF2",
					ItemDetails:       []Item{{ItemName: "Widgets", ItemValue: 500}},
				},
				Profile: profile,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.req)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			var got WaybillRequest
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			if got.Shape != tt.req.Shape {
				t.Errorf("Shape = %q, want %q", got.Shape, tt.req.Shape)
			}
			if got.Shipper == nil || got.Shipper.CustomerName != "Acme" {
				t.Errorf("Shipper not restored: %+v", got.Shipper)
			}
			if got.Profile == nil || got.Profile.LoginID != profile.LoginID {
				t.Errorf("Profile not restored: %+v", got.Profile)
			}
			if got.CreditReferenceNo() != tt.req.CreditReferenceNo() {
				t.Errorf("CreditReferenceNo() = %q, want %q", got.CreditReferenceNo(), tt.req.CreditReferenceNo())
			}
		})
	}
}

func TestMarshalUnknownShape(t *testing.T) {
	req := &WaybillRequest{Shape: RequestShape("tiny")}
	if _, err := json.Marshal(req); err == nil {
		t.Errorf("Marshal() with unknown shape must fail")
	}
}

func TestCreditReferenceNo(t *testing.T) {
	var empty WaybillRequest
	if got := empty.CreditReferenceNo(); got != "" {
		t.Errorf("CreditReferenceNo() on empty request = %q, want empty", got)
	}
}

func TestFirstItemName(t *testing.T) {
	tests := []struct {
		name string
		req  WaybillRequest
		want string
	}{
		{name: "no services", req: WaybillRequest{}, want: ""},
		{
			name: "empty item list",
			req:  WaybillRequest{Extended: &ExtendedServices{}},
			want: "",
		},
		{
			name: "first of several",
			req: WaybillRequest{Extended: &ExtendedServices{
				ItemDetails: []Item{{ItemName: "Widgets"}, {ItemName: "Gadgets"}},
			}},
			want: "Widgets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.FirstItemName(); got != tt.want {
				t.Errorf("FirstItemName() = %q, want %q", got, tt.want)
			}
		})
	}
}
