// backend/src/models/record.go
package models

// WaybillRecord is one persisted waybill: the carrier-assigned AWB number
// together with the canonical request that produced it. Created once after a
// successful submission and immutable afterwards.
type WaybillRecord struct {
	ID                int64           `json:"id"`
	AWBNo             string          `json:"awbNo"`
	CreditReferenceNo string          `json:"creditReferenceNo"`
	CreatedAt         string          `json:"createdAt"`
	Request           *WaybillRequest `json:"request"`
}
