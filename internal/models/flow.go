package models

// FlowCountResponse is returned by GET /flows/:flowId.
// Count is the number of distinct messages accepted for the flow; duplicates are not counted.
type FlowCountResponse struct {
	FlowID string `json:"flowId"`
	Count  int64  `json:"count"`
}
