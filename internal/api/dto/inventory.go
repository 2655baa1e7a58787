package dto

// InventoryResponse wraps an aggregated listing with its record count.
type InventoryResponse struct {
	Count int         `json:"count"`
	Items interface{} `json:"items"`
}
