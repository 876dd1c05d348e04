package dto

import "stokpanel/internal/domain/stockcount"

// ScanRequest is one barcode read from the scanner field.
type ScanRequest struct {
	Barcode  string `json:"barcode" binding:"required"`
	Quantity int64  `json:"quantity"`
}

// ScanResponse confirms a registered scan.
type ScanResponse struct {
	Entry        EntryResponse `json:"entry"`
	Confirmation string        `json:"confirmation"`
}

// EntryResponse is one accumulated count line.
type EntryResponse struct {
	Barcode  string `json:"barcode"`
	Quantity int64  `json:"quantity"`
}

func FromEntry(e stockcount.Entry) EntryResponse {
	return EntryResponse{Barcode: e.Barcode, Quantity: e.Quantity}
}

func FromEntries(entries []stockcount.Entry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = FromEntry(e)
	}
	return res
}

// StockCountListResponse is the current count sheet.
type StockCountListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// SaveStockCountResponse reports how many products were written.
type SaveStockCountResponse struct {
	Saved int `json:"saved"`
}
