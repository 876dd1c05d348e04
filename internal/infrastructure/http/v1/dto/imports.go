package dto

import "stokpanel/internal/importer"

// ImportResponse reports a finished file import.
type ImportResponse struct {
	Imported int `json:"imported"`
	Batches  int `json:"batches"`
}

// FromImportResult creates ImportResponse from the pipeline result.
func FromImportResult(res *importer.Result) ImportResponse {
	return ImportResponse{
		Imported: res.Imported,
		Batches:  res.Batches,
	}
}
