package request

// ReprintRequest re-dispatches an invoice from the session history
type ReprintRequest struct {
	Number string `json:"number" binding:"required"`
	Copies int    `json:"copies"`
}

// ExportRequest exports an invoice from the session history as a PDF
type ExportRequest struct {
	Number string `json:"number" binding:"required"`
}
