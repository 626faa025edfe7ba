package invoices

import "time"

// Link is the legacy record tying an uploaded invoice PDF to a display name.
type Link struct {
	ID         string    `json:"id"`
	UserName   string    `json:"userName"`
	PDFURL     string    `json:"pdfUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}
