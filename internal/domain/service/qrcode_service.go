package service

// QRCodeService renders invoice QR codes.
type QRCodeService interface {
	// GenerateInvoiceQR returns a PNG encoding a link to the invoice.
	GenerateInvoiceQR(invoiceNumber string) ([]byte, error)

	// ParseInvoiceQR extracts the invoice number from scanned QR content.
	ParseInvoiceQR(qrData string) (string, error)
}
