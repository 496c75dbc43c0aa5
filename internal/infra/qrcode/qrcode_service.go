package qrcode

import (
	"net/url"
	"strings"

	"lebay/config"
	"lebay/internal/domain/service"
	"lebay/internal/errors"

	"github.com/skip2/go-qrcode"
)

const (
	defaultSize    = 256
	invoicePath    = "/sales/invoices/"
	invoicePrefix  = "INV-"
	defaultBaseURL = "https://lebay.local"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService builds the invoice QR renderer from config.qrcode.
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeServiceWith(defaultSize, "M", defaultBaseURL)
	}

	return NewQRCodeServiceWith(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func NewQRCodeServiceWith(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}
	if size <= 0 {
		size = defaultSize
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// GenerateInvoiceQR encodes <baseURL>/sales/invoices/<invoice number>.
func (s *qrcodeService) GenerateInvoiceQR(invoiceNumber string) ([]byte, error) {
	if !strings.HasPrefix(invoiceNumber, invoicePrefix) {
		return nil, errors.Errorf("invalid invoice number: %q", invoiceNumber)
	}

	qrCode, err := qrcode.New(s.baseURL+invoicePath+url.PathEscape(invoiceNumber), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseInvoiceQR accepts the URL produced by GenerateInvoiceQR, from any host.
func (s *qrcodeService) ParseInvoiceQR(qrData string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(qrData))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse QR code data")
	}

	idx := strings.LastIndex(u.Path, invoicePath)
	if idx < 0 {
		return "", errors.Errorf("QR code does not reference an invoice: %s", qrData)
	}

	invoiceNumber := u.Path[idx+len(invoicePath):]
	if !strings.HasPrefix(invoiceNumber, invoicePrefix) || strings.Contains(invoiceNumber, "/") {
		return "", errors.Errorf("invalid invoice number in QR code: %q", invoiceNumber)
	}

	return invoiceNumber, nil
}
