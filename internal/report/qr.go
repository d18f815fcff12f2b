package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// PaymentQR renders the payable total as a QR PNG for the payment view.
func PaymentQR(total decimal.Decimal, size int) ([]byte, error) {
	png, err := qrcode.Encode(total.StringFixed(2), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
