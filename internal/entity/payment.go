package entity

// PixCharge is the displayable payment payload. The wire shape is fixed: the
// checkout front end renders qr_image and lets the buyer copy qr_code in full.
type PixCharge struct {
	ID       string `json:"id"`
	QRCodeID string `json:"qr_code_id"`
	PixURL   string `json:"pix_url"`
	QRCode   string `json:"qr_code"`
	QRImage  string `json:"qr_image"`
	Valor    string `json:"valor"`
	Email    string `json:"email"`
}

type PaymentCheck struct {
	Status string `json:"status"`
	IsPaid bool   `json:"isPaid"`
}
