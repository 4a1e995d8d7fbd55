package service

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"textilehub/models"
	"textilehub/utils"
)

const waBaseURL = "https://wa.me/"

// Caption builds the fixed share caption for n designs.
func Caption(appName string, n int) string {
	noun := "designs"
	if n == 1 {
		noun = "design"
	}
	return fmt.Sprintf("📦 %s Catalogue\n\n%d %s attached. Check the images for details! 🎨", appName, n, noun)
}

// SummaryLines builds the per-design text used when only text can be
// shared natively: one numbered line per design with fabric and retail
// price.
func SummaryLines(designs []*models.Design) string {
	lines := make([]string, 0, len(designs))
	for i, d := range designs {
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, d.Fabric, utils.FormatINR(d.RetailPrice)))
	}
	return strings.Join(lines, "\n")
}

// BroadcastLink returns the generic share-by-link URL carrying only the
// caption; the recipient is chosen inside the messaging app.
func BroadcastLink(caption string) string {
	return waBaseURL + "?text=" + url.QueryEscape(caption)
}

// MemberLink returns the deep link opening a chat with one recipient.
// The phone number must already be normalized to digits.
func MemberLink(phone, caption string) string {
	return waBaseURL + phone + "?text=" + url.QueryEscape(caption)
}

// BroadcastQR encodes the broadcast link as a PNG QR code, so a desktop
// user can scan straight into the chat draft.
func BroadcastQR(caption string, size int) ([]byte, error) {
	png, err := qrcode.Encode(BroadcastLink(caption), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %w", err)
	}
	return png, nil
}
