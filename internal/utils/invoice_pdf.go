package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"veena_crackers_back_end/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// GenerateOrderQR génère le QR de suivi de commande en base64, prêt à
// mettre dans <img src="...">.
func GenerateOrderQR(orderID string) (string, error) {
	png, err := qrcode.Encode(orderID, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// BuildInvoiceHTML construit la facture HTML d'une commande, QR inclus.
func BuildInvoiceHTML(order models.Order, qrBase64 string) string {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(`
			<tr>
				<td>%s</td><td>%d</td><td>₹%.2f</td><td>₹%.2f</td><td>₹%.2f</td>
			</tr>`, item.Name, item.Quantity, item.UnitPrice, item.Discount, item.Total))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Facture %s</title></head>
<body style="font-family: Arial, sans-serif; padding: 32px;">
	<h1 style="color:#b91c1c;">Veena Crackers</h1>
	<p><strong>Facture :</strong> %s<br>
	<strong>Date :</strong> %s<br>
	<strong>Client :</strong> %s — %s<br>
	<strong>Adresse :</strong> %s, %s</p>
	<table width="100%%" border="1" cellpadding="6" style="border-collapse: collapse;">
		<tr style="background:#fee2e2;"><th>Article</th><th>Qté</th><th>PU</th><th>Remise</th><th>Total</th></tr>
		%s
	</table>
	<p style="margin-top:16px;">Sous-total : ₹%.2f<br>
	Remise globale : -₹%.2f<br>
	<strong>Net à payer : ₹%.2f (%s)</strong></p>
	<img src="%s" width="128" height="128" alt="QR commande">
</body>
</html>`,
		order.OrderID, order.OrderID,
		order.CreatedAt.Format("02/01/2006"),
		order.CustomerName, order.Phone,
		order.Address, order.Place,
		rows.String(),
		order.Total, order.Discount, order.TotalAmount, order.Type,
		qrBase64)
}

// RenderInvoicePDF imprime le HTML en PDF via Chrome headless.
func RenderInvoicePDF(html string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}
