package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"veena_crackers_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendConfirmationEmail envoie un email HTML, avec pièce jointe PDF optionnelle.
func SendConfirmationEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From(getFromAddress()); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture_veena.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

func getFromAddress() string {
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@veenacrackers.in"
	}
	return from
}

// SendOrderConfirmation envoie la confirmation de commande au client.
// Best-effort : un échec est loggé, jamais remonté au checkout.
func SendOrderConfirmation(order models.Order) {
	html := generateOrderConfirmationHTML(order)
	subject := fmt.Sprintf("🎆 Commande %s confirmée - Veena Crackers", order.OrderID)

	if err := SendConfirmationEmail(order.Email, subject, html, nil); err != nil {
		log.Printf("⚠️ Envoi confirmation impossible pour %s: %v", order.OrderID, err)
	}
}

// SendOrderStatusEmail notifie le client d'un changement de statut.
func SendOrderStatusEmail(order models.Order, newStatus string) {
	subject := getStatusEmailSubject(order.OrderID, newStatus)
	html := generateStatusEmailHTML(order, newStatus)

	if err := SendConfirmationEmail(order.Email, subject, html, nil); err != nil {
		log.Printf("⚠️ Envoi email statut impossible pour %s: %v", order.OrderID, err)
		return
	}
	log.Printf("📧 Email de statut envoyé: %s → %s", newStatus, order.Email)
}

func getStatusEmailSubject(orderID, status string) string {
	switch status {
	case models.StatusDispatched:
		return fmt.Sprintf("📦 Votre commande %s a été expédiée - Veena Crackers", orderID)
	case models.StatusDelivered:
		return fmt.Sprintf("🎉 Votre commande %s a été livrée - Veena Crackers", orderID)
	default:
		return fmt.Sprintf("📋 Mise à jour de votre commande %s - Veena Crackers", orderID)
	}
}

func generateOrderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>₹%.2f</td>
				<td>₹%.2f</td>
			</tr>`, item.Name, item.Quantity, item.FinalPrice, item.Total)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Confirmation de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #b91c1c;">Merci pour votre commande !</h2>
		<p>Bonjour %s,</p>
		<p>Votre commande <strong>%s</strong> a bien été enregistrée.</p>
		<table width="100%%" style="border-collapse: collapse;" border="1" cellpadding="6">
			<tr style="background:#fee2e2;"><th>Article</th><th>Qté</th><th>Prix</th><th>Total</th></tr>
			%s
		</table>
		<p style="margin-top:16px;">Sous-total : ₹%.2f<br>
		Remise : -₹%.2f<br>
		<strong>Montant à payer : ₹%.2f (%s)</strong></p>
		<p>Livraison prévue le %s.</p>
	</div>
</body>
</html>`,
		order.CustomerName, order.OrderID, itemsHTML,
		order.Total, order.Discount, order.TotalAmount, order.Type,
		order.DeliveryDate.Format("02/01/2006"))
}

func generateStatusEmailHTML(order models.Order, status string) string {
	message := "Votre commande a été mise à jour."
	switch status {
	case models.StatusDispatched:
		message = "Votre commande est en route."
		if order.Transport != "" {
			message += " Transporteur : " + order.Transport + "."
		}
	case models.StatusDelivered:
		message = "Votre commande a été livrée. Bonne fête ! 🎆"
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Mise à jour de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #b91c1c;">Commande %s : %s</h2>
		<p>Bonjour %s,</p>
		<p>%s</p>
	</div>
</body>
</html>`, order.OrderID, status, order.CustomerName, message)
}
