package alerts

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/Sakshikhade/wee-price-tracker/config"
	"github.com/Sakshikhade/wee-price-tracker/models"
)

// Mailer dispatches one drop alert to one recipient.
type Mailer interface {
	Send(event models.DropEvent, recipient models.Recipient) error
}

// SMTPMailer sends alerts over SMTP with STARTTLS, one message per
// recipient, with both plain-text and HTML bodies.
type SMTPMailer struct {
	cfg           config.SMTPConfig
	subjectPrefix string
	productURL    string
}

// NewSMTPMailer builds a mailer. productURL is included in the message body
// so recipients can jump straight to the deals page.
func NewSMTPMailer(cfg config.SMTPConfig, subjectPrefix, productURL string) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, subjectPrefix: subjectPrefix, productURL: productURL}
}

// Send composes and sends the alert email.
func (m *SMTPMailer) Send(event models.DropEvent, recipient models.Recipient) error {
	msg := email.NewEmail()
	msg.From = fmt.Sprintf("%s <%s>", m.cfg.SenderName, m.cfg.SenderEmail)
	msg.To = []string{recipient.Email}
	msg.Subject = m.subjectPrefix + event.ProductKey
	msg.Text = []byte(plainBody(event, recipient, m.productURL))
	msg.HTML = []byte(htmlBody(event, recipient, m.productURL))

	addr := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.SenderEmail, m.cfg.SenderPassword, m.cfg.Server)
	if err := msg.Send(addr, auth); err != nil {
		return fmt.Errorf("failed to send email to %s: %v", recipient.Email, err)
	}
	return nil
}

func plainBody(event models.DropEvent, recipient models.Recipient, productURL string) string {
	return fmt.Sprintf(`Dear %s,

Great news! The price for one of your tracked products has dropped!

Product: %s
Old Price: $%.2f
New Price: $%.2f
You Save: $%.2f (%.1f%% off)

Check it out at: %s

Best regards,
Your Weee! Price Tracker
`, recipient.Name, event.ProductKey, event.OldPrice, event.NewPrice,
		event.SavingsAmount, event.SavingsPercentage, productURL)
}

func htmlBody(event models.DropEvent, recipient models.Recipient, productURL string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <div style="background-color: #f8f9fa; padding: 20px; border-radius: 10px;">
        <h2 style="color: #28a745;">🚨 Price Drop Alert!</h2>
        <p>Dear %s,</p>
        <p>Great news! The price for one of your tracked products has dropped!</p>

        <div style="background-color: white; padding: 15px; border-radius: 5px; margin: 20px 0;">
            <p><strong>Product:</strong> %s</p>
            <p><strong>Old Price:</strong> <span style="text-decoration: line-through; color: red;">$%.2f</span></p>
            <p><strong>New Price:</strong> <span style="color: green; font-weight: bold;">$%.2f</span></p>
            <p><strong>You Save:</strong> <span style="color: green; font-weight: bold;">$%.2f (%.1f%% off)</span></p>
        </div>

        <div style="text-align: center; margin: 20px 0;">
            <a href="%s" style="background-color: #28a745; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block;">Check it out!</a>
        </div>

        <p>Best regards,<br>Your Weee! Price Tracker</p>
    </div>
</body>
</html>`, recipient.Name, event.ProductKey, event.OldPrice, event.NewPrice,
		event.SavingsAmount, event.SavingsPercentage, productURL)
}
