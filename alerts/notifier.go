// Package alerts turns drop events into console and email notifications,
// enforcing per-recipient preferences and rate limits.
package alerts

import (
	"log"

	"github.com/Sakshikhade/wee-price-tracker/models"
)

// Notifier fans a drop event out to the subscribed recipients. The mailer
// may be nil, in which case dispatch is console-only.
type Notifier struct {
	recipientsFile string
	recipients     []models.Recipient
	history        *History
	mailer         Mailer
}

// NewNotifier creates a notifier that reloads its recipient list from
// recipientsFile on every Reload call.
func NewNotifier(recipientsFile string, history *History, mailer Mailer) *Notifier {
	return &Notifier{
		recipientsFile: recipientsFile,
		history:        history,
		mailer:         mailer,
	}
}

// Reload re-reads the recipient list. Recipients are edited out-of-band by
// the admin surface, so each pipeline run picks up the current list. On
// read failure the previous list is kept.
func (n *Notifier) Reload() {
	recipients, err := LoadRecipients(n.recipientsFile)
	if err != nil {
		log.Printf("Failed to load recipients, keeping previous list: %v", err)
		return
	}
	n.recipients = recipients
}

// SetRecipients replaces the recipient list directly. Used by tests and by
// callers that manage recipients themselves.
func (n *Notifier) SetRecipients(recipients []models.Recipient) {
	n.recipients = recipients
}

// Notify dispatches the event and returns how many recipients were alerted.
// The console alert is always printed; per-recipient email failures are
// logged and never stop the remaining recipients.
func (n *Notifier) Notify(event models.DropEvent) int {
	log.Printf("🚨 PRICE DROP ALERT!")
	log.Printf("Product: %s", event.ProductKey)
	log.Printf("Old Price: $%.2f", event.OldPrice)
	log.Printf("New Price: $%.2f", event.NewPrice)
	log.Printf("Savings: $%.2f (%.1f%% off)", event.SavingsAmount, event.SavingsPercentage)

	sent := 0
	for _, recipient := range n.recipients {
		if !recipient.Enabled {
			continue
		}

		prefs := recipient.Preferences
		if event.SavingsAmount < prefs.MinimumSavings || event.SavingsPercentage < prefs.MinimumPercentage {
			continue
		}

		if !n.history.CanSend(event.ProductKey, recipient.Email) {
			log.Printf("⏰ Skipping alert to %s (cooldown/limit)", recipient.Name)
			continue
		}

		if n.mailer != nil {
			if err := n.mailer.Send(event, recipient); err != nil {
				log.Printf("❌ Failed to send email to %s: %v", recipient.Name, err)
				continue
			}
			log.Printf("✅ Email sent to %s (%s)", recipient.Name, recipient.Email)
		}

		n.history.RecordSent(event.ProductKey, recipient.Email)
		sent++
	}

	if sent > 0 {
		log.Printf("📧 Sent %d alert(s)", sent)
	} else {
		log.Printf("📧 No alerts sent (preferences/limits)")
	}
	return sent
}
