package alerts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sakshikhade/wee-price-tracker/models"
)

// LoadRecipients reads the recipient list from the JSON file at path. A
// missing file is not an error; it just means nobody is subscribed yet.
func LoadRecipients(path string) ([]models.Recipient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read recipients file: %v", err)
	}

	var recipients []models.Recipient
	if err := json.Unmarshal(data, &recipients); err != nil {
		return nil, fmt.Errorf("failed to parse recipients file: %v", err)
	}
	return recipients, nil
}

// SaveRecipients writes the recipient list back to disk. The admin surface
// is the only caller; the pipeline never mutates recipients.
func SaveRecipients(path string, recipients []models.Recipient) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create recipients dir: %v", err)
		}
	}
	data, err := json.MarshalIndent(recipients, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recipients: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write recipients file: %v", err)
	}
	return nil
}
