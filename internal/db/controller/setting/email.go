package setting

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// EmailSettingsName is the settings row holding the mail transport config.
const EmailSettingsName = "email"

// EmailSettings holds the outbound mail transport configuration managed
// through the email settings capability.
type EmailSettings struct {
	Enabled     bool   `json:"enabled"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FromAddress string `json:"from_address"`
}

// GetEmailSettings loads the email settings row. A missing row yields the
// zero value with Enabled false.
func GetEmailSettings(db *gorm.DB) (EmailSettings, error) {
	var out EmailSettings

	row, err := Get(db, EmailSettingsName)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return out, nil
		}

		return out, err
	}

	if err := json.Unmarshal(row.Value, &out); err != nil {
		return EmailSettings{}, err
	}

	return out, nil
}

// SetEmailSettings stores the email settings row.
func SetEmailSettings(db *gorm.DB, in EmailSettings) error {
	value, err := json.Marshal(in)
	if err != nil {
		return err
	}

	_, err = Set(db, EmailSettingsName, value)

	return err
}
