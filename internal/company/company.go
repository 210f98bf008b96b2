package company

// Settings is the single-row workshop identity shown on printed orders
// and the login screen. Logo is a base64 data URL stored as-is.
type Settings struct {
	ID       int64   `json:"id" gorm:"primaryKey"`
	Name     string  `json:"name" gorm:"not null"`
	CNPJ     string  `json:"cnpj" gorm:"column:cnpj;not null"`
	Address  string  `json:"address" gorm:"not null"`
	Phone    string  `json:"phone" gorm:"not null"`
	Email    *string `json:"email,omitempty"`
	Subtitle *string `json:"subtitle,omitempty"`
	Logo     *string `json:"logo,omitempty"`
}

func (Settings) TableName() string {
	return "company_settings"
}
