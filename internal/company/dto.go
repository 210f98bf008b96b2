package company

// UpdateSettingsDTO carries partial updates: nil fields stay untouched.
type UpdateSettingsDTO struct {
	Name     *string `json:"name,omitempty"`
	CNPJ     *string `json:"cnpj,omitempty"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Subtitle *string `json:"subtitle,omitempty"`
	Logo     *string `json:"logo,omitempty"`
}
