package models

// CharityRecord is the UI-ready projection of one registered organization.
// Verification is two-staged: an AI document audit first, then a final
// human approval flips IsVerified.
type CharityRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Website      string `json:"website"`
	LogoURL      string `json:"logo_url"`
	AIVerified   bool   `json:"ai_verified"`
	IsVerified   bool   `json:"is_verified"`
	VaultMist    uint64 `json:"vault_mist"`
	VaultDisplay string `json:"vault_display"`
	ImpactLevel  uint64 `json:"impact_level"`
	Wallet       string `json:"wallet"`
}
