package entity

type Environment string

const (
	EnvHomologacao Environment = "homologacao"
	EnvProducao    Environment = "producao"
)

// EfiBankSettings is the merchant configuration singleton. It is not part of
// the transactional core; the simulated gateway only reads it for display.
type EfiBankSettings struct {
	MerchantID  string      `json:"merchantId"`
	APIKey      string      `json:"apiKey"`
	PixKey      string      `json:"pixKey"`
	CallbackURL string      `json:"callbackUrl"`
	Environment Environment `json:"environment"`
	Enabled     bool        `json:"enabled"`
}

// EfiBankSettingsPatch carries a partial update; nil fields are left as they
// are.
type EfiBankSettingsPatch struct {
	MerchantID  *string      `json:"merchantId"`
	APIKey      *string      `json:"apiKey"`
	PixKey      *string      `json:"pixKey"`
	CallbackURL *string      `json:"callbackUrl"`
	Environment *Environment `json:"environment"`
	Enabled     *bool        `json:"enabled"`
}
