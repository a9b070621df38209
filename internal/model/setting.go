package model

type Setting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}

// SettingLogo holds the relative upload path of the site logo.
const SettingLogo = "logo"
