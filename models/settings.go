package models

const SettingTypeText = "text"

// Setting describes one user editable chart option. A nil Value is sent to the client as null.
type Setting struct {
	Type  string  `json:"type"`
	Value *string `json:"value"`
}

// Settings is the descriptor a chart hands to the settings form, keyed by option name.
type Settings map[string]Setting

// SettingsResult is what the settings form submits back.
type SettingsResult struct {
	Value string `json:"value"`
}
