package inkwell

// Settings is the singleton record of UI defaults. It is not
// authorization-sensitive.
type Settings struct {
	GridType         GridType `json:"gridType"`
	GridSize         int      `json:"gridSize"`
	AutoRecognize    bool     `json:"autoRecognize"`
	CompressionLevel int      `json:"compressionLevel"`
	Theme            string   `json:"theme"`
}

func DefaultSettings() Settings {
	return Settings{
		GridType:         GridMi,
		GridSize:         100,
		AutoRecognize:    true,
		CompressionLevel: 5,
		Theme:            "light",
	}
}

// SettingsPatch is a partial settings update; nil fields are left
// untouched.
type SettingsPatch struct {
	GridType         *GridType `json:"gridType,omitempty"`
	GridSize         *int      `json:"gridSize,omitempty"`
	AutoRecognize    *bool     `json:"autoRecognize,omitempty"`
	CompressionLevel *int      `json:"compressionLevel,omitempty"`
	Theme            *string   `json:"theme,omitempty"`
}

func (p SettingsPatch) Apply(s Settings) Settings {
	if p.GridType != nil {
		s.GridType = *p.GridType
	}
	if p.GridSize != nil {
		s.GridSize = *p.GridSize
	}
	if p.AutoRecognize != nil {
		s.AutoRecognize = *p.AutoRecognize
	}
	if p.CompressionLevel != nil {
		s.CompressionLevel = *p.CompressionLevel
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	return s
}
