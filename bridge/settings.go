package bridge

// Settings is the flat options contract consumed read-only by the node
// generator and the viewport combiner.
type Settings struct {
	CreateStyles     bool   `json:"createStyles" yaml:"create_styles"`
	CreateComponents bool   `json:"createComponents" yaml:"create_components"`
	CreateVariables  bool   `json:"createVariables" yaml:"create_variables"`
	SiteAware        bool   `json:"siteAware" yaml:"site_aware"`
	IncludeHidden    bool   `json:"includeHidden" yaml:"include_hidden"`
	MaxDepth         int    `json:"maxDepth" yaml:"max_depth"`
	ImageQuality     string `json:"imageQuality" yaml:"image_quality"` // low | medium | high
}

// DefaultSettings returns the settings used when the caller provides none.
func DefaultSettings() Settings {
	return Settings{
		CreateStyles:     true,
		CreateComponents: true,
		CreateVariables:  true,
		SiteAware:        true,
		IncludeHidden:    false,
		MaxDepth:         25,
		ImageQuality:     "medium",
	}
}

// ApplyDefaults fills zero values with defaults.
func (s *Settings) ApplyDefaults() {
	if s.MaxDepth <= 0 {
		s.MaxDepth = 25
	}
	if s.ImageQuality == "" {
		s.ImageQuality = "medium"
	}
}
