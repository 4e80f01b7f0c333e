package particles

// LevelInfo describes one pollution level as it appears on a sampling card.
type LevelInfo struct {
	Level       Level  `json:"level"`
	Band        string `json:"dots_per_cm2"`
	Description string `json:"description"`
}

// Levels returns the reference table from the most to the least polluted
// level.
func Levels() []LevelInfo {
	return []LevelInfo{
		{
			Level:       LevelVeryHigh,
			Band:        "> 50",
			Description: "The paper has many black and grey dots. Large parts of the paper have turned grey.",
		},
		{
			Level:       LevelHigh,
			Band:        "26 - 50",
			Description: "The paper has quite a few black and grey dots. There are some parts on the paper that have turned grey.",
		},
		{
			Level:       LevelMedium,
			Band:        "11 - 25",
			Description: "The paper has black and grey dots all over the surface, but there are no fields that are completely grey.",
		},
		{
			Level:       LevelLow,
			Band:        "< 11",
			Description: "The paper has only a few black and grey dots, and there are no fields that are completely grey.",
		},
	}
}
