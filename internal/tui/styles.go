package tui

import "github.com/rgehrsitz/tfrgo/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	TitleStyle     = tuistyles.TitleStyle
	SubtitleStyle  = tuistyles.SubtitleStyle
	StatusBarStyle = tuistyles.StatusBarStyle
	StatusKeyStyle = tuistyles.StatusKeyStyle
	ErrorStyle     = tuistyles.ErrorStyle
	InfoStyle      = tuistyles.InfoStyle
	HelpStyle      = tuistyles.HelpStyle
	BorderStyle    = tuistyles.BorderStyle
	AppStyle       = tuistyles.AppStyle
)
