package render

import (
	"image"
	"image/color"

	"github.com/alnah/go-chat2png/internal/dateutil"
)

// Theme holds colours, font sizes and text placement for drawing pages.
type Theme struct {
	Background      color.Color // page fill when there is no background image
	PrimaryBubble   color.Color
	SecondaryBubble color.Color
	Text            color.Color
	Time            color.Color
	LabelFill       color.Color
	LabelText       color.Color

	TextSize  float64 // points, one point per pixel
	TimeSize  float64
	LabelSize float64

	BubbleRadius float64
	LabelRadius  float64
	TextInset    int         // distance from the box's left edge to the text
	TimeOffset   image.Point // timestamp anchor inset from the box's bottom-right corner

	TimeFormat  string // dateutil token format
	LabelFormat string // dateutil token format
}

// DefaultTheme returns the dark chat theme.
func DefaultTheme() Theme {
	return Theme{
		Background:      color.RGBA{R: 11, G: 20, B: 26, A: 255},
		PrimaryBubble:   color.RGBA{R: 0, G: 92, B: 75, A: 255},
		SecondaryBubble: color.RGBA{R: 32, G: 44, B: 51, A: 255},
		Text:            color.White,
		Time:            color.White,
		LabelFill:       color.RGBA{R: 24, G: 34, B: 41, A: 255},
		LabelText:       color.RGBA{R: 130, G: 152, B: 168, A: 255},
		TextSize:        24,
		TimeSize:        14,
		LabelSize:       18,
		BubbleRadius:    15,
		LabelRadius:     10,
		TextInset:       20,
		TimeOffset:      image.Pt(6, 8),
		TimeFormat:      dateutil.DefaultTimeFormat,
		LabelFormat:     dateutil.DefaultLabelFormat,
	}
}
