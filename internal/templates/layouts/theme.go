package layouts

import (
	"fmt"
	"strings"

	"github.com/codr1/themegallery/internal/models"
)

// Style keys of a theme payload that feed the page palette.
const (
	stylePrimary   = "primary"
	styleSecondary = "secondary"
	styleTertiary  = "tertiary"
	styleAccent    = "accent"
	styleHighlight = "highlight"
)

func getThemeCssVars(applied *models.AppliedThemeRecord) string {
	colors := models.DefaultThemeColors()
	background := ""

	if applied != nil {
		style := applied.Payload.Style()
		colors.Primary = themeColorOrDefault(style[stylePrimary], colors.Primary)
		colors.Secondary = themeColorOrDefault(style[styleSecondary], colors.Secondary)
		colors.Tertiary = themeColorOrDefault(style[styleTertiary], colors.Tertiary)
		colors.Accent = themeColorOrDefault(style[styleAccent], colors.Accent)
		colors.Highlight = themeColorOrDefault(style[styleHighlight], colors.Highlight)
		background = cssBackground(applied.Payload.BackgroundURL())
	}

	return fmt.Sprintf(
		":root{--theme-primary:%s;--theme-secondary:%s;--theme-tertiary:%s;--theme-accent:%s;--theme-highlight:%s;}%s",
		colors.Primary,
		colors.Secondary,
		colors.Tertiary,
		colors.Accent,
		colors.Highlight,
		background,
	)
}

func themeColorOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	if !models.IsHexColor(trimmed) {
		return fallback
	}
	return trimmed
}

// cssBackground drops URLs that could escape the quoted url() or the style
// element.
func cssBackground(url string) string {
	if url == "" || strings.ContainsAny(url, "\"'\\<>()\n\r\f") {
		return ""
	}
	return fmt.Sprintf(`body{background-image:url("%s");background-size:cover;background-attachment:fixed;}`, url)
}
