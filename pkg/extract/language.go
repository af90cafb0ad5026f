package extract

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DetectLanguage returns a best-effort ISO 639-1 code for the text, or ""
// when the text is empty or the detector has no confident answer.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
