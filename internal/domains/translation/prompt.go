package translation

import "fmt"

// BuildPrompt renders the single user instruction sent to the completion service.
// Field values are interpolated as-is.
func BuildPrompt(req Request) string {
	return fmt.Sprintf(
		"Translate the following text from %s to %s with a %s tone: \"%s\"",
		req.SourceLanguage, req.TargetLanguage, req.Tone, req.Text,
	)
}
