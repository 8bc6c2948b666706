// ABOUTME: Prompt text for article summaries
// ABOUTME: Builds the system instruction and the user message handed to the text generator

package summarize

import "fmt"

// SystemPrompt is the fixed instruction describing tone, length and language of a summary
func SystemPrompt(language string) string {
	return fmt.Sprintf(`You summarize articles concisely and engagingly for a social network of friends.

Instructions:
- Summarize the article in 2-3 sentences at most (80-120 words)
- Use a friendly, accessible tone
- Highlight the most interesting or surprising points
- End with a question or a thought that invites discussion
- Write in %s
- Avoid technical jargon unless it is necessary`, language)
}

// UserPrompt wraps the article text handed to the generator
func UserPrompt(content string) string {
	return "Summarize this article: " + content
}
