package gemini

import "strings"

func buildGroundedPrompt(query, docContext string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant for this website. Answer questions based ONLY on the context provided below. If the answer is not in the context, say 'I don't have that information in the website content.'\n\n")
	b.WriteString("Context:\n")
	b.WriteString(docContext)
	b.WriteString("\n\n")
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\n")
	b.WriteString("Answer:")
	return b.String()
}
