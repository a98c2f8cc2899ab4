package insight

import (
	"fmt"
	"strings"

	"wordassoc/internal/models"
)

// SectionHeader returns the bolded header each association section of
// the generated narrative must open with. The prompt demands it and the
// normalizer recognizes it, so the two must agree on the exact form.
func SectionHeader(word, association string) string {
	return fmt.Sprintf("**%s and %s**:", word, association)
}

// BuildPrompt assembles the instruction document for the text
// generation service. Pure function: the same inputs always produce the
// same prompt.
//
// The generated narrative has five sections: a greeting, one section per
// association opening with a literal bolded header, and a closing
// synthesis. The style rules embedded here are part of the product, not
// suggestions: second-person address, British English, a reading level
// for ages 11-14, and a blank line between sections.
func BuildPrompt(displayName, word, assoc1, assoc2, assoc3 string) string {
	name := firstName(displayName)

	var b strings.Builder

	fmt.Fprintf(&b, "%s was shown the word \"%s\" and had a few seconds to type the first three things that came to mind. They wrote:\n\n", name, word)
	fmt.Fprintf(&b, "1. %s\n2. %s\n3. %s\n\n", assoc1, assoc2, assoc3)

	b.WriteString("Write a short, personal reflection for them with exactly five sections, in this order:\n\n")
	fmt.Fprintf(&b, "1. A brief introduction that greets %s by name and says what you noticed overall.\n", name)
	fmt.Fprintf(&b, "2. A section that must begin with the header %s followed by 2-3 sentences interpreting that connection.\n", SectionHeader(word, assoc1))
	fmt.Fprintf(&b, "3. A section that must begin with the header %s followed by 2-3 sentences interpreting that connection.\n", SectionHeader(word, assoc2))
	fmt.Fprintf(&b, "4. A section that must begin with the header %s followed by 2-3 sentences interpreting that connection.\n", SectionHeader(word, assoc3))
	fmt.Fprintf(&b, "5. A closing section that ties all three associations together and says something about what \"%s\" seems to mean to them.\n\n", word)

	b.WriteString("Follow all of these rules:\n")
	b.WriteString("- Speak directly to the reader in the second person; never talk about them in the third person.\n")
	b.WriteString("- Use British English spelling.\n")
	b.WriteString("- Keep the language suitable for a reader aged 11 to 14: short sentences, everyday words.\n")
	b.WriteString("- Separate every section with a blank line (a double line break).\n")
	fmt.Fprintf(&b, "- If an answer is \"%s\", the reader ran out of time on it; acknowledge that gently in its section instead of skipping it.\n", models.PlaceholderResponse)
	b.WriteString("- Be empathetic, thoughtful and specific. Focus on the emotional or personal connection rather than dictionary definitions.\n")

	return b.String()
}

// firstName takes the leading word of a display name so the narrative
// greets the reader the way a person would
func firstName(displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return "there"
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
