package art

import "strings"

var bracketPairs = []struct{ open, close string }{
	{"(", ")"},
	{"[", "]"},
	{"{", "}"},
	{"<", ">"},
}

// Cleanup trims model output and appends closers for brackets left open.
// Extra closers are left alone.
func Cleanup(s string) string {
	cleaned := strings.TrimSpace(s)
	for _, p := range bracketPairs {
		opens := strings.Count(cleaned, p.open)
		closes := strings.Count(cleaned, p.close)
		if opens > closes {
			cleaned += strings.Repeat(p.close, opens-closes)
		}
	}
	return cleaned
}

const (
	dogArt = "        __\n" +
		"    (___())`\n" +
		"    /,    /\n" +
		"   //'--'\\\n" +
		"  /         \\"

	catArt = "    /\\_/\\  \n" +
		"   ( ^.^ )\n" +
		"    )   (\n" +
		"   ( v v )\n" +
		"  ^^  |  ^^"

	hatArt = "    _____\n" +
		"   /     \\\n" +
		"  | () () |\n" +
		"   \\  ^  /\n" +
		"    |||||\n" +
		"    |||||"

	defaultArt = "  _______\n" +
		" /       \\\n" +
		"|  O   O  |\n" +
		"|    ∆    |\n" +
		" \\_______/\n" +
		"    | |\n" +
		"    | |"
)

// Mock returns canned art for prompts mentioning a dog, cat or hat, checked
// in that order, and a generic face otherwise. The result is cleaned like
// model output.
func Mock(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "dog"):
		return Cleanup(dogArt)
	case strings.Contains(lower, "cat"):
		return Cleanup(catArt)
	case strings.Contains(lower, "hat"):
		return Cleanup(hatArt)
	}
	return Cleanup(defaultArt)
}
