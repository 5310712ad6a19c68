package flows

import (
	"fmt"
	"strings"
)

// FallbackModelID labels prompts that did not come from a model.
const FallbackModelID = "Fallback: Default Prompt"

// PromptKind selects the prompt-generation request and canned subjects.
type PromptKind struct {
	Name    string
	Request string
	Canned  []string
}

// ASCIIPrompts asks for a subject suited to ASCII art.
var ASCIIPrompts = PromptKind{
	Name: "ascii",
	Request: strings.TrimSpace(`
You are a creative prompt generator. Generate a random and interesting subject for ASCII art.
Rules:
1. Be creative and unique
2. Focus on concrete subjects (animals, objects, characters, scenes)
3. Include some descriptive details
4. Keep it concise but imaginative
5. Only respond with the prompt, no additional text

Generate one random ASCII art prompt:`),
	Canned: []string{
		"a cat sitting on a computer keyboard",
		"a dog wearing sunglasses",
		"a robot making coffee",
		"a dragon flying over mountains",
		"a spaceship landing on mars",
		"a wizard casting spells",
		"a knight with shining armor",
		"a futuristic city skyline",
		"a wise owl reading a book",
		"a playful dolphin jumping",
	},
}

// ImagePrompts asks for an inanimate subject suited to image generation.
var ImagePrompts = PromptKind{
	Name: "image",
	Request: strings.TrimSpace(`
You are a creative prompt generator. Generate a random and interesting subject for image generation.
Rules:
1. Be creative and unique
2. Focus on concrete inanimate subjects (trees, furniture, buildings, landscapes, etc.)
3. Include some descriptive details
4. Keep it concise but imaginative
5. Only respond with the prompt, no additional text

Generate one random image generation prompt:`),
	Canned: []string{
		"a majestic oak tree in a field",
		"a wooden chair in a cozy room",
		"a vintage lamp on a desk",
		"a mountain landscape at sunset",
		"a house with a garden and fence",
		"a bookshelf filled with books",
		"a classic car in a driveway",
		"a bridge over a calm river",
		"a lighthouse on a rocky shore",
		"a castle on a hill",
	},
}

const asciiArtSystemPrompt = `You are an ASCII art generator. Create detailed ASCII art based on the user's request.
Rules:
1. Use only standard ASCII characters (no Unicode)
2. Make the art detailed and recognizable
3. Use different characters for shading (., -, =, #, @, etc.)
4. Keep the art reasonably sized (max 50 lines)
5. Only respond with the ASCII art, no additional text or explanation`

// asciiArtPrompt embeds the subject into the art instruction.
func asciiArtPrompt(subject string) string {
	return fmt.Sprintf("%s\n\nCreate ASCII art of: %s", asciiArtSystemPrompt, subject)
}
