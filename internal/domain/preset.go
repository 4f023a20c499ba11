package domain

// Preset is a built-in stylistic transformation the front end offers as a
// one-click choice. Color is a gradient accent consumed by the preset grid.
type Preset struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Emoji  string `json:"emoji"`
	Prompt string `json:"prompt"`
	Color  string `json:"color"`
}

// Presets returns the built-in preset catalog in display order.
func Presets() []Preset {
	return []Preset{
		{
			ID:     "cyberpunk",
			Name:   "Night City",
			Emoji:  "🌃",
			Prompt: "Transform this image into a cyberpunk scene. Neon lights, rain-slicked surfaces, holographic signs, futuristic vibes. Dark and moody atmosphere with vivid neon glows in pink, cyan, and purple. Maintain the exact same composition, perspective, and object placement as the original image. High detail, cinematic.",
			Color:  "from-cyan-500 to-purple-600",
		},
		{
			ID:     "lego",
			Name:   "Brick World",
			Emoji:  "🧱",
			Prompt: "Transform this entire scene into a world made of plastic toy building bricks (like LEGO). Every surface, object, and element should be constructed from colorful interlocking bricks. Keep the colors vibrant and playful. Maintain the exact same composition, perspective, and layout as the original image.",
			Color:  "from-yellow-400 to-red-500",
		},
		{
			ID:     "ghibli",
			Name:   "Anime Sky",
			Emoji:  "🍃",
			Prompt: "Transform this image into a Studio Ghibli-inspired anime illustration. Lush, painterly colors, soft hand-painted textures, fluffy cumulus clouds, warm golden-hour lighting. The scene should feel magical and peaceful. Maintain the exact same composition and layout as the original image.",
			Color:  "from-green-400 to-emerald-600",
		},
		{
			ID:     "sketch",
			Name:   "Pencil Sketch",
			Emoji:  "✏️",
			Prompt: "Transform this image into a highly detailed charcoal pencil sketch on rough textured paper. Black and white only, with expressive cross-hatching and artistic shading. The outlines and proportions must match the original image exactly. Fine art quality.",
			Color:  "from-zinc-400 to-zinc-600",
		},
		{
			ID:     "watercolor",
			Name:   "Watercolor",
			Emoji:  "🎨",
			Prompt: "Transform this image into a beautiful loose watercolor painting. Soft washes of color bleeding into each other, visible paper texture, gentle brush strokes. Dreamy and artistic. Maintain the same composition and layout as the original image.",
			Color:  "from-pink-400 to-orange-400",
		},
		{
			ID:     "scifi",
			Name:   "Sci-Fi World",
			Emoji:  "🚀",
			Prompt: "Transform this scene into a futuristic sci-fi environment. Sleek metallic surfaces, floating holographic interfaces, advanced technology everywhere. Cool blue and silver tones with glowing energy accents. Maintain the exact same composition as the original image.",
			Color:  "from-blue-500 to-indigo-600",
		},
	}
}
