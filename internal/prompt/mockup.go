package prompt

import (
	"fmt"
	"strings"
)

type GarmentType struct {
	Name  string
	Lines []string
}

var garmentTypes = map[string]GarmentType{
	"tshirt": {
		Name: "Classic T-Shirt",
		Lines: []string{
			"Standard-fit crew neck t-shirt, short sleeves.",
			"Natural drape with soft cotton wrinkles.",
		},
	},
	"hoodie": {
		Name: "Pullover Hoodie",
		Lines: []string{
			"Heavyweight fleece hoodie with kangaroo pocket and drawstrings.",
			"Design sits above the pocket; hood drapes naturally behind the collar.",
		},
	},
	"sweatshirt": {
		Name: "Crewneck Sweatshirt",
		Lines: []string{
			"Ribbed collar, cuffs and hem; mid-weight fleece body.",
		},
	},
	"longsleeve": {
		Name: "Long-Sleeve Tee",
		Lines: []string{
			"Slim long-sleeve tee; keep sleeve fabric flat and unprinted.",
		},
	},
}

type ScenePreset struct {
	Name  string
	Add   []string
	Notes []string
}

var scenePresets = map[string]ScenePreset{
	"studio": {
		Name: "Studio Flat",
		Add: []string{
			"clean studio product photography on a neutral seamless background",
			"soft even lighting, gentle shadow under the garment",
		},
	},
	"hanging": {
		Name: "Hanging Shot",
		Add: []string{
			"garment on a wooden hanger against a textured plaster wall",
			"natural window light from the left, soft falloff",
		},
	},
	"model": {
		Name: "On Model",
		Add: []string{
			"worn by a model, torso crop only, no identifiable face",
			"editorial street-wear framing, natural pose",
		},
		Notes: []string{
			"Never show a full face; crop at the chin or above the shoulders.",
		},
	},
	"flatlay": {
		Name: "Flat Lay",
		Add: []string{
			"top-down flat lay on a linen surface with minimal props",
			"garment folded with the printed design fully visible",
		},
	},
}

// GarmentTypes lists selectable garment keys in menu order.
func GarmentTypes() []string {
	return []string{"tshirt", "hoodie", "sweatshirt", "longsleeve"}
}

// ScenePresets lists selectable scene keys in menu order.
func ScenePresets() []string {
	return []string{"studio", "hanging", "model", "flatlay"}
}

type MockupOptions struct {
	Garment string
	Scene   string
	Tint    string
	Custom  string
}

// BuildMockupPrompt composes the instruction that turns a flattened layer
// composite into a photorealistic product shot. The attached composite is
// the identity lock: garment silhouette, fabric color and exact design
// placement must be preserved.
func BuildMockupPrompt(opts MockupOptions) string {
	garment, ok := garmentTypes[strings.ToLower(strings.TrimSpace(opts.Garment))]
	if !ok {
		garment = garmentTypes["tshirt"]
	}
	scene, hasScene := scenePresets[strings.ToLower(strings.TrimSpace(opts.Scene))]
	if !hasScene {
		scene = scenePresets["studio"]
	}

	var b strings.Builder
	b.Grow(1536)

	b.WriteString("TASK: Render the attached garment mockup as a photorealistic product photo.\n\n")

	b.WriteString("MOCKUP LOCK: The attached image is a flattened mockup of the exact garment to render.\n")
	b.WriteString("- Keep the printed design exactly where the mockup places it: same position, size and rotation.\n")
	b.WriteString("- Keep the fabric color exactly as shown; do not recolor or restyle the print.\n")
	b.WriteString("- Do not invent extra prints, tags or text.\n\n")

	b.WriteString("GARMENT: " + garment.Name + "\n")
	for _, line := range garment.Lines {
		b.WriteString("- " + line + "\n")
	}
	if tint := strings.TrimSpace(opts.Tint); tint != "" {
		b.WriteString(fmt.Sprintf("- Fabric color: %s.\n", tint))
	}
	b.WriteString("\n")

	b.WriteString("SCENE: " + scene.Name + "\n")
	for _, line := range scene.Add {
		b.WriteString("- " + line + "\n")
	}
	for _, line := range scene.Notes {
		b.WriteString("- NOTE: " + line + "\n")
	}
	b.WriteString("\n")

	if custom := strings.TrimSpace(opts.Custom); custom != "" {
		b.WriteString("ADDITIONAL NOTES:\n- " + custom + "\n\n")
	}

	b.WriteString("OUTPUT RULES:\n")
	b.WriteString("- Return exactly 1 image, full-bleed, no borders or watermarks.\n")
	b.WriteString("- Photorealistic fabric texture; the print follows the fabric's wrinkles.\n")

	return strings.TrimSpace(b.String())
}
