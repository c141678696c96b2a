package advisor

import (
	"fmt"
	"strings"

	"github.com/me0hharryy/dermaGo/internal/quiz"
)

const noneSpecified = "None specified"

// RoutinePrompt renders the dermatologist prompt for a quiz submission.
func RoutinePrompt(a quiz.Answers) string {
	var b strings.Builder
	b.WriteString("You are a professional dermatologist AI. A user has provided the following information about their skin:\n")
	fmt.Fprintf(&b, "- Gender: %s\n", a.Gender)
	fmt.Fprintf(&b, "- Age: %d\n", a.Age)
	fmt.Fprintf(&b, "- Skin Type: %s\n", strings.Join(a.SkinType, ", "))
	b.WriteString("- Lifestyle & Habits:\n")
	fmt.Fprintf(&b, "  - Sunlight Exposure: %s\n", a.Sunlight)
	fmt.Fprintf(&b, "  - Wears Sunscreen: %s\n", a.Sunscreen)
	fmt.Fprintf(&b, "  - Water Intake: %s\n", a.Water)
	fmt.Fprintf(&b, "  - Exercise Frequency: %s\n", a.Exercise)
	fmt.Fprintf(&b, "- Skin Concerns: %s\n", joinOrNone(a.Concerns))
	b.WriteString("- Current Routine:\n")
	fmt.Fprintf(&b, "  - Face Wash Frequency: %s\n", a.FaceWash)
	fmt.Fprintf(&b, "  - Uses Moisturizer: %s\n", a.Moisturizer)
	fmt.Fprintf(&b, "  - Exfoliates: %s\n", a.Exfoliate)
	fmt.Fprintf(&b, "  - Wears Makeup: %s\n", a.Makeup)
	b.WriteString("- Medical Background:\n")
	fmt.Fprintf(&b, "  - Allergies: %s\n", orNone(a.Allergies))
	fmt.Fprintf(&b, "  - Medication: %s\n", orNone(a.Medication))
	b.WriteString(`
Based *only* on this information, generate a simple, step-by-step AM (morning) and PM (night) skincare routine.

For each step, include:
1. The name of the step (e.g., Cleanser).
2. The *recommended product type* (e.g., "Gentle Hydrating Cleanser with Ceramides").
3. A detailed explanation of *why* this product type is essential and how it addresses the user's specific skin type/concerns.

Format your response *exactly* as a JSON object, like this:
{
  "am": "1. Cleanser: [Product Recommendation Type] - [Detailed Reason]\n2. Step Two: [Product Recommendation Type] - [Detailed Reason]",
  "pm": "1. Cleanser: [Product Recommendation Type] - [Detailed Reason]\n2. Step Two: [Product Recommendation Type] - [Detailed Reason]",
  "tip": "A single, highly personalized, and actionable general skincare tip based on their quiz answers."
}
`)
	return b.String()
}

// LabelPrompt asks for an analysis of productName read from an attached
// ingredient label photo.
func LabelPrompt(productName string) string {
	return fmt.Sprintf(`You are a cosmetic chemist AI. A user wants an analysis of a product named: %s.

Your primary task is to use the attached image of the product's label to accurately read the FULL ingredient list.

After extracting the ingredients, provide a full analysis of that product in the following *exact* JSON format:
%s
Notes for your response:
- If you cannot clearly read the ingredient list from the image, set the description to "Analysis limited as ingredients could not be fully read from the image." and use empty arrays/generic responses for fields that cannot be accurately determined.
- If no harmful ingredients are found, return an empty array for "harmfulIngredients".
`, productName, productFormat(productName))
}

// BarcodePrompt asks for an analysis of the product identified by barcode.
func BarcodePrompt(barcode string) string {
	return fmt.Sprintf(`You are a cosmetic chemist AI. A user scanned a skincare product with the barcode (GTIN/EAN/UPC): %s.

Identify the product this barcode belongs to and recall its published ingredient list.

Provide a full analysis of that product in the following *exact* JSON format:
%s
Notes for your response:
- If you cannot identify the product from the barcode, set "productName" to "Unknown product", set the description to "Analysis limited as the product could not be identified from its barcode." and use empty arrays for fields that cannot be accurately determined.
- If no harmful ingredients are found, return an empty array for "harmfulIngredients".
`, barcode, productFormat("[Product Name]"))
}

func productFormat(name string) string {
	return fmt.Sprintf(`{
  "productName": %q,
  "description": "A brief, neutral description of what this product does based on its ingredients.",
  "harmfulIngredients": [
    { "name": "Ingredient Name", "reason": "Why it's potentially harmful (e.g., common irritant, paraben, etc.)" }
  ],
  "comedogenicity": "A rating from 0-5 (0 = non-comedogenic, 5 = highly comedogenic) with a brief explanation.",
  "suitableSkinTypes": ["Oily", "Dry", "Sensitive", "Combination", "Normal", "Acne-Prone"],
  "solvesProblems": ["Acne", "Dryness", "Dullness", "Hyperpigmentation", "Fine Lines", "Redness"]
}
`, name)
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return noneSpecified
	}
	return strings.Join(values, ", ")
}

func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return noneSpecified
	}
	return value
}
