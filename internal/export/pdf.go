// Package export renders recipes as downloadable documents.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/Clark-Hu/recipebox/internal/domain"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 6.0
)

// Filename is the attachment name used for a recipe export.
func Filename(recipeID string) string {
	return "recipe-" + recipeID + ".pdf"
}

// RecipePDF writes a single-column PDF of the recipe to w.
func RecipePDF(w io.Writer, recipe *domain.Recipe) error {
	return render(w, recipe, true)
}

func render(w io.Writer, recipe *domain.Recipe, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(recipe.Title, true)
	pdf.SetCreator("recipebox", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 20)
	pdf.MultiCell(0, 10, tr(recipe.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont(fontFamily, "I", 11)
	pdf.CellFormat(0, lineHeight, tr("By: "+recipe.Owner.Username), "", 1, "L", false, 0, "")
	if recipe.Image != "" {
		pdf.CellFormat(0, lineHeight, tr("Image: "+recipe.Image), "", 1, "L", false, 0, recipe.Image)
	}
	pdf.Ln(4)

	section(pdf, tr, "Description")
	pdf.MultiCell(0, lineHeight, tr(recipe.Description), "", "L", false)
	pdf.Ln(2)

	section(pdf, tr, "Category")
	pdf.CellFormat(0, lineHeight, tr(string(recipe.Category)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	section(pdf, tr, "Ingredients")
	for _, ingredient := range recipe.Ingredients {
		pdf.MultiCell(0, lineHeight, tr("- "+ingredient), "", "L", false)
	}
	pdf.Ln(2)

	section(pdf, tr, "Steps")
	for i, step := range recipe.Steps {
		pdf.MultiCell(0, lineHeight, tr(strconv.Itoa(i+1)+". "+step), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, lineHeight, RatingLine(recipe.AverageRating, recipe.NumReviews), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render recipe pdf: %w", err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, heading string) {
	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 8, tr(heading), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
}

// RatingLine formats the aggregate rating rounded to one decimal.
func RatingLine(average float64, count int) string {
	noun := "reviews"
	if count == 1 {
		noun = "review"
	}
	return fmt.Sprintf("Average Rating: %.1f (%d %s)", average, count, noun)
}
