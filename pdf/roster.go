package pdf

import (
	"bytes"
	"fmt"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/go-pdf/fpdf"
)

// Renderer turns a team roster into a printable document.
type Renderer interface {
	RenderTeamRoster(team *models.Team, players []models.Player) ([]byte, error)
}

type rosterRenderer struct {
	institution string
	event       string
}

func NewRosterRenderer(institution, event string) Renderer {
	return &rosterRenderer{
		institution: institution,
		event:       event,
	}
}

const (
	cardWidth   = 60.0
	cardHeight  = 48.0
	cardsPerRow = 3
	cardGapX    = 5.0
	cardGapY    = 7.0
	marginLeft  = 10.0
)

func (r *rosterRenderer) RenderTeamRoster(team *models.Team, players []models.Player) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	// Core fonts are cp1252; translate UTF-8 input (accented names, CURP
	// holder names and the like) before drawing.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 7, tr(r.institution), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 6, tr(r.event), "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Equipo: %s (%s)", team.Name, team.Branch)), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Entrenador: %s", team.Coach)), "", 1, "L", false, 0, "")
	doc.Ln(4)

	startY := doc.GetY()
	onPage := 0
	for i := range players {
		col := onPage % cardsPerRow
		row := onPage / cardsPerRow
		y := startY + float64(row)*(cardHeight+cardGapY)

		// Start a new page when the next row would run off the sheet.
		if col == 0 && y+cardHeight > 280 {
			doc.AddPage()
			startY = doc.GetY()
			onPage = 0
			y = startY
		}
		x := marginLeft + float64(col)*(cardWidth+cardGapX)

		r.drawPlayerCard(doc, tr, x, y, &players[i])
		onPage++
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render roster document: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *rosterRenderer) drawPlayerCard(doc *fpdf.Fpdf, tr func(string) string, x, y float64, player *models.Player) {
	doc.Rect(x, y, cardWidth, cardHeight, "D")
	// Photo frame; the photo itself lives in the blob store.
	doc.Rect(x+3, y+3, 18, 18, "D")

	textX := x + 24
	textWidth := cardWidth - 26

	doc.SetFont("Helvetica", "B", 9)
	doc.SetXY(textX, y+3)
	doc.MultiCell(textWidth, 4, tr(fmt.Sprintf("%s %s", player.Name, player.LastName)), "", "L", false)

	doc.SetFont("Helvetica", "", 8)
	doc.SetXY(textX, y+13)
	doc.CellFormat(textWidth, 4, tr(fmt.Sprintf("Boleta: %d", player.NumberIPN)), "", 1, "L", false, 0, "")
	doc.SetXY(textX, y+18)
	doc.MultiCell(textWidth, 4, tr(fmt.Sprintf("CURP: %s", player.CURP)), "", "L", false)

	doc.SetXY(x+3, y+26)
	doc.CellFormat(cardWidth-6, 4, tr(fmt.Sprintf("Posición: %s", player.Position)), "", 1, "L", false, 0, "")
	doc.SetXY(x+3, y+31)
	doc.CellFormat(cardWidth-6, 4, tr(fmt.Sprintf("Número: %d", player.Number)), "", 1, "L", false, 0, "")
}
