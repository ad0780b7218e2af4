package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"fv-simulator/internal/model"

	"github.com/go-pdf/fpdf"
)

// Options configure the document text of the exports.
type Options struct {
	Title       string `yaml:"title"`
	Attribution string `yaml:"attribution"`
	// Compress zlib-compresses PDF page streams.
	Compress bool `yaml:"compress"`
}

// DefaultOptions are the simulator's report texts.
func DefaultOptions() Options {
	return Options{
		Title:       "Simulador Financiero FV",
		Attribution: "Generado por Simulador Financiero FV",
		Compress:    true,
	}
}

// Meta describes the view being exported.
type Meta struct {
	Scenario   model.Scenario
	Indicators model.Indicators
	Generated  time.Time
}

// Exporter writes derived tables. The same Formatter is used for every format.
type Exporter struct {
	format Formatter
	opts   Options
}

// NewExporter returns an exporter using format for every cell.
func NewExporter(format Formatter, opts Options) *Exporter {
	if format == nil {
		format = FormatCurrency
	}
	return &Exporter{format: format, opts: opts}
}

// Format exposes the exporter's cell formatter.
func (e *Exporter) Format(v any) string { return e.format(v) }

const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 10.0
	marginRight  = 10.0
	marginTop    = 12.0
	marginBottom = 16.0
	contentWidth = pageWidth - marginLeft - marginRight
	rowHeight    = 6.0
)

// pdfReport holds the state of one document being written.
type pdfReport struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	opts   Options
	format Formatter
}

// PDF writes a landscape report: a title page with the chart, then the data
// table with its header repeated on every page. chartPNG may be empty, in which
// case the title page notes that the chart is unavailable.
func (e *Exporter) PDF(t model.Table, chartPNG []byte, meta Meta) ([]byte, error) {
	r, err := e.build(t, chartPNG, meta)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) build(t model.Table, chartPNG []byte, meta Meta) (*pdfReport, error) {
	if t.Len() == 0 {
		return nil, ErrNoData
	}
	if meta.Generated.IsZero() {
		meta.Generated = time.Now()
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	r := &pdfReport{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		opts:   e.opts,
		format: e.format,
	}
	pdf.SetCompression(e.opts.Compress)
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AliasNbPages("")
	pdf.SetTitle(e.opts.Title, true)
	pdf.SetFooterFunc(r.footer)

	r.addTitlePage(meta, chartPNG)
	header, body := Cells(t, e.format)
	r.addTable(header, body)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return r, nil
}

func (r *pdfReport) footer() {
	r.pdf.SetY(-12)
	r.pdf.SetDrawColor(180, 180, 180)
	r.pdf.SetLineWidth(0.2)
	r.pdf.Line(marginLeft, r.pdf.GetY(), pageWidth-marginRight, r.pdf.GetY())
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(110, 110, 110)
	r.pdf.CellFormat(contentWidth/2, 8, r.tr(r.opts.Attribution), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(contentWidth/2, 8, r.tr(fmt.Sprintf("Página %d de {nb}", r.pdf.PageNo())), "", 0, "R", false, 0, "")
}

func (r *pdfReport) addTitlePage(meta Meta, chartPNG []byte) {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 18)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, r.tr(r.opts.Title), "", 1, "L", false, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.CellFormat(contentWidth, 6, r.tr("Escenario: "+meta.Scenario.Label()), "", 1, "L", false, 0, "")
	r.pdf.CellFormat(contentWidth, 6, r.tr("Generado: "+meta.Generated.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	r.pdf.Ln(2)

	ind := meta.Indicators
	items := [][2]string{
		{"VPN", r.format(ind.NetPresentValue)},
		{"TIR", irrText(ind.InternalRateOfReturn)},
		{"Payback", paybackText(ind.PaybackYear)},
	}
	r.pdf.SetFont("Arial", "B", 10)
	for _, it := range items {
		r.pdf.CellFormat(30, 6, r.tr(it[0]+":"), "", 0, "L", false, 0, "")
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.CellFormat(contentWidth-30, 6, r.tr(it[1]), "", 1, "L", false, 0, "")
		r.pdf.SetFont("Arial", "B", 10)
	}

	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY()+2, marginLeft+contentWidth, r.pdf.GetY()+2)
	r.pdf.Ln(6)

	if len(chartPNG) == 0 {
		r.pdf.SetFont("Arial", "I", 10)
		r.pdf.CellFormat(contentWidth, 8, r.tr("Gráfico no disponible"), "", 1, "C", false, 0, "")
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	info := r.pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(chartPNG))
	if info == nil || r.pdf.Err() {
		return
	}
	y := r.pdf.GetY()
	maxW := contentWidth
	maxH := pageHeight - marginBottom - y
	scale := math.Min(maxW/info.Width(), maxH/info.Height())
	w, h := info.Width()*scale, info.Height()*scale
	x := marginLeft + (contentWidth-w)/2
	r.pdf.ImageOptions("chart", x, y, w, h, false, opts, 0, "")
}

func (r *pdfReport) addTable(header []string, body [][]string) {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 9, r.tr("Flujo de caja por año"), "", 1, "L", false, 0, "")
	r.pdf.Ln(2)

	widths := columnWidths(len(header))
	fontSize := 8.0
	if len(header) > 10 {
		fontSize = 6.5
	}

	r.drawTableHeader(header, widths, fontSize)
	for i, cells := range body {
		if r.pdf.GetY()+rowHeight > pageHeight-marginBottom {
			r.pdf.AddPage()
			r.drawTableHeader(header, widths, fontSize)
		}
		r.drawTableRow(cells, widths, fontSize, i%2 == 1)
	}
}

func (r *pdfReport) drawTableHeader(headers []string, widths []float64, fontSize float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", fontSize)

	for i, h := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], rowHeight+1, r.tr(h), "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(cells []string, widths []float64, fontSize float64, shaded bool) {
	r.pdf.SetFillColor(255, 255, 255)
	if shaded {
		r.pdf.SetFillColor(242, 242, 242)
	}
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.SetFont("Arial", "", fontSize)

	for i, c := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], rowHeight, r.tr(c), "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = contentWidth / float64(n)
	}
	return widths
}

func irrText(irr *float64) string {
	if irr == nil {
		return "No recupera"
	}
	return strconv.FormatFloat(*irr, 'f', 2, 64) + " %"
}

func paybackText(year *float64) string {
	if year == nil {
		return "No recupera"
	}
	return "Año " + strconv.FormatFloat(*year, 'f', -1, 64)
}
