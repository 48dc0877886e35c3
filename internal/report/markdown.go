package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/stressband/internal/model"
)

// MarkdownWriter outputs summaries in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary.Profile)
	w.writeIdentity(md, summary.Profile)
	w.writeIndicators(md, summary.Profile)
	w.writeAlerts(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the letterhead.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, p model.Profile) {
	md.H1("Compte-rendu " + p.BandID.String())
	md.PlainText("")
	md.PlainText("**" + letterheadTitle + "**")
	md.PlainText("")
	md.PlainText(letterheadSubtitle)
	md.PlainText("")
}

// writeIdentity writes the subject and dossier table.
func (w *MarkdownWriter) writeIdentity(md *markdown.Markdown, p model.Profile) {
	md.Table(markdown.TableSet{
		Header: []string{"Champ", "Valeur"},
		Rows: [][]string{
			{"Patiente / Patient", p.FullName()},
			{"Date de naissance", p.BirthDate},
			{"N° dossier", p.Dossier},
			{"ID brassard", "`" + p.BandID.String() + "`"},
			{"Prélèvement du", p.ExamDate},
		},
	})
	md.PlainText("")
}

// writeIndicators writes the three key indicators and the dashboard readings.
func (w *MarkdownWriter) writeIndicators(md *markdown.Markdown, p model.Profile) {
	md.H2(metricsTitle)
	md.PlainText("")
	md.PlainText("*" + metricsSubtitle + "*")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Indicateur", "Valeur"},
		Rows: [][]string{
			{"Fréquence cardiaque moyenne", p.Metrics.HeartRateAvg},
			{"Fréquence respiratoire moyenne", p.Metrics.RespirationAvg},
			{"Rythme / qualité du sommeil", p.Metrics.SleepRhythm},
		},
	})
	md.PlainText("")

	md.BulletList(
		"BPM : "+strconv.Itoa(p.Readings.BPM),
		"Respiration : "+strconv.Itoa(p.Readings.Respiration)+" / min",
		"Score de sommeil : "+strconv.Itoa(p.Readings.SleepScore)+"/100 ("+p.Readings.SleepDuration+")",
	)
	md.PlainText("")

	if p.Readings.Comment != "" {
		md.Note(p.Readings.Comment)
		md.PlainText("")
	}
}

// writeAlerts writes an alert block listing the readings above threshold.
func (w *MarkdownWriter) writeAlerts(md *markdown.Markdown, s *model.Summary) {
	if !s.HasAlerts() {
		md.Tip("Aucun indicateur au-delà des seuils de vigilance.")
		md.PlainText("")
		return
	}

	labels := make([]string, len(s.Alerts))
	for i, a := range s.Alerts {
		labels[i] = a.Label()
	}
	md.Warningf("%d indicateur(s) au-delà des seuils de vigilance.", len(s.Alerts))
	md.PlainText("")
	md.BulletList(labels...)
	md.PlainText("")
}

// writeFooter writes the disclaimer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*" + disclaimerFirst + " " + disclaimerSecond + "*")
}
