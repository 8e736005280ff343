package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"mizan/internal/constants"
	"mizan/internal/settings"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("179"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")).
			Bold(true)

	arabicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Align(lipgloss.Right)

	englishStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	hadithStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

// DefaultWidth - terminal columns used when the caller can't tell
const DefaultWidth = 80

// Hadith - A bordered block with the Arabic right-aligned over the English, footnotes dimmed
func Hadith(h constants.Hadith, width int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	lines := []string{
		dimStyle.Render(fmt.Sprintf("#%d", h.HadithNum)),
		arabicStyle.Width(inner).Render(h.TextAr),
		englishStyle.Width(inner).Render(h.TextEn),
	}
	for _, note := range h.Footnotes {
		lines = append(lines, dimStyle.Width(inner).Render("• "+note))
	}
	return hadithStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func heading(en string, ar string) string {
	if ar == "" {
		return en
	}
	return en + "  " + ar
}

// Chapter writes a whole chapter, section by section
func Chapter(w io.Writer, chapter constants.Chapter, width int) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d. %s", chapter.ChapterNum, heading(chapter.TitleEn, chapter.TitleAr))))
	b.WriteString("\n\n")
	for _, section := range chapter.Sections {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("%d. %s", section.SectionNum, heading(section.TitleEn, section.TitleAr))))
		b.WriteString("\n")
		for _, h := range section.Hadiths {
			b.WriteString(Hadith(h, width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Chapters - table of contents for a volume
func Chapters(w io.Writer, volumeNum int, chapters []constants.Chapter) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Volume %d", volumeNum)))
	b.WriteString("\n")
	if len(chapters) == 0 {
		b.WriteString(dimStyle.Render("No chapters."))
		b.WriteString("\n")
	}
	for _, chapter := range chapters {
		b.WriteString(fmt.Sprintf("%4d  %s\n", chapter.ChapterNum, heading(chapter.TitleEn, chapter.TitleAr)))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// HadithMatches - search results, each with where it was found
func HadithMatches(w io.Writer, matches []constants.HadithMatch, width int) error {
	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d results", len(matches))))
	b.WriteString("\n")
	for _, m := range matches {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("Vol %d › %d. %s › %s", m.Volume, m.Chapter.ChapterNum, m.Chapter.TitleEn, m.Section.TitleEn)))
		b.WriteString("\n")
		b.WriteString(Hadith(m.Hadith, width))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func HeadingMatches(w io.Writer, matches []constants.HeadingMatch) error {
	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d results", len(matches))))
	b.WriteString("\n")
	for _, m := range matches {
		where := fmt.Sprintf("vol %d ch %d", m.Volume, m.ChapterNum)
		if m.SectionNum != nil {
			where += fmt.Sprintf(" sec %d", *m.SectionNum)
		}
		b.WriteString(fmt.Sprintf("%-8s %s  %s\n", m.Kind, heading(m.TitleEn, m.TitleAr), dimStyle.Render(where)))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func Settings(w io.Writer, s settings.FontSettings) error {
	out := fmt.Sprintf("%s\n  arabic font family  %s\n  arabic font size    %dpx\n  english font size   %dpx\n",
		titleStyle.Render("Font settings"), s.ArabicFontFamily, s.ArabicFontSize, s.EnglishFontSize)
	_, err := io.WriteString(w, out)
	return err
}
