package share

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"slices"

	"mizan/internal/constants"
	"mizan/internal/settings"
)

const (
	CollectionName = "Mizan al Hikmah"
	SiteName       = "mizan-al-hikmah.web.app"

	MinCardArabicSize  = 16
	MaxCardArabicSize  = 48
	MinCardEnglishSize = 12
	MaxCardEnglishSize = 32
)

var ErrInvalidCard = errors.New("invalid share card")

// ClipboardText - Plain-text form of a hadith for copying
func ClipboardText(hadith constants.Hadith) string {
	return fmt.Sprintf("%s\n\n%s\n\n(%s, Hadith #%d)", hadith.TextAr, hadith.TextEn, CollectionName, hadith.HadithNum)
}

// FileName - download name of a hadith's share image
func FileName(hadith constants.Hadith) string {
	return fmt.Sprintf("mizan-hadith-%d.png", hadith.HadithNum)
}

type CardOptions struct {
	ArabicFontFamily string `json:"arabicFontFamily"`
	ArabicFontSize   int    `json:"arabicFontSize"`
	EnglishFontSize  int    `json:"englishFontSize"`
}

func DefaultCardOptions() CardOptions {
	return CardOptions{ArabicFontFamily: "arabic", ArabicFontSize: 24, EnglishFontSize: 18}
}

func (o CardOptions) Validate() error {
	if !slices.Contains(settings.ArabicFonts, o.ArabicFontFamily) {
		return fmt.Errorf("%w: unknown arabic font %q", ErrInvalidCard, o.ArabicFontFamily)
	}
	if o.ArabicFontSize < MinCardArabicSize || o.ArabicFontSize > MaxCardArabicSize {
		return fmt.Errorf("%w: arabic size must be between %d and %d", ErrInvalidCard, MinCardArabicSize, MaxCardArabicSize)
	}
	if o.EnglishFontSize < MinCardEnglishSize || o.EnglishFontSize > MaxCardEnglishSize {
		return fmt.Errorf("%w: english size must be between %d and %d", ErrInvalidCard, MinCardEnglishSize, MaxCardEnglishSize)
	}
	return nil
}

// Card - Everything that goes on a share image
type Card struct {
	Hadith       constants.Hadith
	ChapterTitle string
	Options      CardOptions
}

func (c Card) arabicFontStack() string {
	if c.Options.ArabicFontFamily == "arabic" {
		return "var(--font-arabic)"
	}
	return fmt.Sprintf("'%s', var(--font-arabic)", c.Options.ArabicFontFamily)
}

var cardTemplate = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  :root { --font-arabic: 'Amiri', 'Scheherazade New', serif; }
  body { margin: 0; background: #0f172a; }
  #card {
    width: 600px; box-sizing: border-box; padding: 48px 48px 128px; position: relative;
    color: #fff; background-image: radial-gradient(circle at top right, #1e293b, #0f172a);
    font-family: Georgia, serif; text-align: center;
  }
  #card .frame { position: absolute; inset: 16px; border: 1px solid rgba(212, 175, 55, 0.3); border-radius: 2px; }
  #card .brand { color: #d4af37; letter-spacing: 0.2em; font-size: 14px; text-transform: uppercase; }
  #card .chapter { color: #94a3b8; font-size: 14px; text-transform: uppercase; letter-spacing: 0.05em; margin-top: 32px; }
  #card .arabic { line-height: 2; margin-top: 24px; }
  #card .divider { width: 64px; height: 1px; background: rgba(212, 175, 55, 0.5); margin: 24px auto; }
  #card .english { color: #e2e8f0; line-height: 1.6; }
  #card .footer { display: flex; justify-content: space-between; padding-top: 32px; font: 12px monospace; color: #64748b; }
</style>
</head>
<body>
<div id="card">
  <div class="frame"></div>
  <div class="brand">{{.Brand}}</div>
  {{if .ChapterTitle}}<div class="chapter">{{.ChapterTitle}}</div>{{end}}
  <p class="arabic" dir="rtl" style="font-family: {{.ArabicFont}}; font-size: {{.ArabicSize}}px">{{.Arabic}}</p>
  <div class="divider"></div>
  <p class="english" style="font-size: {{.EnglishSize}}px">{{.English}}</p>
  <div class="footer"><span>Hadith #{{.HadithNum}}</span><span>{{.Site}}</span></div>
</div>
</body>
</html>`))

// RenderCard - HTML for the share image. Options are validated first.
func RenderCard(card Card) (string, error) {
	if err := card.Options.Validate(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err := cardTemplate.Execute(&buf, map[string]interface{}{
		"Brand":        CollectionName,
		"Site":         SiteName,
		"ChapterTitle": card.ChapterTitle,
		"Arabic":       card.Hadith.TextAr,
		"English":      card.Hadith.TextEn,
		"HadithNum":    card.Hadith.HadithNum,
		"ArabicFont":   template.CSS(card.arabicFontStack()),
		"ArabicSize":   card.Options.ArabicFontSize,
		"EnglishSize":  card.Options.EnglishFontSize,
	})
	if err != nil {
		return "", fmt.Errorf("rendering share card: %w", err)
	}
	return buf.String(), nil
}
