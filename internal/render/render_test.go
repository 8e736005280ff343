package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mizan/internal/constants"
	"mizan/internal/settings"
)

var chapter = constants.Chapter{
	ChapterNum: 1,
	TitleEn:    "On Knowledge",
	TitleAr:    "العلم",
	Sections: []constants.Section{{
		SectionNum: 2,
		TitleEn:    "Seeking",
		Hadiths: []constants.Hadith{{
			HadithNum: 7,
			TextAr:    "اطلبوا العلم",
			TextEn:    "Seek knowledge",
			Footnotes: []string{"Bihar"},
		}},
	}},
}

func TestChapter(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Chapter(&out, chapter, DefaultWidth))

	s := out.String()
	assert.Contains(t, s, "On Knowledge")
	assert.Contains(t, s, "Seeking")
	assert.Contains(t, s, "#7")
	assert.Contains(t, s, "Seek knowledge")
	assert.Contains(t, s, "اطلبوا العلم")
	assert.Contains(t, s, "Bihar")
}

func TestChaptersEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Chapters(&out, 3, nil))
	assert.Contains(t, out.String(), "Volume 3")
	assert.Contains(t, out.String(), "No chapters.")
}

func TestMatches(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, HadithMatches(&out, []constants.HadithMatch{{
		Volume:  1,
		Chapter: chapter,
		Section: chapter.Sections[0],
		Hadith:  chapter.Sections[0].Hadiths[0],
	}}, DefaultWidth))
	assert.Contains(t, out.String(), "1 results")
	assert.Contains(t, out.String(), "Seek knowledge")

	section := 2
	out.Reset()
	require.NoError(t, HeadingMatches(&out, []constants.HeadingMatch{
		{Kind: constants.ChapterHeading, TitleEn: "On Knowledge", Volume: 1, ChapterNum: 1},
		{Kind: constants.SectionHeading, TitleEn: "Seeking", Volume: 1, ChapterNum: 1, SectionNum: &section},
	}))
	assert.Contains(t, out.String(), "vol 1 ch 1 sec 2")
	assert.Contains(t, out.String(), "chapter")
}

func TestSettings(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Settings(&out, settings.Defaults()))
	assert.Contains(t, out.String(), "arabic font size    20px")
}
