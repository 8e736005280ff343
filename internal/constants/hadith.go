package constants

import "encoding/json"

// Volume - One volume document: the ordered chapters of a single Mizan al Hikmah volume
type Volume []Chapter

type Hadith struct {
	HadithNum int      `json:"hadith_num"`
	TextAr    string   `json:"arabic"`
	TextEn    string   `json:"english"`
	Footnotes []string `json:"footnotes"`
}

// UnmarshalJSON - a missing or null footnotes list decodes as empty
func (h *Hadith) UnmarshalJSON(data []byte) error {
	type plain Hadith
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Footnotes == nil {
		p.Footnotes = []string{}
	}
	*h = Hadith(p)
	return nil
}

type Section struct {
	SectionNum int      `json:"section_num"`
	TitleEn    string   `json:"section_title_en"`
	TitleAr    string   `json:"section_title_ar"`
	Hadiths    []Hadith `json:"hadiths"`
}

type Chapter struct {
	ChapterNum int       `json:"chapter_num"`
	TitleEn    string    `json:"chapter_title_en"`
	TitleAr    string    `json:"chapter_title_ar"`
	Sections   []Section `json:"sections"`
}

// HadithMatch - A hadith found by full-text search along with where it lives
type HadithMatch struct {
	Volume  int     `json:"volume"`
	Chapter Chapter `json:"chapter"`
	Section Section `json:"section"`
	Hadith  Hadith  `json:"hadith"`
}

type HeadingKind string

const (
	ChapterHeading HeadingKind = "chapter"
	SectionHeading HeadingKind = "section"
)

// HeadingMatch - A chapter or section title that matched a query. SectionNum is nil for chapter matches.
type HeadingMatch struct {
	Kind       HeadingKind `json:"kind"`
	TitleEn    string      `json:"title_en"`
	TitleAr    string      `json:"title_ar"`
	Volume     int         `json:"volume"`
	ChapterNum int         `json:"chapter_num"`
	SectionNum *int        `json:"section_num,omitempty"`
}

// VolumeInfo - Listing entry for the home page
type VolumeInfo struct {
	Num         int    `json:"num"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// KnownVolumes - the volumes that ship with the collection
var KnownVolumes = []VolumeInfo{
	{Num: 1, Title: "Volume 1", Description: "Chapters 1-80"},
	{Num: 2, Title: "Volume 2", Description: "Chapters 81-160"},
	{Num: 3, Title: "Volume 3", Description: "Chapters 161-240"},
	{Num: 4, Title: "Volume 4", Description: "Chapters 241-318"},
}

// VolumeNumbers - KnownVolumes as plain numbers, ascending
func VolumeNumbers() []int {
	nums := make([]int, len(KnownVolumes))
	for i, v := range KnownVolumes {
		nums[i] = v.Num
	}
	return nums
}

// HadithRef - Points at a single hadith. Used as the vector db payload.
type HadithRef struct {
	Volume     int `json:"Volume"`
	ChapterNum int `json:"Chapter"`
	SectionNum int `json:"Section"`
	HadithNum  int `json:"Hadith"`
}

// HadithEmbedding - A hadith's embedding ready to be stored in the vector db
type HadithEmbedding struct {
	HadithRef
	Embedding []float32 `json:"Embedding"`
	Content   string    `json:"Content"`
}

// HadithEmbeddingResponse - What the vector db hands back for a similarity search
type HadithEmbeddingResponse struct {
	HadithRef
	Content string  `json:"Content"`
	Score   float32 `json:"Score"`
}
