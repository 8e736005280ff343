package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"mizan/internal/constants"
	"mizan/internal/search"
	"mizan/internal/settings"
	"mizan/internal/share"
	"mizan/internal/vector"
	"mizan/internal/volume"
)

const volumeOne = `[
  {
    "chapter_num": 1,
    "chapter_title_en": "On Knowledge",
    "chapter_title_ar": "العلم",
    "sections": [
      {
        "section_num": 1,
        "section_title_en": "The Virtue of Knowledge",
        "section_title_ar": "فضل العلم",
        "hadiths": [
          {"hadith_num": 5, "arabic": "العلم نور", "english": "Knowledge is light", "footnotes": []}
        ]
      }
    ]
  }
]`

type fakeExporter struct {
	card share.Card
}

func (f *fakeExporter) Export(_ context.Context, card share.Card) ([]byte, error) {
	if err := card.Options.Validate(); err != nil {
		return nil, err
	}
	f.card = card
	return []byte("\x89PNG"), nil
}

type fakeSemantic struct {
	err error
}

func (f fakeSemantic) Search(_ context.Context, query string, _ uint64) ([]vector.SemanticMatch, error) {
	if query == "" {
		return nil, vector.ErrEmptyQuery
	}
	if f.err != nil {
		return nil, f.err
	}
	return []vector.SemanticMatch{{Score: 0.9}}, nil
}

// route registration mirrors routing.InitRoutes; routing imports this package so it can't be used here
func newTestServer(t *testing.T, exporter ImageExporter) (*echo.Echo, *Handler) {
	t.Helper()
	store := volume.NewStore(&volume.DirFetcher{FS: fstest.MapFS{
		"mizan_al_hikmah_vol1.json": {Data: []byte(volumeOne)},
	}}, "", []int{1, 2}, zap.NewNop())
	handler := NewHandler(store, search.NewEngine(store, zap.NewNop()), settings.NewService(settings.NewMemoryStorage(), zap.NewNop()), exporter, zap.NewNop())
	handler.Debounce = 10 * time.Millisecond

	e := echo.New()
	api := e.Group("/api")
	api.GET("/volumes", handler.GetVolumesHandler)
	api.GET("/volumes/:volume", handler.GetVolumeHandler)
	api.GET("/volumes/:volume/chapters/:chapter", handler.GetChapterHandler)
	hadith := api.Group("/volumes/:volume/chapters/:chapter/sections/:section/hadiths/:hadith")
	hadith.GET("/share", handler.ShareTextHandler)
	hadith.POST("/share/image", handler.ShareImageHandler)
	api.GET("/search", handler.SearchHandler)
	api.GET("/search/headings", handler.SearchHeadingsHandler)
	api.GET("/search/semantic", handler.SemanticSearchHandler)
	api.GET("/search/live", handler.LiveSearchHandler)
	api.GET("/settings", handler.GetSettingsHandler)
	api.PATCH("/settings", handler.UpdateSettingsHandler)
	api.DELETE("/settings", handler.ResetSettingsHandler)
	return e, handler
}

func do(e *echo.Echo, method string, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) (string, T) {
	t.Helper()
	var body struct {
		Message string `json:"message"`
		Data    T      `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Message, body.Data
}

func TestVolumeRoutes(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/api/volumes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, infos := decode[[]constants.VolumeInfo](t, rec)
	require.Len(t, infos, 2)
	assert.Equal(t, 1, infos[0].Num)

	rec = do(e, http.MethodGet, "/api/volumes/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	msg, chapters := decode[[]constants.Chapter](t, rec)
	assert.Empty(t, msg)
	require.Len(t, chapters, 1)
	assert.Equal(t, "On Knowledge", chapters[0].TitleEn)

	// volume 2 has no document; still a 200 with an empty list
	rec = do(e, http.MethodGet, "/api/volumes/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	msg, chapters = decode[[]constants.Chapter](t, rec)
	assert.Equal(t, "Failed to load volume.", msg)
	assert.Empty(t, chapters)

	rec = do(e, http.MethodGet, "/api/volumes/1/chapters/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, chapter := decode[constants.Chapter](t, rec)
	assert.Equal(t, 1, chapter.ChapterNum)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/volumes/1/chapters/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/volumes/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/volumes/0", "").Code)
}

func TestSearchRoutes(t *testing.T) {
	e, handler := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/api/search?q=LIGHT", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, hadiths := decode[[]constants.HadithMatch](t, rec)
	require.Len(t, hadiths, 1)
	assert.Equal(t, 5, hadiths[0].Hadith.HadithNum)

	rec = do(e, http.MethodGet, "/api/search?q=li", "")
	_, hadiths = decode[[]constants.HadithMatch](t, rec)
	assert.Empty(t, hadiths)

	rec = do(e, http.MethodGet, "/api/search/headings?q=virtue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, headings := decode[[]constants.HeadingMatch](t, rec)
	require.Len(t, headings, 1)
	assert.Equal(t, constants.SectionHeading, headings[0].Kind)

	long := strings.Repeat("a", maxQueryLength+1)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/search?q="+long, "").Code)

	assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodGet, "/api/search/semantic?q=light", "").Code)

	handler.Semantic = fakeSemantic{}
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/search/semantic?q=light&limit=3", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/search/semantic?q=", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/search/semantic?q=light&limit=x", "").Code)

	handler.Semantic = fakeSemantic{err: errors.New("qdrant down")}
	assert.Equal(t, http.StatusBadGateway, do(e, http.MethodGet, "/api/search/semantic?q=light", "").Code)
}

func TestSettingsRoutes(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, current := decode[settings.FontSettings](t, rec)
	assert.Equal(t, settings.Defaults(), current)

	rec = do(e, http.MethodPatch, "/api/settings", `{"arabicFontSize": 28}`)
	require.Equal(t, http.StatusOK, rec.Code)
	_, current = decode[settings.FontSettings](t, rec)
	assert.Equal(t, 28, current.ArabicFontSize)
	assert.Equal(t, settings.Defaults().EnglishFontSize, current.EnglishFontSize)

	rec = do(e, http.MethodPatch, "/api/settings", `{"englishFontSize": 99}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/settings", "")
	_, current = decode[settings.FontSettings](t, rec)
	assert.Equal(t, 28, current.ArabicFontSize, "a rejected update leaves the stored settings alone")

	rec = do(e, http.MethodDelete, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, current = decode[settings.FontSettings](t, rec)
	assert.Equal(t, settings.Defaults(), current)
}

func TestShareRoutes(t *testing.T) {
	exporter := &fakeExporter{}
	e, _ := newTestServer(t, exporter)

	rec := do(e, http.MethodGet, "/api/volumes/1/chapters/1/sections/1/hadiths/5/share", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, text := decode[shareText](t, rec)
	assert.Equal(t, "mizan-hadith-5.png", text.FileName)
	assert.Contains(t, text.Text, "Knowledge is light")
	assert.Contains(t, text.Text, "Hadith #5")

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/volumes/1/chapters/1/sections/1/hadiths/6/share", "").Code)

	rec = do(e, http.MethodPost, "/api/volumes/1/chapters/1/sections/1/hadiths/5/share/image", `{"arabicFontSize": 30}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "mizan-hadith-5.png")
	assert.Equal(t, 30, exporter.card.Options.ArabicFontSize)
	assert.Equal(t, share.DefaultCardOptions().EnglishFontSize, exporter.card.Options.EnglishFontSize)
	assert.Equal(t, "On Knowledge", exporter.card.ChapterTitle)

	rec = do(e, http.MethodPost, "/api/volumes/1/chapters/1/sections/1/hadiths/5/share/image", `{"arabicFontSize": 100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareImageDisabled(t *testing.T) {
	e, _ := newTestServer(t, nil)
	rec := do(e, http.MethodPost, "/api/volumes/1/chapters/1/sections/1/hadiths/5/share/image", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLiveSearch(t *testing.T) {
	e, handler := newTestServer(t, nil)
	handler.Debounce = 200 * time.Millisecond
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/search/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(liveQuery{Query: "kno"}))
	require.NoError(t, conn.WriteJSON(liveQuery{Query: "light"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame struct {
		Data search.LiveResult `json:"data"`
		Done bool              `json:"done"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.False(t, frame.Done)
	assert.Equal(t, "light", frame.Data.Query, "the debounced first query is never answered")
	require.Len(t, frame.Data.Hadiths, 1)
	assert.Equal(t, 5, frame.Data.Hadiths[0].Hadith.HadithNum)
}

func TestLiveSearchRejectsForeignOrigin(t *testing.T) {
	e, handler := newTestServer(t, nil)
	handler.FrontendURL = "http://localhost:5173"
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/search/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLiveSearchLogsUnsentDoneFrame(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e, handler := newTestServer(t, nil)
	handler.Logger = zap.New(core)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/search/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the server answers the close handshake, after which writing the done frame fails
	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	assert.Eventually(t, func() bool {
		entries := logs.FilterMessage("Live search done frame not sent").All()
		return len(entries) == 1 &&
			entries[0].ContextMap()["error"] == websocket.ErrCloseSent.Error() &&
			logs.FilterMessage("Live search session closed").Len() == 1
	}, 5*time.Second, 10*time.Millisecond)
}
