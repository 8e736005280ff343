package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"mizan/internal/constants"
	"mizan/internal/share"
)

type shareText struct {
	Text     string `json:"text"`
	FileName string `json:"file_name"`
}

// shareImageBody - card customization; omitted fields keep the card defaults
type shareImageBody struct {
	share.CardOptions
}

func (handler *Handler) findHadith(c echo.Context) (constants.HadithMatch, error) {
	var ref constants.HadithRef
	var err error
	if ref.Volume, err = intParam(c, "volume"); err != nil {
		return constants.HadithMatch{}, err
	}
	if ref.ChapterNum, err = intParam(c, "chapter"); err != nil {
		return constants.HadithMatch{}, err
	}
	if ref.SectionNum, err = intParam(c, "section"); err != nil {
		return constants.HadithMatch{}, err
	}
	if ref.HadithNum, err = intParam(c, "hadith"); err != nil {
		return constants.HadithMatch{}, err
	}

	match, ok := handler.Store.FindHadith(c.Request().Context(), ref)
	if !ok {
		return constants.HadithMatch{}, echo.NewHTTPError(http.StatusNotFound, ReturnType{Message: "Hadith not found."})
	}
	return match, nil
}

// ShareTextHandler - the copy-to-clipboard text of a hadith
func (handler *Handler) ShareTextHandler(c echo.Context) error {
	match, err := handler.findHadith(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ReturnType{Data: shareText{
		Text:     share.ClipboardText(match.Hadith),
		FileName: share.FileName(match.Hadith),
	}})
}

// ShareImageHandler - Render the hadith's share card as a PNG download
func (handler *Handler) ShareImageHandler(c echo.Context) error {
	if handler.Exporter == nil {
		return c.JSON(http.StatusServiceUnavailable, ReturnType{Message: "Image export is not enabled."})
	}
	match, err := handler.findHadith(c)
	if err != nil {
		return err
	}

	body := shareImageBody{CardOptions: share.DefaultCardOptions()}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ReturnType{Message: "Invalid request body. Error: " + err.Error()})
	}

	png, err := handler.Exporter.Export(c.Request().Context(), share.Card{
		Hadith:       match.Hadith,
		ChapterTitle: match.Chapter.TitleEn,
		Options:      body.CardOptions,
	})
	if errors.Is(err, share.ErrInvalidCard) {
		return c.JSON(http.StatusBadRequest, ReturnType{Message: err.Error()})
	}
	if err != nil {
		handler.Logger.Error("Share image export failed", zap.Int("hadith", match.Hadith.HadithNum), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ReturnType{Message: "Failed to generate image."})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", share.FileName(match.Hadith)))
	return c.Blob(http.StatusOK, "image/png", png)
}
