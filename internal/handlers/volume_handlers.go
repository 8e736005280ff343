package handlers

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"mizan/internal/constants"
)

func (handler *Handler) GetVolumesHandler(c echo.Context) error {
	known := handler.Store.Volumes()
	volumes := make([]constants.VolumeInfo, 0, len(known))
	for _, info := range constants.KnownVolumes {
		if slices.Contains(known, info.Num) {
			volumes = append(volumes, info)
		}
	}
	return c.JSON(http.StatusOK, ReturnType{Data: volumes})
}

// GetVolumeHandler - A volume's chapters. A volume that fails to load is an empty list, not an error.
func (handler *Handler) GetVolumeHandler(c echo.Context) error {
	volumeNum, err := intParam(c, "volume")
	if err != nil {
		return err
	}

	res := handler.Store.LoadVolume(c.Request().Context(), volumeNum)
	message := ""
	if !res.Ok() {
		message = "Failed to load volume."
	}
	return c.JSON(http.StatusOK, ReturnType{Message: message, Data: res.Chapters})
}

func (handler *Handler) GetChapterHandler(c echo.Context) error {
	volumeNum, err := intParam(c, "volume")
	if err != nil {
		return err
	}
	chapterNum, err := intParam(c, "chapter")
	if err != nil {
		return err
	}

	chapter, ok := handler.Store.FindChapter(c.Request().Context(), volumeNum, chapterNum)
	if !ok {
		return c.JSON(http.StatusNotFound, ReturnType{Message: "Chapter not found."})
	}
	return c.JSON(http.StatusOK, ReturnType{Data: chapter})
}
