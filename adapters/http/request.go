package cvhttp

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
)

func paramID(c router.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, cv.NewError(cv.KindValidation, "invalid id "+strconv.Quote(raw), err)
	}
	return id, nil
}

func decodeBody(c router.Context, dst any) error {
	body := c.Body()
	if len(body) == 0 {
		return cv.NewError(cv.KindValidation, "request body is required", nil)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return cv.NewError(cv.KindValidation, "invalid JSON body", err)
	}
	return nil
}

func exportRequest(c router.Context, defaults export.Request) export.Request {
	req := export.Request{
		Format:   export.Format(strings.ToLower(c.Param("format"))),
		Strategy: export.StrategyName(strings.ToLower(c.Query("strategy"))),
		Quality:  export.Quality(strings.ToLower(c.Query("quality"))),
	}
	if req.Format == "" {
		req.Format = defaults.Format
	}
	if req.Strategy == "" {
		req.Strategy = defaults.Strategy
	}
	if req.Quality == "" {
		req.Quality = defaults.Quality
	}
	return req
}

func historyFilter(c router.Context) (export.ProgressFilter, error) {
	filter := export.ProgressFilter{State: export.ExportState(c.Query("state"))}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return export.ProgressFilter{}, cv.NewError(cv.KindValidation, "invalid limit", err)
		}
		filter.Limit = limit
	}
	return filter, nil
}

// uploadBody returns the uploaded payload and its content type. Multipart requests
// read the named file field, anything else is taken as the raw body.
func uploadBody(c router.Context, field string) ([]byte, string, error) {
	if !strings.HasPrefix(c.Header(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return c.Body(), c.Header(fiber.HeaderContentType), nil
	}
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", cv.NewError(cv.KindValidation, "missing file field "+strconv.Quote(field), err)
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", cv.NewError(cv.KindIO, "open upload", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", cv.NewError(cv.KindIO, "read upload", err)
	}
	return data, header.Header.Get(fiber.HeaderContentType), nil
}
