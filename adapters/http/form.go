package cvhttp

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-cvbuilder/cv"
)

func (h *Handler) addExperience(c router.Context) error {
	var entry cv.Experience
	if err := decodeBody(c, &entry); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusCreated, h.session.AddExperience(c.Context(), entry))
}

func (h *Handler) updateExperience(c router.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var entry cv.Experience
	if err := decodeBody(c, &entry); err != nil {
		return writeError(c, err)
	}
	updated, err := h.session.UpdateExperience(c.Context(), id, entry)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, updated)
}

func (h *Handler) removeExperience(c router.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.session.RemoveExperience(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(fiber.StatusNoContent)
}

func (h *Handler) addEducation(c router.Context) error {
	var entry cv.Education
	if err := decodeBody(c, &entry); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusCreated, h.session.AddEducation(c.Context(), entry))
}

func (h *Handler) updateEducation(c router.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var entry cv.Education
	if err := decodeBody(c, &entry); err != nil {
		return writeError(c, err)
	}
	updated, err := h.session.UpdateEducation(c.Context(), id, entry)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, updated)
}

func (h *Handler) removeEducation(c router.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.session.RemoveEducation(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(fiber.StatusNoContent)
}

func (h *Handler) addLanguage(c router.Context) error {
	var lang cv.Language
	if err := decodeBody(c, &lang); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusCreated, h.session.AddLanguage(c.Context(), lang))
}

func (h *Handler) updateLanguage(c router.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var lang cv.Language
	if err := decodeBody(c, &lang); err != nil {
		return writeError(c, err)
	}
	updated, err := h.session.UpdateLanguage(c.Context(), id, lang)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, updated)
}

func (h *Handler) removeLanguage(c router.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.session.RemoveLanguage(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(fiber.StatusNoContent)
}

func (h *Handler) setSkills(c router.Context) error {
	var skills []string
	if err := decodeBody(c, &skills); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, h.session.SetSkills(c.Context(), skills))
}

func (h *Handler) setInterests(c router.Context) error {
	var interests []string
	if err := decodeBody(c, &interests); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, h.session.SetInterests(c.Context(), interests))
}
