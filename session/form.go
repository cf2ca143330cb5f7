package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/notify"
)

// PersonalPatch updates the personal block. Nil fields are left unchanged.
type PersonalPatch struct {
	FullName   *string `json:"fullName,omitempty"`
	Profession *string `json:"profession,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Location   *string `json:"location,omitempty"`
	Summary    *string `json:"summary,omitempty"`
	LinkedIn   *string `json:"linkedin,omitempty"`
	GitHub     *string `json:"github,omitempty"`
	Portfolio  *string `json:"portfolio,omitempty"`
}

func (p PersonalPatch) apply(dst *cv.Personal) {
	set := func(field *string, value *string) {
		if value != nil {
			*field = *value
		}
	}
	set(&dst.FullName, p.FullName)
	set(&dst.Profession, p.Profession)
	set(&dst.Email, p.Email)
	set(&dst.Phone, p.Phone)
	set(&dst.Location, p.Location)
	set(&dst.Summary, p.Summary)
	set(&dst.LinkedIn, p.LinkedIn)
	set(&dst.GitHub, p.GitHub)
	set(&dst.Portfolio, p.Portfolio)
}

// Replace swaps the whole record, as a form submit does.
func (s *Session) Replace(ctx context.Context, record cv.Record) cv.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(record)
	s.changed(ctx)
	return cv.Clone(s.record)
}

// UpdatePersonal applies patch to the personal block.
func (s *Session) UpdatePersonal(ctx context.Context, patch PersonalPatch) cv.Personal {
	s.mu.Lock()
	defer s.mu.Unlock()
	patch.apply(&s.record.Personal)
	s.changed(ctx)
	return s.record.Personal
}

// SetPhoto stores an uploaded image as a data URI.
func (s *Session) SetPhoto(ctx context.Context, data []byte, contentType string) error {
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	if !strings.HasPrefix(contentType, "image/") {
		s.notify(ctx, notify.LevelError, "Veuillez sélectionner une image")
		return cv.NewError(cv.KindValidation, "photo must be an image", nil)
	}
	if int64(len(data)) > s.cfg.MaxPhotoBytes {
		s.notify(ctx, notify.LevelError, "L'image est trop volumineuse (max 2MB)")
		return cv.NewError(cv.KindValidation, fmt.Sprintf("photo exceeds %d bytes", s.cfg.MaxPhotoBytes), nil)
	}
	if len(data) == 0 {
		s.notify(ctx, notify.LevelError, "Erreur lors du chargement de la photo")
		return cv.NewError(cv.KindValidation, "photo is empty", nil)
	}

	uri := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	s.mu.Lock()
	s.record.Personal.Photo = uri
	s.changed(ctx)
	s.mu.Unlock()
	s.notify(ctx, notify.LevelSuccess, "Photo ajoutée avec succès")
	return nil
}

// RemovePhoto clears the photo.
func (s *Session) RemovePhoto(ctx context.Context) {
	s.mu.Lock()
	s.record.Personal.Photo = ""
	s.changed(ctx)
	s.mu.Unlock()
	s.notify(ctx, notify.LevelInfo, "Photo supprimée")
}

// AddExperience appends an entry with a fresh id.
func (s *Session) AddExperience(ctx context.Context, entry cv.Experience) cv.Experience {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.experience.Next()
	s.record.Experiences = append(s.record.Experiences, entry)
	s.changed(ctx)
	return entry
}

// UpdateExperience replaces the entry with id, keeping its position.
func (s *Session) UpdateExperience(ctx context.Context, id int64, entry cv.Experience) (cv.Experience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.record.Experiences {
		if s.record.Experiences[i].ID == id {
			entry.ID = id
			s.record.Experiences[i] = entry
			s.changed(ctx)
			return entry, nil
		}
	}
	return cv.Experience{}, notFound("experience", id)
}

// RemoveExperience deletes the entry with id.
func (s *Session) RemoveExperience(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.record.Experiences {
		if s.record.Experiences[i].ID == id {
			s.record.Experiences = append(s.record.Experiences[:i], s.record.Experiences[i+1:]...)
			s.changed(ctx)
			return nil
		}
	}
	return notFound("experience", id)
}

// AddEducation appends an entry with a fresh id.
func (s *Session) AddEducation(ctx context.Context, entry cv.Education) cv.Education {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.education.Next()
	s.record.Educations = append(s.record.Educations, entry)
	s.changed(ctx)
	return entry
}

// UpdateEducation replaces the entry with id, keeping its position.
func (s *Session) UpdateEducation(ctx context.Context, id int64, entry cv.Education) (cv.Education, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.record.Educations {
		if s.record.Educations[i].ID == id {
			entry.ID = id
			s.record.Educations[i] = entry
			s.changed(ctx)
			return entry, nil
		}
	}
	return cv.Education{}, notFound("education", id)
}

// RemoveEducation deletes the entry with id.
func (s *Session) RemoveEducation(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.record.Educations {
		if s.record.Educations[i].ID == id {
			s.record.Educations = append(s.record.Educations[:i], s.record.Educations[i+1:]...)
			s.changed(ctx)
			return nil
		}
	}
	return notFound("education", id)
}

// AddLanguage appends a language with a fresh id. The level is normalized.
func (s *Session) AddLanguage(ctx context.Context, lang cv.Language) cv.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	lang.ID = s.language.Next()
	lang.Level = cv.NormalizeLevel(lang.Level)
	s.record.Languages = append(s.record.Languages, lang)
	s.changed(ctx)
	return lang
}

// UpdateLanguage replaces the language with id.
func (s *Session) UpdateLanguage(ctx context.Context, id int64, lang cv.Language) (cv.Language, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.record.Languages {
		if s.record.Languages[i].ID == id {
			lang.ID = id
			lang.Level = cv.NormalizeLevel(lang.Level)
			s.record.Languages[i] = lang
			s.changed(ctx)
			return lang, nil
		}
	}
	return cv.Language{}, notFound("language", id)
}

// RemoveLanguage deletes the language with id.
func (s *Session) RemoveLanguage(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.record.Languages {
		if s.record.Languages[i].ID == id {
			s.record.Languages = append(s.record.Languages[:i], s.record.Languages[i+1:]...)
			s.changed(ctx)
			return nil
		}
	}
	return notFound("language", id)
}

// SetSkills replaces the skill list. Blank entries are dropped.
func (s *Session) SetSkills(ctx context.Context, skills []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Skills = compact(skills)
	s.changed(ctx)
	return append([]string{}, s.record.Skills...)
}

// SetInterests replaces the interest list. Blank entries are dropped.
func (s *Session) SetInterests(ctx context.Context, interests []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Interests = compact(interests)
	s.changed(ctx)
	return append([]string{}, s.record.Interests...)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func notFound(list string, id int64) error {
	return cv.NewError(cv.KindNotFound, fmt.Sprintf("%s %d not found", list, id), nil)
}
