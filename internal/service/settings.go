package service

import (
	"regexp"

	"github.com/templui/corpsite/internal/formdata"
	"github.com/templui/corpsite/internal/model"
	"github.com/templui/corpsite/internal/repository"
	"github.com/templui/corpsite/internal/upload"
	"github.com/templui/corpsite/internal/validation"
)

var settingKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// reservedSettingKeys are never stored from request fields.
var reservedSettingKeys = map[string]bool{
	"token":           true,
	model.SettingLogo: true,
	"logo_url":        true,
}

type SettingsService struct {
	repo  repository.SettingRepository
	media *MediaService
}

func NewSettingsService(repo repository.SettingRepository, media *MediaService) *SettingsService {
	return &SettingsService{repo: repo, media: media}
}

// All returns every setting plus logo_url when a logo is stored.
func (s *SettingsService) All() (map[string]string, error) {
	settings, err := s.repo.All()
	if err != nil {
		return nil, err
	}
	if logo := settings[model.SettingLogo]; logo != "" {
		settings["logo_url"] = s.media.URL(logo)
	}
	return settings, nil
}

// Update upserts values and, when logo is set, replaces the stored logo.
func (s *SettingsService) Update(values map[string]string, logo *formdata.File) (map[string]string, error) {
	current, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	upserts := make(map[string]string, len(values)+1)
	for k, v := range values {
		if reservedSettingKeys[k] {
			continue
		}
		if !settingKeyPattern.MatchString(k) {
			return nil, validation.Invalid(k, "invalid setting key %q", k)
		}
		err = validation.MaxLength(k, v, 5000)
		if err != nil {
			return nil, err
		}
		upserts[k] = v
	}

	previous := current[model.SettingLogo]
	var stored string
	if logo != nil {
		stored, err = s.media.Store("logo", logo, upload.DirSettings)
		if err != nil {
			return nil, err
		}
		upserts[model.SettingLogo] = stored
	}

	err = s.repo.Upsert(upserts)
	if err != nil {
		s.media.Discard(stored)
		return nil, err
	}
	if stored != "" {
		s.media.Discard(previous)
	}
	return s.All()
}
