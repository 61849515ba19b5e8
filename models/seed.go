package models

import (
	"context"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document read by the seed command.
type SeedFile struct {
	Events []EventPatch `yaml:"events"`
}

func LoadSeedFile(path string) (SeedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	return f, nil
}

type SeedResult struct {
	Created int
	Skipped int
}

// Seed inserts every event whose slug is not stored yet. Invalid entries stop
// the run; events inserted before the failure stay.
func Seed(ctx context.Context, repo EventRepository, svc *EventService, f SeedFile) (SeedResult, error) {
	var res SeedResult
	for i, p := range f.Events {
		if p.Title != nil {
			slug := Slugify(*p.Title)
			if _, err := repo.GetBySlug(ctx, slug); err == nil {
				log.Infof("seed: %q already present, skipping", slug)
				res.Skipped++
				continue
			} else if !errors.Is(err, ErrNotFound) {
				return res, err
			}
		}
		e, err := svc.Create(ctx, p)
		if err != nil {
			return res, fmt.Errorf("seed event #%d: %w", i+1, err)
		}
		log.Infof("seed: created %q", e.Slug)
		res.Created++
	}
	return res, nil
}
