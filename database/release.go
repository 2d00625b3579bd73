// Copyright 2025 The releasetrack authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"errors"
	"fmt"

	"github.com/releasetrack/releasetrack/database/models"
	"github.com/releasetrack/releasetrack/database/types"
	"gorm.io/gorm"
)

// CreateRelease adds a new release for an existing project. The release
// name is derived from the project name and version; a caller-supplied name
// must match the derivation. Phase defaults to the start of the lifecycle
// and created defaults to now when unset.
func (s *Store) CreateRelease(release *models.Release) error {
	derived := models.ReleaseName(release.ProjectName, release.Version)
	if release.Name == "" {
		release.Name = derived
	} else if release.Name != derived {
		return fmt.Errorf(
			"%w: %s does not match %s",
			ErrReleaseNameMismatch,
			release.Name,
			derived,
		)
	}
	if release.Phase == "" {
		release.Phase = models.ReleasePhaseCandidateDraft
	}
	if !release.Phase.Valid() {
		return fmt.Errorf(
			"%w: unknown phase %s",
			ErrInvalidPhaseTransition,
			release.Phase,
		)
	}
	if release.Created.IsZero() {
		release.Created = types.Now()
	}
	return s.transaction(func(tx *gorm.DB) error {
		var project models.Project
		if result := tx.First(&project, "name = ?", release.ProjectName); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf(
					"%w: project %s",
					ErrNotFound,
					release.ProjectName,
				)
			}
			return result.Error
		}
		if result := tx.Create(release); result.Error != nil {
			return result.Error
		}
		return nil
	})
}

// GetRelease retrieves a release by name. Returns nil when not found
func (s *Store) GetRelease(
	name string,
	txn *gorm.DB,
) (*models.Release, error) {
	if txn == nil {
		txn = s.db
	}
	ret := &models.Release{}
	if result := txn.First(ret, "name = ?", name); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// ListReleasesByProject retrieves all releases of a project, newest first
func (s *Store) ListReleasesByProject(
	projectName string,
	txn *gorm.DB,
) ([]models.Release, error) {
	if txn == nil {
		txn = s.db
	}
	var ret []models.Release
	if result := txn.
		Where("project_name = ?", projectName).
		Order("created DESC").
		Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// ListReleasesByPhase retrieves all releases currently in the given phase
func (s *Store) ListReleasesByPhase(
	phase models.ReleasePhase,
	txn *gorm.DB,
) ([]models.Release, error) {
	if txn == nil {
		txn = s.db
	}
	var ret []models.Release
	if result := txn.
		Where("phase = ?", phase).
		Order("name").
		Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// AdvancePhase moves a release one step forward in its lifecycle. The
// target phase must be exactly the successor of the current phase; entering
// the final phase stamps the released time.
func (s *Store) AdvancePhase(
	name string,
	next models.ReleasePhase,
) error {
	var oldPhase models.ReleasePhase
	err := s.transaction(func(tx *gorm.DB) error {
		var release models.Release
		if result := tx.First(&release, "name = ?", name); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: release %s", ErrNotFound, name)
			}
			return result.Error
		}
		if !release.Phase.CanTransitionTo(next) {
			return fmt.Errorf(
				"%w: %s -> %s",
				ErrInvalidPhaseTransition,
				release.Phase,
				next,
			)
		}
		oldPhase = release.Phase
		updates := map[string]any{
			"phase": next,
		}
		if next == models.ReleasePhaseRelease {
			updates["released"] = types.Now()
		}
		result := tx.Model(&models.Release{}).
			Where("name = ?", name).
			Updates(updates)
		return result.Error
	})
	if err != nil {
		return err
	}
	s.metrics.phaseTransitions.WithLabelValues(string(next)).Inc()
	s.publishEvent(
		ReleasePhaseChangedEventType,
		ReleasePhaseChangedEvent{
			ReleaseName: name,
			OldPhase:    oldPhase,
			NewPhase:    next,
		},
	)
	return nil
}

// SetVoteStarted stamps the vote start time on a release
func (s *Store) SetVoteStarted(name string) error {
	return s.stampReleaseTime(name, "vote_started")
}

// SetVoteResolved stamps the vote resolution time on a release
func (s *Store) SetVoteResolved(name string) error {
	return s.stampReleaseTime(name, "vote_resolved")
}

func (s *Store) stampReleaseTime(name string, column string) error {
	return s.transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Release{}).
			Where("name = ?", name).
			Update(column, types.Now())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: release %s", ErrNotFound, name)
		}
		return nil
	})
}

// LatestRevision retrieves the current revision of a release, i.e. the one
// with the highest sequence number. Returns nil when the release has no
// revisions yet.
func (s *Store) LatestRevision(
	releaseName string,
	txn *gorm.DB,
) (*models.Revision, error) {
	if txn == nil {
		txn = s.db
	}
	ret := &models.Revision{}
	if result := txn.
		Where("release_name = ?", releaseName).
		Order("seq DESC").
		First(ret); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// LatestRevisionNumber retrieves the display number of the current revision
// of a release. Returns the empty string when the release has no revisions.
func (s *Store) LatestRevisionNumber(
	releaseName string,
	txn *gorm.DB,
) (string, error) {
	revision, err := s.LatestRevision(releaseName, txn)
	if err != nil {
		return "", err
	}
	if revision == nil {
		return "", nil
	}
	return revision.Number, nil
}
