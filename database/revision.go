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
	"strconv"

	"github.com/releasetrack/releasetrack/database/models"
	"github.com/releasetrack/releasetrack/database/types"
	"gorm.io/gorm"
)

// CreateRevision appends the next revision to a release. The sequence
// number is allocated as max(seq)+1 inside the insert transaction, so the
// per-release sequence is contiguous from 1 with no gaps and no reuse. The
// unique (release, number) constraint backstops the allocation: on a
// conflict the whole transaction retries once before giving up.
func (s *Store) CreateRevision(
	releaseName string,
	createdBy string,
	description string,
) (*models.Revision, error) {
	var revision *models.Revision
	allocate := func() error {
		return s.transaction(func(tx *gorm.DB) error {
			var release models.Release
			if result := tx.First(&release, "name = ?", releaseName); result.Error != nil {
				if errors.Is(result.Error, gorm.ErrRecordNotFound) {
					return fmt.Errorf(
						"%w: release %s",
						ErrNotFound,
						releaseName,
					)
				}
				return result.Error
			}
			if release.Phase.Terminal() {
				return fmt.Errorf(
					"%w: release %s is in phase %s",
					ErrReleaseImmutable,
					releaseName,
					release.Phase,
				)
			}
			var maxSeq int
			if result := tx.Model(&models.Revision{}).
				Where("release_name = ?", releaseName).
				Select("COALESCE(MAX(seq), 0)").
				Scan(&maxSeq); result.Error != nil {
				return result.Error
			}
			next := maxSeq + 1
			revision = &models.Revision{
				ReleaseName: releaseName,
				Seq:         next,
				Number:      strconv.Itoa(next),
				Created:     types.Now(),
				CreatedBy:   createdBy,
				Description: description,
				Phase:       release.Phase,
			}
			if result := tx.Create(revision); result.Error != nil {
				return result.Error
			}
			return nil
		})
	}
	err := allocate()
	if isConstraintViolation(err) {
		// The write lock at BEGIN normally serializes allocations, so a
		// conflict here means two connections raced past it
		s.metrics.allocationConflicts.Inc()
		s.logger.Warn(
			"revision allocation conflict, retrying",
			"release", releaseName,
		)
		err = allocate()
		if isConstraintViolation(err) {
			return nil, fmt.Errorf(
				"%w: release %s",
				ErrAllocationConflict,
				releaseName,
			)
		}
	}
	if err != nil {
		return nil, err
	}
	s.metrics.revisionsAllocated.Inc()
	s.publishEvent(
		RevisionCreatedEventType,
		RevisionCreatedEvent{
			ReleaseName: revision.ReleaseName,
			Seq:         revision.Seq,
			Number:      revision.Number,
		},
	)
	return revision, nil
}

// GetRevision retrieves a revision by release name and display number.
// Returns nil when not found
func (s *Store) GetRevision(
	releaseName string,
	number string,
	txn *gorm.DB,
) (*models.Revision, error) {
	if txn == nil {
		txn = s.db
	}
	ret := &models.Revision{}
	if result := txn.First(
		ret,
		"release_name = ? AND number = ?",
		releaseName,
		number,
	); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// ListRevisions retrieves all revisions of a release in sequence order
func (s *Store) ListRevisions(
	releaseName string,
	txn *gorm.DB,
) ([]models.Revision, error) {
	if txn == nil {
		txn = s.db
	}
	var ret []models.Revision
	if result := txn.
		Where("release_name = ?", releaseName).
		Order("seq").
		Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
