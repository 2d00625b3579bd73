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

// CreateProject adds a new project under an existing committee
func (s *Store) CreateProject(project *models.Project) error {
	return s.transaction(func(tx *gorm.DB) error {
		var committee models.Committee
		if result := tx.First(&committee, "name = ?", project.CommitteeName); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf(
					"%w: committee %s",
					ErrNotFound,
					project.CommitteeName,
				)
			}
			return result.Error
		}
		if project.Created.IsZero() {
			project.Created = types.Now()
		}
		if result := tx.Create(project); result.Error != nil {
			return result.Error
		}
		return nil
	})
}

// GetProject retrieves a project by name, with its release policy loaded.
// Returns nil when not found
func (s *Store) GetProject(
	name string,
	txn *gorm.DB,
) (*models.Project, error) {
	if txn == nil {
		txn = s.db
	}
	ret := &models.Project{}
	if result := txn.Preload("ReleasePolicy").
		First(ret, "name = ?", name); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// ListProjectsByCommittee retrieves the projects belonging to a committee
func (s *Store) ListProjectsByCommittee(
	committeeName string,
	txn *gorm.DB,
) ([]models.Project, error) {
	if txn == nil {
		txn = s.db
	}
	var ret []models.Project
	if result := txn.Where("committee_name = ?", committeeName).
		Order("name").
		Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// UpdateProject updates the descriptive fields of a project
func (s *Store) UpdateProject(
	name string,
	description string,
	category string,
	programmingLanguages []string,
) error {
	return s.transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Project{}).
			Where("name = ?", name).
			Updates(map[string]any{
				"description":           description,
				"category":              category,
				"programming_languages": types.StringList(programmingLanguages),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: project %s", ErrNotFound, name)
		}
		return nil
	})
}

// SetProjectPolicy creates or replaces the release policy of a project.
// Replacing updates the existing policy row in place so the 1:1 link is
// preserved.
func (s *Store) SetProjectPolicy(
	projectName string,
	policy *models.ReleasePolicy,
) error {
	return s.transaction(func(tx *gorm.DB) error {
		var project models.Project
		if result := tx.First(&project, "name = ?", projectName); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: project %s", ErrNotFound, projectName)
			}
			return result.Error
		}
		if project.ReleasePolicyID != nil {
			policy.ID = *project.ReleasePolicyID
			if result := tx.Save(policy); result.Error != nil {
				return result.Error
			}
			return nil
		}
		if result := tx.Create(policy); result.Error != nil {
			return result.Error
		}
		result := tx.Model(&models.Project{}).
			Where("name = ?", projectName).
			Update("release_policy_id", policy.ID)
		return result.Error
	})
}
