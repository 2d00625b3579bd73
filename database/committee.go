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

// CreateCommittee adds a new committee. A parent, when given, must already
// exist and must not create a cycle (trivially true at creation time since
// the new committee has no children yet).
func (s *Store) CreateCommittee(committee *models.Committee) error {
	return s.transaction(func(tx *gorm.DB) error {
		if committee.ParentCommitteeName != nil {
			var parent models.Committee
			if result := tx.First(&parent, "name = ?", *committee.ParentCommitteeName); result.Error != nil {
				if errors.Is(result.Error, gorm.ErrRecordNotFound) {
					return fmt.Errorf(
						"%w: parent committee %s",
						ErrNotFound,
						*committee.ParentCommitteeName,
					)
				}
				return result.Error
			}
		}
		if result := tx.Create(committee); result.Error != nil {
			return result.Error
		}
		return nil
	})
}

// GetCommittee retrieves a committee by name. Returns nil when not found
func (s *Store) GetCommittee(
	name string,
	txn *gorm.DB,
) (*models.Committee, error) {
	if txn == nil {
		txn = s.db
	}
	ret := &models.Committee{}
	if result := txn.First(ret, "name = ?", name); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// ListCommittees retrieves all committees ordered by name
func (s *Store) ListCommittees(txn *gorm.DB) ([]models.Committee, error) {
	if txn == nil {
		txn = s.db
	}
	var ret []models.Committee
	if result := txn.Order("name").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// UpdateCommitteeMembership replaces the member, committer, and release
// manager lists of a committee
func (s *Store) UpdateCommitteeMembership(
	name string,
	members []string,
	committers []string,
	releaseManagers []string,
) error {
	return s.transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Committee{}).
			Where("name = ?", name).
			Updates(map[string]any{
				"committee_members": types.StringList(members),
				"committers":        types.StringList(committers),
				"release_managers":  types.StringList(releaseManagers),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: committee %s", ErrNotFound, name)
		}
		return nil
	})
}

// SetCommitteeParent sets or clears the parent of a committee. Walks the
// proposed ancestor chain inside the transaction to reject cycles.
func (s *Store) SetCommitteeParent(name string, parentName *string) error {
	return s.transaction(func(tx *gorm.DB) error {
		var committee models.Committee
		if result := tx.First(&committee, "name = ?", name); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: committee %s", ErrNotFound, name)
			}
			return result.Error
		}
		if parentName != nil {
			ancestor := *parentName
			for {
				if ancestor == name {
					return fmt.Errorf(
						"%w: %s cannot be an ancestor of itself",
						ErrCommitteeCycle,
						name,
					)
				}
				var parent models.Committee
				if result := tx.First(&parent, "name = ?", ancestor); result.Error != nil {
					if errors.Is(result.Error, gorm.ErrRecordNotFound) {
						return fmt.Errorf(
							"%w: parent committee %s",
							ErrNotFound,
							ancestor,
						)
					}
					return result.Error
				}
				if parent.ParentCommitteeName == nil {
					break
				}
				ancestor = *parent.ParentCommitteeName
			}
		}
		result := tx.Model(&models.Committee{}).
			Where("name = ?", name).
			Update("parent_committee_name", parentName)
		return result.Error
	})
}

// DeleteCommittee removes a committee that no projects reference
func (s *Store) DeleteCommittee(name string) error {
	return s.transaction(func(tx *gorm.DB) error {
		var projectCount int64
		if result := tx.Model(&models.Project{}).
			Where("committee_name = ?", name).
			Count(&projectCount); result.Error != nil {
			return result.Error
		}
		if projectCount > 0 {
			return fmt.Errorf(
				"%w: %s has %d projects",
				ErrCommitteeInUse,
				name,
				projectCount,
			)
		}
		result := tx.Delete(&models.Committee{}, "name = ?", name)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: committee %s", ErrNotFound, name)
		}
		return nil
	})
}
