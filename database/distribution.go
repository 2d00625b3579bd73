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
	"strings"

	"github.com/releasetrack/releasetrack/database/models"
	"gorm.io/gorm"
)

// AddDistribution records the publication of a release on an external
// platform. The platform must be a known member of the closed set, the
// release must exist, and the (platform, release, owner, package, version)
// combination must be new. Staging is only allowed on platforms that
// support it. URLs are filled from the platform templates when unset.
func (s *Store) AddDistribution(distribution *models.Distribution) error {
	cfg, ok := distribution.Platform.Config()
	if !ok {
		return fmt.Errorf(
			"%w: unknown platform %s",
			ErrConstraintViolation,
			distribution.Platform,
		)
	}
	if distribution.Staging && !cfg.SupportsStaging {
		return fmt.Errorf(
			"%w: platform %s does not support staging",
			ErrConstraintViolation,
			distribution.Platform,
		)
	}
	if distribution.APIURL == "" {
		distribution.APIURL = expandPlatformURL(cfg.APIURLTemplate, distribution)
	}
	if distribution.WebURL == "" {
		distribution.WebURL = expandPlatformURL(cfg.WebURLTemplate, distribution)
	}
	return s.transaction(func(tx *gorm.DB) error {
		var release models.Release
		if result := tx.First(&release, "name = ?", distribution.ReleaseName); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf(
					"%w: release %s",
					ErrNotFound,
					distribution.ReleaseName,
				)
			}
			return result.Error
		}
		if result := tx.Create(distribution); result.Error != nil {
			return result.Error
		}
		return nil
	})
}

// expandPlatformURL substitutes the distribution's fields into a platform
// URL template
func expandPlatformURL(template string, d *models.Distribution) string {
	replacer := strings.NewReplacer(
		"[OWNER]", d.OwnerNamespace,
		"[PACKAGE]", d.Package,
		"[VERSION]", d.Version,
	)
	return replacer.Replace(template)
}

// ListDistributionsByRelease retrieves all distribution records of a
// release ordered by platform
func (s *Store) ListDistributionsByRelease(
	releaseName string,
	txn *gorm.DB,
) ([]models.Distribution, error) {
	if txn == nil {
		txn = s.db
	}
	var ret []models.Distribution
	if result := txn.
		Where("release_name = ?", releaseName).
		Order("platform").
		Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// DeleteDistribution removes a distribution record by id
func (s *Store) DeleteDistribution(id uint) error {
	return s.transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Distribution{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: distribution %d", ErrNotFound, id)
		}
		return nil
	})
}
