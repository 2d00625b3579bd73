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
	"strings"

	"github.com/releasetrack/releasetrack/database/results"
	"github.com/releasetrack/releasetrack/database/types"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// ErrConstraintViolation is returned when a write fails a uniqueness or
// check constraint. The operation has no effect.
var ErrConstraintViolation = errors.New("constraint violation")

// ErrAllocationConflict is returned when revision sequence allocation
// still conflicts after retrying the whole transaction
var ErrAllocationConflict = errors.New("revision allocation conflict")

// ErrInvalidTransition is returned on an illegal task status change
var ErrInvalidTransition = errors.New("invalid task status transition")

// ErrInvalidPhaseTransition is returned on an illegal release phase change
var ErrInvalidPhaseTransition = errors.New("invalid release phase transition")

// ErrReleaseImmutable is returned when a revision is created on a release
// that has reached its terminal phase
var ErrReleaseImmutable = errors.New("release is immutable after publication")

// ErrReleaseNameMismatch is returned when an explicit release name does
// not match the name derived from project and version
var ErrReleaseNameMismatch = errors.New("release name mismatch")

// ErrCommitteeCycle is returned when setting a committee parent would
// create a cycle in the hierarchy
var ErrCommitteeCycle = errors.New("committee parent cycle")

// ErrCommitteeInUse is returned when deleting a committee that still has
// projects
var ErrCommitteeInUse = errors.New("committee has projects")

// Type adapter errors, re-exported so callers can match the whole
// taxonomy against a single package
var (
	ErrInvalidTimestamp    = types.ErrInvalidTimestamp
	ErrUnknownResultShape  = results.ErrUnknownResultShape
	ErrResultShapeMismatch = results.ErrResultShapeMismatch
)

// mapWriteError converts driver-level constraint failures to the exported
// taxonomy. The sqlite driver reports both unique and check violations as
// constraint errors in the message text; gorm additionally translates
// duplicate keys when it can.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return errors.Join(ErrConstraintViolation, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "CHECK constraint failed") ||
		strings.Contains(msg, "constraint failed") {
		return errors.Join(ErrConstraintViolation, err)
	}
	return err
}

// isConstraintViolation reports whether err is a uniqueness or check
// constraint failure, before or after mapping
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(mapWriteError(err), ErrConstraintViolation)
}
