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

// Package results defines the task result payload shapes and the codec
// that serializes them at the store boundary. The encoding is JSON, and
// the shape is discriminated by the owning task's type rather than by an
// embedded tag, mirroring the task table layout where task_type is a
// separate column.
package results

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/releasetrack/releasetrack/database/models"
)

// ErrUnknownResultShape is returned when no payload shape is registered
// for a task type
var ErrUnknownResultShape = errors.New("unknown result shape")

// ErrResultShapeMismatch is returned when a result payload does not carry
// the shape registered for the owning task's type
var ErrResultShapeMismatch = errors.New("result shape mismatch")

// Result is a structured task result payload
type Result interface {
	TaskType() models.TaskType
}

// registry maps each task type to a factory for its payload shape. The
// set is closed: decoding an unregistered type fails rather than guessing.
var registry = map[models.TaskType]func() Result{
	models.TaskTypeArchiveIntegrity:      func() Result { return &ArchiveIntegrity{} },
	models.TaskTypeArchiveStructure:      func() Result { return &ArchiveStructure{} },
	models.TaskTypeHashingCheck:          func() Result { return &HashingCheck{} },
	models.TaskTypeLicenseFiles:          func() Result { return &LicenseFiles{} },
	models.TaskTypeLicenseHeaders:        func() Result { return &LicenseHeaders{} },
	models.TaskTypePathsCheck:            func() Result { return &PathsCheck{} },
	models.TaskTypeSignatureCheck:        func() Result { return &SignatureCheck{} },
	models.TaskTypeSbomGenerateCycloneDX: func() Result { return &SbomGenerateCycloneDX{} },
	models.TaskTypeVoteInitiate:          func() Result { return &VoteInitiate{} },
	models.TaskTypeMessageSend:           func() Result { return &MessageSend{} },
}

// Registered returns true if the task type has a known payload shape
func Registered(taskType models.TaskType) bool {
	_, ok := registry[taskType]
	return ok
}

// Encode serializes a result payload for storage. The payload's own task
// type must match the discriminator the row will carry.
func Encode(taskType models.TaskType, result Result) (string, error) {
	if !Registered(taskType) {
		return "", fmt.Errorf("%w: %s", ErrUnknownResultShape, taskType)
	}
	if result.TaskType() != taskType {
		return "", fmt.Errorf(
			"%w: payload is for task type %s, expected %s",
			ErrResultShapeMismatch,
			result.TaskType(),
			taskType,
		)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(data), nil
}

// Decode deserializes a stored payload into the shape registered for the
// task type
func Decode(taskType models.TaskType, raw string) (Result, error) {
	factory, ok := registry[taskType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResultShape, taskType)
	}
	result := factory()
	if err := json.Unmarshal([]byte(raw), result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}

// ArchiveIntegrity reports whether an archive could be read end to end
type ArchiveIntegrity struct {
	TotalFiles int   `json:"total_files"`
	TotalBytes int64 `json:"total_bytes"`
}

func (*ArchiveIntegrity) TaskType() models.TaskType {
	return models.TaskTypeArchiveIntegrity
}

// ArchiveStructure reports whether an archive has the expected root layout
type ArchiveStructure struct {
	RootDir  string `json:"root_dir"`
	Expected string `json:"expected"`
	Valid    bool   `json:"valid"`
}

func (*ArchiveStructure) TaskType() models.TaskType {
	return models.TaskTypeArchiveStructure
}

// HashingCheck reports recorded vs computed digests for release files
type HashingCheck struct {
	Checked  int      `json:"checked"`
	Missing  []string `json:"missing,omitempty"`
	Mismatch []string `json:"mismatch,omitempty"`
}

func (*HashingCheck) TaskType() models.TaskType {
	return models.TaskTypeHashingCheck
}

// LicenseFiles reports presence of top-level license and notice files
type LicenseFiles struct {
	LicenseFound bool `json:"license_found"`
	NoticeFound  bool `json:"notice_found"`
}

func (*LicenseFiles) TaskType() models.TaskType {
	return models.TaskTypeLicenseFiles
}

// LicenseHeaders reports source files missing license headers
type LicenseHeaders struct {
	FilesChecked int      `json:"files_checked"`
	FilesMissing []string `json:"files_missing,omitempty"`
}

func (*LicenseHeaders) TaskType() models.TaskType {
	return models.TaskTypeLicenseHeaders
}

// PathsCheck reports release paths that violate naming conventions
type PathsCheck struct {
	PathsChecked int      `json:"paths_checked"`
	BadPaths     []string `json:"bad_paths,omitempty"`
}

func (*PathsCheck) TaskType() models.TaskType {
	return models.TaskTypePathsCheck
}

// SignatureCheck reports the outcome of verifying a detached signature
type SignatureCheck struct {
	File        string `json:"file"`
	Fingerprint string `json:"fingerprint"`
	Verified    bool   `json:"verified"`
}

func (*SignatureCheck) TaskType() models.TaskType {
	return models.TaskTypeSignatureCheck
}

// SbomGenerateCycloneDX reports a generated CycloneDX SBOM document
type SbomGenerateCycloneDX struct {
	OutputPath  string `json:"output_path"`
	Components  int    `json:"components"`
	SpecVersion string `json:"spec_version"`
}

func (*SbomGenerateCycloneDX) TaskType() models.TaskType {
	return models.TaskTypeSbomGenerateCycloneDX
}

// VoteInitiate reports the vote thread started for a release candidate
type VoteInitiate struct {
	Mid      string `json:"mid"`
	MailList string `json:"mail_list"`
	EndDate  string `json:"end_date"`
}

func (*VoteInitiate) TaskType() models.TaskType {
	return models.TaskTypeVoteInitiate
}

// MessageSend reports a delivered notification message
type MessageSend struct {
	Mid       string `json:"mid"`
	Recipient string `json:"recipient"`
}

func (*MessageSend) TaskType() models.TaskType {
	return models.TaskTypeMessageSend
}
