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
	"fmt"

	"github.com/releasetrack/releasetrack/database/models"
)

// Documented defaults for overridable release policy fields. A policy
// field left at its zero value resolves to its default here; templates
// use the substitution placeholders understood by the release workflow.
const (
	DefaultStartVoteTemplate = `Hello [COMMITTEE],

I'd like to call a vote on releasing the following artifacts as
[PROJECT] [VERSION].

The release candidate can be reviewed at:

  [REVIEW_URL]

The vote will remain open for at least [DURATION] hours.

[RELEASE_CHECKLIST]

Please vote:

  [ ] +1 Release these artifacts
  [ ] +0 Abstain
  [ ] -1 Do not release (please explain why)

Thanks,
[YOUR_FULL_NAME] ([YOUR_USER_ID])
`

	DefaultAnnounceReleaseTemplate = `The [COMMITTEE] is pleased to announce the release of
[PROJECT] [VERSION].

Downloads are available at:

  [DOWNLOAD_URL]

Thanks,
[YOUR_FULL_NAME] ([YOUR_USER_ID])
`

	DefaultReleaseChecklist = ""
	DefaultMinVoteHours     = 0
)

// resolvePolicyField is the single fallback rule for every overridable
// policy field: an unset (zero value) field resolves to its documented
// default. Implemented once so per-field accessors cannot drift.
func resolvePolicyField[T comparable](
	policy *models.ReleasePolicy,
	get func(*models.ReleasePolicy) T,
	defaultValue T,
) T {
	if policy == nil {
		return defaultValue
	}
	var zero T
	if value := get(policy); value != zero {
		return value
	}
	return defaultValue
}

// projectPolicy loads the policy attached to a project, or nil when the
// project has none
func (s *Store) projectPolicy(projectName string) (*models.ReleasePolicy, error) {
	project, err := s.GetProject(projectName, nil)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectName)
	}
	return project.ReleasePolicy, nil
}

// PolicyStartVoteTemplate returns the effective vote announcement template
// for a project
func (s *Store) PolicyStartVoteTemplate(projectName string) (string, error) {
	policy, err := s.projectPolicy(projectName)
	if err != nil {
		return "", err
	}
	return resolvePolicyField(
		policy,
		func(p *models.ReleasePolicy) string { return p.StartVoteTemplate },
		DefaultStartVoteTemplate,
	), nil
}

// PolicyAnnounceReleaseTemplate returns the effective release announcement
// template for a project
func (s *Store) PolicyAnnounceReleaseTemplate(projectName string) (string, error) {
	policy, err := s.projectPolicy(projectName)
	if err != nil {
		return "", err
	}
	return resolvePolicyField(
		policy,
		func(p *models.ReleasePolicy) string { return p.AnnounceReleaseTemplate },
		DefaultAnnounceReleaseTemplate,
	), nil
}

// PolicyReleaseChecklist returns the effective release checklist text for
// a project
func (s *Store) PolicyReleaseChecklist(projectName string) (string, error) {
	policy, err := s.projectPolicy(projectName)
	if err != nil {
		return "", err
	}
	return resolvePolicyField(
		policy,
		func(p *models.ReleasePolicy) string { return p.ReleaseChecklist },
		DefaultReleaseChecklist,
	), nil
}

// PolicyMinHours returns the effective minimum vote duration in hours for
// a project
func (s *Store) PolicyMinHours(projectName string) (int, error) {
	policy, err := s.projectPolicy(projectName)
	if err != nil {
		return 0, err
	}
	return resolvePolicyField(
		policy,
		func(p *models.ReleasePolicy) int { return p.MinHours },
		DefaultMinVoteHours,
	), nil
}

// PolicyManualVote returns whether vote resolution is manual for a project
func (s *Store) PolicyManualVote(projectName string) (bool, error) {
	policy, err := s.projectPolicy(projectName)
	if err != nil {
		return false, err
	}
	return resolvePolicyField(
		policy,
		func(p *models.ReleasePolicy) bool { return p.ManualVote },
		false,
	), nil
}

// PolicyPauseForRM returns whether the workflow pauses for the release
// manager for a project
func (s *Store) PolicyPauseForRM(projectName string) (bool, error) {
	policy, err := s.projectPolicy(projectName)
	if err != nil {
		return false, err
	}
	return resolvePolicyField(
		policy,
		func(p *models.ReleasePolicy) bool { return p.PauseForRM },
		false,
	), nil
}

// PolicyMailtoAddresses returns the effective vote notification addresses
// for a project. String lists resolve through the same unset-means-default
// rule; the documented default is an empty list.
func (s *Store) PolicyMailtoAddresses(projectName string) ([]string, error) {
	policy, err := s.projectPolicy(projectName)
	if err != nil {
		return nil, err
	}
	if policy == nil || len(policy.MailtoAddresses) == 0 {
		return []string{}, nil
	}
	return policy.MailtoAddresses, nil
}
