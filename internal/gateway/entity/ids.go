package entity

import "strings"

// UserID identifies the author of a publish request.
type UserID string

// OrganizationID scopes configurations, targets and distributions.
type OrganizationID string

// TargetID identifies a deployment destination.
type TargetID string

// RepositoryID identifies a git repository known to the gateway.
type RepositoryID string

// ArtifactID is stable across all versions of one recipe or standard.
type ArtifactID string

// VersionID identifies one concrete artifact version.
type VersionID string

// DistributionID identifies one audit record.
type DistributionID string

func NormalizeUserID(raw string) UserID { return UserID(strings.TrimSpace(raw)) }

func (id UserID) String() string { return strings.TrimSpace(string(id)) }
func (id UserID) IsZero() bool   { return id.String() == "" }

func (id OrganizationID) String() string { return strings.TrimSpace(string(id)) }
func (id OrganizationID) IsZero() bool   { return id.String() == "" }

func (id TargetID) String() string { return strings.TrimSpace(string(id)) }
func (id TargetID) IsZero() bool   { return id.String() == "" }

func (id RepositoryID) String() string { return strings.TrimSpace(string(id)) }
func (id RepositoryID) IsZero() bool   { return id.String() == "" }

func (id ArtifactID) String() string { return strings.TrimSpace(string(id)) }

func (id VersionID) String() string { return strings.TrimSpace(string(id)) }
func (id VersionID) IsZero() bool   { return id.String() == "" }

func (id DistributionID) String() string { return strings.TrimSpace(string(id)) }
