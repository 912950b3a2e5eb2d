package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/quipay/keysmith/internal/errors"
)

// Stored field names of rotation metadata.
const (
	FieldLastRotated     = "last_rotated"
	FieldRotationVersion = "rotation_version"
	FieldNextRotationDue = "next_rotation_due"
)

// metadataFolder is the sub-path under the secret path that holds rotation metadata.
const metadataFolder = "metadata"

// KeyPath returns the store path of a key's material.
func KeyPath(secretPath, keyName string) string {
	return strings.Trim(secretPath, "/") + "/" + keyName
}

// MetadataPath returns the store path of a key's rotation metadata.
func MetadataPath(secretPath, keyName string) string {
	return strings.Trim(secretPath, "/") + "/" + metadataFolder + "/" + keyName
}

// DueDate returns the calendar date a key rotated at lastRotated falls due.
func DueDate(lastRotated time.Time, periodDays int) time.Time {
	return lastRotated.AddDate(0, 0, periodDays)
}

// RotationMetadata is the bookkeeping record written after every successful rotation.
// NextRotationDue is always DueDate(LastRotated, period) for the period in force at
// rotation time.
type RotationMetadata struct {
	KeyName         string    `json:"key_name"`
	LastRotated     time.Time `json:"last_rotated"`
	RotationVersion int       `json:"rotation_version"`
	NextRotationDue time.Time `json:"next_rotation_due"`
}

// NewRotationMetadata builds the metadata for a rotation performed at now that follows
// previousVersion.
func NewRotationMetadata(keyName string, previousVersion int, now time.Time, periodDays int) *RotationMetadata {
	rotatedAt := now.UTC()
	return &RotationMetadata{
		KeyName:         keyName,
		LastRotated:     rotatedAt,
		RotationVersion: previousVersion + 1,
		NextRotationDue: DueDate(rotatedAt, periodDays),
	}
}

// ToData returns the fields stored in the secret store.
func (m *RotationMetadata) ToData() map[string]any {
	return map[string]any{
		FieldLastRotated:     m.LastRotated.UTC().Format(time.RFC3339Nano),
		FieldRotationVersion: m.RotationVersion,
		FieldNextRotationDue: m.NextRotationDue.UTC().Format(time.RFC3339Nano),
	}
}

// Status converts the metadata into a RotationStatus.
func (m *RotationMetadata) Status() *RotationStatus {
	lastRotated := m.LastRotated
	nextDue := m.NextRotationDue
	return &RotationStatus{
		LastRotated:     &lastRotated,
		Version:         m.RotationVersion,
		NextRotationDue: &nextDue,
	}
}

// ParseRotationMetadata parses stored metadata fields.
func ParseRotationMetadata(keyName string, data map[string]any) (*RotationMetadata, error) {
	lastRotated, err := parseTimeField(data, FieldLastRotated)
	if err != nil {
		return nil, err
	}
	nextDue, err := parseTimeField(data, FieldNextRotationDue)
	if err != nil {
		return nil, err
	}
	version, err := parseIntField(data, FieldRotationVersion)
	if err != nil {
		return nil, err
	}
	if version < 0 {
		return nil, errors.Wrapf(ErrMalformedRotationMetadata, "%s: negative %s", keyName, FieldRotationVersion)
	}

	return &RotationMetadata{
		KeyName:         keyName,
		LastRotated:     lastRotated,
		RotationVersion: version,
		NextRotationDue: nextDue,
	}, nil
}

func parseTimeField(data map[string]any, field string) (time.Time, error) {
	raw, ok := data[field].(string)
	if !ok {
		return time.Time{}, errors.Wrapf(ErrMalformedRotationMetadata, "missing %s", field)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrMalformedRotationMetadata, "%s: %v", field, err)
	}
	return t.UTC(), nil
}

func parseIntField(data map[string]any, field string) (int, error) {
	switch v := data[field].(type) {
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, errors.Wrapf(ErrMalformedRotationMetadata, "%s: %v", field, err)
		}
		return int(i), nil
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.Wrapf(ErrMalformedRotationMetadata, "%s: %v", field, err)
		}
		return i, nil
	case nil:
		return 0, errors.Wrapf(ErrMalformedRotationMetadata, "missing %s", field)
	default:
		return 0, errors.Wrapf(ErrMalformedRotationMetadata, "%s: unexpected type %T", field, v)
	}
}
