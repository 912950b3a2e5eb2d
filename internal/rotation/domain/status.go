package domain

import (
	"time"

	"github.com/google/uuid"
)

// RotationStatus is the rotation state of a single key. A never rotated key has
// nil timestamps and version 0.
type RotationStatus struct {
	LastRotated     *time.Time `json:"last_rotated,omitempty"`
	Version         int        `json:"version"`
	NextRotationDue *time.Time `json:"next_rotation_due,omitempty"`
}

// NeverRotated reports whether no rotation has been recorded for the key.
func (s *RotationStatus) NeverRotated() bool {
	return s == nil || s.LastRotated == nil
}

// SchedulerStatus describes the rotation scheduler.
type SchedulerStatus struct {
	IsRunning           bool      `json:"is_running"`
	Config              JobConfig `json:"config"`
	KeysNeedingRotation []string  `json:"keys_needing_rotation"`
}

// Rotation triggers.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// RotationEvent is emitted to notifiers after a key was rotated. It never carries
// key material.
type RotationEvent struct {
	ID              uuid.UUID `json:"id"`
	KeyName         string    `json:"key_name"`
	Version         int       `json:"version"`
	RotatedAt       time.Time `json:"rotated_at"`
	NextRotationDue time.Time `json:"next_rotation_due"`
	Trigger         string    `json:"trigger"`
}

// NewRotationEvent builds the event for a completed rotation.
func NewRotationEvent(metadata *RotationMetadata, trigger string) RotationEvent {
	return RotationEvent{
		ID:              uuid.Must(uuid.NewV7()),
		KeyName:         metadata.KeyName,
		Version:         metadata.RotationVersion,
		RotatedAt:       metadata.LastRotated,
		NextRotationDue: metadata.NextRotationDue,
		Trigger:         trigger,
	}
}
