/*
 * Backup metadata and summaries.
 *
 * Copyright 2026, The Flashcore Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package writeops

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// BackupKind distinguishes a full backup from an incremental one.
type BackupKind string

const (
	BackupFull        BackupKind = "full"
	BackupIncremental BackupKind = "incremental"
)

// BackupMetadata describes one backup: spec.md's "Backup metadata"
// data-model type.
type BackupMetadata struct {
	ID            string
	ChipID        string
	Kind          BackupKind
	ParentID      string // empty for a full backup
	ChangedBlocks []int  // nil for a full backup
	CreatedAt     time.Time
	SizeBytes     int64
}

// NewBackupID builds the "<chip>_<unix_timestamp>" id spec.md
// specifies.
func NewBackupID(chipID string, at time.Time) string {
	return fmt.Sprintf("%s_%d", chipID, at.Unix())
}

// NewFullBackup describes a full backup of chipID taken at at,
// covering sizeBytes bytes.
func NewFullBackup(chipID string, at time.Time, sizeBytes int64) BackupMetadata {
	return BackupMetadata{
		ID:        NewBackupID(chipID, at),
		ChipID:    chipID,
		Kind:      BackupFull,
		CreatedAt: at,
		SizeBytes: sizeBytes,
	}
}

// NewIncrementalBackup describes an incremental backup chained to
// parent, covering only changedBlocks.
func NewIncrementalBackup(chipID string, at time.Time, parent BackupMetadata, changedBlocks []int, sizeBytes int64) BackupMetadata {
	return BackupMetadata{
		ID:            NewBackupID(chipID, at),
		ChipID:        chipID,
		Kind:          BackupIncremental,
		ParentID:      parent.ID,
		ChangedBlocks: changedBlocks,
		CreatedAt:     at,
		SizeBytes:     sizeBytes,
	}
}

// Summary renders a one-line human-readable description of the
// backup, using humanize for the byte count and relative age.
func (b BackupMetadata) Summary() string {
	switch b.Kind {
	case BackupIncremental:
		return fmt.Sprintf("%s: incremental of %s, %d blocks changed, %s, %s",
			b.ID, b.ParentID, len(b.ChangedBlocks), humanize.Bytes(uint64(b.SizeBytes)), humanize.Time(b.CreatedAt))
	default:
		return fmt.Sprintf("%s: full backup, %s, %s",
			b.ID, humanize.Bytes(uint64(b.SizeBytes)), humanize.Time(b.CreatedAt))
	}
}
