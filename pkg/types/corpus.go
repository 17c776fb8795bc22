// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the insight-engine pipeline:
// corpus records, selection and fusion outputs, evaluation results, and the
// request/result pair exchanged with generator backends.
package types

// RecordType identifies which axis a corpus record was curated for.
type RecordType string

const (
	// RecordFocus marks records keyed by the focus axis.
	RecordFocus RecordType = "focus-origin"

	// RecordRealm marks records keyed by the realm axis.
	RecordRealm RecordType = "realm-origin"
)

// RecordTypes lists every record type in load order.
var RecordTypes = []RecordType{RecordFocus, RecordRealm}

// ContentRecord is a single curated text unit. Records are created once at
// corpus load time and never mutated afterwards.
type ContentRecord struct {
	// Persona is the voice profile this record was written for.
	Persona string `json:"persona" yaml:"persona" db:"persona"`

	// AxisValue is the integer key on the record's axis.
	AxisValue int `json:"axis_value" yaml:"axis_value" db:"axis_value"`

	// RecordType is the axis the record belongs to.
	RecordType RecordType `json:"record_type" yaml:"record_type" db:"record_type"`

	// Text is the curated passage; the selector splits it into sentences.
	Text string `json:"text" yaml:"text" db:"text"`

	// Category is a free-form tag (e.g. "relationships", "career").
	Category string `json:"category" yaml:"category" db:"category"`

	// SupportTags lists themes the record reinforces.
	SupportTags []string `json:"support_tags,omitempty" yaml:"support_tags,omitempty" db:"-"`

	// ChallengeTags lists themes the record cautions against.
	ChallengeTags []string `json:"challenge_tags,omitempty" yaml:"challenge_tags,omitempty" db:"-"`

	// SourceID identifies the curated source. Ingest derives a stable value
	// from the record content when the file leaves it empty.
	SourceID string `json:"source_id" yaml:"source_id" db:"source_id"`
}

// CorpusFile is the on-disk grouping of records for one persona and record
// type, as read by corpus ingestion.
type CorpusFile struct {
	Persona    string          `json:"persona" yaml:"persona"`
	RecordType RecordType      `json:"record_type" yaml:"record_type"`
	Records    []ContentRecord `json:"records" yaml:"records"`
}
