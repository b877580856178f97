package domain

import "time"

// RecordState is the lifecycle state of a record at its source.
type RecordState string

// Record states.
const (
	// RecordStatePending means the source has not finished the record
	// (e.g. a consultation that has not been answered yet).
	RecordStatePending RecordState = "pending"

	// RecordStateComplete is terminal. Once stored as complete a record
	// is never fetched again.
	RecordStateComplete RecordState = "complete"
)

// IsTerminal reports whether no further transitions are expected.
func (s RecordState) IsTerminal() bool {
	return s == RecordStateComplete
}

// IsValid returns true if the state is recognised.
func (s RecordState) IsValid() bool {
	return s == RecordStatePending || s == RecordStateComplete
}

// String returns the string representation.
func (s RecordState) String() string {
	return string(s)
}

// ListRecord is one row discovered on a source's list page.
type ListRecord struct {
	// Key is the stable identifier of the record within its source.
	Key string

	// Title is the display title.
	Title string

	// Link is the detail URL.
	Link string

	// Date is the source's date column, kept verbatim.
	Date string

	// RefNo is an optional reference number column.
	RefNo string

	// State is the source's lifecycle state for the record.
	State RecordState
}

// failedQuestion marks a detail that could not be fetched.
const failedQuestion = "[ERROR]"

// DetailFields holds the fields fetched from a record's detail page.
type DetailFields struct {
	Question string
	Answer   string
}

// FailedDetail returns the sentinel stored when a detail fetch fails.
func FailedDetail(err error) DetailFields {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return DetailFields{Question: failedQuestion, Answer: msg}
}

// IsFailed reports whether d is the failed-detail sentinel.
func (d DetailFields) IsFailed() bool {
	return d.Question == failedQuestion
}

// StoredRecord is the durable form of a record.
// There is exactly one StoredRecord per (SourceID, Key).
type StoredRecord struct {
	SourceID string
	Key      string
	Title    string
	Question string
	Answer   string
	Link     string
	RefNo    string
	State    RecordState
	Date     string

	// Indexed is false until the current version has been appended
	// to the source's vector collection.
	Indexed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail returns the record's detail fields.
func (r *StoredRecord) Detail() DetailFields {
	return DetailFields{Question: r.Question, Answer: r.Answer}
}

// NewStoredRecord builds a record from a list row and its detail.
func NewStoredRecord(sourceID string, rec ListRecord, detail DetailFields, now time.Time) StoredRecord {
	return StoredRecord{
		SourceID:  sourceID,
		Key:       rec.Key,
		Title:     rec.Title,
		Question:  detail.Question,
		Answer:    detail.Answer,
		Link:      rec.Link,
		RefNo:     rec.RefNo,
		State:     rec.State,
		Date:      rec.Date,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SyncOptions bounds a single ingestion run.
type SyncOptions struct {
	// MaxPages caps the number of list pages scanned. Zero means unbounded.
	MaxPages int

	// StopAfterComplete stops the scan after this many consecutive records
	// that are complete both at the source and in the store. Zero disables it.
	StopAfterComplete int
}

// SyncResult summarises an ingestion run.
type SyncResult struct {
	SourceID       string
	NewCount       int
	UpdatedCount   int
	SkippedCount   int
	DetailFailures int
	PagesScanned   int
	Indexed        int
	StoppedEarly   bool
}

// Committed returns the number of records written during the run.
func (r *SyncResult) Committed() int {
	return r.NewCount + r.UpdatedCount
}
