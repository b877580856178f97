package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

func testRecords() []domain.StoredRecord {
	return []domain.StoredRecord{
		{
			SourceID: "moel_iqrs",
			Key:      "101",
			Title:    "연차휴가 미사용 수당",
			Question: "퇴직 시 미사용 연차는?",
			Answer:   "수당으로 지급해야 합니다.",
			Link:     "https://example.com/101",
			RefNo:    "근로기준정책과-1234",
			State:    domain.RecordStateComplete,
			Date:     "2024-05-01",
			Indexed:  true,
		},
		{
			SourceID: "moel_iqrs",
			Key:      "102",
			Title:    "휴게시간 부여",
			Question: "[ERROR]",
			State:    domain.RecordStatePending,
			Date:     "2024-05-02",
		},
	}
}

func TestRecordsList(t *testing.T) {
	svc := &mockRecordService{records: testRecords()}

	out, err := execute(t, &Services{Records: svc}, "", "records", "list", "moel_iqrs", "-n", "2")

	require.NoError(t, err)
	assert.Equal(t, 2, svc.limit)
	assert.Contains(t, out, "Records for moel_iqrs (showing 2 of 2):")
	assert.Contains(t, out, "연차휴가 미사용 수당")
	assert.Contains(t, out, "휴게시간 부여 [not indexed] [detail failed]")
}

func TestRecordsList_DefaultLimit(t *testing.T) {
	svc := &mockRecordService{records: testRecords()}

	_, err := execute(t, &Services{Records: svc}, "", "records", "list", "moel_iqrs")

	require.NoError(t, err)
	assert.Equal(t, 20, svc.limit)
}

func TestRecordsList_Empty(t *testing.T) {
	out, err := execute(t, &Services{Records: &mockRecordService{}}, "", "records", "list", "moel_iqrs")

	require.NoError(t, err)
	assert.Contains(t, out, "No records stored for moel_iqrs.")
}

func TestRecordsList_NotConfigured(t *testing.T) {
	_, err := execute(t, nil, "", "records", "list", "moel_iqrs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "record service not configured")
}

func TestRecordsGet(t *testing.T) {
	svc := &mockRecordService{records: testRecords()}

	out, err := execute(t, &Services{Records: svc}, "", "records", "get", "moel_iqrs", "101")

	require.NoError(t, err)
	assert.Contains(t, out, "Title: 연차휴가 미사용 수당")
	assert.Contains(t, out, "Ref no: 근로기준정책과-1234")
	assert.Contains(t, out, "Indexed: true")
	assert.Contains(t, out, "Q:\n퇴직 시 미사용 연차는?")
	assert.Contains(t, out, "A:\n수당으로 지급해야 합니다.")
}

func TestRecordsGet_NotFound(t *testing.T) {
	svc := &mockRecordService{records: testRecords()}

	_, err := execute(t, &Services{Records: svc}, "", "records", "get", "moel_iqrs", "999")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
