package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskStatus(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusCompletedSuccess, TaskStatusCompletedFailure, TaskStatusCanceled} {
		require.True(t, s.Complete(), s)
		require.False(t, s.Submitted(), s)
	}
	for _, s := range []TaskStatus{TaskStatusSubmitted, TaskStatusStarted, TaskStatusProcessing} {
		require.False(t, s.Complete(), s)
		require.True(t, s.Submitted(), s)
	}
	require.False(t, TaskStatusFailed.Complete())
}

func TestChunkTaskReadsWorkerStatus(t *testing.T) {
	var task ChunkTask
	require.NoError(t, json.Unmarshal([]byte(`{
		"document_id": "doc",
		"job_id": "job",
		"text_file_key": "processed/doc.txt",
		"task_statuses": {
			"seqtag": {"status": "submitted", "attempts": 2},
			"other": {"status": "failed"}
		}
	}`), &task))

	require.Equal(t, "doc", task.DocID)
	require.Equal(t, "processed/doc.txt", task.TextFileKey)
	require.Equal(t, TaskStatusSubmitted, task.TaskStatuses.SeqTag.Status)
	require.Equal(t, 2, task.TaskStatuses.SeqTag.Attempts)
}

func TestResultKey(t *testing.T) {
	key := ResultKey([]byte("some text"), []string{"a", "b"}, "v1")
	require.Equal(t, key, ResultKey([]byte("some text"), []string{"a", "b"}, "v1"))
	require.Regexp(t, `^seqtag-result:[0-9a-f]{16}$`, key)

	require.NotEqual(t, key, ResultKey([]byte("some text"), []string{"ab"}, "v1"))
	require.NotEqual(t, key, ResultKey([]byte("other text"), []string{"a", "b"}, "v1"))
	require.NotEqual(t, key, ResultKey([]byte("some text"), []string{"a", "b"}, "v2"))
}
