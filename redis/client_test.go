package redis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type status struct {
	Status   string   `json:"status"`
	Attempts int      `json:"attempts"`
	Errors   []string `json:"error_messages,omitempty"`
}

type partialTask struct {
	DocID    string            `json:"document_id"`
	Statuses map[string]status `json:"task_statuses"`
}

func TestMergeDocumentKeepsForeignFields(t *testing.T) {
	raw := []byte(`{
		"document_id": "doc",
		"owner": "someone",
		"task_statuses": {
			"ocr": {"status": "completed - success"},
			"seqtag": {"status": "submitted", "attempts": 0, "queue": "q"}
		}
	}`)

	var task struct {
		DocID    string `json:"document_id"`
		Statuses struct {
			SeqTag status `json:"seqtag"`
		} `json:"task_statuses"`
	}
	require.NoError(t, json.Unmarshal(raw, &task))
	require.Equal(t, "submitted", task.Statuses.SeqTag.Status)

	task.Statuses.SeqTag.Status = "started"
	task.Statuses.SeqTag.Attempts++

	merged, err := MergeDocument(raw, &task)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(merged, &got))
	require.Equal(t, "someone", got["owner"])

	statuses := got["task_statuses"].(map[string]interface{})
	require.Equal(t, map[string]interface{}{"status": "completed - success"}, statuses["ocr"])
	require.Equal(t, map[string]interface{}{
		"status":   "started",
		"attempts": float64(1),
		"queue":    "q",
	}, statuses["seqtag"])
}

func TestMergeDocumentIntoEmpty(t *testing.T) {
	merged, err := MergeDocument([]byte("{}"), &partialTask{
		DocID:    "doc",
		Statuses: map[string]status{"seqtag": {Status: "failed", Errors: []string{"boom"}}},
	})
	require.NoError(t, err)
	require.JSONEq(t, `{
		"document_id": "doc",
		"task_statuses": {"seqtag": {"status": "failed", "attempts": 0, "error_messages": ["boom"]}}
	}`, string(merged))
}
