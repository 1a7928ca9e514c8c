package tasks

import (
	"text2phenotype.com/seqtag/redis"
)

const DocumentsDB redis.DB = 0

type DocumentTask struct {
	FailedTasks  []string            `json:"failed_tasks"`
	FailedChunks map[string][]string `json:"failed_chunks"`
}

// DocumentTaskCached is the subset of the document kept under the cached
// properties key for quick reads by workers.
type DocumentTaskCached struct {
	FailedTasks []string `json:"failed_tasks"`
	JobID       string   `json:"job_id,omitempty"`
	WorkType    string   `json:"work_type,omitempty"`
}

type DocumentTasks struct {
	client redis.Client
}

func (tasks DocumentTasks) Get(redisKey string) (*DocumentTask, error) {
	var task DocumentTask
	err := tasks.client.GetPartialDocument(redisKey, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks DocumentTasks) GetCached(redisKey string) (*DocumentTaskCached, error) {
	var task DocumentTaskCached
	err := tasks.client.GetPartialDocument(cachedPropertiesKey(redisKey), &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update changes the document and mirrors failed tasks to the cached
// properties.
func (tasks DocumentTasks) Update(redisKey string, updateFunc func(task *DocumentTask)) error {
	var task DocumentTask
	err := tasks.client.UpdatePartialDocument(redisKey, &task, func() error {
		if task.FailedChunks == nil {
			task.FailedChunks = make(map[string][]string)
		}
		updateFunc(&task)
		return nil
	})
	if err != nil {
		return err
	}
	return tasks.client.SaveDoc(cachedPropertiesKey(redisKey), &struct {
		FailedTasks []string `json:"failed_tasks"`
	}{task.FailedTasks})
}
