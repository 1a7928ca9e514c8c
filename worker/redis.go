package worker

import (
	"fmt"

	"text2phenotype.com/seqtag/tasks"
)

type redisTransactions interface {
	getChunkTask(redisKey string) (*tasks.ChunkTask, error)
	getJobTask(task *Task) (*tasks.JobTask, error)
	getDocTask(task *Task) (*tasks.DocumentTaskCached, error)
	getCachedResult(key string) (string, bool, error)
	cacheResult(key string, result string) error
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Chunks.Update(task.redisKey, func(chunkTask *tasks.ChunkTask) {
		info := &chunkTask.TaskStatuses.SeqTag
		info.Status = tasks.TaskStatusStarted
		info.Attempts++
		info.StartedAt = getFormattedNow()
		info.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	return wrapper.tasksClient.Chunks.Update(task.redisKey, func(chunkTask *tasks.ChunkTask) {
		info := &chunkTask.TaskStatuses.SeqTag
		info.Status = tasks.TaskStatusCanceled
		info.StartedAt = getFormattedNow()
		info.CompletedAt = getFormattedNow()
		info.Attempts++
		info.ErrorMessages = append(info.ErrorMessages, errorMessages...)
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	err := wrapper.tasksClient.Documents.Update(task.chunkTask.DocID, func(docTask *tasks.DocumentTask) {
		docTask.FailedTasks = append(docTask.FailedTasks, tasks.WorkerName)
		docTask.FailedChunks[task.redisKey] = append(docTask.FailedChunks[task.redisKey], tasks.WorkerName)
	})
	if err != nil {
		return err
	}
	return wrapper.tasksClient.Chunks.Update(task.redisKey, func(chunkTask *tasks.ChunkTask) {
		info := &chunkTask.TaskStatuses.SeqTag
		info.Status = tasks.TaskStatusCompletedFailure
		info.StartedAt = getFormattedNow()
		info.CompletedAt = getFormattedNow()
		info.Attempts++
		info.ErrorMessages = append(
			info.ErrorMessages,
			fmt.Sprintf("Task has exceeded retries. (Attempts: %d, max retries: %d )", info.Attempts, maxRetries),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Chunks.Update(task.redisKey, func(chunkTask *tasks.ChunkTask) {
		info := &chunkTask.TaskStatuses.SeqTag
		info.Status = tasks.TaskStatusFailed
		info.CompletedAt = getFormattedNow()
		info.ErrorMessages = append(info.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Chunks.Update(task.redisKey, func(chunkTask *tasks.ChunkTask) {
		info := &chunkTask.TaskStatuses.SeqTag
		if !info.Status.Complete() {
			info.Status = tasks.TaskStatusCompletedSuccess
		}
		info.CompletedAt = getFormattedNow()
		info.ResultsFileKey = getResultsFileKey(task)
		info.Cached = task.cached
	})
}

func (wrapper *redisClientWrapper) getChunkTask(redisKey string) (*tasks.ChunkTask, error) {
	return wrapper.tasksClient.Chunks.Get(redisKey)
}

func (wrapper *redisClientWrapper) getJobTask(task *Task) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.GetCached(task.chunkTask.JobID)
}

func (wrapper *redisClientWrapper) getDocTask(task *Task) (*tasks.DocumentTaskCached, error) {
	return wrapper.tasksClient.Documents.GetCached(task.chunkTask.DocID)
}

func (wrapper *redisClientWrapper) getCachedResult(key string) (string, bool, error) {
	return wrapper.tasksClient.Results.Get(key)
}

func (wrapper *redisClientWrapper) cacheResult(key string, result string) error {
	return wrapper.tasksClient.Results.Put(key, result)
}
