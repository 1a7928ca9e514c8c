package worker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"text2phenotype.com/seqtag/pipeline"
	"text2phenotype.com/seqtag/redis"
	"text2phenotype.com/seqtag/tasks"
	"text2phenotype.com/seqtag/utils"
)

var errNoPipelineResult = errors.New("pipeline channel was closed before returning anything")

type Message struct {
	WorkType string `json:"work_type"`
	RedisKey string `json:"redis_key"`
	Sender   string `json:"sender"`
	Version  string `json:"version"`
}

type Task struct {
	delivery  *amqp.Delivery
	chunkTask *tasks.ChunkTask
	message   *Message
	redisKey  string
	log       *zerolog.Logger
	// result came from the result cache
	cached bool
}

func (worker *Worker) processMessage(delivery *amqp.Delivery) {
	rejectLogger := worker.log.With().Str("message_id", delivery.MessageId).Logger()
	task, err := worker.createTask(delivery)
	if err != nil {
		worker.log.Err(err).
			Str("message_id", delivery.MessageId).
			Str("tid", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(task); err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.pingSequencer(task, *task.message); err != nil {
		task.log.Err(err).Msg("Got error while sending message to sequencer queue")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.log.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.log.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	chunkTask, err := worker.redis.getChunkTask(message.RedisKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk task for message: %w", err)
	}
	taskLogger := worker.log.With().Str("tid", message.RedisKey).Logger()
	return &Task{
		delivery:  delivery,
		chunkTask: chunkTask,
		redisKey:  message.RedisKey,
		message:   &message,
		log:       &taskLogger,
	}, nil
}

func (worker *Worker) processTask(task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(task)
	if err != nil {
		task.log.Err(err).Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.redis.onTaskStarted(task); err != nil {
		task.log.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update TaskInfo: %w", err)
	}
	if err = worker.runPipeline(task); err != nil {
		task.log.Err(err).Msg("Got error while running pipeline")
		return worker.redis.onTaskFailedWithError(task, err)
	}
	task.log.Info().Msg("Saved results, marking task as complete")
	if err = worker.redis.onTaskComplete(task); err != nil {
		task.log.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) runPipeline(task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	task.log.Info().
		Int("attempt", task.chunkTask.TaskStatuses.SeqTag.Attempts).
		Msg("Processing message from RMQ")

	data, err := worker.s3.getTextData(task)
	if err != nil {
		task.log.Err(err).Caller().Msg("Could not fetch text data from s3")
		return fmt.Errorf("failed fetch data from s3: %w", err)
	}

	cacheKey := tasks.ResultKey(data, worker.configNames, worker.modelsVersion)
	result, ok, err := worker.redis.getCachedResult(cacheKey)
	if err != nil {
		task.log.Warn().Err(err).Msg("Could not read result cache, running pipeline")
	}
	if ok {
		if result, err = withDocId(result, task.redisKey); err != nil {
			task.log.Warn().Err(err).Msg("Could not use cached result, running pipeline")
			ok = false
		} else {
			task.log.Info().Str("cache_key", cacheKey).Msg("Using cached result")
			task.cached = true
		}
	}
	if !ok {
		result, ok = <-worker.ppln(pipeline.Request{
			Tid:  task.redisKey,
			Text: string(data),
		})
		if !ok {
			task.log.Error().Msg("Pipeline channel was closed before returning anything")
			return errNoPipelineResult
		}
		if err := worker.redis.cacheResult(cacheKey, result); err != nil {
			task.log.Warn().Err(err).Msg("Could not cache result")
		}
	}

	task.log.Info().Msg("Finished pipeline, saving results to s3")
	if err = worker.s3.saveResultsFile(task, result); err != nil {
		task.log.Err(err).Msg("Got error while trying to save results")
		return err
	}
	return nil
}

// withDocId points every configuration of a cached result at docId.
func withDocId(result string, docId string) (string, error) {
	var configs map[string]json.RawMessage
	if err := json.Unmarshal([]byte(result), &configs); err != nil {
		return "", fmt.Errorf("cached result is not a JSON object: %w", err)
	}
	patch := make(map[string]map[string]string, len(configs))
	for name := range configs {
		patch[name] = map[string]string{"docId": docId}
	}
	merged, err := redis.MergeDocument([]byte(result), patch)
	if err != nil {
		return "", err
	}
	return string(merged), nil
}

func (worker *Worker) shouldPerformTask(task *Task) (bool, error) {
	taskInfo := task.chunkTask.TaskStatuses.SeqTag
	taskLogger := task.log

	if taskInfo.Status.Complete() {
		taskLogger.Info().Msg("Task is already done. (might indicate issue acking message with RMQ). Sending back to Sequencer.")
		return false, nil
	}
	taskJob, err := worker.redis.getJobTask(task)
	if err != nil {
		taskLogger.Err(err).Msg("Failed to query job task for chunk task")
		return false, err
	}
	if taskJob.UserCanceled {
		taskLogger.Info().Msg("Job was canceled, no need to perform this task. Sending back to Sequencer.")
		return false, worker.redis.onTaskCancelled(task)
	}
	if taskJob.StopDocumentsOnFailure {
		docTask, err := worker.redis.getDocTask(task)
		if err != nil {
			return false, err
		}
		if docTask == nil {
			return false, errors.New("document task not found")
		}
		if len(docTask.FailedTasks) > 0 {
			failedTask := docTask.FailedTasks[0]
			taskLogger.Info().
				Str("failed_task", failedTask).
				Msg("Task is not required because the document already failed in another worker. Sending back to Sequencer.")
			return false, worker.redis.onTaskCancelled(
				task,
				fmt.Sprintf(
					"Task was marked as \"%s\" because of the current document has failed "+
						"in the \"%s\" worker and won't be processed successfully.",
					tasks.TaskStatusCanceled,
					failedTask,
				),
			)
		}
	}
	if taskInfo.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Msg("Task has exceeded retries. Sending back to Sequencer.")
		return false, worker.redis.onTaskExceededRetries(task, worker.config.TaskMaxRetries)
	}
	return true, nil
}
