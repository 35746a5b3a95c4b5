package scheduler

import "github.com/hibiken/asynq"

const TaskTokenPurge = "tokens:purge_expired"

const TaskStatusScan = "retreats:status_scan"

func NewTokenPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskTokenPurge, nil)
}

func NewStatusScanTask() *asynq.Task {
	return asynq.NewTask(TaskStatusScan, nil)
}
