package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskInterventionSubmitted = "rehoming.intervention.submitted"

const TaskInterventionProceeded = "rehoming.intervention.proceeded"

type InterventionSubmittedPayload struct {
	InterventionID string `json:"interventionId"`
	SubjectID      string `json:"subjectId"`
	OwnerID        string `json:"ownerId"`
	OwnerEmail     string `json:"ownerEmail"`
	Status         string `json:"status"`
	CoolingUntil   string `json:"coolingUntil,omitempty"`
}

type InterventionProceededPayload struct {
	InterventionID string `json:"interventionId"`
	OwnerID        string `json:"ownerId"`
	OwnerEmail     string `json:"ownerEmail"`
}

func NewInterventionSubmittedTask(payload InterventionSubmittedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInterventionSubmitted, data), nil
}

func ParseInterventionSubmittedPayload(task *asynq.Task) (InterventionSubmittedPayload, error) {
	var payload InterventionSubmittedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return InterventionSubmittedPayload{}, err
	}
	return payload, nil
}

func NewInterventionProceededTask(payload InterventionProceededPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInterventionProceeded, data), nil
}

func ParseInterventionProceededPayload(task *asynq.Task) (InterventionProceededPayload, error) {
	var payload InterventionProceededPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return InterventionProceededPayload{}, err
	}
	return payload, nil
}
