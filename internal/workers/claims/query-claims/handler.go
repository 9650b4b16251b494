// internal/workers/claims/query-claims/handler.go
package queryclaims

import (
	"context"
	"encoding/json"

	"claims-registry/internal/claims/registry"
	"claims-registry/internal/common/camunda"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	activity "claims-registry/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "query-claims"
)

type Handler struct {
	config       *Config
	sessions     *registry.Manager
	activities   *activity.ActivityRegistry
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, sessions *registry.Manager, activities *activity.ActivityRegistry, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		sessions:     sessions,
		activities:   activities,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		err = apperrors.NewInvalidJobInputError(err.Error())
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.activities.ValidateInput(TaskType, input); err != nil {
		return nil, err
	}

	if size := input.Query.PageSize; size != nil && h.config.MaxPageSize > 0 && *size > h.config.MaxPageSize {
		capped := h.config.MaxPageSize
		input.Query.PageSize = &capped
	}

	sess, err := h.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if _, err := sess.Claims.SetQuery(input.Query); err != nil {
		return nil, err
	}
	if input.SortKey != "" {
		if _, err := sess.Claims.RequestSort(input.SortKey); err != nil {
			return nil, err
		}
	}

	view, err := sess.Claims.View(ctx)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("claims page rendered", map[string]interface{}{
		"sessionId":     input.SessionID,
		"page":          view.Page,
		"filteredCount": view.FilteredCount,
	})
	return &Output{View: view}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
