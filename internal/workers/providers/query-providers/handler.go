// internal/workers/providers/query-providers/handler.go
package queryproviders

import (
	"context"
	"encoding/json"
	"fmt"

	"claims-registry/internal/claims/directory"
	"claims-registry/internal/claims/registry"
	"claims-registry/internal/common/camunda"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	activity "claims-registry/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "query-providers"
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

// execute toggles the directory sort when a key is given, then searches and
// pages. The chart covers every match, not just the page.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.activities.ValidateInput(TaskType, input); err != nil {
		return nil, err
	}

	sess, err := h.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	dir := sess.Directory(input.ProviderType)
	if dir == nil {
		return nil, apperrors.NewInvalidJobInputError(fmt.Sprintf("unknown provider type %q", input.ProviderType))
	}

	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = h.config.DefaultPageSize
	}
	if h.config.MaxPageSize > 0 && pageSize > h.config.MaxPageSize {
		pageSize = h.config.MaxPageSize
	}

	result, err := dir.List(directory.Query{
		Text:     input.Search,
		SortKey:  input.SortKey,
		Page:     input.Page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		ProviderType: result.Type,
		Providers:    result.Page.Items,
		Page:         result.Page.Page,
		PageSize:     result.Page.PageSize,
		TotalPages:   result.Page.TotalPages,
		TotalItems:   result.Page.TotalItems,
		Sort:         result.Sort,
		Chart:        result.Chart,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
