// internal/common/camunda/job.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"provider-ranking-workers/internal/common/errors"
	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/common/metrics"
	"provider-ranking-workers/internal/common/observability"
	"provider-ranking-workers/internal/common/validation"
)

const commandTimeout = 10 * time.Second

// Runtime holds the cross-cutting collaborators of a job: input schema
// validation and tracing. A nil Runtime skips both.
type Runtime struct {
	Validator     *validation.Validator
	Observability *observability.Observability
}

// Decode validates the job variables against the task type's registered
// schema and unmarshals them into out.
func (rt *Runtime) Decode(taskType string, job entities.Job, out interface{}) error {
	raw := []byte(job.Variables)
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	if rt != nil && rt.Validator != nil {
		result, err := rt.Validator.Validate(taskType, raw)
		if err != nil {
			return errors.NewInputValidationFailedError(taskType, err.Error())
		}
		if !result.Valid {
			return errors.NewInputValidationFailedError(taskType, strings.Join(result.GetErrorMessages(), "; "))
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewInputValidationFailedError(taskType, fmt.Sprintf("parse input: %v", err))
	}
	return nil
}

// StartSpan opens a span for one job.
func (rt *Runtime) StartSpan(ctx context.Context, taskType string, job entities.Job) (context.Context, trace.Span) {
	var obs *observability.Observability
	if rt != nil {
		obs = rt.Observability
	}
	return obs.StartSpan(ctx, taskType,
		attribute.Int64("jobKey", job.Key),
		attribute.Int64("processInstanceKey", job.ProcessInstanceKey),
	)
}

// Complete sends the job's output variables and records the outcome.
func (rt *Runtime) Complete(ctx context.Context, client worker.JobClient, job entities.Job, taskType string, started time.Time, output interface{}, log logger.Logger) {
	ctx, cancel := sendContext(ctx)
	defer cancel()

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		rt.Fail(ctx, client, job, taskType, started, errors.NewInternalError(err), log)
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	metrics.ObserveJob(taskType, started, "")
	rt.record(ctx, taskType, started, "completed")
	log.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"durationMs": time.Since(started).Milliseconds(),
	})
}

// Fail hands err to the shared error handler, which either fails the job with
// retries or throws the mapped BPMN error.
func (rt *Runtime) Fail(ctx context.Context, client worker.JobClient, job entities.Job, taskType string, started time.Time, err error, log logger.Logger) {
	ctx, cancel := sendContext(ctx)
	defer cancel()

	stdErr := errors.Normalize(err)
	metrics.ObserveJob(taskType, started, string(stdErr.Code))
	rt.record(ctx, taskType, started, "failed")

	errors.NewErrorHandler(log).HandleJobError(ctx, client, job, stdErr)
}

// sendContext keeps the job's trace values but drops the execution deadline,
// which may already have fired when the job is reported.
func sendContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), commandTimeout)
}

func (rt *Runtime) record(ctx context.Context, taskType string, started time.Time, status string) {
	if rt == nil {
		return
	}
	rt.Observability.RecordJobProcessed(ctx, taskType, status)
	rt.Observability.RecordJobDuration(ctx, taskType, time.Since(started), status)
}
