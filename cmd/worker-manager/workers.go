// cmd/worker-manager/workers.go
package main

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"provider-ranking-workers/internal/cache"
	"provider-ranking-workers/internal/common/camunda"
	"provider-ranking-workers/internal/common/config"
	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/repository"

	// Provider scoring workers (4)
	cf "provider-ranking-workers/internal/workers/provider/classify-freshness"
	ppf "provider-ranking-workers/internal/workers/provider/parse-provider-filters"
	rp "provider-ranking-workers/internal/workers/provider/rank-providers"
	sp "provider-ranking-workers/internal/workers/provider/score-provider"

	// Insights & analytics workers (4)
	au "provider-ranking-workers/internal/workers/analytics/analyze-utilization"
	cda "provider-ranking-workers/internal/workers/analytics/compute-dashboard-analytics"
	gpi "provider-ranking-workers/internal/workers/insights/generate-provider-insights"
	stn "provider-ranking-workers/internal/workers/insights/summarize-trip-notes"

	// Data access workers (2)
	qe "provider-ranking-workers/internal/workers/data-access/query-elasticsearch"
	qp "provider-ranking-workers/internal/workers/data-access/query-postgresql"
)

// registerWorkers opens a job worker for every enabled task type.
func registerWorkers(cfg *config.Config, infra *infrastructure, zeebe *camunda.Client, rt *camunda.Runtime, log logger.Logger) []worker.JobWorker {
	engine := cfg.ScoringEngine()
	repo := repository.NewProviderRepository(infra.pg.DB)
	scoreCache := cache.NewScoreCache(
		infra.redis.Client,
		time.Duration(cfg.Cache.TTL)*time.Second,
		cfg.Cache.KeyPrefix,
		log,
	)

	wc := func(taskType string) config.WorkerConfig { return config.GetWorkerConfig(cfg, taskType) }

	handlers := map[string]camunda.JobHandler{
		sp.TaskType:  sp.NewHandler(sp.NewConfig(wc(sp.TaskType)), engine, scoreCache, rt, log),
		rp.TaskType:  rp.NewHandler(rp.NewConfig(wc(rp.TaskType)), engine, repo, rt, log),
		ppf.TaskType: ppf.NewHandler(ppf.NewConfig(wc(ppf.TaskType)), rt, log),
		cf.TaskType:  cf.NewHandler(cf.NewConfig(wc(cf.TaskType)), rt, log),

		stn.TaskType: stn.NewHandler(stn.NewConfig(wc(stn.TaskType)), repo, rt, log),
		gpi.TaskType: gpi.NewHandler(gpi.NewConfig(wc(gpi.TaskType)), engine, rt, log),
		cda.TaskType: cda.NewHandler(cda.NewConfig(wc(cda.TaskType)), engine, rt, log),
		au.TaskType:  au.NewHandler(au.NewConfig(wc(au.TaskType)), repo, rt, log),

		qp.TaskType: qp.NewHandler(qp.NewConfig(wc(qp.TaskType)), repo, rt, log),
		qe.TaskType: qe.NewHandler(qe.NewConfig(wc(qe.TaskType), cfg.Search), infra.es, rt, log),
	}

	jobWorkers := make([]worker.JobWorker, 0, len(handlers))
	for taskType, handler := range handlers {
		if !config.IsWorkerEnabled(cfg, taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			continue
		}
		jobWorkers = append(jobWorkers, zeebe.StartWorker(taskType, wc(taskType), handler, log))
	}
	return jobWorkers
}
