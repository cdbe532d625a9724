// cmd/provider-cli/index.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"provider-ranking-workers/internal/common/config"
	"provider-ranking-workers/internal/common/database"
	"provider-ranking-workers/internal/dataset"
	"provider-ranking-workers/internal/workers/data-access/query-elasticsearch/queries"
)

type indexOptions struct {
	url      string
	index    string
	rate     float64
	recreate bool
	workers  int
}

type indexStats struct {
	Index   string `json:"index"`
	Created bool   `json:"created"`
	Indexed uint64 `json:"indexed"`
	Failed  uint64 `json:"failed"`
	Took    string `json:"took"`
}

func newIndexCmd(a *app) *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index <dataset>...",
		Short: "Load enriched providers into Elasticsearch",
		Long: `Score every provider in the datasets and bulk index them into the
provider search index used by the elasticsearch query worker. The index is
created with the provider mapping when it does not exist.`,
		Example: `  provider-cli index data/**/*.yaml --es-url http://localhost:9200 --rate 500`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			providers, err := dataset.Load(args...)
			if err != nil {
				return err
			}

			esCfg := a.cfg.Database.Elasticsearch
			if opts.url != "" {
				esCfg = config.ElasticsearchConfig{URL: opts.url, Username: esCfg.Username, Password: esCfg.Password}
			}
			if opts.index == "" {
				opts.index = a.cfg.Search.ProviderIndex
			}

			es, err := database.NewElasticsearch(esCfg)
			if err != nil {
				return err
			}

			docs := make([][]byte, 0, len(providers))
			ids := make([]string, 0, len(providers))
			for _, p := range a.engine.EnrichAll(providers) {
				body, err := json.Marshal(p)
				if err != nil {
					return fmt.Errorf("encode provider %s: %w", p.ID, err)
				}
				docs = append(docs, body)
				ids = append(ids, p.ID)
			}

			stats, err := indexProviders(cmd.Context(), a, es, opts, ids, docs)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), keyValues(
				"Index", stats.Index,
				"Created", fmt.Sprintf("%t", stats.Created),
				"Indexed", fmt.Sprintf("%d", stats.Indexed),
				"Failed", fmt.Sprintf("%d", stats.Failed),
				"Took", stats.Took,
			))
			return err
		},
	}

	cmd.Flags().StringVar(&opts.url, "es-url", "", "Elasticsearch URL (default: database.elasticsearch from config)")
	cmd.Flags().StringVar(&opts.index, "index", "", "Target index (default: search.provider_index from config)")
	cmd.Flags().Float64Var(&opts.rate, "rate", 0, "Maximum documents per second (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.recreate, "recreate", false, "Drop and recreate the index first")
	cmd.Flags().IntVar(&opts.workers, "workers", 2, "Concurrent bulk workers")
	return cmd
}

func indexProviders(ctx context.Context, a *app, es *database.ElasticsearchClient, opts indexOptions, ids []string, docs [][]byte) (indexStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	stats := indexStats{Index: opts.index}

	created, err := ensureIndex(ctx, es, opts.index, opts.recreate)
	if err != nil {
		return stats, err
	}
	stats.Created = created

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     es.Client,
		Index:      opts.index,
		NumWorkers: opts.workers,
		FlushBytes: 1 << 20,
		OnError: func(ctx context.Context, err error) {
			a.log.Error("bulk request failed", map[string]interface{}{"error": err.Error()})
		},
	})
	if err != nil {
		return stats, fmt.Errorf("create bulk indexer: %w", err)
	}

	limit := rate.Inf
	if opts.rate > 0 {
		limit = rate.Limit(opts.rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	var failed atomic.Uint64
	for i, body := range docs {
		if err := limiter.Wait(ctx); err != nil {
			_ = bi.Close(ctx)
			return stats, err
		}
		err := bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: ids[i],
			Body:       bytes.NewReader(body),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				fields := map[string]interface{}{"providerId": item.DocumentID, "status": res.Status}
				if err != nil {
					fields["error"] = err.Error()
				} else {
					fields["error"] = res.Error.Reason
				}
				a.log.Warn("provider not indexed", fields)
			},
		})
		if err != nil {
			_ = bi.Close(ctx)
			return stats, fmt.Errorf("queue provider %s: %w", ids[i], err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return stats, fmt.Errorf("flush bulk indexer: %w", err)
	}

	bs := bi.Stats()
	stats.Indexed = bs.NumFlushed
	stats.Failed = bs.NumFailed
	if f := failed.Load(); f > stats.Failed {
		stats.Failed = f
	}
	stats.Took = time.Since(started).Round(time.Millisecond).String()

	a.log.Info("providers indexed", map[string]interface{}{
		"index":   stats.Index,
		"indexed": stats.Indexed,
		"failed":  stats.Failed,
	})
	if stats.Failed > 0 {
		return stats, fmt.Errorf("%d of %d providers failed to index", stats.Failed, len(docs))
	}
	return stats, nil
}

// ensureIndex creates the provider index when missing. It reports whether
// the index was created by this call.
func ensureIndex(ctx context.Context, es *database.ElasticsearchClient, index string, recreate bool) (bool, error) {
	exists, err := es.IndexExists(ctx, index)
	if err != nil {
		return false, err
	}

	if exists && recreate {
		res, err := es.Client.Indices.Delete([]string{index}, es.Client.Indices.Delete.WithContext(ctx))
		if err != nil {
			return false, fmt.Errorf("delete index %s: %w", index, err)
		}
		res.Body.Close()
		if res.IsError() {
			return false, fmt.Errorf("delete index %s: %s", index, res.Status())
		}
		exists = false
	}
	if exists {
		return false, nil
	}

	res, err := es.Client.Indices.Create(index,
		es.Client.Indices.Create.WithContext(ctx),
		es.Client.Indices.Create.WithBody(strings.NewReader(queries.ProviderIndexMapping)),
	)
	if err != nil {
		return false, fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return false, fmt.Errorf("create index %s: %s", index, res.Status())
	}
	return true, nil
}
