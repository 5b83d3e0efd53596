// cmd/tools/vehicle-indexer/main.go
//
// vehicle-indexer loads a vehicle catalog JSON file, embeds each vehicle's
// search text, and (re)builds the Elasticsearch vector index the
// search-vehicles worker queries.
//
// Usage:
//
//	vehicle-indexer -catalog configs/vehicle-catalog.json [-index vehicles] [-recreate]
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"autotrader-workers/internal/common/config"
	"autotrader-workers/internal/common/database"
	"autotrader-workers/internal/common/genai"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/models"
)

const indexMappingTemplate = `{
  "mappings": {
    "properties": {
      "embedding":          {"type": "dense_vector", "dims": %d, "index": true, "similarity": "cosine"},
      "year":               {"type": "integer"},
      "make":               {"type": "keyword"},
      "model":              {"type": "keyword"},
      "trim":               {"type": "keyword"},
      "color":              {"type": "keyword"},
      "state":              {"type": "keyword"},
      "zip":                {"type": "keyword"},
      "bodyType":           {"type": "keyword"},
      "engineType":         {"type": "keyword"},
      "useCase":            {"type": "keyword"},
      "drivingEnvironment": {"type": "keyword"},
      "condition":          {"type": "keyword"},
      "ecoFriendly":        {"type": "boolean"},
      "price":              {"type": "double"},
      "monthlyPayment":     {"type": "double"},
      "brandPriority":      {"type": "double"},
      "marginUsd":          {"type": "double"},
      "inventoryDays":      {"type": "double"},
      "description":        {"type": "text"}
    }
  }
}`

// catalogEntry is one vehicle as it appears in the catalog file: the payload
// fields plus an optional id. Missing ids get generated.
type catalogEntry struct {
	ID string `json:"id,omitempty"`
	models.CandidatePayload
}

func main() {
	catalogPath := flag.String("catalog", "configs/vehicle-catalog.json", "Path to the vehicle catalog JSON file")
	indexName := flag.String("index", "", "Target index name (defaults to search.vehicle_index from config)")
	recreate := flag.Bool("recreate", false, "Delete and recreate the index before loading")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	index := *indexName
	if index == "" {
		index = cfg.Search.VehicleIndex
	}

	raw, err := os.ReadFile(*catalogPath)
	if err != nil {
		zapLog.Fatal("catalog read failed", zap.Error(err))
	}
	var entries []catalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		zapLog.Fatal("catalog parse failed", zap.Error(err))
	}
	zapLog.Info("catalog loaded",
		zap.String("path", *catalogPath),
		zap.Int("vehicles", len(entries)),
	)

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch init failed", zap.Error(err))
	}
	embedder := genai.NewClient(cfg.APIs.GenAI, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *recreate {
		if err := deleteIndex(ctx, esClient, index); err != nil {
			zapLog.Warn("index delete failed", zap.Error(err))
		}
	}

	mapping := fmt.Sprintf(indexMappingTemplate, cfg.APIs.GenAI.EmbeddingDimensions)
	if err := esClient.CreateIndex(ctx, index, mapping); err != nil {
		zapLog.Fatal("index create failed", zap.Error(err))
	}

	var buf bytes.Buffer
	indexed := 0
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		applySignalDefaults(&entry.CandidatePayload)

		vector, err := embedder.Embed(ctx, indexText(entry.CandidatePayload))
		if err != nil {
			zapLog.Fatal("embedding failed",
				zap.String("id", entry.ID),
				zap.Error(err),
			)
		}

		doc := toDocument(entry.CandidatePayload, vector)
		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, index, entry.ID)
		line, err := json.Marshal(doc)
		if err != nil {
			zapLog.Fatal("document marshal failed", zap.String("id", entry.ID), zap.Error(err))
		}
		buf.WriteString(meta)
		buf.WriteByte('\n')
		buf.Write(line)
		buf.WriteByte('\n')
		indexed++

		// Flush in batches so a large catalog does not build one giant body.
		if indexed%100 == 0 {
			if err := esClient.Bulk(ctx, &buf); err != nil {
				zapLog.Fatal("bulk index failed", zap.Error(err))
			}
			buf.Reset()
		}
	}
	if buf.Len() > 0 {
		if err := esClient.Bulk(ctx, &buf); err != nil {
			zapLog.Fatal("bulk index failed", zap.Error(err))
		}
	}

	zapLog.Info("indexing complete",
		zap.String("index", index),
		zap.Int("vehicles", indexed),
	)
}

// applySignalDefaults fills the optional commercial-signal columns so every
// indexed document scores without fallback branches downstream.
func applySignalDefaults(p *models.CandidatePayload) {
	if p.BrandPriority == nil {
		v := models.DefaultBrandPriority
		p.BrandPriority = &v
	}
	if p.MarginUSD == nil {
		v := models.DefaultMarginUSD
		p.MarginUSD = &v
	}
	if p.InventoryDays == nil {
		v := models.DefaultInventoryDays
		p.InventoryDays = &v
	}
}

// indexText mirrors the text form the scoring stage embeds per candidate, so
// index-time and query-time vectors live in the same space.
func indexText(p models.CandidatePayload) string {
	meta := strings.TrimSpace(p.EngineType + " " + p.BodyType)
	if p.UseCase != "" {
		meta = strings.TrimSpace(meta + " " + p.UseCase)
	}
	return strings.Trim(p.Description+" | "+meta, " |")
}

func toDocument(p models.CandidatePayload, vector []float64) map[string]interface{} {
	doc := map[string]interface{}{}
	raw, _ := json.Marshal(p)
	_ = json.Unmarshal(raw, &doc)
	doc["embedding"] = vector
	return doc
}

func deleteIndex(ctx context.Context, es *database.ElasticsearchClient, index string) error {
	res, err := es.Client.Indices.Delete([]string{index},
		es.Client.Indices.Delete.WithContext(ctx),
		es.Client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("delete index %s: %s", index, res.String())
	}
	return nil
}
