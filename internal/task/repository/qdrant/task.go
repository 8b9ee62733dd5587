package qdrant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task/repository"
	pkgLog "conversational-task-manager/pkg/log"
	pkgQdrant "conversational-task-manager/pkg/qdrant"
	"conversational-task-manager/pkg/voyage"
)

// pointNamespace seeds the UUIDv5 point IDs derived from task IDs.
var pointNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Config tunes the vector repository.
type Config struct {
	CollectionName string
	VectorSize     int
	ScoreThreshold float64
	SearchLimit    int
}

type implRepository struct {
	client   *pkgQdrant.Client
	embedder voyage.IVoyage
	cfg      Config
	l        pkgLog.Logger
}

// New creates a new Qdrant repository.
func New(client *pkgQdrant.Client, embedder voyage.IVoyage, cfg Config, l pkgLog.Logger) repository.VectorRepository {
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 10
	}
	return &implRepository{
		client:   client,
		embedder: embedder,
		cfg:      cfg,
		l:        l,
	}
}

// EnsureCollection creates the cosine collection on first start.
func (r *implRepository) EnsureCollection(ctx context.Context) error {
	err := r.client.EnsureCollection(ctx, pkgQdrant.CreateCollectionRequest{
		Name: r.cfg.CollectionName,
		Vectors: pkgQdrant.VectorConfig{
			Size:     r.cfg.VectorSize,
			Distance: pkgQdrant.DistanceCosine,
		},
	})
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("EnsureCollection"), err)
		return fmt.Errorf("ensure collection: %w", err)
	}
	return nil
}

// IndexTask embeds the task text and upserts its point.
func (r *implRepository) IndexTask(ctx context.Context, task model.Task) error {
	vectors, err := r.embedder.Embed(ctx, []string{embeddingText(task)})
	if err != nil {
		r.l.Errorf(ctx, "%s: embed: %v", r.dsn("IndexTask"), err)
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	pointID := taskIDToUUID(task.ID)
	point := pkgQdrant.Point{
		ID:     pointID,
		Vector: vectors[0],
		Payload: map[string]interface{}{
			"task_id":    task.ID,
			"name":       task.Name,
			"status":     string(task.Status),
			"created_at": task.CreatedAt.UnixNano(),
		},
	}

	if err := r.client.UpsertPoints(ctx, r.cfg.CollectionName, pkgQdrant.UpsertPointsRequest{
		Points: []pkgQdrant.Point{point},
	}); err != nil {
		r.l.Errorf(ctx, "%s: upsert: %v", r.dsn("IndexTask"), err)
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	r.l.Debugf(ctx, "%s: indexed task %s (point=%s)", r.dsn("IndexTask"), task.ID, pointID)
	return nil
}

// SearchTasks returns hits scoring at least the configured threshold.
func (r *implRepository) SearchTasks(ctx context.Context, opt repository.SearchTasksOptions) ([]repository.SearchResult, error) {
	queryVector, err := r.embedder.EmbedQuery(ctx, opt.Query)
	if err != nil {
		r.l.Errorf(ctx, "%s: embed: %v", r.dsn("SearchTasks"), err)
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	limit := opt.Limit
	if limit <= 0 || limit > r.cfg.SearchLimit {
		limit = r.cfg.SearchLimit
	}
	threshold := r.cfg.ScoreThreshold

	resp, err := r.client.SearchPoints(ctx, r.cfg.CollectionName, pkgQdrant.SearchRequest{
		Vector:         queryVector,
		Limit:          limit,
		WithPayload:    true,
		ScoreThreshold: &threshold,
	})
	if err != nil {
		r.l.Errorf(ctx, "%s: search: %v", r.dsn("SearchTasks"), err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	// The point ID is derived; the task ID lives in the payload.
	results := make([]repository.SearchResult, 0, len(resp.Result))
	for _, scored := range resp.Result {
		if scored.Score < threshold {
			continue
		}
		taskID, ok := scored.Payload["task_id"].(string)
		if !ok || taskID == "" {
			r.l.Warnf(ctx, "%s: point %s has no task_id payload", r.dsn("SearchTasks"), scored.ID)
			continue
		}
		results = append(results, repository.SearchResult{
			TaskID: taskID,
			Score:  scored.Score,
		})
	}

	r.l.Debugf(ctx, "%s: %d hits for %q", r.dsn("SearchTasks"), len(results), opt.Query)
	return results, nil
}

// DeleteTask removes the task's point.
func (r *implRepository) DeleteTask(ctx context.Context, taskID string) error {
	pointID := taskIDToUUID(taskID)
	if err := r.client.DeletePoints(ctx, r.cfg.CollectionName, []string{pointID}); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteTask"), err)
		return fmt.Errorf("failed to delete point: %w", err)
	}
	return nil
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("internal.task.repository.qdrant.%s", method)
}

// taskIDToUUID maps a task ID to a deterministic UUIDv5; Qdrant only accepts
// UUIDs or unsigned integers as point IDs.
func taskIDToUUID(taskID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(taskID)).String()
}

func embeddingText(task model.Task) string {
	return strings.TrimSpace(task.Name + " " + task.Description)
}
