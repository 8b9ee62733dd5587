package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
	"conversational-task-manager/internal/task/repository"
)

const defaultSearchLimit = 10

// Search ranks tasks by similarity to the query. Without a vector index, or
// when the index fails, it falls back to keyword overlap over the store.
func (uc *implUseCase) Search(ctx context.Context, sc model.Scope, input task.SearchInput) (task.SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return task.SearchOutput{}, task.ErrEmptyQuery
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	if uc.vectorRepo != nil {
		hits, err := uc.semanticSearch(ctx, query, limit)
		if err == nil {
			uc.l.Infof(ctx, "internal.task.usecase.Search: user=%s query=%q hits=%d", sc.UserID, query, len(hits))
			return task.SearchOutput{Hits: hits}, nil
		}
		uc.l.Warnf(ctx, "internal.task.usecase.Search: vector search failed, using keyword match: %v", err)
	}

	hits, err := uc.keywordSearch(ctx, query, limit)
	if err != nil {
		return task.SearchOutput{}, err
	}
	uc.l.Infof(ctx, "internal.task.usecase.Search: user=%s query=%q keyword hits=%d", sc.UserID, query, len(hits))
	return task.SearchOutput{Hits: hits}, nil
}

func (uc *implUseCase) semanticSearch(ctx context.Context, query string, limit int) ([]task.SearchHit, error) {
	results, err := uc.vectorRepo.SearchTasks(ctx, repository.SearchTasksOptions{Query: query, Limit: limit})
	if err != nil {
		return nil, err
	}

	hits := make([]task.SearchHit, 0, len(results))
	var stale []string
	for _, res := range results {
		if _, err := uc.repo.GetTask(ctx, res.TaskID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				stale = append(stale, res.TaskID)
				continue
			}
			return nil, fmt.Errorf("%w: %v", task.ErrStoreUnavailable, err)
		}
		hits = append(hits, task.SearchHit{TaskID: res.TaskID, Score: res.Score})
	}

	// Points whose task is gone are dropped from the index in the background.
	if len(stale) > 0 {
		go uc.dropStalePoints(context.WithoutCancel(ctx), stale)
	}

	sortHits(hits)
	return hits, nil
}

func (uc *implUseCase) dropStalePoints(ctx context.Context, ids []string) {
	for _, id := range ids {
		if err := uc.vectorRepo.DeleteTask(ctx, id); err != nil {
			uc.l.Warnf(ctx, "internal.task.usecase.Search: drop stale point %s: %v", id, err)
		}
	}
	uc.l.Infof(ctx, "internal.task.usecase.Search: dropped %d stale points", len(ids))
}

// keywordSearch scores each task by the share of query terms found in its
// name or description.
func (uc *implUseCase) keywordSearch(ctx context.Context, query string, limit int) ([]task.SearchHit, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return []task.SearchHit{}, nil
	}

	tasks, _, err := uc.repo.ListTasks(ctx, repository.ListTasksOptions{})
	if err != nil {
		uc.l.Errorf(ctx, "internal.task.usecase.Search: %v", err)
		return nil, fmt.Errorf("%w: %v", task.ErrStoreUnavailable, err)
	}

	hits := make([]task.SearchHit, 0)
	for _, t := range tasks {
		words := make(map[string]bool)
		for _, w := range tokenize(t.Name + " " + t.Description) {
			words[w] = true
		}
		matched := 0
		for _, term := range terms {
			if words[term] {
				matched++
			}
		}
		if matched > 0 {
			hits = append(hits, task.SearchHit{TaskID: t.ID, Score: float64(matched) / float64(len(terms))})
		}
	}

	sortHits(hits)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func sortHits(hits []task.SearchHit) {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
