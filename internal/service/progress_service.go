package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"sort"

	"go.uber.org/zap"
)

type ProgressService struct {
	Results ResultStore
	Cache   ProgressCache
}

func NewProgressService(results ResultStore, cache ProgressCache) *ProgressService {
	return &ProgressService{Results: results, Cache: cache}
}

// ForStudent 学生只能查看自己的进度
func (s *ProgressService) ForStudent(ctx context.Context, actor *model.User) (*model.ProgressSummary, error) {
	if err := RequireRole(actor, model.Student); err != nil {
		return nil, err
	}
	return s.Aggregate(ctx, actor.ID)
}

// Aggregate 读穿缓存；缓存不可用时直接计算。
// 缓存键带有代数，代数在查询成绩之前读取：提交成绩会递增代数，
// 查询期间发生的提交只会让本次写入落在已废弃的键上。
func (s *ProgressService) Aggregate(ctx context.Context, studentID string) (*model.ProgressSummary, error) {
	var gen int64
	useCache := s.Cache != nil
	if useCache {
		g, err := s.Cache.Generation(ctx, studentID)
		if err != nil {
			logger.Log.Warn("Progress cache generation read failed", zap.String("student_id", studentID), zap.Error(err))
			useCache = false
		} else {
			gen = g
			summary, hit, err := s.Cache.Get(ctx, studentID, gen)
			if err != nil {
				logger.Log.Warn("Progress cache read failed", zap.String("student_id", studentID), zap.Error(err))
			} else if hit {
				return summary, nil
			}
		}
	}

	results, err := s.Results.ListByStudent(ctx, studentID, util.MaxProgressResults)
	if err != nil {
		return nil, err
	}
	summary := Summarize(results)

	if useCache {
		if err := s.Cache.Set(ctx, studentID, gen, summary); err != nil {
			logger.Log.Warn("Progress cache write failed", zap.String("student_id", studentID), zap.Error(err))
		}
	}
	return summary, nil
}

// Summarize 汇总成绩，输入顺序不影响输出
func Summarize(results []model.TestResult) *model.ProgressSummary {
	summary := model.EmptyProgressSummary()
	if len(results) == 0 {
		return summary
	}

	// 最新的在前
	sorted := make([]model.TestResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	var scoreSum, accuracySum float64
	for _, r := range sorted {
		scoreSum += float64(r.Score)
		accuracySum += r.Accuracy

		for subject, tally := range r.Breakdown() {
			perf := summary.SubjectPerformance[subject]
			perf.Total += tally.Total
			perf.Correct += tally.Correct
			perf.Tests++
			summary.SubjectPerformance[subject] = perf
		}
	}

	for subject, perf := range summary.SubjectPerformance {
		perf.Accuracy = util.Percent(perf.Correct, perf.Total)
		summary.SubjectPerformance[subject] = perf
	}

	n := len(sorted)
	summary.TotalTests = n
	summary.AverageScore = util.Round2(scoreSum / float64(n))
	summary.AverageAccuracy = util.Round2(accuracySum / float64(n))

	recent := sorted
	if len(recent) > util.RecentResultsLimit {
		recent = recent[:util.RecentResultsLimit]
	}
	summary.RecentResults = append(summary.RecentResults, recent...)

	// 最近10次，按时间升序
	trend := sorted
	if len(trend) > util.TrendPointsLimit {
		trend = trend[:util.TrendPointsLimit]
	}
	for i := len(trend) - 1; i >= 0; i-- {
		summary.ImprovementTrend = append(summary.ImprovementTrend, model.TrendPoint{
			Date:     trend[i].CreatedAt,
			Score:    trend[i].Score,
			Accuracy: trend[i].Accuracy,
		})
	}

	return summary
}
