package model

import "time"

type SubjectPerformance struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Tests    int     `json:"tests"`
	Accuracy float64 `json:"accuracy"`
}

type TrendPoint struct {
	Date     time.Time `json:"date"`
	Score    int       `json:"score"`
	Accuracy float64   `json:"accuracy"`
}

// ProgressSummary 学生历次测试的汇总统计
type ProgressSummary struct {
	TotalTests         int                           `json:"total_tests"`
	AverageScore       float64                       `json:"average_score"`
	AverageAccuracy    float64                       `json:"average_accuracy"`
	SubjectPerformance map[string]SubjectPerformance `json:"subject_performance"`
	RecentResults      []TestResult                  `json:"recent_results"`
	ImprovementTrend   []TrendPoint                  `json:"improvement_trend"`
}

func EmptyProgressSummary() *ProgressSummary {
	return &ProgressSummary{
		SubjectPerformance: map[string]SubjectPerformance{},
		RecentResults:      []TestResult{},
		ImprovementTrend:   []TrendPoint{},
	}
}
