/*
 * @module service/validation/metrics
 * @description 校验运行指标采集，暴露运行次数、问题数量和运行时长指标
 * @architecture 分层架构 - 监控层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 校验完成 -> 指标更新 -> /metrics拉取
 * @dependencies github.com/prometheus/client_golang
 * @refs orchestrator.go, main.go
 */

package validation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bimhub-service/service/models"
)

var (
	validationRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bimhub_validation_runs_total",
		Help: "校验运行总次数，按总体状态分类",
	}, []string{"status"})

	validationIssuesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bimhub_validation_issues_total",
		Help: "校验产生的问题总数，按严重级别分类",
	}, []string{"severity"})

	validationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bimhub_validation_duration_seconds",
		Help:    "单次校验运行时长",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})
)

// recordRunMetrics 更新一次校验运行的指标
func recordRunMetrics(result *models.ValidationResult) {
	validationRunsTotal.WithLabelValues(result.OverallStatus).Inc()
	validationIssuesTotal.WithLabelValues("error").Add(float64(result.ErrorCount))
	validationIssuesTotal.WithLabelValues("warning").Add(float64(result.WarningCount))
	validationIssuesTotal.WithLabelValues("info").Add(float64(result.InfoCount))
	validationDuration.Observe(result.DurationSeconds)
}
