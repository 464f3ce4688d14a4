package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleKindIsValid(t *testing.T) {
	assert.True(t, RuleKindIdentity.IsValid())
	assert.True(t, RuleKindProperty.IsValid())
	assert.True(t, RuleKindNaming.IsValid())
	assert.False(t, RuleKind("geometry").IsValid())
	assert.False(t, RuleKind("").IsValid())
}

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityError.Rank(), SeverityWarning.Rank())
	assert.Greater(t, SeverityWarning.Rank(), SeverityInfo.Rank())
	assert.Equal(t, 0, Severity("unknown").Rank())
}

func TestParseSeverity(t *testing.T) {
	s, ok := ParseSeverity("warning")
	assert.True(t, ok)
	assert.Equal(t, SeverityWarning, s)

	_, ok = ParseSeverity("critical")
	assert.False(t, ok)
}

func TestRuleExecutionResultFinalize(t *testing.T) {
	// 无问题时通过
	res := RuleExecutionResult{RuleCode: "R1"}
	res.Finalize()
	assert.True(t, res.Passed)

	// 仅警告级问题仍然通过
	res = RuleExecutionResult{
		Issues: []ValidationIssue{{Severity: SeverityWarning}, {Severity: SeverityInfo}},
	}
	res.Finalize()
	assert.True(t, res.Passed)

	// 存在错误级问题不通过
	res = RuleExecutionResult{
		Issues: []ValidationIssue{{Severity: SeverityWarning}, {Severity: SeverityError}},
	}
	res.Finalize()
	assert.False(t, res.Passed)

	// 执行故障不通过，即使没有问题
	res = RuleExecutionResult{ExecutionError: "boom"}
	res.Finalize()
	assert.False(t, res.Passed)
}

func TestValidationResultCountIssues(t *testing.T) {
	result := ValidationResult{
		AllIssues: []ValidationIssue{
			{Severity: SeverityError},
			{Severity: SeverityError},
			{Severity: SeverityWarning},
			{Severity: SeverityInfo},
		},
	}
	result.CountIssues()
	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)
	assert.Equal(t, 1, result.InfoCount)
	assert.Equal(t, StatusError, result.OverallStatus)

	// 只有警告时总体状态为warning
	result = ValidationResult{
		AllIssues: []ValidationIssue{{Severity: SeverityWarning}},
	}
	result.CountIssues()
	assert.Equal(t, StatusWarning, result.OverallStatus)

	// 无问题时为pass
	result = ValidationResult{}
	result.CountIssues()
	assert.Equal(t, StatusPass, result.OverallStatus)
}

func TestRuleSetRulesByKind(t *testing.T) {
	rs := RuleSet{
		Rules: []LoadedRule{
			{Code: "A", Kind: RuleKindIdentity},
			{Code: "B", Kind: RuleKindNaming},
			{Code: "C", Kind: RuleKindIdentity},
		},
	}
	grouped := rs.RulesByKind()
	assert.Len(t, grouped[RuleKindIdentity], 2)
	assert.Len(t, grouped[RuleKindNaming], 1)
	assert.Empty(t, grouped[RuleKindProperty])
	assert.Equal(t, "A", grouped[RuleKindIdentity][0].Code)
	assert.Equal(t, "C", grouped[RuleKindIdentity][1].Code)
}
