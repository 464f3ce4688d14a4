/*
 * @module service/validation/naming_executor
 * @description 命名规则执行器，检查元素名称存在性与模式匹配，并执行BEP命名规范
 * @architecture 分层架构 - 校验执行层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 规则过滤 -> 元素选择 -> 模式匹配 -> 问题汇总
 * @rules 无法编译的命名模式按全部匹配处理（fail open），不因坏模式否决所有名称
 * @dependencies bimhub-service/service/ifcmodel, bimhub-service/service/models
 * @refs executor.go
 */

package validation

import (
	"fmt"
	"regexp"
	"strings"

	"bimhub-service/service/ifcmodel"
	"bimhub-service/service/models"
)

var escapedPlaceholder = regexp.MustCompile(`\\\{(\w+)\\\}`)

// NamingExecutor 命名规则执行器
type NamingExecutor struct{}

// NewNamingExecutor 创建命名规则执行器
func NewNamingExecutor() *NamingExecutor {
	return &NamingExecutor{}
}

// Kind 返回执行器处理的规则类型
func (e *NamingExecutor) Kind() models.RuleKind {
	return models.RuleKindNaming
}

// compileNamingPattern 编译命名模式
// regex直接编译；template把每个{placeholder}转换为非下划线通配组并锚定后编译
// 返回nil表示模式不可用，调用方按全部匹配处理
func compileNamingPattern(pattern string, kind models.PatternKind) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	expr := pattern
	if kind == models.PatternKindTemplate {
		expr = "^" + escapedPlaceholder.ReplaceAllString(regexp.QuoteMeta(pattern), `([^_]+)`) + "$"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	return re
}

// Execute 执行一批临时命名规则（element_naming/has_name）
func (e *NamingExecutor) Execute(p ifcmodel.Provider, rules []models.LoadedRule, ctx models.ValidationContext) []models.RuleExecutionResult {
	results := make([]models.RuleExecutionResult, 0, len(rules))
	for _, rule := range rules {
		if skippedForContext(rule, ctx) {
			continue
		}
		rule := rule
		results = append(results, runRule(rule, func(res *models.RuleExecutionResult) {
			check := rule.Naming
			if check == nil {
				res.ExecutionError = "命名规则缺少定义"
				return
			}
			elements := selectElements(p, rule.AppliesToTypes, ctx)
			res.ElementsChecked = len(elements)

			switch check.Kind {
			case models.NamingCheckHasName:
				for _, el := range elements {
					name, hasName := el.NameValue()
					if !hasName || (!check.AllowEmpty && strings.TrimSpace(name) == "") {
						res.ElementsFailed++
						res.Issues = append(res.Issues, e.issue(rule.Code, rule.Name, rule.Severity, el,
							formatMessage(rule.MessageTemplate,
								map[string]interface{}{"element_type": el.TypeTag},
								fmt.Sprintf("%s 元素缺少名称", el.TypeTag)), nil))
					} else {
						res.ElementsPassed++
					}
				}
			default: // element_naming
				re := compileNamingPattern(check.Pattern, check.PatternKind)
				for _, el := range elements {
					name, hasName := el.NameValue()
					// 模式不可用时fail open
					if !hasName || re == nil || re.MatchString(name) {
						res.ElementsPassed++
						continue
					}
					res.ElementsFailed++
					res.Issues = append(res.Issues, e.issue(rule.Code, rule.Name, rule.Severity, el,
						formatMessage(rule.MessageTemplate,
							map[string]interface{}{"name": name, "pattern": check.Pattern},
							fmt.Sprintf("名称 %q 不符合模式 %s", name, check.Pattern)),
						models.JSONB{"name": name, "pattern": check.Pattern}))
				}
			}
		}))
	}
	return results
}

// ExecuteConventions 执行BEP命名规范（第二入口，来自独立的规则集合）
// 按专业过滤后与全部产品类元素匹配；file_naming类面向交付文件名，
// 本引擎不迭代文件级主体，该类规范保留零问题结果，由上层交付检查消费
func (e *NamingExecutor) ExecuteConventions(p ifcmodel.Provider, conventions []models.NamingConventionRule, ctx models.ValidationContext) []models.RuleExecutionResult {
	results := make([]models.RuleExecutionResult, 0, len(conventions))
	for _, conv := range conventions {
		if !ruleApplies(nil, conv.AppliesToDisciplines, ctx) {
			continue
		}
		conv := conv
		severity := models.SeverityWarning
		if conv.Required {
			severity = models.SeverityError
		}
		loaded := models.LoadedRule{
			Code:     fmt.Sprintf("NAMING_%s_%s", conv.Category, conv.Name),
			Name:     conv.Name,
			Kind:     models.RuleKindNaming,
			Severity: severity,
		}
		results = append(results, runRule(loaded, func(res *models.RuleExecutionResult) {
			if conv.Category == "file_naming" {
				return
			}
			re := compileNamingPattern(conv.Pattern, conv.PatternKind)
			elements := selectElements(p, nil, ctx)

			for _, el := range elements {
				name, hasName := el.NameValue()
				if !hasName {
					continue // 无名称元素由has_name类规则负责
				}
				res.ElementsChecked++
				if re == nil || re.MatchString(name) {
					res.ElementsPassed++
					continue
				}
				res.ElementsFailed++
				message := conv.ErrorMessage
				if message == "" {
					message = fmt.Sprintf("名称 %q 不符合命名规范 %s", name, conv.Name)
				}
				res.Issues = append(res.Issues, e.issue(loaded.Code, loaded.Name, severity, el, message,
					models.JSONB{"name": name, "pattern": conv.Pattern, "category": conv.Category}))
			}
		}))
	}
	return results
}

// issue 构造命名类问题
func (e *NamingExecutor) issue(code, ruleName string, severity models.Severity, el ifcmodel.Element, message string, details models.JSONB) models.ValidationIssue {
	name, _ := el.NameValue()
	return models.ValidationIssue{
		RuleCode:    code,
		RuleName:    ruleName,
		Kind:        models.RuleKindNaming,
		Severity:    severity,
		ElementID:   el.ID,
		ElementType: el.TypeTag,
		ElementName: name,
		Message:     message,
		Details:     details,
	}
}
