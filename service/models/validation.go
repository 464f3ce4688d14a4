/*
 * @module service/models/validation
 * @description 模型校验领域类型定义，包括规则类型、严重级别、已加载规则、校验上下文和校验结果
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 规则加载 -> 规则执行 -> 结果聚合
 * @rules 校验结果一旦由编排器定稿即不可变更
 * @dependencies 无外部依赖，纯数据类型
 * @refs service/validation
 */

package models

// RuleKind 规则类型（封闭枚举）
type RuleKind string

const (
	RuleKindIdentity RuleKind = "identity" // GUID类检查
	RuleKindProperty RuleKind = "property" // 属性集/属性检查
	RuleKindNaming   RuleKind = "naming"   // 命名规范检查
)

// AllRuleKinds 所有支持的规则类型，新增类型需同时注册对应执行器
var AllRuleKinds = []RuleKind{RuleKindIdentity, RuleKindProperty, RuleKindNaming}

// IsValid 判断规则类型是否合法
func (k RuleKind) IsValid() bool {
	switch k {
	case RuleKindIdentity, RuleKindProperty, RuleKindNaming:
		return true
	}
	return false
}

// Severity 问题严重级别（有序枚举，Info < Warning < Error）
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank 严重级别排序值，用于取最大值汇总
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// ParseSeverity 解析严重级别字符串
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityInfo, SeverityWarning, SeverityError:
		return Severity(s), true
	}
	return "", false
}

// 校验总体状态
const (
	StatusPass    = "pass"
	StatusWarning = "warning"
	StatusError   = "error"
)

// IdentityCheckKind 标识规则检查类型
type IdentityCheckKind string

const (
	IdentityCheckUniqueness IdentityCheckKind = "uniqueness" // GUID唯一性
	IdentityCheckFormat     IdentityCheckKind = "format"     // GUID格式
	IdentityCheckAll        IdentityCheckKind = "all"        // 同时执行两项检查
)

// PropertyCheckKind 属性规则检查类型
type PropertyCheckKind string

const (
	PropertyCheckHasPset PropertyCheckKind = "has_pset"       // 元素必须携带指定属性集
	PropertyCheckHasProp PropertyCheckKind = "has_property"   // 属性集内必须存在指定属性
	PropertyCheckValue   PropertyCheckKind = "property_value" // 属性值必须满足约束
)

// NamingCheckKind 命名规则检查类型
type NamingCheckKind string

const (
	NamingCheckElementNaming NamingCheckKind = "element_naming" // 元素名称必须匹配模式
	NamingCheckHasName       NamingCheckKind = "has_name"       // 元素必须有名称
)

// PatternKind 命名模式类型
type PatternKind string

const (
	PatternKindRegex    PatternKind = "regex"
	PatternKindTemplate PatternKind = "template"
)

// PropertyConstraint 单个属性的约束定义
type PropertyConstraint struct {
	Name          string        `json:"name"`
	TypeHint      string        `json:"type_hint,omitempty"`
	Required      bool          `json:"required"`
	Pattern       string        `json:"pattern,omitempty"`
	MinValue      *float64      `json:"min_value,omitempty"`
	MaxValue      *float64      `json:"max_value,omitempty"`
	AllowedValues []interface{} `json:"allowed_values,omitempty"`
}

// IdentityCheck 标识规则的类型化参数，加载时从Definition解码
type IdentityCheck struct {
	Kind IdentityCheckKind `json:"kind"`
}

// PropertyCheck 属性规则的类型化参数，加载时从Definition解码
type PropertyCheck struct {
	Kind         PropertyCheckKind  `json:"kind"`
	PsetName     string             `json:"pset_name"`
	PropertyName string             `json:"property_name,omitempty"`
	Validation   PropertyConstraint `json:"validation,omitempty"`
}

// NamingCheck 命名规则的类型化参数，加载时从Definition解码
type NamingCheck struct {
	Kind        NamingCheckKind `json:"kind"`
	Pattern     string          `json:"pattern,omitempty"`
	PatternKind PatternKind     `json:"pattern_kind,omitempty"`
	AllowEmpty  bool            `json:"allow_empty,omitempty"`
}

// LoadedRule 从规则库加载并完成类型转换的校验规则
// 同一规则集内Code唯一；Definition保留持久化原始参数，
// 对应类型化参数在加载时解码到Identity/Property/Naming字段
type LoadedRule struct {
	ID                   string   `json:"id"`
	Code                 string   `json:"code"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	Kind                 RuleKind `json:"kind"`
	Severity             Severity `json:"severity"`
	Definition           JSONB    `json:"definition,omitempty"`
	AppliesToTypes       []string `json:"applies_to_types,omitempty"`
	AppliesToDisciplines []string `json:"applies_to_disciplines,omitempty"`
	MinMaturityLevel     *int     `json:"min_maturity_level,omitempty"`
	MessageTemplate      string   `json:"message_template,omitempty"`
	Active               bool     `json:"active"`

	Identity *IdentityCheck `json:"-"`
	Property *PropertyCheck `json:"-"`
	Naming   *NamingCheck   `json:"-"`
}

// RequiredPropertySetRule 必需属性集规则
type RequiredPropertySetRule struct {
	ElementType          string               `json:"element_type"`
	MinMaturityLevel     *int                 `json:"min_maturity_level,omitempty"`
	PsetName             string               `json:"pset_name"`
	RequiredProperties   []PropertyConstraint `json:"required_properties,omitempty"`
	OptionalProperties   []string             `json:"optional_properties,omitempty"`
	AppliesToDisciplines []string             `json:"applies_to_disciplines,omitempty"`
	Severity             Severity             `json:"severity"`
}

// NamingConventionRule 命名规范规则
type NamingConventionRule struct {
	Category             string      `json:"category"`
	Name                 string      `json:"name"`
	Description          string      `json:"description,omitempty"`
	Pattern              string      `json:"pattern"`
	PatternKind          PatternKind `json:"pattern_kind"`
	Examples             []string    `json:"examples,omitempty"`
	AppliesToDisciplines []string    `json:"applies_to_disciplines,omitempty"`
	Required             bool        `json:"required"`
	ErrorMessage         string      `json:"error_message,omitempty"`
}

// TechnicalRequirementSpec 技术要求
type TechnicalRequirementSpec struct {
	SchemaHint string  `json:"schema_hint,omitempty"`
	MaxSizeMB  float64 `json:"max_size_mb,omitempty"`
}

// RuleSet 一次校验运行使用的完整规则集，每次运行重新构建，构建后不可变
type RuleSet struct {
	SourceID          string                    `json:"source_id"`
	SourceName        string                    `json:"source_name"`
	ProjectID         string                    `json:"project_id,omitempty"`
	Rules             []LoadedRule              `json:"rules"`
	RequiredPsets     []RequiredPropertySetRule `json:"required_psets,omitempty"`
	NamingConventions []NamingConventionRule    `json:"naming_conventions,omitempty"`
	Technical         *TechnicalRequirementSpec `json:"technical,omitempty"`
}

// RulesByKind 按规则类型分组
func (rs *RuleSet) RulesByKind() map[RuleKind][]LoadedRule {
	grouped := make(map[RuleKind][]LoadedRule)
	for _, rule := range rs.Rules {
		grouped[rule.Kind] = append(grouped[rule.Kind], rule)
	}
	return grouped
}

// ValidationContext 校验上下文，按值传入每个执行器，执行过程中不可变更
type ValidationContext struct {
	ModelID              string          `json:"model_id"`
	MaturityLevel        *int            `json:"maturity_level,omitempty"`
	Discipline           string          `json:"discipline,omitempty"`
	ModelSchemaHint      string          `json:"model_schema_hint,omitempty"`
	RestrictToElementIDs map[string]bool `json:"-"`
}

// ValidationIssue 单条校验问题，创建后不可变更
type ValidationIssue struct {
	RuleCode     string   `json:"rule_code"`
	RuleName     string   `json:"rule_name"`
	Kind         RuleKind `json:"kind"`
	Severity     Severity `json:"severity"`
	Message      string   `json:"message"`
	ElementID    string   `json:"element_id,omitempty"`
	ElementType  string   `json:"element_type,omitempty"`
	ElementName  string   `json:"element_name,omitempty"`
	PsetName     string   `json:"pset_name,omitempty"`
	PropertyName string   `json:"property_name,omitempty"`
	Details      JSONB    `json:"details,omitempty"`
}

// RuleExecutionResult 单条规则的执行结果
// 不变量: Passed == (ExecutionError为空 且 Issues中无Error级别问题)
type RuleExecutionResult struct {
	RuleCode        string            `json:"rule_code"`
	RuleName        string            `json:"rule_name"`
	Kind            RuleKind          `json:"kind"`
	Passed          bool              `json:"passed"`
	ElementsChecked int               `json:"elements_checked"`
	ElementsPassed  int               `json:"elements_passed"`
	ElementsFailed  int               `json:"elements_failed"`
	Issues          []ValidationIssue `json:"issues,omitempty"`
	DurationMS      int64             `json:"duration_ms"`
	ExecutionError  string            `json:"execution_error,omitempty"`
}

// Finalize 根据不变量推导Passed
func (r *RuleExecutionResult) Finalize() {
	if r.ExecutionError != "" {
		r.Passed = false
		return
	}
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			r.Passed = false
			return
		}
	}
	r.Passed = true
}

// ValidationResult 一次校验运行的聚合结果，编排器定稿后不可变更
type ValidationResult struct {
	ModelID            string                `json:"model_id"`
	RuleSetID          string                `json:"ruleset_id,omitempty"`
	ModelSchema        string                `json:"model_schema,omitempty"`
	TotalElements      int                   `json:"total_elements"`
	ElementsWithIssues int                   `json:"elements_with_issues"`
	RuleResults        []RuleExecutionResult `json:"rule_results"`
	AllIssues          []ValidationIssue     `json:"all_issues"`
	ErrorCount         int                   `json:"error_count"`
	WarningCount       int                   `json:"warning_count"`
	InfoCount          int                   `json:"info_count"`
	OverallStatus      string                `json:"overall_status"`
	DurationSeconds    float64               `json:"duration_seconds"`
	Summary            string                `json:"summary"`
}

// CountIssues 统计各级别问题数量并计算总体状态
// Error问题存在则为error，否则有Warning则为warning，否则pass
func (r *ValidationResult) CountIssues() {
	r.ErrorCount, r.WarningCount, r.InfoCount = 0, 0, 0
	for _, issue := range r.AllIssues {
		switch issue.Severity {
		case SeverityError:
			r.ErrorCount++
		case SeverityWarning:
			r.WarningCount++
		case SeverityInfo:
			r.InfoCount++
		}
	}
	switch {
	case r.ErrorCount > 0:
		r.OverallStatus = StatusError
	case r.WarningCount > 0:
		r.OverallStatus = StatusWarning
	default:
		r.OverallStatus = StatusPass
	}
}
