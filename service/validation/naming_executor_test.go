package validation

import (
	"testing"

	"bimhub-service/service/ifcmodel"
	"bimhub-service/service/models"

	"github.com/stretchr/testify/assert"
)

func namingRule(check *models.NamingCheck) models.LoadedRule {
	return models.LoadedRule{
		Code:     "NAME_TEST",
		Name:     "命名测试规则",
		Kind:     models.RuleKindNaming,
		Severity: models.SeverityError,
		Active:   true,
		Naming:   check,
	}
}

func TestCompileNamingPatternTemplate(t *testing.T) {
	re := compileNamingPattern("{project}_{discipline}_{type}_{number}", models.PatternKindTemplate)
	assert.NotNil(t, re)
	assert.True(t, re.MatchString("PRJ_ARK_WALL_001"))
	assert.False(t, re.MatchString("bad name with spaces"))
	assert.False(t, re.MatchString("PRJ_ARK_WALL"))     // 段数不足
	assert.False(t, re.MatchString("PRJ_ARK_WALL_001_")) // 尾部多余分隔符
}

func TestCompileNamingPatternRegex(t *testing.T) {
	re := compileNamingPattern(`^W-\d{3}$`, models.PatternKindRegex)
	assert.NotNil(t, re)
	assert.True(t, re.MatchString("W-042"))
	assert.False(t, re.MatchString("w-042"))

	// 非法正则返回nil（fail open）
	assert.Nil(t, compileNamingPattern("(", models.PatternKindRegex))
	assert.Nil(t, compileNamingPattern("", models.PatternKindRegex))
}

func TestNamingHasName(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", TypeTag: "IfcWall", Name: strPtr("Wall-01")},
		ifcmodel.Element{ID: "2", TypeTag: "IfcWall", Name: nil},
		ifcmodel.Element{ID: "3", TypeTag: "IfcWall", Name: strPtr("   ")},
	)

	rule := namingRule(&models.NamingCheck{Kind: models.NamingCheckHasName})
	results := NewNamingExecutor().Execute(snap, []models.LoadedRule{rule}, models.ValidationContext{})
	res := results[0]
	assert.Equal(t, 3, res.ElementsChecked)
	assert.Len(t, res.Issues, 2)

	// allow_empty时空白名称可接受
	rule = namingRule(&models.NamingCheck{Kind: models.NamingCheckHasName, AllowEmpty: true})
	results = NewNamingExecutor().Execute(snap, []models.LoadedRule{rule}, models.ValidationContext{})
	assert.Len(t, results[0].Issues, 1)
}

func TestNamingElementNamingTemplate(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", TypeTag: "IfcWall", Name: strPtr("PRJ_ARK_WALL_001")},
		ifcmodel.Element{ID: "2", TypeTag: "IfcWall", Name: strPtr("bad name with spaces")},
		ifcmodel.Element{ID: "3", TypeTag: "IfcWall", Name: nil}, // 无名称元素由has_name规则负责
	)

	rule := namingRule(&models.NamingCheck{
		Kind:        models.NamingCheckElementNaming,
		Pattern:     "{project}_{discipline}_{type}_{number}",
		PatternKind: models.PatternKindTemplate,
	})

	results := NewNamingExecutor().Execute(snap, []models.LoadedRule{rule}, models.ValidationContext{})
	res := results[0]
	assert.Len(t, res.Issues, 1)
	assert.Equal(t, "2", res.Issues[0].ElementID)
	assert.Equal(t, "bad name with spaces", res.Issues[0].Details["name"])
}

func TestNamingBadPatternFailsOpen(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", TypeTag: "IfcWall", Name: strPtr("whatever")},
	)

	rule := namingRule(&models.NamingCheck{
		Kind:        models.NamingCheckElementNaming,
		Pattern:     "(",
		PatternKind: models.PatternKindRegex,
	})

	results := NewNamingExecutor().Execute(snap, []models.LoadedRule{rule}, models.ValidationContext{})
	res := results[0]
	assert.True(t, res.Passed)
	assert.Empty(t, res.Issues)
}

func TestNamingConventions(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", TypeTag: "IfcWall", Name: strPtr("PRJ_ARK_WALL_001")},
		ifcmodel.Element{ID: "2", TypeTag: "IfcDoor", Name: strPtr("ugly door")},
		ifcmodel.Element{ID: "3", TypeTag: "IfcBeam", Name: nil},
	)

	conventions := []models.NamingConventionRule{{
		Category:    "element_naming",
		Name:        "构件命名",
		Pattern:     "{project}_{discipline}_{type}_{number}",
		PatternKind: models.PatternKindTemplate,
		Required:    true,
	}}

	results := NewNamingExecutor().ExecuteConventions(snap, conventions, models.ValidationContext{})
	assert.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, "NAMING_element_naming_构件命名", res.RuleCode)
	// 无名称元素不计入
	assert.Equal(t, 2, res.ElementsChecked)
	assert.Len(t, res.Issues, 1)
	assert.Equal(t, "2", res.Issues[0].ElementID)
	// required规范产生error级问题
	assert.Equal(t, models.SeverityError, res.Issues[0].Severity)
}

func TestNamingConventionOptionalIsWarning(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", TypeTag: "IfcWall", Name: strPtr("nope")},
	)

	conventions := []models.NamingConventionRule{{
		Category:    "element_naming",
		Name:        "建议命名",
		Pattern:     `^W-\d+$`,
		PatternKind: models.PatternKindRegex,
		Required:    false,
	}}

	results := NewNamingExecutor().ExecuteConventions(snap, conventions, models.ValidationContext{})
	res := results[0]
	assert.Equal(t, models.SeverityWarning, res.Issues[0].Severity)
	// warning级问题不否决规则通过
	assert.True(t, res.Passed)
}

func TestNamingConventionFileNamingYieldsNoElementIssues(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", TypeTag: "IfcWall", Name: strPtr("anything")},
	)

	conventions := []models.NamingConventionRule{{
		Category:    "file_naming",
		Name:        "交付文件命名",
		Pattern:     "{project}_{discipline}_{content}",
		PatternKind: models.PatternKindTemplate,
		Required:    true,
	}}

	results := NewNamingExecutor().ExecuteConventions(snap, conventions, models.ValidationContext{})
	assert.Len(t, results, 1)
	res := results[0]
	assert.Empty(t, res.Issues)
	assert.Equal(t, 0, res.ElementsChecked)
	assert.True(t, res.Passed)
}

func TestNamingConventionDisciplineFilter(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", TypeTag: "IfcWall", Name: strPtr("nope")},
	)

	conventions := []models.NamingConventionRule{{
		Category:             "element_naming",
		Name:                 "结构命名",
		Pattern:              `^RIB-\d+$`,
		PatternKind:          models.PatternKindRegex,
		AppliesToDisciplines: []string{"RIB"},
		Required:             true,
	}}

	// 上下文专业不在限定范围内时规范被跳过
	ctx := models.ValidationContext{Discipline: "ARK"}
	results := NewNamingExecutor().ExecuteConventions(snap, conventions, ctx)
	assert.Empty(t, results)

	// 专业匹配时正常执行
	ctx = models.ValidationContext{Discipline: "RIB"}
	results = NewNamingExecutor().ExecuteConventions(snap, conventions, ctx)
	assert.Len(t, results, 1)
	assert.Len(t, results[0].Issues, 1)
}

func TestNamingConventionCustomErrorMessage(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", TypeTag: "IfcWall", Name: strPtr("nope")},
	)

	conventions := []models.NamingConventionRule{{
		Category:     "element_naming",
		Name:         "构件命名",
		Pattern:      `^W-\d+$`,
		PatternKind:  models.PatternKindRegex,
		Required:     true,
		ErrorMessage: "构件名称必须为W-编号格式",
	}}

	results := NewNamingExecutor().ExecuteConventions(snap, conventions, models.ValidationContext{})
	assert.Equal(t, "构件名称必须为W-编号格式", results[0].Issues[0].Message)
}
