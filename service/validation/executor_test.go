package validation

import (
	"testing"

	"bimhub-service/service/ifcmodel"
	"bimhub-service/service/models"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// buildSnapshot 构造测试模型快照
func buildSnapshot(elements ...ifcmodel.Element) *ifcmodel.Snapshot {
	b := ifcmodel.NewSnapshotBuilder("IFC4")
	for _, el := range elements {
		b.AddElement(el, nil)
	}
	return b.Build()
}

func TestRuleAppliesMaturity(t *testing.T) {
	ctx := models.ValidationContext{MaturityLevel: intPtr(200)}

	// 上下文等级低于规则要求时不适用
	assert.False(t, ruleApplies(intPtr(300), nil, ctx))
	// 等级达到要求时适用
	assert.True(t, ruleApplies(intPtr(200), nil, ctx))
	assert.True(t, ruleApplies(intPtr(100), nil, ctx))
	// 规则未设等级要求时始终适用
	assert.True(t, ruleApplies(nil, nil, ctx))
	// 上下文未设等级时不做成熟度过滤
	assert.True(t, ruleApplies(intPtr(300), nil, models.ValidationContext{}))
}

func TestRuleAppliesDiscipline(t *testing.T) {
	ctx := models.ValidationContext{Discipline: "ARK"}

	assert.True(t, ruleApplies(nil, []string{"ARK", "RIB"}, ctx))
	assert.False(t, ruleApplies(nil, []string{"RIV"}, ctx))
	// 规则未限定专业时始终适用
	assert.True(t, ruleApplies(nil, nil, ctx))
	// 上下文未设专业时不做专业过滤
	assert.True(t, ruleApplies(nil, []string{"RIV"}, models.ValidationContext{}))
}

func TestSelectElements(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "2", TypeTag: "IfcDoor"},
		ifcmodel.Element{ID: "3", TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "4", TypeTag: "IfcSpace"},
	)

	// 无类型限定时返回全部产品类元素
	all := selectElements(snap, nil, models.ValidationContext{})
	assert.Len(t, all, 4)

	// 按类型限定
	walls := selectElements(snap, []string{"IfcWall"}, models.ValidationContext{})
	assert.Len(t, walls, 2)
	assert.Equal(t, "1", walls[0].ID)
	assert.Equal(t, "3", walls[1].ID)

	// 按元素ID限定
	restricted := selectElements(snap, nil, models.ValidationContext{
		RestrictToElementIDs: map[string]bool{"2": true, "4": true},
	})
	assert.Len(t, restricted, 2)

	// 类型限定与ID限定叠加
	both := selectElements(snap, []string{"IfcWall"}, models.ValidationContext{
		RestrictToElementIDs: map[string]bool{"3": true},
	})
	assert.Len(t, both, 1)
	assert.Equal(t, "3", both[0].ID)
}

func TestSelectElementsTypeCoversSubtypes(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "2", TypeTag: "IfcWallStandardCase"},
		ifcmodel.Element{ID: "3", TypeTag: "IfcDoor"},
	)

	// 限定IfcWall同时命中其子类型
	walls := selectElements(snap, []string{"IfcWall"}, models.ValidationContext{})
	assert.Len(t, walls, 2)
	assert.Equal(t, "1", walls[0].ID)
	assert.Equal(t, "2", walls[1].ID)

	// 父类型限定覆盖整个分支
	building := selectElements(snap, []string{"IfcBuildingElement"}, models.ValidationContext{})
	assert.Len(t, building, 3)
}

func TestFormatMessage(t *testing.T) {
	values := map[string]interface{}{"guid": "abc", "count": 3}

	// 正常展开
	msg := formatMessage("GlobalId {guid} 被 {count} 个元素重复使用", values, "fallback")
	assert.Equal(t, "GlobalId abc 被 3 个元素重复使用", msg)

	// 模板为空时使用默认消息
	assert.Equal(t, "fallback", formatMessage("", values, "fallback"))

	// 占位符缺失时回退到默认消息
	assert.Equal(t, "fallback", formatMessage("{missing} 值", values, "fallback"))
}

func TestRunRuleRecoversPanic(t *testing.T) {
	rule := models.LoadedRule{Code: "R1", Name: "测试", Kind: models.RuleKindIdentity}
	res := runRule(rule, func(res *models.RuleExecutionResult) {
		panic("boom")
	})

	assert.Equal(t, "R1", res.RuleCode)
	assert.False(t, res.Passed)
	assert.Contains(t, res.ExecutionError, "boom")
}

func TestSkippedForContext(t *testing.T) {
	ctx := models.ValidationContext{MaturityLevel: intPtr(200)}

	// 停用规则被跳过
	assert.True(t, skippedForContext(models.LoadedRule{Active: false}, ctx))
	// 成熟度不足被跳过
	assert.True(t, skippedForContext(models.LoadedRule{Active: true, MinMaturityLevel: intPtr(300)}, ctx))
	// 正常规则不跳过
	assert.False(t, skippedForContext(models.LoadedRule{Active: true}, ctx))
}
