package validation

import (
	"testing"

	"bimhub-service/service/ifcmodel"
	"bimhub-service/service/models"

	"github.com/stretchr/testify/assert"
)

func uniquenessRule() models.LoadedRule {
	return models.LoadedRule{
		Code:     "GUID_UNIQUE",
		Name:     "GlobalId唯一性",
		Kind:     models.RuleKindIdentity,
		Severity: models.SeverityError,
		Active:   true,
		Identity: &models.IdentityCheck{Kind: models.IdentityCheckUniqueness},
	}
}

func formatRule() models.LoadedRule {
	return models.LoadedRule{
		Code:     "GUID_FORMAT",
		Name:     "GlobalId格式",
		Kind:     models.RuleKindIdentity,
		Severity: models.SeverityError,
		Active:   true,
		Identity: &models.IdentityCheck{Kind: models.IdentityCheckFormat},
	}
}

func TestIdentityUniquenessAllUnique(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", GlobalID: "0123456789abcdefghijkl", TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "2", GlobalID: "0123456789abcdefghijkm", TypeTag: "IfcDoor"},
	)

	results := NewIdentityExecutor().Execute(snap, []models.LoadedRule{uniquenessRule()}, models.ValidationContext{})
	assert.Len(t, results, 1)
	res := results[0]
	assert.True(t, res.Passed)
	assert.Equal(t, 2, res.ElementsChecked)
	assert.Equal(t, 2, res.ElementsPassed)
	assert.Empty(t, res.Issues)
}

func TestIdentityUniquenessDuplicates(t *testing.T) {
	// 同一GlobalId被2个元素持有，每个持有元素各产生一条问题
	shared := "1234567890123456789012"
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", GlobalID: shared, TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "2", GlobalID: shared, TypeTag: "IfcDoor"},
		ifcmodel.Element{ID: "3", GlobalID: "0123456789abcdefghijkl", TypeTag: "IfcWall"},
	)

	results := NewIdentityExecutor().Execute(snap, []models.LoadedRule{uniquenessRule()}, models.ValidationContext{})
	res := results[0]
	assert.False(t, res.Passed)
	assert.Equal(t, 3, res.ElementsChecked)
	assert.Equal(t, 1, res.ElementsPassed)
	assert.Equal(t, 2, res.ElementsFailed)
	assert.Len(t, res.Issues, 2)

	for _, issue := range res.Issues {
		assert.Equal(t, models.SeverityError, issue.Severity)
		assert.Equal(t, shared, issue.Details["guid"])
		assert.Equal(t, 2, issue.Details["duplicate_count"])
	}
	assert.Equal(t, "1", res.Issues[0].ElementID)
	assert.Equal(t, "2", res.Issues[1].ElementID)
}

func TestIdentityUniquenessCoversUnmappedTypes(t *testing.T) {
	// 类型映射表未登记的产品类元素同样参与唯一性检查
	shared := "1234567890123456789012"
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", GlobalID: shared, TypeTag: "IfcCurtainWall"},
		ifcmodel.Element{ID: "2", GlobalID: shared, TypeTag: "IfcCurtainWall"},
	)

	results := NewIdentityExecutor().Execute(snap, []models.LoadedRule{uniquenessRule()}, models.ValidationContext{})
	res := results[0]
	assert.False(t, res.Passed)
	assert.Equal(t, 2, res.ElementsChecked)
	assert.Len(t, res.Issues, 2)
	for _, issue := range res.Issues {
		assert.Equal(t, models.SeverityError, issue.Severity)
		assert.Equal(t, 2, issue.Details["duplicate_count"])
	}
}

func TestIdentityUniquenessTripleDuplicate(t *testing.T) {
	// 3个元素共用GlobalId时产生3条问题
	shared := "abcdefghijABCDEFGHIJ$_"
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", GlobalID: shared, TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "2", GlobalID: shared, TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "3", GlobalID: shared, TypeTag: "IfcBeam"},
	)

	results := NewIdentityExecutor().Execute(snap, []models.LoadedRule{uniquenessRule()}, models.ValidationContext{})
	res := results[0]
	assert.Len(t, res.Issues, 3)
	assert.Equal(t, 3, res.Issues[0].Details["duplicate_count"])
	assert.ElementsMatch(t, []string{"IfcWall", "IfcWall", "IfcBeam"}, res.Issues[0].Details["element_types"])
}

func TestIdentityUniquenessIgnoresMissingGUID(t *testing.T) {
	// 无GlobalId的元素不参与唯一性统计
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", GlobalID: "", TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "2", GlobalID: "", TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "3", GlobalID: "0123456789abcdefghijkl", TypeTag: "IfcWall"},
	)

	results := NewIdentityExecutor().Execute(snap, []models.LoadedRule{uniquenessRule()}, models.ValidationContext{})
	res := results[0]
	assert.True(t, res.Passed)
	assert.Equal(t, 1, res.ElementsChecked)
	assert.Empty(t, res.Issues)
}

func TestIdentityFormat(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", GlobalID: "0123456789abcdefghijkl", TypeTag: "IfcWall"}, // 合法
		ifcmodel.Element{ID: "2", GlobalID: "too-short", TypeTag: "IfcWall"},              // 长度不符
		ifcmodel.Element{ID: "3", GlobalID: "", TypeTag: "IfcWall"},                       // 缺失
		ifcmodel.Element{ID: "4", GlobalID: "0123456789abcdefghij#!", TypeTag: "IfcWall"}, // 非法字符
	)

	results := NewIdentityExecutor().Execute(snap, []models.LoadedRule{formatRule()}, models.ValidationContext{})
	res := results[0]
	assert.False(t, res.Passed)
	assert.Equal(t, 4, res.ElementsChecked)
	assert.Equal(t, 1, res.ElementsPassed)
	assert.Len(t, res.Issues, 3)
	assert.Contains(t, res.Issues[1].Message, "缺失")
}

func TestIdentityAllCombinesChecks(t *testing.T) {
	shared := "1234567890123456789012"
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", GlobalID: shared, TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "2", GlobalID: shared, TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "3", GlobalID: "bad", TypeTag: "IfcWall"},
	)

	rule := uniquenessRule()
	rule.Identity = &models.IdentityCheck{Kind: models.IdentityCheckAll}

	results := NewIdentityExecutor().Execute(snap, []models.LoadedRule{rule}, models.ValidationContext{})
	res := results[0]
	assert.False(t, res.Passed)
	// 唯一性2条 + 格式1条
	assert.Len(t, res.Issues, 3)
	assert.Equal(t, 3, res.ElementsChecked)
}

func TestIdentitySkipsInactiveAndContextFiltered(t *testing.T) {
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", GlobalID: "bad", TypeTag: "IfcWall"},
	)

	inactive := formatRule()
	inactive.Active = false

	highMaturity := formatRule()
	highMaturity.MinMaturityLevel = intPtr(400)

	ctx := models.ValidationContext{MaturityLevel: intPtr(200)}
	results := NewIdentityExecutor().Execute(snap, []models.LoadedRule{inactive, highMaturity}, ctx)
	// 跳过的规则不产生任何结果
	assert.Empty(t, results)
}

func TestIdentityMessageTemplate(t *testing.T) {
	shared := "1234567890123456789012"
	snap := buildSnapshot(
		ifcmodel.Element{ID: "1", GlobalID: shared, TypeTag: "IfcWall"},
		ifcmodel.Element{ID: "2", GlobalID: shared, TypeTag: "IfcWall"},
	)

	rule := uniquenessRule()
	rule.MessageTemplate = "GlobalId {guid} 被 {count} 个元素重复使用"

	results := NewIdentityExecutor().Execute(snap, []models.LoadedRule{rule}, models.ValidationContext{})
	assert.Equal(t, "GlobalId 1234567890123456789012 被 2 个元素重复使用", results[0].Issues[0].Message)
}
