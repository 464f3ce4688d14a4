package validation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bimhub-service/service/ifcmodel"
	"bimhub-service/service/models"
	"bimhub-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupOrchestrator 构造编排器及测试环境: 项目、模型元数据和已注册的模型快照
func setupOrchestrator(t *testing.T, snap *ifcmodel.Snapshot) (*Orchestrator, *testutil.TestDataFactory, *models.BIMModel) {
	t.Helper()
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	factory := testutil.NewTestDataFactory(tdb.DB)

	project := factory.CreateProject()
	model := factory.CreateBIMModel(project.ID)

	registry := ifcmodel.NewRegistry()
	registry.Register(model.ID, snap)

	return NewOrchestrator(tdb.DB, registry), factory, model
}

func TestValidateUnknownModelIsTerminalResult(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	orch := NewOrchestrator(tdb.DB, ifcmodel.NewRegistry())

	// 模型不存在时不返回错误，而是终态error结果
	result := orch.Validate(context.Background(), "no-such-model", Options{})
	require.NotNil(t, result)
	assert.Equal(t, models.StatusError, result.OverallStatus)
	assert.Empty(t, result.RuleResults)
	assert.NotEmpty(t, result.Summary)
}

func TestValidateUnregisteredContentIsTerminalResult(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	project := factory.CreateProject()
	model := factory.CreateBIMModel(project.ID)

	orch := NewOrchestrator(tdb.DB, ifcmodel.NewRegistry())
	result := orch.Validate(context.Background(), model.ID, Options{})
	assert.Equal(t, models.StatusError, result.OverallStatus)
	assert.Contains(t, result.Summary, "获取模型内容失败")
}

func TestValidateWithDefaultRuleSet(t *testing.T) {
	// 项目无激活规则集时引擎用内置默认规则集完成校验
	shared := "1234567890123456789012"
	b := ifcmodel.NewSnapshotBuilder("IFC4")
	b.AddElement(ifcmodel.Element{ID: "1", GlobalID: shared, TypeTag: "IfcWall"}, nil)
	b.AddElement(ifcmodel.Element{ID: "2", GlobalID: shared, TypeTag: "IfcDoor"}, nil)
	b.AddElement(ifcmodel.Element{ID: "3", GlobalID: "0123456789abcdefghijkl", TypeTag: "IfcWall"}, nil)

	orch, _, model := setupOrchestrator(t, b.Build())

	result := orch.Validate(context.Background(), model.ID, Options{})
	assert.Equal(t, DefaultRuleSetID, result.RuleSetID)
	assert.Equal(t, models.StatusError, result.OverallStatus)
	assert.Equal(t, 3, result.TotalElements)
	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, 2, result.ElementsWithIssues)
	// 默认规则集的两条标识规则都执行
	assert.Len(t, result.RuleResults, 2)
}

func TestValidateCleanModelPasses(t *testing.T) {
	b := ifcmodel.NewSnapshotBuilder("IFC4")
	b.AddElement(ifcmodel.Element{ID: "1", GlobalID: "0123456789abcdefghijkl", TypeTag: "IfcWall"}, nil)
	b.AddElement(ifcmodel.Element{ID: "2", GlobalID: "0123456789abcdefghijkm", TypeTag: "IfcDoor"}, nil)

	orch, _, model := setupOrchestrator(t, b.Build())

	result := orch.Validate(context.Background(), model.ID, Options{})
	assert.Equal(t, models.StatusPass, result.OverallStatus)
	assert.Zero(t, result.ErrorCount)
	assert.Zero(t, result.ElementsWithIssues)
	assert.Contains(t, result.Summary, "校验通过")
}

func TestValidateRuleKindsFilter(t *testing.T) {
	b := ifcmodel.NewSnapshotBuilder("IFC4")
	b.AddElement(ifcmodel.Element{ID: "1", GlobalID: "bad", TypeTag: "IfcWall", Name: testutil.StrPtr("bad name")}, nil)

	orch, factory, model := setupOrchestrator(t, b.Build())

	ruleSet := factory.CreateRuleSet(model.ProjectID)
	factory.CreateValidationRule(ruleSet.ID, func(r *models.ValidationRule) {
		r.Code = "GUID_FORMAT"
		r.Definition = models.JSONB{"check": "format"}
	})
	factory.CreateValidationRule(ruleSet.ID, func(r *models.ValidationRule) {
		r.Code = "NAME_PATTERN"
		r.Kind = string(models.RuleKindNaming)
		r.Definition = models.JSONB{"check": "element_naming", "pattern": `^W-\d+$`}
	})

	// 只启用naming类型时标识规则不执行
	result := orch.Validate(context.Background(), model.ID, Options{
		RuleKinds: []models.RuleKind{models.RuleKindNaming},
	})
	require.Len(t, result.RuleResults, 1)
	assert.Equal(t, "NAME_PATTERN", result.RuleResults[0].RuleCode)
	assert.Equal(t, models.RuleKindNaming, result.RuleResults[0].Kind)
}

func TestValidateRestrictToElements(t *testing.T) {
	b := ifcmodel.NewSnapshotBuilder("IFC4")
	b.AddElement(ifcmodel.Element{ID: "1", GlobalID: "bad-1", TypeTag: "IfcWall"}, nil)
	b.AddElement(ifcmodel.Element{ID: "2", GlobalID: "bad-2", TypeTag: "IfcWall"}, nil)

	orch, factory, model := setupOrchestrator(t, b.Build())
	ruleSet := factory.CreateRuleSet(model.ProjectID)
	factory.CreateValidationRule(ruleSet.ID, func(r *models.ValidationRule) {
		r.Code = "GUID_FORMAT"
		r.Definition = models.JSONB{"check": "format"}
	})

	result := orch.Validate(context.Background(), model.ID, Options{
		RestrictToElementIDs: []string{"2"},
	})
	require.Len(t, result.RuleResults, 1)
	assert.Equal(t, 1, result.RuleResults[0].ElementsChecked)
	require.Len(t, result.AllIssues, 1)
	assert.Equal(t, "2", result.AllIssues[0].ElementID)
}

func TestValidateWarningOnlyStatus(t *testing.T) {
	b := ifcmodel.NewSnapshotBuilder("IFC4")
	b.AddElement(ifcmodel.Element{ID: "1", GlobalID: "0123456789abcdefghijkl", TypeTag: "IfcWall", Name: testutil.StrPtr("nope")}, nil)

	orch, factory, model := setupOrchestrator(t, b.Build())
	ruleSet := factory.CreateRuleSet(model.ProjectID)
	factory.CreateValidationRule(ruleSet.ID, func(r *models.ValidationRule) {
		r.Code = "NAME_PATTERN"
		r.Kind = string(models.RuleKindNaming)
		r.Severity = string(models.SeverityWarning)
		r.Definition = models.JSONB{"check": "element_naming", "pattern": `^W-\d+$`}
	})

	result := orch.Validate(context.Background(), model.ID, Options{})
	assert.Equal(t, models.StatusWarning, result.OverallStatus)
	assert.Equal(t, 1, result.WarningCount)
	assert.Zero(t, result.ErrorCount)
	// warning级问题不否决规则通过
	assert.True(t, result.RuleResults[0].Passed)
}

func TestValidateRunsSecondEntryRules(t *testing.T) {
	b := ifcmodel.NewSnapshotBuilder("IFC4")
	b.AddElement(ifcmodel.Element{ID: "1", GlobalID: "0123456789abcdefghijkl", TypeTag: "IfcWall", Name: testutil.StrPtr("PRJ_ARK_WALL_001")}, nil)
	snap := b.Build()

	orch, factory, model := setupOrchestrator(t, snap)
	ruleSet := factory.CreateRuleSet(model.ProjectID)
	factory.CreateRequiredPset(ruleSet.ID)
	factory.CreateNamingConvention(ruleSet.ID)

	result := orch.Validate(context.Background(), model.ID, Options{})
	codes := make([]string, 0, len(result.RuleResults))
	for _, rr := range result.RuleResults {
		codes = append(codes, rr.RuleCode)
	}
	assert.Contains(t, codes, "PSET_IfcWall_Pset_WallCommon")
	assert.Contains(t, codes, "NAMING_element_naming_测试命名规范")
	// 属性集缺失产生error级问题
	assert.Equal(t, models.StatusError, result.OverallStatus)
}

func TestValidateCallbackDelivery(t *testing.T) {
	b := ifcmodel.NewSnapshotBuilder("IFC4")
	b.AddElement(ifcmodel.Element{ID: "1", GlobalID: "0123456789abcdefghijkl", TypeTag: "IfcWall"}, nil)

	orch, _, model := setupOrchestrator(t, b.Build())

	received := make(chan map[string]interface{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := orch.Validate(context.Background(), model.ID, Options{CallbackURL: server.URL})
	assert.Equal(t, models.StatusPass, result.OverallStatus)

	payload := <-received
	assert.Equal(t, model.ID, payload["model_id"])
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, models.StatusPass, payload["overall_status"])
	assert.NotNil(t, payload["full_result"])
}

func TestValidateCallbackFailureDoesNotAffectResult(t *testing.T) {
	b := ifcmodel.NewSnapshotBuilder("IFC4")
	b.AddElement(ifcmodel.Element{ID: "1", GlobalID: "0123456789abcdefghijkl", TypeTag: "IfcWall"}, nil)

	orch, _, model := setupOrchestrator(t, b.Build())

	// 回调地址不可达时结果不受影响
	result := orch.Validate(context.Background(), model.ID, Options{
		CallbackURL: "http://127.0.0.1:1/unreachable",
	})
	assert.Equal(t, models.StatusPass, result.OverallStatus)
}
