/*
 * @module service/ifcmodel/provider
 * @description 建筑模型提供者接口定义，校验引擎只通过该接口查询已解析的模型内容
 * @architecture 分层架构 - 模型访问层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 模型打开 -> 元素/属性集查询 -> 模型释放
 * @rules 引擎不解析原始IFC文件，只消费已解析表示；一次校验运行内模型视为只读快照
 * @dependencies context
 * @refs service/validation
 */

package ifcmodel

import "context"

// SupertypeProduct 产品类父类型标签，规则执行器以此为元素选择起点
const SupertypeProduct = "IfcProduct"

// Element 模型元素
// GlobalID为空字符串表示元素缺少稳定标识
type Element struct {
	ID       string  // 模型内部稳定ID
	GlobalID string  // IFC GlobalId
	TypeTag  string  // IfcWall/IfcDoor等
	Name     *string // 元素名称，可能缺失
}

// NameValue 返回元素名称，缺失时返回空串和false
func (e Element) NameValue() (string, bool) {
	if e.Name == nil {
		return "", false
	}
	return *e.Name, true
}

// PropertySets 元素的属性集集合: 属性集名称 -> 属性名 -> 属性值
type PropertySets map[string]map[string]interface{}

// Provider 建筑模型提供者接口，由外部模型解析方实现
type Provider interface {
	// SchemaVersion 返回模型的IFC版本标识
	SchemaVersion() string
	// ElementsOfSupertype 返回指定父类型下的全部元素，迭代顺序稳定
	ElementsOfSupertype(tag string) []Element
	// ElementPropertySets 返回元素携带的全部属性集
	ElementPropertySets(el Element) PropertySets
	// ElementByGlobalID 按GlobalId查找元素
	ElementByGlobalID(globalID string) (Element, bool)
}

// Store 模型句柄仓库，编排器通过它获取模型的只读快照
// 远程拉取模型时Open是校验运行中唯一的挂起点
type Store interface {
	Open(ctx context.Context, modelID string) (Provider, error)
}
